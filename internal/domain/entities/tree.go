package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"nsmigrate/internal/domain"
)

// Tree is a translation tree: an ordered mapping from key to either a nested
// *Tree or a leaf. String leaves are stored as string; every other JSON leaf
// (numbers, booleans, null, arrays) is kept verbatim as json.RawMessage.
// Arrays are leaves and are never recursed into.
type Tree struct {
	keys   []string
	values map[string]any
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{values: make(map[string]any)}
}

// Len returns the number of top-level keys.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the top-level keys in document order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Subtree returns the nested tree stored under key, if any.
func (t *Tree) Subtree(key string) (*Tree, bool) {
	v, ok := t.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Tree)
	return sub, ok
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (t *Tree) Set(key string, value any) {
	if t.values == nil {
		t.values = make(map[string]any)
	}
	if _, exists := t.values[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Delete removes key from the tree.
func (t *Tree) Delete(key string) {
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy of the tree. Leaves are immutable and shared.
func (t *Tree) Clone() *Tree {
	out := NewTree()
	if t == nil {
		return out
	}
	for _, k := range t.keys {
		v := t.values[k]
		if sub, ok := v.(*Tree); ok {
			v = sub.Clone()
		}
		out.Set(k, v)
	}
	return out
}

// Equal reports whether both trees hold the same keys and values at every
// level. Key order is ignored.
func (t *Tree) Equal(other *Tree) bool {
	if t.Len() != other.Len() {
		return false
	}
	for _, k := range t.Keys() {
		a, _ := t.Get(k)
		b, ok := other.Get(k)
		if !ok || !valuesEqual(a, b) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case *Tree:
		bv, ok := b.(*Tree)
		return ok && av.Equal(bv)
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case json.RawMessage:
		bv, ok := b.(json.RawMessage)
		if !ok {
			return false
		}
		var ca, cb bytes.Buffer
		if json.Compact(&ca, av) != nil || json.Compact(&cb, bv) != nil {
			return bytes.Equal(av, bv)
		}
		return bytes.Equal(ca.Bytes(), cb.Bytes())
	default:
		return reflect.DeepEqual(a, b)
	}
}

// MarshalJSON encodes the tree as a JSON object in key order. HTML characters
// are not escaped.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		v, _ := t.Get(k)
		if err := writeJSON(&buf, v); err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// UnmarshalJSON decodes a JSON object preserving key order. For duplicate
// keys the last value wins and the first position is kept.
func (t *Tree) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTree(data)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

// ParseTree decodes a translation document. The top-level value must be an
// object.
func ParseTree(data []byte) (*Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, domain.ErrInvalidTree
	}
	tree, err := decodeObject(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("parse: trailing data after object")
	}
	return tree, nil
}

// decodeObject reads members until the closing brace; the opening brace has
// already been consumed.
func decodeObject(dec *json.Decoder) (*Tree, error) {
	tree := NewTree()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parse: expected string key, got %T", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse %q: %w", key, err)
		}
		value, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", key, err)
		}
		tree.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return tree, nil
}

func decodeValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case '{':
		return ParseTree(trimmed)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return s, nil
	default:
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err != nil {
			return nil, err
		}
		return json.RawMessage(compact.Bytes()), nil
	}
}

// Encode renders the tree the way translation files are stored on disk:
// 2-space indentation followed by a trailing newline.
func (t *Tree) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
