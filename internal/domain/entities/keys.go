package entities

import "strings"

// KeySeparator joins nested keys into a dotted path.
const KeySeparator = "."

// Entry is one leaf of a flattened tree.
type Entry struct {
	Path  string
	Value any
}

// CollectKeys returns the dotted paths of every leaf reachable from t, in
// document order. Empty nested objects contribute no keys.
func CollectKeys(t *Tree) []string {
	entries := Flatten(t)
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Path
	}
	return keys
}

// Flatten returns every leaf of t with its dotted path, in document order.
func Flatten(t *Tree) []Entry {
	var out []Entry
	flatten(t, "", &out)
	return out
}

func flatten(t *Tree, prefix string, out *[]Entry) {
	for _, k := range t.Keys() {
		path := k
		if prefix != "" {
			path = prefix + KeySeparator + k
		}
		v, _ := t.Get(k)
		if sub, ok := v.(*Tree); ok {
			flatten(sub, path, out)
			continue
		}
		*out = append(*out, Entry{Path: path, Value: v})
	}
}

// BuildTree is the inverse of Flatten: every path is split on the separator
// and the value is stored at that location. A later entry whose path runs
// through an existing leaf replaces the leaf with a nested tree.
func BuildTree(entries []Entry) *Tree {
	root := NewTree()
	for _, e := range entries {
		SetPath(root, e.Path, e.Value)
	}
	return root
}

// SetPath stores value at the dotted path inside t, creating intermediate
// trees as needed.
func SetPath(t *Tree, path string, value any) {
	parts := strings.Split(path, KeySeparator)
	cur := t
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur.Subtree(p)
		if !ok {
			next = NewTree()
			cur.Set(p, next)
		}
		cur = next
	}
	cur.Set(parts[len(parts)-1], value)
}

// GetPath returns the value stored at the dotted path inside t.
func GetPath(t *Tree, path string) (any, bool) {
	parts := strings.Split(path, KeySeparator)
	cur := t
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur.Subtree(p)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur.Get(parts[len(parts)-1])
}

// FirstSegment returns the top-level component of a dotted key.
func FirstSegment(key string) string {
	if i := strings.Index(key, KeySeparator); i >= 0 {
		return key[:i]
	}
	return key
}

// KeySet is a set of dotted keys.
type KeySet map[string]struct{}

// NewKeySet builds a set from keys.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}
