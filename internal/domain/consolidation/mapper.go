// Package consolidation holds the pure namespace-consolidation transforms:
// routing keys to target namespaces, splitting and merging translation trees
// and applying a whole plan to the files of one language. Nothing here
// touches the filesystem.
package consolidation

import (
	"sort"
	"strings"

	"nsmigrate/internal/domain/entities"
)

// Resolution describes the outcome of resolving a namespace reference.
type Resolution int

const (
	// Unchanged means the reference keeps its namespace.
	Unchanged Resolution = iota
	// Mapped means the reference moves to another namespace.
	Mapped
	// Ambiguous means the namespace is split and the reference names no key
	// that could pick a target.
	Ambiguous
)

// Mapper answers "where does this key go" for a validated plan.
type Mapper struct {
	renames map[string]string
	splits  map[string][]entities.SplitRule
	targets []string
	old     []string
}

// NewMapper validates plan and indexes it.
func NewMapper(plan *entities.Plan) (*Mapper, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	m := &Mapper{
		renames: make(map[string]string),
		splits:  make(map[string][]entities.SplitRule),
	}
	targets := make(map[string]bool)
	sources := make(map[string]bool)
	for _, s := range plan.Splits {
		m.splits[s.Source] = s.Rules
		sources[s.Source] = true
		for _, r := range s.Rules {
			targets[r.Target] = true
		}
	}
	for _, mg := range plan.Merges {
		targets[mg.Target] = true
		for _, src := range mg.Sources {
			m.renames[src] = mg.Target
			sources[src] = true
		}
	}
	for t := range targets {
		m.targets = append(m.targets, t)
	}
	for s := range sources {
		if !targets[s] {
			m.old = append(m.old, s)
		}
	}
	sort.Strings(m.targets)
	sort.Strings(m.old)
	return m, nil
}

// Assign routes a top-level key of a split source to its target. Rules are
// tried in declaration order and the first prefix match wins; the catch-all
// rule only claims keys no other rule matched. ok is false for keys no rule
// claims and for namespaces that are not split.
func (m *Mapper) Assign(source, topKey string) (target string, ok bool) {
	rules, split := m.splits[source]
	if !split {
		return "", false
	}
	return assign(rules, topKey)
}

func assign(rules []entities.SplitRule, topKey string) (string, bool) {
	for _, r := range rules {
		for _, p := range r.Prefixes {
			if p != entities.CatchAll && strings.HasPrefix(topKey, p) {
				return r.Target, true
			}
		}
	}
	for _, r := range rules {
		if r.IsCatchAll() {
			return r.Target, true
		}
	}
	return "", false
}

// Resolve returns the namespace a reference to (namespace, key) must use
// after the migration. key may be empty for namespace-only references.
func (m *Mapper) Resolve(namespace, key string) (string, Resolution) {
	if target, ok := m.renames[namespace]; ok {
		if target == namespace {
			return namespace, Unchanged
		}
		return target, Mapped
	}
	rules, ok := m.splits[namespace]
	if !ok {
		return namespace, Unchanged
	}
	if key == "" {
		return namespace, Ambiguous
	}
	target, ok := assign(rules, entities.FirstSegment(key))
	if !ok || target == namespace {
		return namespace, Unchanged
	}
	return target, Mapped
}

// IsOld reports whether namespace must no longer be referenced.
func (m *Mapper) IsOld(namespace string) bool {
	i := sort.SearchStrings(m.old, namespace)
	return i < len(m.old) && m.old[i] == namespace
}

// OldNamespaces returns, sorted, the namespaces consumed by the plan that do
// not survive as a target.
func (m *Mapper) OldNamespaces() []string {
	return append([]string(nil), m.old...)
}

// TargetNamespaces returns, sorted, every namespace the plan produces.
func (m *Mapper) TargetNamespaces() []string {
	return append([]string(nil), m.targets...)
}
