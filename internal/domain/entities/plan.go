package entities

import (
	"fmt"

	"nsmigrate/internal/domain"
)

// CatchAll is the split prefix that claims every key no other rule claimed.
const CatchAll = "*"

// MergePolicy selects how colliding nested objects are combined.
type MergePolicy string

const (
	// MergeNested merges nested objects one level deep; second-level
	// collisions are overwritten by the later source.
	MergeNested MergePolicy = "nested"
	// MergeShallow replaces whole top-level values (Object.assign).
	MergeShallow MergePolicy = "shallow"
)

// SplitRule routes the top-level keys matching any of Prefixes to Target.
type SplitRule struct {
	Target   string
	Prefixes []string
}

// IsCatchAll reports whether the rule holds the catch-all prefix.
func (r SplitRule) IsCatchAll() bool {
	for _, p := range r.Prefixes {
		if p == CatchAll {
			return true
		}
	}
	return false
}

// Split partitions Source into the targets of Rules. Rule order matters: the
// first matching rule wins.
type Split struct {
	Source string
	Rules  []SplitRule
}

// Merge combines Sources, in order, into Target.
type Merge struct {
	Target  string
	Sources []string
}

// SourceOptions drive the source rewriter and the old-namespace gate.
type SourceOptions struct {
	Extensions        []string
	Exclude           []string
	NamespaceCallees  []string
	KeyCallees        []string
	NamespaceListFile string
	NamespaceListVar  string
}

// DefaultSourceOptions returns the call patterns recognised out of the box.
func DefaultSourceOptions() SourceOptions {
	return SourceOptions{
		Extensions:       []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"},
		Exclude:          []string{"**/*.test.*", "**/*.spec.*", "**/__tests__/**"},
		NamespaceCallees: []string{"useTranslation"},
		KeyCallees:       []string{"t", "$t", "i18n.t"},
		NamespaceListVar: "namespaces",
	}
}

// Plan is the consolidation plan. It is always supplied by the operator;
// nothing about the namespace layout is built in.
type Plan struct {
	Splits      []Split
	Merges      []Merge
	MergePolicy MergePolicy
	Source      SourceOptions
}

// Policy returns the effective merge policy.
func (p *Plan) Policy() MergePolicy {
	if p.MergePolicy == "" {
		return MergeNested
	}
	return p.MergePolicy
}

// Validate rejects plans whose outcome would depend on evaluation order or
// silently drop data.
func (p *Plan) Validate() error {
	switch p.Policy() {
	case MergeNested, MergeShallow:
	default:
		return fmt.Errorf("%w: unknown merge policy %q", domain.ErrInvalidPlan, p.MergePolicy)
	}

	splitSources := make(map[string]bool)
	splitTargets := make(map[string]string)
	for _, s := range p.Splits {
		if s.Source == "" {
			return fmt.Errorf("%w: split without source", domain.ErrInvalidPlan)
		}
		if splitSources[s.Source] {
			return fmt.Errorf("%w: %q is split twice", domain.ErrInvalidPlan, s.Source)
		}
		splitSources[s.Source] = true
		if len(s.Rules) == 0 {
			return fmt.Errorf("%w: split %q has no rules", domain.ErrInvalidPlan, s.Source)
		}
		catchAll := 0
		seen := make(map[string]bool)
		for _, r := range s.Rules {
			if r.Target == "" {
				return fmt.Errorf("%w: split %q has a rule without target", domain.ErrInvalidPlan, s.Source)
			}
			if seen[r.Target] {
				return fmt.Errorf("%w: split %q lists target %q twice", domain.ErrInvalidPlan, s.Source, r.Target)
			}
			seen[r.Target] = true
			if len(r.Prefixes) == 0 {
				return fmt.Errorf("%w: split %q rule %q has no prefixes", domain.ErrInvalidPlan, s.Source, r.Target)
			}
			for _, prefix := range r.Prefixes {
				if prefix == "" {
					return fmt.Errorf("%w: split %q rule %q has an empty prefix", domain.ErrInvalidPlan, s.Source, r.Target)
				}
			}
			if r.IsCatchAll() {
				catchAll++
			}
			if owner, ok := splitTargets[r.Target]; ok && owner != s.Source {
				return fmt.Errorf("%w: %q is a target of both %q and %q", domain.ErrInvalidPlan, r.Target, owner, s.Source)
			}
			splitTargets[r.Target] = s.Source
		}
		if catchAll > 1 {
			return fmt.Errorf("%w: split %q has more than one catch-all rule", domain.ErrInvalidPlan, s.Source)
		}
	}

	mergeSources := make(map[string]string)
	mergeTargets := make(map[string]bool)
	for _, m := range p.Merges {
		if m.Target == "" {
			return fmt.Errorf("%w: merge without target", domain.ErrInvalidPlan)
		}
		if mergeTargets[m.Target] {
			return fmt.Errorf("%w: merge target %q declared twice", domain.ErrInvalidPlan, m.Target)
		}
		mergeTargets[m.Target] = true
		if _, ok := splitTargets[m.Target]; ok {
			return fmt.Errorf("%w: %q is both a split target and a merge target", domain.ErrInvalidPlan, m.Target)
		}
		if len(m.Sources) == 0 {
			return fmt.Errorf("%w: merge %q has no sources", domain.ErrInvalidPlan, m.Target)
		}
		for _, src := range m.Sources {
			if src == "" {
				return fmt.Errorf("%w: merge %q has an empty source", domain.ErrInvalidPlan, m.Target)
			}
			if splitSources[src] {
				return fmt.Errorf("%w: %q is both split and merged", domain.ErrInvalidPlan, src)
			}
			if owner, ok := mergeSources[src]; ok {
				return fmt.Errorf("%w: %q is merged into both %q and %q", domain.ErrInvalidPlan, src, owner, m.Target)
			}
			mergeSources[src] = m.Target
		}
	}

	// Every namespace is moved at most once: references are rewritten in a
	// single step, so an intermediate namespace would be left dangling.
	for _, s := range p.Splits {
		if mergeTargets[s.Source] {
			return fmt.Errorf("%w: %q is both split and a merge target", domain.ErrInvalidPlan, s.Source)
		}
		for _, r := range s.Rules {
			if r.Target != s.Source && splitSources[r.Target] {
				return fmt.Errorf("%w: %q is a target of %q and is split itself", domain.ErrInvalidPlan, r.Target, s.Source)
			}
		}
	}
	for _, m := range p.Merges {
		for _, src := range m.Sources {
			if owner, ok := splitTargets[src]; ok {
				return fmt.Errorf("%w: %q is a target of split %q and is merged into %q", domain.ErrInvalidPlan, src, owner, m.Target)
			}
			if src != m.Target && mergeTargets[src] {
				return fmt.Errorf("%w: %q is a merge target and is merged into %q", domain.ErrInvalidPlan, src, m.Target)
			}
		}
	}
	return nil
}
