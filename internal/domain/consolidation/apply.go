package consolidation

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"nsmigrate/internal/domain/entities"
)

// Collision is a key overwritten while building Target.
type Collision struct {
	Target string
	Key    string
}

// Unmatched is a top-level key of a split source that no rule claimed. It
// stays in the source namespace.
type Unmatched struct {
	Source string
	Key    string
}

// Skipped is a plan entry left out for one language because a namespace it
// reads or writes exists on disk but could not be parsed.
type Skipped struct {
	Entry     string
	Namespace string
}

// Outcome is the result of applying a plan to the files of one language.
type Outcome struct {
	Language string
	// Written holds every namespace file whose content must be (re)written,
	// in the order the plan produced them.
	Written []entities.NamespaceFile
	// Removed lists the namespaces whose files must be deleted, sorted.
	Removed    []string
	Collisions []Collision
	Unmatched  []Unmatched
	Skipped    []Skipped
	// Missing lists plan sources absent from this language.
	Missing []string
	// NestingRewrites counts $t(ns:key) references rewritten in values.
	NestingRewrites int
}

// Warnings renders the non-fatal findings of the outcome as text.
func (o Outcome) Warnings() []string {
	var out []string
	for _, c := range o.Collisions {
		out = append(out, fmt.Sprintf("%s: key %q overwritten while building %s", o.Language, c.Key, c.Target))
	}
	for _, u := range o.Unmatched {
		out = append(out, fmt.Sprintf("%s: key %q matched no rule and stays in %s", o.Language, u.Key, u.Source))
	}
	for _, sk := range o.Skipped {
		out = append(out, fmt.Sprintf("%s: %s skipped, %s.json could not be read", o.Language, sk.Entry, sk.Namespace))
	}
	return out
}

// Apply runs every split, then every merge of plan over files (namespace ->
// tree) of one language. files is not modified. Plan entries naming one of
// the unreadable namespaces are skipped so their files are left untouched.
func Apply(plan *entities.Plan, m *Mapper, language string, files map[string]*entities.Tree, unreadable ...string) Outcome {
	out := Outcome{Language: language}
	policy := plan.Policy()
	unreadableSet := lo.SliceToMap(unreadable, func(ns string) (string, bool) { return ns, true })
	blocked := func(entry string, names ...string) bool {
		for _, ns := range names {
			if unreadableSet[ns] {
				out.Skipped = append(out.Skipped, Skipped{Entry: entry, Namespace: ns})
				return true
			}
		}
		return false
	}

	work := make(map[string]*entities.Tree, len(files))
	for ns, t := range files {
		work[ns] = t.Clone()
	}
	var order []string
	touched := make(map[string]bool)
	touch := func(ns string) {
		if !touched[ns] {
			touched[ns] = true
			order = append(order, ns)
		}
	}
	consumed := make(map[string]bool)

	for _, s := range plan.Splits {
		names := []string{s.Source}
		for _, r := range s.Rules {
			names = append(names, r.Target)
		}
		if blocked("split of "+s.Source, names...) {
			continue
		}
		src, ok := work[s.Source]
		if !ok {
			out.Missing = append(out.Missing, s.Source)
			continue
		}
		res := Split(src, s.Rules)
		delete(work, s.Source)
		consumed[s.Source] = true

		for _, o := range res.Outputs {
			if o.Tree.Len() == 0 {
				continue
			}
			if existing, ok := work[o.Target]; ok {
				merged := Merge([]*entities.Tree{existing, o.Tree}, policy)
				out.Collisions = appendCollisions(out.Collisions, o.Target, merged.Collisions)
				work[o.Target] = merged.Tree
			} else {
				work[o.Target] = o.Tree
			}
			touch(o.Target)
		}
		if res.Unmatched.Len() > 0 {
			for _, k := range res.Unmatched.Keys() {
				out.Unmatched = append(out.Unmatched, Unmatched{Source: s.Source, Key: k})
			}
			if existing, ok := work[s.Source]; ok {
				merged := Merge([]*entities.Tree{existing, res.Unmatched}, policy)
				work[s.Source] = merged.Tree
			} else {
				work[s.Source] = res.Unmatched
			}
			touch(s.Source)
		}
	}

	for _, mg := range plan.Merges {
		if blocked("merge into "+mg.Target, append([]string{mg.Target}, mg.Sources...)...) {
			continue
		}
		var trees []*entities.Tree
		var present []string
		if existing, ok := work[mg.Target]; ok && !lo.Contains(mg.Sources, mg.Target) {
			trees = append(trees, existing)
		}
		for _, src := range mg.Sources {
			t, ok := work[src]
			if !ok {
				out.Missing = append(out.Missing, src)
				continue
			}
			trees = append(trees, t)
			present = append(present, src)
		}
		if len(present) == 0 {
			continue
		}
		merged := Merge(trees, policy)
		out.Collisions = appendCollisions(out.Collisions, mg.Target, merged.Collisions)
		for _, src := range present {
			delete(work, src)
			consumed[src] = true
		}
		work[mg.Target] = merged.Tree
		touch(mg.Target)
	}

	namespaces := lo.Keys(work)
	sort.Strings(namespaces)
	for _, ns := range namespaces {
		if n := RewriteNesting(work[ns], m); n > 0 {
			out.NestingRewrites += n
			touch(ns)
		}
	}

	for _, ns := range order {
		if t, ok := work[ns]; ok {
			out.Written = append(out.Written, entities.NamespaceFile{Language: language, Namespace: ns, Tree: t})
		}
	}
	for ns := range consumed {
		if _, still := work[ns]; still {
			continue
		}
		if _, onDisk := files[ns]; onDisk {
			out.Removed = append(out.Removed, ns)
		}
	}
	sort.Strings(out.Removed)
	return out
}

func appendCollisions(dst []Collision, target string, keys []string) []Collision {
	for _, k := range keys {
		dst = append(dst, Collision{Target: target, Key: k})
	}
	return dst
}
