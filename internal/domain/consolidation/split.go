package consolidation

import "nsmigrate/internal/domain/entities"

// Output is one produced namespace tree.
type Output struct {
	Target string
	Tree   *entities.Tree
}

// SplitResult holds the trees produced by Split. Outputs follow rule order
// and are pairwise disjoint; together with Unmatched they hold every
// top-level key of the source exactly once.
type SplitResult struct {
	Outputs   []Output
	Unmatched *entities.Tree
}

// Output returns the tree produced for target.
func (r SplitResult) Output(target string) (*entities.Tree, bool) {
	for _, o := range r.Outputs {
		if o.Target == target {
			return o.Tree, true
		}
	}
	return nil, false
}

// Split partitions the top-level keys of source over rules. Values are deep
// copied; source is left untouched.
func Split(source *entities.Tree, rules []entities.SplitRule) SplitResult {
	res := SplitResult{Unmatched: entities.NewTree()}
	index := make(map[string]*entities.Tree, len(rules))
	for _, r := range rules {
		t := entities.NewTree()
		index[r.Target] = t
		res.Outputs = append(res.Outputs, Output{Target: r.Target, Tree: t})
	}
	for _, key := range source.Keys() {
		v, _ := source.Get(key)
		if sub, ok := v.(*entities.Tree); ok {
			v = sub.Clone()
		}
		target, ok := assign(rules, key)
		if !ok {
			res.Unmatched.Set(key, v)
			continue
		}
		index[target].Set(key, v)
	}
	return res
}
