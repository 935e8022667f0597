package consolidation

import "nsmigrate/internal/domain/entities"

// MergeResult is the merged tree plus the dotted paths whose value was
// overwritten by a later source.
type MergeResult struct {
	Tree       *entities.Tree
	Collisions []string
}

// Merge combines trees in order; the last source wins for colliding leaves.
//
// With MergeNested, two nested objects under the same top-level key are
// merged one level deep: their members are combined and a member present in
// both is overwritten by the later one, even when both are objects.
// With MergeShallow the later top-level value replaces the earlier one.
func Merge(trees []*entities.Tree, policy entities.MergePolicy) MergeResult {
	res := MergeResult{Tree: entities.NewTree()}
	seen := make(map[string]bool)
	collide := func(path string) {
		if !seen[path] {
			seen[path] = true
			res.Collisions = append(res.Collisions, path)
		}
	}
	for _, t := range trees {
		for _, key := range t.Keys() {
			v, _ := t.Get(key)
			existing, exists := res.Tree.Get(key)
			incoming, incomingIsTree := v.(*entities.Tree)
			current, currentIsTree := existing.(*entities.Tree)

			if policy != entities.MergeShallow && exists && incomingIsTree && currentIsTree {
				for _, sk := range incoming.Keys() {
					sv, _ := incoming.Get(sk)
					if _, dup := current.Get(sk); dup {
						collide(key + entities.KeySeparator + sk)
					}
					current.Set(sk, cloneValue(sv))
				}
				continue
			}
			if exists {
				collide(key)
			}
			res.Tree.Set(key, cloneValue(v))
		}
	}
	return res
}

func cloneValue(v any) any {
	if sub, ok := v.(*entities.Tree); ok {
		return sub.Clone()
	}
	return v
}
