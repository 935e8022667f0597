package consolidation

import (
	"regexp"
	"strings"

	"nsmigrate/internal/domain/entities"
)

// nestingPattern matches i18next nesting references such as $t(ui:actions.save)
// inside translation values.
var nestingPattern = regexp.MustCompile(`\$t\(([^:)]+):([^)]+)\)`)

// RewriteNesting rewrites the namespace of every nesting reference found in
// the string leaves of t, in place, and returns the number of references
// changed.
func RewriteNesting(t *entities.Tree, m *Mapper) int {
	changed := 0
	for _, key := range t.Keys() {
		v, _ := t.Get(key)
		switch val := v.(type) {
		case *entities.Tree:
			changed += RewriteNesting(val, m)
		case string:
			out, n := rewriteNestingValue(val, m)
			if n > 0 {
				t.Set(key, out)
				changed += n
			}
		}
	}
	return changed
}

func rewriteNestingValue(s string, m *Mapper) (string, int) {
	matches := nestingPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, 0
	}
	var b strings.Builder
	last, changed := 0, 0
	for _, loc := range matches {
		nsStart, nsEnd := loc[2], loc[3]
		rawNS := s[nsStart:nsEnd]
		ns := strings.Trim(rawNS, ` '"`)
		key := strings.Trim(s[loc[4]:loc[5]], ` '"`)
		target, res := m.Resolve(ns, key)
		if res != Mapped {
			continue
		}
		b.WriteString(s[last:nsStart])
		b.WriteString(strings.Replace(rawNS, ns, target, 1))
		last = nsEnd
		changed++
	}
	if changed == 0 {
		return s, 0
	}
	b.WriteString(s[last:])
	return b.String(), changed
}
