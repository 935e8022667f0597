package sourcecode

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
)

// ReplaceNamespaceList rewrites the array assigned to variable in src, e.g.
// `export const namespaces = ['a', 'b'] as const`, so that it holds
// namespaces. Quote style, one-line or one-per-line layout and a trailing
// comma are kept.
func (s *Scanner) ReplaceNamespaceList(ctx context.Context, path string, src []byte, variable string, namespaces []string) ([]byte, bool, error) {
	tree, err := s.parsers.parse(ctx, path, src)
	if err != nil {
		return nil, false, err
	}
	defer tree.Close()

	var list *sitter.Node
	walk(tree.RootNode(), func(n *sitter.Node) {
		if list != nil || n.Type() != "variable_declarator" {
			return
		}
		name := n.ChildByFieldName("name")
		if name == nil || name.Content(src) != variable {
			return
		}
		list = arrayOf(n.ChildByFieldName("value"))
	})
	if list == nil {
		return nil, false, fmt.Errorf("%s: no array assigned to %q", path, variable)
	}

	quote, seen := byte('\''), false
	for i := 0; i < int(list.NamedChildCount()); i++ {
		el := list.NamedChild(i)
		if el.Type() == "comment" {
			continue
		}
		lit, ok := stringLiteral(el, src)
		if !ok {
			return nil, false, fmt.Errorf("%s: %q holds a non-literal element %q", path, variable, el.Content(src))
		}
		if !seen {
			quote, seen = lit.quote, true
		}
	}

	old := list.Content(src)
	formatted := formatList(old, src, list, namespaces, quote)
	if formatted == old {
		return src, false, nil
	}
	out := make([]byte, 0, len(src)+len(formatted)-len(old))
	out = append(out, src[:list.StartByte()]...)
	out = append(out, formatted...)
	out = append(out, src[list.EndByte():]...)
	return out, true, nil
}

// arrayOf unwraps `[...] as const` and similar wrappers.
func arrayOf(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "array":
			return n
		case "as_expression", "satisfies_expression", "parenthesized_expression":
			n = n.NamedChild(0)
		default:
			return nil
		}
	}
	return nil
}

func formatList(old string, src []byte, list *sitter.Node, namespaces []string, quote byte) string {
	items := make([]string, len(namespaces))
	for i, ns := range namespaces {
		items[i] = string(quote) + ns + string(quote)
	}
	if !strings.Contains(old, "\n") {
		return "[" + strings.Join(items, ", ") + "]"
	}

	closing := lineIndent(src, int(list.EndByte())-1)
	indent := closing + "  "
	if list.NamedChildCount() > 0 {
		indent = lineIndent(src, int(list.NamedChild(0).StartByte()))
	}
	trailing := strings.HasSuffix(strings.TrimSpace(strings.TrimSuffix(old, "]")), ",")

	var b strings.Builder
	b.WriteString("[\n")
	for i, item := range items {
		b.WriteString(indent)
		b.WriteString(item)
		if i < len(items)-1 || trailing {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(closing)
	b.WriteByte(']')
	return b.String()
}

// lineIndent returns the leading whitespace of the line holding offset.
func lineIndent(src []byte, offset int) string {
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

func (s *Scanner) UpdateNamespaceList(ctx context.Context, path string, namespaces []string, write bool) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	out, changed, err := s.ReplaceNamespaceList(ctx, path, src, s.opts.NamespaceListVar, namespaces)
	if err != nil || !changed || !write {
		return changed, err
	}
	if err := writeSame(path, out); err != nil {
		return changed, err
	}
	s.logger.Info("namespace list updated", zap.String("path", path), zap.Int("namespaces", len(namespaces)))
	return true, nil
}
