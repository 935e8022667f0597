// Package sourcecode finds and rewrites i18next namespace references in
// JavaScript and TypeScript sources. Files are parsed with tree-sitter and
// only the bytes of the namespace inside a recognised string literal are
// replaced, so formatting, quotes and keys are preserved.
package sourcecode

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"nsmigrate/internal/domain"
)

type grammar string

const (
	grammarJS  grammar = "javascript"
	grammarTS  grammar = "typescript"
	grammarTSX grammar = "tsx"
)

func grammarFor(path string) (grammar, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return grammarTS, true
	case ".tsx":
		return grammarTSX, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return grammarJS, true
	}
	return "", false
}

// parsers holds one tree-sitter parser per grammar. Parsers are not safe for
// concurrent use.
type parsers map[grammar]*sitter.Parser

func newParsers() parsers {
	p := make(parsers, 3)
	for g, lang := range map[grammar]*sitter.Language{
		grammarJS:  javascript.GetLanguage(),
		grammarTS:  typescript.GetLanguage(),
		grammarTSX: tsx.GetLanguage(),
	} {
		parser := sitter.NewParser()
		parser.SetLanguage(lang)
		p[g] = parser
	}
	return p
}

func (p parsers) parse(ctx context.Context, path string, src []byte) (*sitter.Tree, error) {
	g, ok := grammarFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedSource, path)
	}
	tree, err := p[g].ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tree, nil
}

// literal is a string literal without escapes or substitutions. start and
// end delimit its content, quotes excluded.
type literal struct {
	node  *sitter.Node
	value string
	start int
	end   int
	quote byte
}

func stringLiteral(n *sitter.Node, src []byte) (literal, bool) {
	if n == nil {
		return literal{}, false
	}
	switch n.Type() {
	case "string", "template_string":
	default:
		return literal{}, false
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	if end-start < 2 {
		return literal{}, false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		switch n.NamedChild(i).Type() {
		case "escape_sequence", "template_substitution":
			return literal{}, false
		}
	}
	content := src[start+1 : end-1]
	if strings.ContainsRune(string(content), '\\') {
		return literal{}, false
	}
	return literal{node: n, value: string(content), start: start + 1, end: end - 1, quote: src[start]}, true
}

// literals returns the string literal n, or the string elements of the
// array n.
func literals(n *sitter.Node, src []byte) []literal {
	if n == nil {
		return nil
	}
	if lit, ok := stringLiteral(n, src); ok {
		return []literal{lit}
	}
	if n.Type() != "array" {
		return nil
	}
	var out []literal
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if lit, ok := stringLiteral(n.NamedChild(i), src); ok {
			out = append(out, lit)
		}
	}
	return out
}

// namedArgs returns the arguments of a call, comments excluded.
func namedArgs(args *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if c := args.NamedChild(i); c.Type() != "comment" {
			out = append(out, c)
		}
	}
	return out
}

func walk(n *sitter.Node, visit func(*sitter.Node)) {
	visit(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), visit)
	}
}
