package sourcecode

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/output"
)

// nsSeparator separates the namespace from the key in t('ns:key').
const nsSeparator = ":"

var _ output.SourceCode = (*Scanner)(nil)

// Scanner implements output.SourceCode.
type Scanner struct {
	opts       entities.SourceOptions
	exts       map[string]bool
	nsCallees  map[string]bool
	keyCallees map[string]bool
	exclude    []glob.Glob
	parsers    parsers
	logger     *zap.Logger
}

// NewScanner compiles the exclusion globs of opts. A pattern starting with
// "**/" also matches files at the root of the walked tree.
func NewScanner(opts entities.SourceOptions, logger *zap.Logger) (*Scanner, error) {
	s := &Scanner{
		opts:       opts,
		exts:       toSet(opts.Extensions),
		nsCallees:  toSet(opts.NamespaceCallees),
		keyCallees: toSet(opts.KeyCallees),
		parsers:    newParsers(),
		logger:     logger,
	}
	for _, pattern := range opts.Exclude {
		patterns := []string{pattern}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			patterns = append(patterns, rest)
		}
		for _, p := range patterns {
			g, err := glob.Compile(p, '/')
			if err != nil {
				return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
			}
			s.exclude = append(s.exclude, g)
		}
	}
	return s, nil
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		out[it] = true
	}
	return out
}

func (s *Scanner) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range s.exclude {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".") || strings.Contains(strings.ToLower(name), "backup")
}

// Files lists the source files under root with a scanned extension, sorted.
// Dependency and build directories and excluded paths are left out.
func (s *Scanner) Files(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !s.exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if s.excluded(rel) {
			s.logger.Debug("excluded source file", zap.String("path", path))
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// FindCallSites reads path and returns its namespace call sites.
func (s *Scanner) FindCallSites(ctx context.Context, path string) ([]entities.CallSite, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, path, src)
}

// Find returns the namespace call sites of src ordered by position.
func (s *Scanner) Find(ctx context.Context, path string, src []byte) ([]entities.CallSite, error) {
	tree, err := s.parsers.parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		s.logger.Debug("source has syntax errors", zap.String("path", path))
	}
	var sites []entities.CallSite
	walk(root, func(n *sitter.Node) {
		if n.Type() == "call_expression" {
			sites = append(sites, s.callSites(path, n, src)...)
		}
	})
	sort.Slice(sites, func(i, j int) bool { return sites[i].Start < sites[j].Start })
	return sites, nil
}

func (s *Scanner) callSites(path string, call *sitter.Node, src []byte) []entities.CallSite {
	fn := call.ChildByFieldName("function")
	argsNode := call.ChildByFieldName("arguments")
	if fn == nil || argsNode == nil || argsNode.Type() != "arguments" {
		return nil
	}
	callee := fn.Content(src)
	args := namedArgs(argsNode)
	if len(args) == 0 {
		return nil
	}
	site := func(lit literal, kind entities.CallKind, ns, key string, end int) entities.CallSite {
		pos := lit.node.StartPoint()
		return entities.CallSite{
			File:      path,
			Line:      int(pos.Row) + 1,
			Column:    int(pos.Column) + 1,
			Callee:    callee,
			Kind:      kind,
			Namespace: ns,
			Key:       key,
			Quote:     lit.quote,
			Start:     lit.start,
			End:       end,
		}
	}

	var out []entities.CallSite
	switch {
	case s.nsCallees[callee]:
		for _, lit := range literals(args[0], src) {
			if lit.value != "" {
				out = append(out, site(lit, entities.CallNamespace, lit.value, "", lit.end))
			}
		}
	case s.keyCallees[callee]:
		key := ""
		if lit, ok := stringLiteral(args[0], src); ok {
			key = lit.value
			if i := strings.Index(lit.value, nsSeparator); i > 0 {
				key = lit.value[i+len(nsSeparator):]
				out = append(out, site(lit, entities.CallKey, lit.value[:i], key, lit.start+i))
			}
		}
		if len(args) > 1 && args[1].Type() == "object" {
			for _, lit := range nsOption(args[1], src) {
				if lit.value != "" {
					out = append(out, site(lit, entities.CallOption, lit.value, key, lit.end))
				}
			}
		}
	}
	return out
}

// nsOption returns the literals of the ns property of an options object.
func nsOption(obj *sitter.Node, src []byte) []literal {
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		k := pair.ChildByFieldName("key")
		if k == nil {
			continue
		}
		name := k.Content(src)
		if lit, ok := stringLiteral(k, src); ok {
			name = lit.value
		}
		if name == "ns" {
			return literals(pair.ChildByFieldName("value"), src)
		}
	}
	return nil
}
