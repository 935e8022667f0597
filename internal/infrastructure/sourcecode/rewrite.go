package sourcecode

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"nsmigrate/internal/domain/consolidation"
	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/output"
)

// Rewrite returns src with the namespace of every call site r maps to a new
// namespace replaced. Call sites of split namespaces that name no key are
// reported as ambiguous and left untouched.
func (s *Scanner) Rewrite(ctx context.Context, path string, src []byte, r output.NamespaceResolver) ([]byte, entities.RewriteResult, error) {
	res := entities.RewriteResult{File: path}
	sites, err := s.Find(ctx, path, src)
	if err != nil {
		return nil, res, err
	}
	for _, site := range sites {
		to, resolution := r.Resolve(site.Namespace, site.Key)
		switch resolution {
		case consolidation.Mapped:
			res.Replacements = append(res.Replacements, entities.Replacement{Site: site, To: to})
		case consolidation.Ambiguous:
			s.logger.Warn("ambiguous call site left unchanged", zap.String("site", site.String()))
			res.Ambiguous = append(res.Ambiguous, site)
		}
	}
	if !res.Changed() {
		return src, res, nil
	}

	out := make([]byte, 0, len(src))
	last := 0
	for _, rep := range res.Replacements {
		out = append(out, src[last:rep.Site.Start]...)
		out = append(out, rep.To...)
		last = rep.Site.End
	}
	out = append(out, src[last:]...)
	return out, res, nil
}

func (s *Scanner) RewriteFile(ctx context.Context, path string, r output.NamespaceResolver, write bool) (entities.RewriteResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return entities.RewriteResult{File: path}, err
	}
	out, res, err := s.Rewrite(ctx, path, src, r)
	if err != nil || !res.Changed() || !write {
		return res, err
	}
	if err := writeSame(path, out); err != nil {
		return res, err
	}
	s.logger.Debug("rewrote source file", zap.String("path", path), zap.Int("replacements", len(res.Replacements)))
	return res, nil
}

// writeSame overwrites path keeping its permission bits.
func writeSame(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
