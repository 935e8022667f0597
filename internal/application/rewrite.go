package application

import (
	"context"

	"go.uber.org/zap"

	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/input"
	"nsmigrate/internal/ports/output"
)

var _ input.RewriteUseCase = (*RewriteService)(nil)

// ProgressFunc is told how many of total source files have been handled.
type ProgressFunc func(done, total int)

type RewriteService struct {
	source   output.SourceCode
	resolver output.NamespaceResolver
	root     string
	logger   *zap.Logger
	progress ProgressFunc
}

func NewRewriteService(
	source output.SourceCode,
	resolver output.NamespaceResolver,
	root string,
	logger *zap.Logger,
) *RewriteService {
	return &RewriteService{
		source:   source,
		resolver: resolver,
		root:     root,
		logger:   logger,
	}
}

// OnProgress registers fn to be called after each file.
func (s *RewriteService) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

func (s *RewriteService) RewriteSources(ctx context.Context, dryRun bool) (*entities.SourceRewrite, error) {
	files, err := s.source.Files(ctx, s.root)
	if err != nil {
		return nil, err
	}
	out := &entities.SourceRewrite{DryRun: dryRun, FilesScanned: len(files)}
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.source.RewriteFile(ctx, path, s.resolver, !dryRun)
		if err != nil {
			s.logger.Warn("skipping source file", zap.String("file", path), zap.Error(err))
			out.FileErrors = append(out.FileErrors, entities.FileError{Path: path, Err: err.Error()})
		} else if res.Changed() || len(res.Ambiguous) > 0 {
			out.Files = append(out.Files, res)
		}
		if s.progress != nil {
			s.progress(i+1, len(files))
		}
	}
	s.logger.Info("sources rewritten",
		zap.Int("scanned", out.FilesScanned),
		zap.Int("files", len(out.Files)),
		zap.Int("replacements", out.Replacements()),
		zap.Bool("dry_run", dryRun),
	)
	return out, nil
}
