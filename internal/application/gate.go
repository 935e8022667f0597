package application

import (
	"context"
	"path"
	"sort"

	"go.uber.org/zap"

	"nsmigrate/internal/domain/consolidation"
	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/input"
	"nsmigrate/internal/ports/output"
)

var _ input.CheckUseCase = (*GateService)(nil)

// GateService looks for leftovers of the pre-migration namespace layout.
type GateService struct {
	mapper  *consolidation.Mapper
	locales output.LocaleRepository
	source  output.SourceCode
	root    string
	logger  *zap.Logger
}

func NewGateService(
	mapper *consolidation.Mapper,
	locales output.LocaleRepository,
	source output.SourceCode,
	root string,
	logger *zap.Logger,
) *GateService {
	return &GateService{
		mapper:  mapper,
		locales: locales,
		source:  source,
		root:    root,
		logger:  logger,
	}
}

// Check reports call sites still naming an old namespace, old namespace
// files still on disk and target files absent from a language. A target is
// required in every language as soon as one language has it.
func (s *GateService) Check(ctx context.Context) (*entities.GateResult, error) {
	res := &entities.GateResult{}

	files, err := s.source.Files(ctx, s.root)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sites, err := s.source.FindCallSites(ctx, f)
		if err != nil {
			s.logger.Warn("skipping source file", zap.String("file", f), zap.Error(err))
			res.FileErrors = append(res.FileErrors, entities.FileError{Path: f, Err: err.Error()})
			continue
		}
		for _, site := range sites {
			if s.mapper.IsOld(site.Namespace) {
				res.OldCallSites = append(res.OldCallSites, site)
			}
		}
	}

	langs, err := s.locales.Languages(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[string]map[string]bool, len(langs))
	for _, lang := range langs {
		loaded, fileErrs, err := s.locales.Load(ctx, lang)
		if err != nil {
			return nil, err
		}
		set := make(map[string]bool, len(loaded)+len(fileErrs))
		for _, f := range loaded {
			set[f.Namespace] = true
		}
		// A malformed file is still a file on disk.
		for _, fe := range fileErrs {
			set[fe.Namespace()] = true
		}
		res.FileErrors = append(res.FileErrors, fileErrs...)
		present[lang] = set
	}

	required := make(map[string]bool)
	for _, target := range s.mapper.TargetNamespaces() {
		for _, lang := range langs {
			if present[lang][target] {
				required[target] = true
				break
			}
		}
	}
	for _, lang := range langs {
		for _, old := range s.mapper.OldNamespaces() {
			if present[lang][old] {
				res.OldFiles = append(res.OldFiles, path.Join(lang, old+".json"))
			}
		}
		for _, target := range s.mapper.TargetNamespaces() {
			if required[target] && !present[lang][target] {
				res.MissingTargets = append(res.MissingTargets, path.Join(lang, target+".json"))
			}
		}
	}
	sort.Strings(res.OldFiles)
	sort.Strings(res.MissingTargets)

	s.logger.Info("old namespace check",
		zap.Int("call_sites", len(res.OldCallSites)),
		zap.Int("old_files", len(res.OldFiles)),
		zap.Int("missing_targets", len(res.MissingTargets)),
	)
	return res, nil
}
