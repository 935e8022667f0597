package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"nsmigrate/internal/domain/consolidation"
	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/domain/validation"
	"nsmigrate/internal/ports/input"
	"nsmigrate/internal/ports/output"
)

var _ input.ConsolidateUseCase = (*ConsolidationService)(nil)

// ConsolidationService runs a whole plan: locale files, source call sites,
// the namespace list and a final validation.
type ConsolidationService struct {
	plan      *entities.Plan
	mapper    *consolidation.Mapper
	locales   output.LocaleRepository
	source    output.SourceCode
	rewriter  *RewriteService
	validator *ValidationService
	logger    *zap.Logger
	newID     func() string
}

func NewConsolidationService(
	plan *entities.Plan,
	mapper *consolidation.Mapper,
	locales output.LocaleRepository,
	source output.SourceCode,
	rewriter *RewriteService,
	validator *ValidationService,
	logger *zap.Logger,
) *ConsolidationService {
	return &ConsolidationService{
		plan:      plan,
		mapper:    mapper,
		locales:   locales,
		source:    source,
		rewriter:  rewriter,
		validator: validator,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Consolidate applies the plan to every language. In dry-run mode nothing is
// written and the report predicts the result from the in-memory outcome.
func (s *ConsolidationService) Consolidate(ctx context.Context, opts entities.ConsolidateOptions) (*entities.Consolidation, error) {
	if opts.Backup == "" {
		opts.Backup = entities.BackupDir
	}
	run := &entities.Consolidation{RunID: s.newID(), DryRun: opts.DryRun}
	log := s.logger.With(zap.String("run_id", run.RunID), zap.Bool("dry_run", opts.DryRun))

	langs, err := s.locales.Languages(ctx)
	if err != nil {
		return nil, err
	}
	if !opts.DryRun && opts.Backup == entities.BackupDir {
		path, err := s.locales.Backup(ctx)
		if err != nil {
			return nil, fmt.Errorf("backup: %w", err)
		}
		run.BackupPath = path
	}

	var before, after []entities.NamespaceFile
	var namespaces []string
	for _, lang := range langs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loaded, fileErrs, err := s.locales.Load(ctx, lang)
		if err != nil {
			return nil, err
		}
		run.FileErrors = append(run.FileErrors, fileErrs...)
		before = append(before, loaded...)

		trees := make(map[string]*entities.Tree, len(loaded))
		for _, f := range loaded {
			trees[f.Namespace] = f.Tree
		}
		unreadable := lo.Map(fileErrs, func(fe entities.FileError, _ int) string { return fe.Namespace() })
		outcome := consolidation.Apply(s.plan, s.mapper, lang, trees, unreadable...)
		result, err := s.commit(ctx, outcome, opts)
		if err != nil {
			return nil, err
		}
		for _, w := range result.Warnings {
			log.Warn(w)
		}
		run.Languages = append(run.Languages, result)

		projected := project(loaded, outcome)
		after = append(after, projected...)
		for _, f := range projected {
			namespaces = append(namespaces, f.Namespace)
		}
		namespaces = append(namespaces, unreadable...)
	}

	if !opts.SkipSources {
		rewrite, err := s.rewriter.RewriteSources(ctx, opts.DryRun)
		if err != nil {
			return nil, fmt.Errorf("rewrite sources: %w", err)
		}
		run.Sources = rewrite
	}

	if listFile := s.plan.Source.NamespaceListFile; listFile != "" {
		namespaces = lo.Uniq(namespaces)
		sort.Strings(namespaces)
		changed, err := s.source.UpdateNamespaceList(ctx, listFile, namespaces, !opts.DryRun)
		if err != nil {
			log.Warn("namespace list not updated", zap.String("file", listFile), zap.Error(err))
			run.FileErrors = append(run.FileErrors, entities.FileError{Path: listFile, Err: err.Error()})
		}
		run.NamespaceList = changed
	}

	report, err := s.validate(ctx, run, before, after, opts.DryRun)
	if err != nil {
		return nil, err
	}
	run.Report = report
	log.Info("consolidation finished", zap.Int("languages", len(run.Languages)), zap.Bool("passed", report.Passed()))
	return run, nil
}

// commit writes and removes the files of outcome unless dryRun.
func (s *ConsolidationService) commit(ctx context.Context, outcome consolidation.Outcome, opts entities.ConsolidateOptions) (entities.LanguageResult, error) {
	result := entities.LanguageResult{
		Language:        outcome.Language,
		Missing:         outcome.Missing,
		Warnings:        outcome.Warnings(),
		NestingRewrites: outcome.NestingRewrites,
	}
	for _, f := range outcome.Written {
		if !opts.DryRun {
			if err := s.locales.Write(ctx, f, opts.Backup); err != nil {
				return result, fmt.Errorf("write %s/%s: %w", f.Language, f.FileName(), err)
			}
		}
		result.Written = append(result.Written, f.Namespace)
	}
	for _, ns := range outcome.Removed {
		if !opts.DryRun {
			if err := s.locales.Remove(ctx, outcome.Language, ns, opts.Backup); err != nil {
				return result, fmt.Errorf("remove %s/%s.json: %w", outcome.Language, ns, err)
			}
		}
		result.Removed = append(result.Removed, ns)
	}
	return result, nil
}

// project returns the files of a language as they are once outcome is
// applied to loaded.
func project(loaded []entities.NamespaceFile, outcome consolidation.Outcome) []entities.NamespaceFile {
	written := lo.SliceToMap(outcome.Written, func(f entities.NamespaceFile) (string, entities.NamespaceFile) {
		return f.Namespace, f
	})
	var out []entities.NamespaceFile
	for _, f := range loaded {
		if lo.Contains(outcome.Removed, f.Namespace) {
			continue
		}
		if w, ok := written[f.Namespace]; ok {
			out = append(out, w)
			delete(written, f.Namespace)
			continue
		}
		out = append(out, f)
	}
	for _, f := range outcome.Written {
		if _, ok := written[f.Namespace]; ok {
			out = append(out, f)
		}
	}
	return out
}

func (s *ConsolidationService) validate(ctx context.Context, run *entities.Consolidation, before, after []entities.NamespaceFile, dryRun bool) (*entities.Report, error) {
	if !dryRun {
		var err error
		after, _, err = s.snapshotFiles(ctx)
		if err != nil {
			return nil, err
		}
	}
	report := validation.Compare(entities.SnapshotOf(before), entities.SnapshotOf(after))
	report.RunID = run.RunID
	report.Before = s.locales.Dir()
	if run.BackupPath != "" {
		report.Before = run.BackupPath
	}
	report.After = s.locales.Dir()
	report.FileErrors = run.FileErrors
	if dryRun {
		return report, nil
	}
	if err := s.validator.Record(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// snapshotFiles reloads every language from disk.
func (s *ConsolidationService) snapshotFiles(ctx context.Context) ([]entities.NamespaceFile, []entities.FileError, error) {
	langs, err := s.locales.Languages(ctx)
	if err != nil {
		return nil, nil, err
	}
	var files []entities.NamespaceFile
	var fileErrs []entities.FileError
	for _, lang := range langs {
		loaded, errs, err := s.locales.Load(ctx, lang)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, loaded...)
		fileErrs = append(fileErrs, errs...)
	}
	return files, fileErrs, nil
}
