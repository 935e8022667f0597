package input

import (
	"context"

	"nsmigrate/internal/domain/entities"
)

type ConsolidateUseCase interface {
	Consolidate(ctx context.Context, opts entities.ConsolidateOptions) (*entities.Consolidation, error)
}

type RewriteUseCase interface {
	RewriteSources(ctx context.Context, dryRun bool) (*entities.SourceRewrite, error)
}

type ValidateUseCase interface {
	Validate(ctx context.Context, beforeDir string) (*entities.Report, error)
	History(ctx context.Context, limit int) ([]entities.RunSummary, error)
}

type CheckUseCase interface {
	Check(ctx context.Context) (*entities.GateResult, error)
}
