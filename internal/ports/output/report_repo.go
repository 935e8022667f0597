package output

import (
	"context"

	"nsmigrate/internal/domain/entities"
)

// ReportRepository persists validation reports.
type ReportRepository interface {
	Save(ctx context.Context, report *entities.Report) error
	Recent(ctx context.Context, limit int) ([]entities.RunSummary, error)
}

// ReportWriter writes a report artifact for later inspection.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *entities.Report) error
}

// Notifier announces the outcome of a validation.
type Notifier interface {
	NotifyReport(ctx context.Context, report *entities.Report) error
}
