package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nsmigrate/internal/domain"
	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/domain/validation"
	"nsmigrate/internal/ports/input"
	"nsmigrate/internal/ports/output"
)

var _ input.ValidateUseCase = (*ValidationService)(nil)

// ValidationService compares a backup with the current locales directory
// and records the resulting report.
type ValidationService struct {
	locales  output.LocaleRepository
	writer   output.ReportWriter
	store    output.ReportRepository
	notifier output.Notifier
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

type ValidationOption func(*ValidationService)

// WithReportStore keeps every report in store as well.
func WithReportStore(store output.ReportRepository) ValidationOption {
	return func(s *ValidationService) { s.store = store }
}

// WithNotifier announces every report through n.
func WithNotifier(n output.Notifier) ValidationOption {
	return func(s *ValidationService) { s.notifier = n }
}

func WithValidationClock(now func() time.Time) ValidationOption {
	return func(s *ValidationService) { s.now = now }
}

func WithRunIDs(newID func() string) ValidationOption {
	return func(s *ValidationService) { s.newID = newID }
}

func NewValidationService(
	locales output.LocaleRepository,
	writer output.ReportWriter,
	logger *zap.Logger,
	opts ...ValidationOption,
) *ValidationService {
	s := &ValidationService{
		locales: locales,
		writer:  writer,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate compares beforeDir, or the newest backup when empty, with the
// locales directory. A report listing missing keys is not an error; callers
// decide from Report.Passed.
func (s *ValidationService) Validate(ctx context.Context, beforeDir string) (*entities.Report, error) {
	if beforeDir == "" {
		latest, err := s.locales.LatestBackup(ctx)
		if err != nil {
			return nil, err
		}
		beforeDir = latest
	}
	before, beforeErrs, err := s.locales.Snapshot(ctx, beforeDir)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", beforeDir, err)
	}
	after, afterErrs, err := s.locales.Snapshot(ctx, s.locales.Dir())
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.locales.Dir(), err)
	}

	report := validation.Compare(before, after)
	report.Before = beforeDir
	report.After = s.locales.Dir()
	report.FileErrors = append(beforeErrs, afterErrs...)
	if err := s.Record(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Record stamps report with a run id and time, writes it, then stores and
// announces it when configured. Notification failures are only logged.
func (s *ValidationService) Record(ctx context.Context, report *entities.Report) error {
	if report.RunID == "" {
		report.RunID = s.newID()
	}
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = s.now().UTC()
	}
	if err := s.writer.WriteReport(ctx, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if s.store != nil {
		if err := s.store.Save(ctx, report); err != nil {
			return fmt.Errorf("store report: %w", err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyReport(ctx, report); err != nil {
			s.logger.Warn("report notification failed", zap.String("run_id", report.RunID), zap.Error(err))
		}
	}
	s.logger.Info("validation recorded",
		zap.String("run_id", report.RunID),
		zap.Bool("passed", report.Passed()),
		zap.Int("missing", len(report.Missing)),
		zap.Int("moved", len(report.Moved)),
		zap.Int("new", len(report.New)),
		zap.Int("duplicates", len(report.Duplicates)),
	)
	return nil
}

func (s *ValidationService) History(ctx context.Context, limit int) ([]entities.RunSummary, error) {
	if s.store == nil {
		return nil, domain.ErrStoreDisabled
	}
	if limit <= 0 {
		limit = 10
	}
	return s.store.Recent(ctx, limit)
}
