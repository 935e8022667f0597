package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/output"
)

var _ output.ReportRepository = (*ReportRepository)(nil)

const insertRun = `
INSERT INTO migration_runs (
    run_id, generated_at, before_dir, after_dir, passed,
    missing_count, moved_count, new_count, duplicate_count, report
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const selectRecentRuns = `
SELECT run_id::text, generated_at, passed, missing_count, moved_count, new_count, duplicate_count
FROM migration_runs
ORDER BY generated_at DESC
LIMIT $1`

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Save stores the run and its missing keys in one transaction.
func (r *ReportRepository) Save(ctx context.Context, report *entities.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, insertRun,
		report.RunID,
		report.GeneratedAt,
		report.Before,
		report.After,
		report.Passed(),
		len(report.Missing),
		len(report.Moved),
		len(report.New),
		len(report.Duplicates),
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if rows := missingKeyRows(report); len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"migration_missing_keys"},
			[]string{"run_id", "lang", "key", "original_files"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy missing keys: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]entities.RunSummary, error) {
	rows, err := r.pool.Query(ctx, selectRecentRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[runRow])
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	out := make([]entities.RunSummary, len(runs))
	for i := range runs {
		out[i] = runToDomain(runs[i])
	}
	return out, nil
}
