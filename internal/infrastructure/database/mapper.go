package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"nsmigrate/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// runRow mirrors a migration_runs row as selected by selectRecentRuns.
type runRow struct {
	RunID          string
	GeneratedAt    pgtype.Timestamptz
	Passed         bool
	MissingCount   int32
	MovedCount     int32
	NewCount       int32
	DuplicateCount int32
}

func runToDomain(r runRow) entities.RunSummary {
	return entities.RunSummary{
		RunID:       r.RunID,
		GeneratedAt: pgtypeTimestamptzToTime(r.GeneratedAt),
		Passed:      r.Passed,
		Missing:     int(r.MissingCount),
		Moved:       int(r.MovedCount),
		New:         int(r.NewCount),
		Duplicates:  int(r.DuplicateCount),
	}
}

// missingKeyRows builds the COPY rows of migration_missing_keys.
func missingKeyRows(report *entities.Report) [][]any {
	rows := make([][]any, 0, len(report.Missing))
	for _, m := range report.Missing {
		files := m.OriginalFiles
		if files == nil {
			files = []string{}
		}
		rows = append(rows, []any{report.RunID, m.Language, m.Key, files})
	}
	return rows
}
