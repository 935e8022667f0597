package localefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/ports/output"
)

var _ output.ReportWriter = (*ReportFile)(nil)

// ReportFile writes validation reports as indented JSON to a fixed path.
type ReportFile struct {
	path string
}

func NewReportFile(path string) *ReportFile {
	return &ReportFile{path: path}
}

func (r *ReportFile) Path() string {
	return r.path
}

func (r *ReportFile) WriteReport(ctx context.Context, report *entities.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
