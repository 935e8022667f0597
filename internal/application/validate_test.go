package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nsmigrate/internal/domain"
	"nsmigrate/internal/domain/entities"
)

func TestValidate_AgainstLatestBackup(t *testing.T) {
	locales := newMemLocales(layout{
		"en": {"common": mustTree(t, `{"ok":"OK"}`)},
	})
	locales.backups["locales.backup.1"] = layout{"en": {"common": mustTree(t, `{"ok":"OK"}`)}}
	locales.backups["locales.backup.2"] = layout{
		"en": {
			"shared": mustTree(t, `{"ok":"OK"}`),
			"core":   mustTree(t, `{"gone":"Gone"}`),
		},
	}
	reports := &memReports{}
	notifier := &fakeNotifier{err: errors.New("webhook down")}
	svc := NewValidationService(locales, reports, zap.NewNop(),
		WithReportStore(reports),
		WithNotifier(notifier),
		WithValidationClock(fixedNow),
		WithRunIDs(func() string { return "run-9" }),
	)

	report, err := svc.Validate(context.Background(), "")
	require.NoError(t, err)

	assert.False(t, report.Passed())
	want := []entities.MissingKey{{Language: "en", Key: "gone", OriginalFiles: []string{"core.json"}}}
	if diff := cmp.Diff(want, report.Missing); diff != "" {
		t.Errorf("missing keys (-want +got):\n%s", diff)
	}
	assert.Equal(t, "locales.backup.2", report.Before)
	assert.Equal(t, "locales", report.After)
	assert.Equal(t, "run-9", report.RunID)
	assert.Equal(t, fixedNow(), report.GeneratedAt)

	assert.Len(t, reports.written, 1)
	assert.Len(t, reports.saved, 1)
	assert.Len(t, notifier.sent, 1, "notification failures do not abort")
}

func TestValidate_ExplicitBefore(t *testing.T) {
	locales := newMemLocales(layout{"en": {"a": mustTree(t, `{"k":"v"}`)}})
	locales.backups["snapshot"] = layout{"en": {"a": mustTree(t, `{"k":"v"}`)}}
	reports := &memReports{}
	svc := NewValidationService(locales, reports, zap.NewNop())

	report, err := svc.Validate(context.Background(), "snapshot")
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, reports.saved)
}

func TestValidate_NoBackup(t *testing.T) {
	locales := newMemLocales(layout{"en": {}})
	svc := NewValidationService(locales, &memReports{}, zap.NewNop())

	_, err := svc.Validate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoBackup)
}

func TestHistory(t *testing.T) {
	locales := newMemLocales(layout{})
	_, err := NewValidationService(locales, &memReports{}, zap.NewNop()).History(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrStoreDisabled)

	reports := &memReports{runs: []entities.RunSummary{{RunID: "a"}, {RunID: "b"}, {RunID: "c"}}}
	svc := NewValidationService(locales, reports, zap.NewNop(), WithReportStore(reports))
	runs, err := svc.History(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = svc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
