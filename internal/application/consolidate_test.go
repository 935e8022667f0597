package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nsmigrate/internal/domain/consolidation"
	"nsmigrate/internal/domain/entities"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

func consolidationPlan() *entities.Plan {
	return &entities.Plan{
		Splits: []entities.Split{{
			Source: "ui",
			Rules: []entities.SplitRule{
				{Target: "ui-forms", Prefixes: []string{"form"}},
				{Target: "ui-common", Prefixes: []string{entities.CatchAll}},
			},
		}},
		Merges: []entities.Merge{{Target: "common", Sources: []string{"shared", "core"}}},
		Source: entities.SourceOptions{NamespaceListFile: "src/i18n/index.ts"},
	}
}

func sampleLocales(t *testing.T) layout {
	return layout{
		"en": {
			"ui":        mustTree(t, `{"title":"T","actions":{"save":"Save"},"form":{"name":"Name"}}`),
			"shared":    mustTree(t, `{"ok":"OK"}`),
			"core":      mustTree(t, `{"yes":"Yes"}`),
			"dashboard": mustTree(t, `{"x":"X"}`),
		},
		"fr": {
			"ui":        mustTree(t, `{"title":"Titre","formHint":"Astuce"}`),
			"shared":    mustTree(t, `{"ok":"D'accord"}`),
			"dashboard": mustTree(t, `{"x":"X"}`),
		},
	}
}

type consolidationFixture struct {
	svc     *ConsolidationService
	locales *memLocales
	source  *fakeSource
	reports *memReports
}

func newConsolidationFixture(t *testing.T) consolidationFixture {
	t.Helper()
	plan := consolidationPlan()
	mapper, err := consolidation.NewMapper(plan)
	require.NoError(t, err)

	locales := newMemLocales(sampleLocales(t))
	source := &fakeSource{
		files: []string{"src/a.tsx", "src/b.tsx"},
		results: map[string]entities.RewriteResult{
			"src/a.tsx": {
				File: "src/a.tsx",
				Replacements: []entities.Replacement{{
					Site: entities.CallSite{File: "src/a.tsx", Namespace: "shared", Kind: entities.CallNamespace},
					To:   "common",
				}},
			},
		},
		listPath: "src/i18n/index.ts",
	}
	reports := &memReports{}
	logger := zap.NewNop()
	validator := NewValidationService(locales, reports, logger, WithValidationClock(fixedNow), WithReportStore(reports))
	rewriter := NewRewriteService(source, mapper, "src", logger)

	svc := NewConsolidationService(plan, mapper, locales, source, rewriter, validator, logger)
	svc.newID = func() string { return "run-1" }
	return consolidationFixture{svc: svc, locales: locales, source: source, reports: reports}
}

func TestConsolidate(t *testing.T) {
	fx := newConsolidationFixture(t)

	run, err := fx.svc.Consolidate(context.Background(), entities.ConsolidateOptions{})
	require.NoError(t, err)

	assert.Equal(t, "run-1", run.RunID)
	assert.Equal(t, "locales.backup.1", run.BackupPath)
	require.Len(t, run.Languages, 2)

	en := run.Languages[0]
	assert.Equal(t, "en", en.Language)
	assert.ElementsMatch(t, []string{"ui-forms", "ui-common", "common"}, en.Written)
	assert.Equal(t, []string{"core", "shared", "ui"}, en.Removed)
	assert.Empty(t, en.Missing)

	fr := run.Languages[1]
	assert.Equal(t, []string{"core"}, fr.Missing)
	assert.Equal(t, []string{"shared", "ui"}, fr.Removed)

	files := fx.locales.files
	assert.True(t, files["en"]["common"].Equal(mustTree(t, `{"ok":"OK","yes":"Yes"}`)))
	assert.True(t, files["en"]["ui-common"].Equal(mustTree(t, `{"title":"T","actions":{"save":"Save"}}`)))
	assert.True(t, files["en"]["ui-forms"].Equal(mustTree(t, `{"form":{"name":"Name"}}`)))
	assert.True(t, files["fr"]["ui-forms"].Equal(mustTree(t, `{"formHint":"Astuce"}`)))
	assert.NotContains(t, files["en"], "ui")
	assert.NotContains(t, files["fr"], "shared")

	require.NotNil(t, run.Sources)
	assert.Equal(t, 2, run.Sources.FilesScanned)
	assert.Equal(t, 1, run.Sources.Replacements())
	assert.Equal(t, []bool{true, true}, fx.source.rewrites)

	assert.True(t, run.NamespaceList)
	assert.Equal(t, []string{"common", "dashboard", "ui-common", "ui-forms"}, fx.source.listNS)
	assert.Equal(t, []bool{true}, fx.source.listWrites)

	require.NotNil(t, run.Report)
	assert.True(t, run.Report.Passed())
	assert.NotEmpty(t, run.Report.Moved)
	assert.Equal(t, "locales.backup.1", run.Report.Before)
	assert.Equal(t, "run-1", run.Report.RunID)
	assert.Equal(t, fixedNow(), run.Report.GeneratedAt)
	require.Len(t, fx.reports.written, 1)
	require.Len(t, fx.reports.saved, 1)
}

func TestConsolidate_DryRunWritesNothing(t *testing.T) {
	fx := newConsolidationFixture(t)
	before := fx.locales.files.clone()

	run, err := fx.svc.Consolidate(context.Background(), entities.ConsolidateOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, run.DryRun)
	assert.Empty(t, run.BackupPath)
	assert.Empty(t, fx.locales.backups)
	assert.Empty(t, fx.locales.writeModes)
	assert.Empty(t, fx.locales.removeModes)
	for lang, byNS := range before {
		require.Len(t, fx.locales.files[lang], len(byNS))
		for ns, tree := range byNS {
			assert.True(t, fx.locales.files[lang][ns].Equal(tree), "%s/%s", lang, ns)
		}
	}

	assert.Equal(t, []bool{false, false}, fx.source.rewrites)
	assert.Equal(t, []bool{false}, fx.source.listWrites)
	assert.Equal(t, []string{"common", "dashboard", "ui-common", "ui-forms"}, fx.source.listNS)

	require.NotNil(t, run.Report)
	assert.True(t, run.Report.Passed())
	assert.NotEmpty(t, run.Report.Moved)
	assert.Empty(t, fx.reports.written)
}

func TestConsolidate_FileBackupSkipsSources(t *testing.T) {
	fx := newConsolidationFixture(t)

	run, err := fx.svc.Consolidate(context.Background(), entities.ConsolidateOptions{
		Backup:      entities.BackupFile,
		SkipSources: true,
	})
	require.NoError(t, err)

	assert.Empty(t, run.BackupPath)
	assert.Empty(t, fx.locales.backups)
	assert.NotEmpty(t, fx.locales.writeModes)
	for _, mode := range append(fx.locales.writeModes, fx.locales.removeModes...) {
		assert.Equal(t, entities.BackupFile, mode)
	}
	assert.Nil(t, run.Sources)
	assert.Empty(t, fx.source.rewrites)
	assert.Equal(t, "locales", run.Report.Before)
	assert.True(t, run.Report.Passed())
}

func TestConsolidate_MalformedTargetIsNotOverwritten(t *testing.T) {
	fx := newConsolidationFixture(t)
	fx.locales.broken = map[string][]string{"en": {"common"}}

	run, err := fx.svc.Consolidate(context.Background(), entities.ConsolidateOptions{Backup: entities.BackupNone})
	require.NoError(t, err)

	require.Len(t, run.Languages, 2)
	en := run.Languages[0]
	assert.ElementsMatch(t, []string{"ui-forms", "ui-common"}, en.Written)
	assert.Equal(t, []string{"ui"}, en.Removed)
	assert.Contains(t, en.Warnings, "en: merge into common skipped, common.json could not be read")

	files := fx.locales.files
	assert.NotContains(t, files["en"], "common")
	assert.Contains(t, files["en"], "shared")
	assert.Contains(t, files["en"], "core")
	for _, mode := range fx.locales.writeModes {
		assert.Equal(t, entities.BackupNone, mode)
	}

	fr := run.Languages[1]
	assert.Equal(t, []string{"shared", "ui"}, fr.Removed)
	assert.True(t, files["fr"]["common"].Equal(mustTree(t, `{"ok":"D'accord"}`)))

	assert.Contains(t, fx.source.listNS, "common")
	require.Len(t, run.FileErrors, 1)
	assert.Equal(t, "common", run.FileErrors[0].Namespace())
	assert.True(t, run.Report.Passed())
}

func TestConsolidate_LocalesNotFound(t *testing.T) {
	fx := newConsolidationFixture(t)
	fx.locales.files = nil

	_, err := fx.svc.Consolidate(context.Background(), entities.ConsolidateOptions{})
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	loaded := []entities.NamespaceFile{
		{Language: "en", Namespace: "a", Tree: mustTree(t, `{"k":1}`)},
		{Language: "en", Namespace: "b", Tree: mustTree(t, `{"k":2}`)},
		{Language: "en", Namespace: "c", Tree: mustTree(t, `{"k":3}`)},
	}
	outcome := consolidation.Outcome{
		Language: "en",
		Written: []entities.NamespaceFile{
			{Language: "en", Namespace: "d", Tree: mustTree(t, `{"k":4}`)},
			{Language: "en", Namespace: "b", Tree: mustTree(t, `{"k":5}`)},
		},
		Removed: []string{"a"},
	}

	got := project(loaded, outcome)

	var names []string
	for _, f := range got {
		names = append(names, f.Namespace)
	}
	assert.Equal(t, []string{"b", "c", "d"}, names)
	assert.True(t, got[0].Tree.Equal(mustTree(t, `{"k":5}`)))
}
