package consolidation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsmigrate/internal/domain"
	"nsmigrate/internal/domain/entities"
)

func samplePlan() *entities.Plan {
	return &entities.Plan{
		Splits: []entities.Split{{
			Source: "ui",
			Rules: []entities.SplitRule{
				{Target: "ui-misc", Prefixes: []string{entities.CatchAll}},
				{Target: "ui-common", Prefixes: []string{"a", "actions"}},
				{Target: "ui-forms", Prefixes: []string{"act", "form"}},
			},
		}},
		Merges: []entities.Merge{
			{Target: "common", Sources: []string{"shared", "core"}},
			{Target: "dashboard", Sources: []string{"dashboard", "dashboard-old"}},
		},
	}
}

func TestNewMapper_RejectsInvalidPlan(t *testing.T) {
	_, err := NewMapper(&entities.Plan{Splits: []entities.Split{{Source: "ui"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestNewMapper_RejectsChainedPlan(t *testing.T) {
	plan := &entities.Plan{
		Splits: []entities.Split{{
			Source: "ui",
			Rules: []entities.SplitRule{
				{Target: "ui-common", Prefixes: []string{"a"}},
				{Target: "ui-misc", Prefixes: []string{entities.CatchAll}},
			},
		}},
		Merges: []entities.Merge{{Target: "common", Sources: []string{"ui-common"}}},
	}
	_, err := NewMapper(plan)
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestMapper_ResolvedTargetsSurvive(t *testing.T) {
	m, err := NewMapper(samplePlan())
	require.NoError(t, err)

	refs := []struct{ ns, key string }{
		{"ui", "actions.save"}, {"ui", "form.name"}, {"ui", "zebra"},
		{"shared", ""}, {"core", "x"}, {"dashboard-old", "y"}, {"dashboard", ""},
	}
	for _, ref := range refs {
		got, res := m.Resolve(ref.ns, ref.key)
		if res == Unchanged {
			continue
		}
		require.Equal(t, Mapped, res, "%s:%s", ref.ns, ref.key)
		assert.Contains(t, m.TargetNamespaces(), got, "%s:%s", ref.ns, ref.key)
		assert.False(t, m.IsOld(got), "%s:%s -> %s", ref.ns, ref.key, got)
	}
}

func TestMapper_AssignFirstMatchWins(t *testing.T) {
	m, err := NewMapper(samplePlan())
	require.NoError(t, err)

	tests := []struct {
		key    string
		target string
	}{
		// "actions" matches both ui-common ("a") and ui-forms ("act");
		// ui-common is declared first.
		{"actions", "ui-common"},
		{"a", "ui-common"},
		{"form", "ui-forms"},
		{"formulas", "ui-forms"},
		// The catch-all is listed first but only claims leftovers.
		{"zebra", "ui-misc"},
		{"b", "ui-misc"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				got, ok := m.Assign("ui", tt.key)
				require.True(t, ok)
				assert.Equal(t, tt.target, got)
			}
		})
	}

	_, ok := m.Assign("common", "x")
	assert.False(t, ok)
}

func TestMapper_AssignWithoutCatchAll(t *testing.T) {
	m, err := NewMapper(&entities.Plan{Splits: []entities.Split{{
		Source: "ui",
		Rules:  []entities.SplitRule{{Target: "ui-common", Prefixes: []string{"common"}}},
	}}})
	require.NoError(t, err)

	_, ok := m.Assign("ui", "other")
	assert.False(t, ok)
}

func TestMapper_Resolve(t *testing.T) {
	m, err := NewMapper(samplePlan())
	require.NoError(t, err)

	tests := []struct {
		name      string
		namespace string
		key       string
		want      string
		res       Resolution
	}{
		{"merged source", "shared", "", "common", Mapped},
		{"merged source with key", "core", "x.y", "common", Mapped},
		{"target listed as its own source", "dashboard", "title", "dashboard", Unchanged},
		{"split by key", "ui", "actions.save", "ui-common", Mapped},
		{"split catch-all", "ui", "header.title", "ui-misc", Mapped},
		{"split without key", "ui", "", "ui", Ambiguous},
		{"unknown namespace", "auth", "login", "auth", Unchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res := m.Resolve(tt.namespace, tt.key)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.res, res)
		})
	}
}

func TestMapper_OldAndTargetNamespaces(t *testing.T) {
	m, err := NewMapper(samplePlan())
	require.NoError(t, err)

	assert.Equal(t, []string{"core", "dashboard-old", "shared", "ui"}, m.OldNamespaces())
	assert.Equal(t, []string{"common", "dashboard", "ui-common", "ui-forms", "ui-misc"}, m.TargetNamespaces())
	assert.True(t, m.IsOld("ui"))
	assert.False(t, m.IsOld("dashboard"))
	assert.False(t, m.IsOld("auth"))
}
