package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nsmigrate/internal/domain/entities"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"NSMIGRATE_LOCALES_DIR", "NSMIGRATE_SOURCE_DIR", "NSMIGRATE_PLAN", "NSMIGRATE_REPORT",
		"NSMIGRATE_LANG", "NSMIGRATE_BACKUP", "DATABASE_URL", "DISCORD_WEBHOOK_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultLocalesDir, cfg.LocalesDir)
	assert.Equal(t, DefaultSourceDir, cfg.SourceDir)
	assert.Equal(t, DefaultPlanPath, cfg.PlanPath)
	assert.Equal(t, DefaultReportPath, cfg.ReportPath)
	assert.Equal(t, DefaultLang, cfg.Lang)
	assert.Equal(t, entities.BackupDir, cfg.Backup)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("NSMIGRATE_LOCALES_DIR", "public/locales")
	t.Setenv("NSMIGRATE_BACKUP", "file")
	t.Setenv("NSMIGRATE_LANG", "fr")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/nsmigrate?sslmode=disable")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/123/abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "public/locales", cfg.LocalesDir)
	assert.Equal(t, entities.BackupFile, cfg.Backup)
	assert.Equal(t, "fr", cfg.Lang)
	assert.NotEmpty(t, cfg.DatabaseURL)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		errText string
	}{
		{"backup mode", Config{Backup: "tarball"}, "NSMIGRATE_BACKUP"},
		{"language", Config{Lang: "not a language"}, "NSMIGRATE_LANG"},
		{"database url without host", Config{DatabaseURL: "postgres:///db"}, "DATABASE_URL"},
		{"webhook over http", Config{DiscordWebhookURL: "http://discord.com/api/webhooks/1/x"}, "DISCORD_WEBHOOK_URL"},
		{"not a webhook", Config{DiscordWebhookURL: "https://example.com/hook"}, "DISCORD_WEBHOOK_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}
