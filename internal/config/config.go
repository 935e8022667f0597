package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"nsmigrate/internal/domain/entities"
)

// Valeurs par défaut, calquées sur l'arborescence i18next habituelle.
const (
	DefaultLocalesDir = "src/i18n/locales"
	DefaultSourceDir  = "src"
	DefaultPlanPath   = "nsmigrate.toml"
	DefaultReportPath = "migration-validation-report.json"
	DefaultLang       = "en"
)

type Config struct {
	LocalesDir        string
	SourceDir         string
	PlanPath          string
	ReportPath        string
	Lang              string
	Backup            entities.BackupMode
	DatabaseURL       string
	DiscordWebhookURL string
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env est optionnel lorsque les variables sont fournies par l'environnement (CI, etc.).
	}

	cfg := &Config{
		LocalesDir:        os.Getenv("NSMIGRATE_LOCALES_DIR"),
		SourceDir:         os.Getenv("NSMIGRATE_SOURCE_DIR"),
		PlanPath:          os.Getenv("NSMIGRATE_PLAN"),
		ReportPath:        os.Getenv("NSMIGRATE_REPORT"),
		Lang:              os.Getenv("NSMIGRATE_LANG"),
		Backup:            entities.BackupMode(os.Getenv("NSMIGRATE_BACKUP")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate applique les valeurs par défaut puis toutes les règles sur la
// configuration. Elle est rappelée après l'application des flags.
func (c *Config) Validate() error {
	setDefault(&c.LocalesDir, DefaultLocalesDir)
	setDefault(&c.SourceDir, DefaultSourceDir)
	setDefault(&c.PlanPath, DefaultPlanPath)
	setDefault(&c.ReportPath, DefaultReportPath)
	setDefault(&c.Lang, DefaultLang)

	mode, err := entities.ParseBackupMode(strings.TrimSpace(string(c.Backup)))
	if err != nil {
		return fmt.Errorf("config: NSMIGRATE_BACKUP doit valoir dir, file ou none: %w", err)
	}
	c.Backup = mode

	if _, err := language.Parse(c.Lang); err != nil {
		return fmt.Errorf("config: NSMIGRATE_LANG invalide (%q): %w", c.Lang, err)
	}

	if strings.TrimSpace(c.DatabaseURL) != "" {
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
		}
	}

	if strings.TrimSpace(c.DiscordWebhookURL) != "" {
		parsed, err := url.Parse(c.DiscordWebhookURL)
		if err != nil || parsed.Scheme != "https" || !strings.Contains(parsed.Path, "/webhooks/") {
			return fmt.Errorf("config: DISCORD_WEBHOOK_URL doit être une URL https de webhook Discord")
		}
	}

	return nil
}

func setDefault(v *string, def string) {
	if strings.TrimSpace(*v) == "" {
		*v = def
	}
}
