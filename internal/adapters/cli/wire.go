package cli

import (
	"context"
	"fmt"

	"nsmigrate/internal/adapters/discord"
	"nsmigrate/internal/application"
	"nsmigrate/internal/domain/consolidation"
	"nsmigrate/internal/domain/entities"
	"nsmigrate/internal/infrastructure/database"
	"nsmigrate/internal/infrastructure/localefs"
	"nsmigrate/internal/infrastructure/planfile"
	"nsmigrate/internal/infrastructure/sourcecode"
)

// planned bundles what every plan-driven command needs.
type planned struct {
	plan    *entities.Plan
	mapper  *consolidation.Mapper
	scanner *sourcecode.Scanner
	locales *localefs.Store
}

func (a *App) loadPlan() (*planned, error) {
	plan, err := planfile.Load(a.cfg.PlanPath)
	if err != nil {
		return nil, err
	}
	mapper, err := consolidation.NewMapper(plan)
	if err != nil {
		return nil, err
	}
	scanner, err := sourcecode.NewScanner(plan.Source, a.logger)
	if err != nil {
		return nil, err
	}
	return &planned{
		plan:    plan,
		mapper:  mapper,
		scanner: scanner,
		locales: a.locales(),
	}, nil
}

func (a *App) locales() *localefs.Store {
	return localefs.NewStore(a.cfg.LocalesDir, a.logger)
}

func (a *App) rewriter(p *planned) *application.RewriteService {
	svc := application.NewRewriteService(p.scanner, p.mapper, a.cfg.SourceDir, a.logger)
	if fn := a.console.progress("sources"); fn != nil {
		svc.OnProgress(fn)
	}
	return svc
}

// validator wires the report file and, when configured, the PostgreSQL
// report store and the Discord webhook.
func (a *App) validator(ctx context.Context, locales *localefs.Store) (*application.ValidationService, error) {
	var opts []application.ValidationOption
	if a.cfg.DatabaseURL != "" {
		store, err := a.reportStore(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, application.WithReportStore(store))
	}
	if a.cfg.DiscordWebhookURL != "" {
		n, err := a.webhook()
		if err != nil {
			return nil, err
		}
		opts = append(opts, application.WithNotifier(n))
	}
	return application.NewValidationService(locales, localefs.NewReportFile(a.cfg.ReportPath), a.logger, opts...), nil
}

func (a *App) reportStore(ctx context.Context) (*database.ReportRepository, error) {
	if err := database.RunMigrations(a.cfg.DatabaseURL, a.logger); err != nil {
		return nil, err
	}
	pool, err := database.NewPool(ctx, a.cfg.DatabaseURL, a.logger)
	if err != nil {
		return nil, fmt.Errorf("report store: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	return database.NewReportRepository(pool), nil
}

func (a *App) webhook() (*discord.WebhookNotifier, error) {
	if a.notifier != nil {
		return a.notifier, nil
	}
	n, err := discord.NewWebhookNotifier(a.cfg.DiscordWebhookURL, a.t, a.cfg.Lang, a.logger)
	if err != nil {
		return nil, err
	}
	a.notifier = n
	return n, nil
}
