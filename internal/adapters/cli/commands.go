package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nsmigrate/internal/application"
	"nsmigrate/internal/domain"
	"nsmigrate/internal/domain/entities"
)

func (a *App) consolidateCommand() *cobra.Command {
	var (
		opts   entities.ConsolidateOptions
		backup string
	)
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Apply the plan to the locale files and the source code, then validate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := a.cfg.Backup
			if cmd.Flags().Changed("backup") {
				parsed, err := entities.ParseBackupMode(backup)
				if err != nil {
					return err
				}
				mode = parsed
			}
			opts.Backup = mode

			ctx := cmd.Context()
			p, err := a.loadPlan()
			if err != nil {
				return err
			}
			validator, err := a.validator(ctx, p.locales)
			if err != nil {
				return err
			}
			svc := application.NewConsolidationService(p.plan, p.mapper, p.locales, p.scanner, a.rewriter(p), validator, a.logger)

			a.console.line(a.console.title, "consolidate.start", map[string]any{"Dir": a.cfg.LocalesDir})
			if opts.DryRun {
				a.console.line(a.console.warn, "consolidate.dry_run", nil)
			}
			run, err := svc.Consolidate(ctx, opts)
			if err != nil {
				return err
			}
			a.console.consolidation(run)

			reportPath := a.cfg.ReportPath
			if run.DryRun {
				reportPath = ""
			}
			a.console.report(run.Report, reportPath)
			if !run.Report.Passed() {
				return fmt.Errorf("%w: %d", domain.ErrKeysMissing, len(run.Report.Missing))
			}
			a.console.line(a.console.ok, "consolidate.done", nil)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would change without writing anything")
	cmd.Flags().StringVar(&backup, "backup", string(entities.BackupDir), "Backup mode: dir, file or none")
	cmd.Flags().BoolVar(&opts.SkipSources, "skip-sources", false, "Leave the source code untouched")
	return cmd
}

func (a *App) rewriteCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Rewrite namespace references in the source code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPlan()
			if err != nil {
				return err
			}
			a.console.line(a.console.title, "rewrite.start", nil)
			res, err := a.rewriter(p).RewriteSources(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			a.console.rewrite(res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report replacements without writing files")
	return cmd
}

func (a *App) validateCommand() *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compare the locales directory with a backup and report lost keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			locales := a.locales()
			validator, err := a.validator(ctx, locales)
			if err != nil {
				return err
			}
			report, err := validator.Validate(ctx, before)
			if err != nil {
				return err
			}
			a.console.line(a.console.title, "validate.start", map[string]any{"After": report.After, "Before": report.Before})
			a.console.report(report, a.cfg.ReportPath)
			if a.cfg.DatabaseURL != "" {
				a.console.info("validate.stored", map[string]any{"RunID": report.RunID})
			}
			if !report.Passed() {
				return fmt.Errorf("%w: %d", domain.ErrKeysMissing, len(report.Missing))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Directory holding the pre-migration locales (default: newest backup)")
	return cmd
}

func (a *App) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fail when old namespaces are still referenced or present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadPlan()
			if err != nil {
				return err
			}
			gate := application.NewGateService(p.mapper, p.locales, p.scanner, a.cfg.SourceDir, a.logger)
			a.console.line(a.console.title, "check.start", nil)
			res, err := gate.Check(cmd.Context())
			if err != nil {
				return err
			}
			a.console.gate(res)
			if !res.Passed() {
				return domain.ErrOldNamespacesFound
			}
			return nil
		},
	}
}

func (a *App) keysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <file.json>",
		Short: "Print the dotted keys of a translation file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			tree, err := entities.ParseTree(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, key := range entities.CollectKeys(tree) {
				fmt.Fprintln(a.out, key)
			}
			return nil
		},
	}
}

func (a *App) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent stored validation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			validator, err := a.validator(ctx, a.locales())
			if err != nil {
				return err
			}
			runs, err := validator.History(ctx, limit)
			if err != nil {
				return err
			}
			a.console.history(runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to list")
	return cmd
}
