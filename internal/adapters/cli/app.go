// Package cli is the nsmigrate command line. It resolves the configuration,
// wires the infrastructure adapters into the application services and
// renders their results.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nsmigrate/internal/adapters/discord"
	"nsmigrate/internal/config"
	"nsmigrate/internal/domain"
	"nsmigrate/internal/infrastructure/i18n"
	"nsmigrate/internal/logging"
	"nsmigrate/internal/ports/output"
	pkgdiscord "nsmigrate/pkg/discord"
)

// App holds everything a command invocation needs. Nothing is kept in
// package state so several Apps can run side by side in tests.
type App struct {
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer

	verbose bool
	quiet   bool

	logger   *zap.Logger
	t        output.T
	console  *console
	notifier *discord.WebhookNotifier
	closers  []func()
}

func NewApp(cfg *config.Config, out, errOut io.Writer) *App {
	return &App{cfg: cfg, out: out, errOut: errOut, logger: zap.NewNop()}
}

// Command builds the root command.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "nsmigrate",
		Short:         "Consolidate i18next translation namespaces",
		Long:          "nsmigrate splits, merges and renames translation namespaces, rewrites the source code that references them and checks that no key was lost.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.PlanPath, "plan", a.cfg.PlanPath, "Consolidation plan (.toml, .yaml or .yml)")
	flags.StringVar(&a.cfg.LocalesDir, "locales", a.cfg.LocalesDir, "Locales directory holding one directory per language")
	flags.StringVar(&a.cfg.SourceDir, "src", a.cfg.SourceDir, "Source directory to rewrite")
	flags.StringVar(&a.cfg.ReportPath, "report", a.cfg.ReportPath, "Validation report output file")
	flags.StringVar(&a.cfg.Lang, "lang", a.cfg.Lang, "Language of console messages")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "Only print warnings and failures")

	root.AddCommand(
		a.consolidateCommand(),
		a.rewriteCommand(),
		a.validateCommand(),
		a.checkCommand(),
		a.keysCommand(),
		a.historyCommand(),
	)
	return root
}

func (a *App) setup() error {
	if err := a.cfg.Validate(); err != nil {
		if !errors.Is(err, domain.ErrInvalidConfig) {
			err = fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
		}
		return err
	}
	logger, err := logging.New(a.verbose, a.quiet)
	if err != nil {
		return err
	}
	a.logger = logger
	a.t = i18n.NewTranslator(a.cfg.Lang, logger)
	a.console = newConsole(a.out, a.t, a.cfg.Lang, a.quiet)
	return nil
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	defer a.close()

	root := a.Command()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	// Reports and gate results were already printed.
	if errors.Is(err, domain.ErrKeysMissing) || errors.Is(err, domain.ErrOldNamespacesFound) {
		return 1
	}
	if a.console == nil {
		a.console = newConsole(a.errOut, a.translator(), a.cfg.Lang, false)
	}
	a.console.fatal(pkgdiscord.DomainErrorMessage(err, a.translator(), a.cfg.Lang))
	if a.notifier != nil {
		if nerr := a.notifier.NotifyError(ctx, err); nerr != nil {
			a.logger.Warn("error notification failed", zap.Error(nerr))
		}
	}
	return 1
}

// translator falls back to an English catalog when setup never ran, e.g.
// on a flag parsing error.
func (a *App) translator() output.T {
	if a.t == nil {
		a.t = i18n.NewTranslator(config.DefaultLang, a.logger)
	}
	return a.t
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
