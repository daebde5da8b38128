// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for pkgtarget.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/invowk/pkgtarget/internal/config"
	"github.com/invowk/pkgtarget/internal/issue"
	"github.com/invowk/pkgtarget/pkg/compat"
	"github.com/invowk/pkgtarget/pkg/engine"
	"github.com/invowk/pkgtarget/pkg/platform"
	"github.com/invowk/pkgtarget/pkg/types"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// App wires CLI services and the state shared by command handlers. The
	// root command's pre-run hook fills in the configuration; the engine is
	// built on first use.
	App struct {
		configs    config.Provider
		newEngine  EngineFactory
		stdout     io.Writer
		stderr     io.Writer
		flags      rootFlags
		cfg        *config.Config
		engine     *engine.Engine
		engineErr  error
		engineDone bool
	}

	// EngineFactory builds the resolution engine once configuration is known.
	EngineFactory func(cfg *config.Config) (*engine.Engine, error)

	// Dependencies are the injection points for NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		Engine EngineFactory
		Stdout io.Writer
		Stderr io.Writer
	}

	rootFlags struct {
		configPath string
		logLevel   string
		verbose    bool
	}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		configs:   deps.Config,
		newEngine: deps.Engine,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.configs == nil {
		app.configs = config.NewProvider()
	}
	if app.newEngine == nil {
		app.newEngine = productionEngine
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "pkgtarget",
		Short: "Pick the platform-specific distribution a package should install",
		Long: TitleStyle.Render("pkgtarget") + SubtitleStyle.Render(" - Pick the platform-specific distribution a package should install") + `

pkgtarget inspects the running machine, including any Linux compatibility
layer on FreeBSD or NetBSD, and decides which of a package's declared
variants can run here.

Targets are written os[_arch[_env]], for example linux, linux_x64,
linux_arm64_musl, mac_arm64, win_x64 or unix.

` + SubtitleStyle.Render("Examples:") + `
  pkgtarget detect                      Show host capabilities
  pkgtarget satisfies linux_x64 unix    Check targets against this machine
  pkgtarget resolve ripgrep.cue         Pick a variant from a manifest
  pkgtarget env --shell-quote           Print compatibility-layer exports`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initialize(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/pkgtarget/config.cue)")
	root.PersistentFlags().StringVar(&app.flags.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	root.AddCommand(
		newDetectCommand(app),
		newSatisfiesCommand(app),
		newResolveCommand(app),
		newPrefixCommand(app),
		newEnvCommand(app),
		newConfigCommand(app),
	)

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// initialize loads configuration and configures logging. It runs before
// every subcommand, ahead of any detection or resolution.
func (a *App) initialize(ctx context.Context) error {
	cfg, err := a.configs.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.flags.configPath)})
	if err != nil {
		// Config errors are surfaced but never fatal.
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		cfg = config.DefaultConfig()
	}
	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}
	a.cfg = cfg

	return a.configureLogging()
}

// configureLogging installs charmbracelet/log as the slog handler.
func (a *App) configureLogging() error {
	level := a.cfg.Log.Level
	if a.flags.logLevel != "" {
		level = config.LogLevel(a.flags.logLevel)
	}
	if ok, errs := level.IsValid(); !ok {
		return issue.NewErrorContext().
			WithOperation("configure logging").
			WithSuggestion("Use one of: debug, info, warn, error").
			Wrap(errs[0]).
			BuildError()
	}

	lvl, err := charmlog.ParseLevel(level.String())
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	logger := charmlog.NewWithOptions(a.stderr, charmlog.Options{
		Prefix: config.AppName,
		Level:  lvl,
	})
	slog.SetDefault(slog.New(logger))
	return nil
}

// resolveEngine builds the engine on first use.
func (a *App) resolveEngine() (*engine.Engine, error) {
	if !a.engineDone {
		a.engine, a.engineErr = a.newEngine(a.cfg)
		a.engineDone = true
	}
	return a.engine, a.engineErr
}

// productionEngine applies the probe options, installs the compatibility
// policy and returns the process-wide engine.
func productionEngine(cfg *config.Config) (*engine.Engine, error) {
	opts, err := cfg.Compat.ProbeOptions()
	if err != nil {
		return nil, err
	}
	if err := platform.SetProbeOptions(opts); err != nil {
		slog.Debug("probe options not applied", "error", err)
	}
	if _, err := compat.Setup(platform.Detect(), cfg.Compat.Enabled); err != nil {
		slog.Debug("compatibility policy not installed", "error", err)
	}
	return engine.Default(), nil
}

// handleError prints command errors. ExitErrors without a cause are silent;
// their command already reported the outcome.
func (a *App) handleError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		if a.flags.verbose {
			a.renderIssue(w, issue.Get(exitErr.Issue))
		}
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.flags.verbose))

	if a.flags.verbose {
		if i, ok := issue.IssueOf(err); ok {
			a.renderIssue(w, i)
		}
	}
}

// renderIssue writes the catalog entry for i in the configured color
// scheme. A nil issue writes nothing.
func (a *App) renderIssue(w io.Writer, i *issue.Issue) {
	if i == nil {
		return
	}
	style := config.ColorSchemeAuto
	if a.cfg != nil && a.cfg.UI.ColorScheme != "" {
		style = a.cfg.UI.ColorScheme
	}
	rendered, err := i.Render(style.String())
	if err != nil {
		slog.Debug("issue not rendered", "issue", i.Id(), "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
