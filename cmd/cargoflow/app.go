// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/invowk/cargoflow/internal/config"
	"github.com/invowk/cargoflow/internal/publish"
	"github.com/invowk/cargoflow/internal/runner"
	"github.com/invowk/cargoflow/internal/vcs"

	"github.com/charmbracelet/log"
)

type (
	// App is the composition root of the CLI. Every handler receives it and
	// reaches external systems only through its fields.
	App struct {
		Config         config.Provider
		Executor       runner.Executor
		OpenRepository RepositoryOpener
		// Confirmer answers the publish prompt; nil reads a line from stdin.
		Confirmer publish.Confirmer
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config         config.Provider
		Executor       runner.Executor
		OpenRepository RepositoryOpener
		Confirmer      publish.Confirmer
		Stdin          io.Reader
		Stdout         io.Writer
		Stderr         io.Writer
	}

	// RepositoryOpener opens the repository enclosing dir.
	RepositoryOpener func(dir string) (publish.Repository, error)

	// globalFlags are the persistent root flags.
	globalFlags struct {
		configPath string
		verbose    bool
		dryRun     bool
		dir        string
	}

	// session is the per-invocation state derived from flags and configuration.
	session struct {
		cfg     *config.Config
		cfgPath string
		dir     string
		verbose bool
		dryRun  bool
		logger  *log.Logger
		mdStyle string
		invoker *runner.Invoker
	}
)

// NewApp creates an App, filling in production defaults.
func NewApp(deps Dependencies) *App {
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Executor == nil {
		deps.Executor = runner.NewNativeExecutor()
	}
	if deps.OpenRepository == nil {
		deps.OpenRepository = func(dir string) (publish.Repository, error) {
			return vcs.Open(dir)
		}
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	return &App{
		Config:         deps.Config,
		Executor:       deps.Executor,
		OpenRepository: deps.OpenRepository,
		Confirmer:      deps.Confirmer,
		stdin:          deps.Stdin,
		stdout:         deps.Stdout,
		stderr:         deps.Stderr,
	}
}

// newSession loads configuration and builds the step invoker for one
// command invocation.
func (a *App) newSession(ctx context.Context, flags *globalFlags) (*session, error) {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		BaseDir:        flags.dir,
	})
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		cfgPath: path,
		dir:     flags.dir,
		verbose: flags.verbose || cfg.UI.Verbose,
		dryRun:  flags.dryRun,
		mdStyle: applyColorScheme(cfg.UI.ColorScheme),
	}
	s.logger = newLogger(a.stderr, s.verbose)
	if path != "" {
		s.logger.Debug("loaded configuration", "path", path)
	}

	opts := []runner.Option{
		runner.WithLogger(s.logger),
		runner.WithDir(s.dir),
		runner.WithIO(a.stdin, a.stdout, a.stderr),
	}
	if s.dryRun {
		opts = append(opts, runner.WithDryRun(a.stdout))
	}
	s.invoker = runner.NewInvoker(a.Executor, opts...)
	return s, nil
}

func (a *App) confirmer() publish.Confirmer {
	if a.Confirmer != nil {
		return a.Confirmer
	}
	return publish.NewLineConfirmer(a.stdin, a.stdout)
}
