// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/invowk/cargoflow/internal/recipe"
	"github.com/invowk/cargoflow/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// Invoker runs single steps and fail-fast sequences of steps.
	Invoker struct {
		executor Executor
		logger   *log.Logger
		dir      string
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
		dryRun   io.Writer
	}

	// Option configures an Invoker.
	Option func(*Invoker)
)

// WithLogger sets the logger for step tracing.
func WithLogger(l *log.Logger) Option {
	return func(i *Invoker) { i.logger = l }
}

// WithDir sets the working directory for steps and relative paths.
func WithDir(dir string) Option {
	return func(i *Invoker) { i.dir = dir }
}

// WithIO sets the streams handed to external commands.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(i *Invoker) {
		i.stdin, i.stdout, i.stderr = stdin, stdout, stderr
	}
}

// WithDryRun makes the Invoker print each step to w instead of running it.
func WithDryRun(w io.Writer) Option {
	return func(i *Invoker) { i.dryRun = w }
}

// NewInvoker creates an Invoker around an Executor.
func NewInvoker(executor Executor, opts ...Option) *Invoker {
	i := &Invoker{
		executor: executor,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = log.New(io.Discard)
	}
	return i
}

// DryRun reports whether steps are printed rather than executed.
func (i *Invoker) DryRun() bool {
	return i.dryRun != nil
}

// Run executes one step. A non-zero code always comes with a
// *StepFailedError.
func (i *Invoker) Run(ctx context.Context, step recipe.Step) (types.ExitCode, error) {
	if i.dryRun != nil {
		fmt.Fprintf(i.dryRun, "  $ %s\n", step)
		return types.ExitSuccess, nil
	}

	i.logger.Debug("running step", "step", step.Name, "cmd", step.String())

	code, err := i.run(ctx, step)
	if err == nil && code.IsSuccess() {
		return types.ExitSuccess, nil
	}
	if code.IsSuccess() {
		code = types.ExitFailure
	}
	i.logger.Error("step failed", "step", step.Name, "exit", code, "err", err)
	return code, &StepFailedError{Step: step, Code: code, Cause: err}
}

// RunAll executes steps in order and stops at the first failure.
func (i *Invoker) RunAll(ctx context.Context, steps []recipe.Step) (types.ExitCode, error) {
	for _, s := range steps {
		if code, err := i.Run(ctx, s); err != nil {
			return code, err
		}
	}
	return types.ExitSuccess, nil
}

func (i *Invoker) run(ctx context.Context, step recipe.Step) (types.ExitCode, error) {
	switch step.Action {
	case recipe.ActionRemoveFile:
		return i.removeFile(step.Path())
	case recipe.ActionExec:
		return i.executor.Execute(ctx, ExecRequest{
			Command: step.Command,
			Args:    step.Argv(),
			Env:     step.Env,
			Dir:     i.dir,
			Stdin:   i.stdin,
			Stdout:  i.stdout,
			Stderr:  i.stderr,
		})
	default:
		return types.ExitFailure, fmt.Errorf("unsupported step action %v", step.Action)
	}
}

func (i *Invoker) removeFile(path string) (types.ExitCode, error) {
	if path == "" {
		return types.ExitFailure, errors.New("no path to remove")
	}
	if !filepath.IsAbs(path) && i.dir != "" {
		path = filepath.Join(i.dir, path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return types.ExitFailure, fmt.Errorf("remove %s: %w", path, err)
	}
	return types.ExitSuccess, nil
}
