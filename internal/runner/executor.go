// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"

	"github.com/invowk/cargoflow/pkg/types"
)

type (
	// ExecRequest describes one external command.
	ExecRequest struct {
		Command string
		Args    []string
		// Env holds overrides appended to the inherited environment.
		Env map[string]string
		// Dir is the working directory; empty inherits the process cwd.
		Dir    string
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Executor runs an external command to completion. A command that ran
	// and exited non-zero yields its code and a nil error; the error is
	// reserved for commands that could not run at all.
	Executor interface {
		Execute(ctx context.Context, req ExecRequest) (types.ExitCode, error)
	}

	// NativeExecutor runs commands with os/exec, streaming their output.
	NativeExecutor struct{}
)

// NewNativeExecutor creates an executor backed by os/exec.
func NewNativeExecutor() *NativeExecutor {
	return &NativeExecutor{}
}

// Execute implements Executor.
func (e *NativeExecutor) Execute(ctx context.Context, req ExecRequest) (types.ExitCode, error) {
	cmd := exec.CommandContext(ctx, req.Command, req.Args...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), envToSlice(req.Env)...)
	}
	cmd.Stdin = req.Stdin
	cmd.Stdout = req.Stdout
	cmd.Stderr = req.Stderr

	return extractExitCode(cmd.Run())
}

// extractExitCode maps the result of cmd.Run to an exit code. Commands that
// ran report their own status; anything else (not found, permission denied)
// is an infrastructure failure reported as ExitFailure with the cause.
func extractExitCode(err error) (types.ExitCode, error) {
	if err == nil {
		return types.ExitSuccess, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := types.ExitCode(exitErr.ExitCode())
		if code.Validate() != nil {
			// Killed by a signal (-1) or out of range.
			return types.ExitFailure, nil
		}
		return code, nil
	}

	return types.ExitFailure, fmt.Errorf("failed to execute command: %w", err)
}

func envToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}
