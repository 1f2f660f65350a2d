// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/invowk/cargoflow/pkg/types"

	"github.com/charmbracelet/fang"
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

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "cargoflow",
		Short: "Check, test and release a Rust crate",
		Long: TitleStyle.Render("cargoflow") + SubtitleStyle.Render(" - Check, test and release a Rust crate") + `

cargoflow expands a small set of operations into ordered cargo, rustup and
git invocations, each on its pinned toolchain, and stops at the first
failure. Releases are gated by working tree, branch, changelog and manifest
checks plus an explicit confirmation before anything is tagged or pushed.

` + SubtitleStyle.Render("Examples:") + `
  cargoflow check               Verify formatting, lints, types and docs
  cargoflow check fix           Apply formatter and lint fixes
  cargoflow test all            Run every test suite
  cargoflow -n test constraints Print the constraint matrix steps
  cargoflow publish 2.3.0       Tag v2.3.0 and push it to upstream`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ./cargoflow.cue, then the user config directory)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log each step before it runs")
	pf.BoolVarP(&flags.dryRun, "dry-run", "n", false, "print steps instead of running them")
	pf.StringVarP(&flags.dir, "dir", "C", "", "crate directory (default: current directory)")

	root.AddCommand(
		newCheckCommand(app, flags),
		newTestCommand(app, flags),
		newPublishCommand(app, flags),
		newListCommand(app, flags),
		newConfigCommand(app, flags),
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

// Execute runs the CLI and exits with the resulting code.
func Execute() {
	root := NewRootCommand(NewApp(Dependencies{}))
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(exitCode(err)))
	}
}

// exitCode maps a command error to the process status. Errors that are not
// ExitErrors come from cobra's argument and flag parsing.
func exitCode(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code.Normalize()
	}
	return types.ExitUsage
}
