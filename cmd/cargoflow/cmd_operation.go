// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/cargoflow/internal/dispatch"
	"github.com/invowk/cargoflow/internal/recipe"

	"github.com/spf13/cobra"
)

func newCheckCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [verify|fix]",
		Short: "Formatting, lint, type and documentation checks",
		Long: `Run the static checks on the pinned nightly toolchain, and the
documentation build on the stable toolchain.

  verify  fail on the first formatting, lint, type or documentation issue (default)
  fix     apply formatter and clippy fixes in place`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{recipe.ModeVerify, recipe.ModeFix},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOperation(cmd.Context(), flags, recipe.OpCheck, firstArg(args))
		},
	}
}

func newTestCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "test [features|msrv|constraints|all]",
		Short: "Run a test suite",
		Long: `Run one test suite, stopping at the first failing step.

  features     the feature flag matrix (default)
  msrv         verify the minimum supported Rust version
  constraints  build at minimum and maximum dependency versions
  all          features, then msrv, then constraints`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{recipe.SuiteFeatures, recipe.SuiteMSRV, recipe.SuiteConstraints, recipe.SuiteAll},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOperation(cmd.Context(), flags, recipe.OpTest, firstArg(args))
		},
	}
}

// runOperation resolves and runs a table operation.
func (a *App) runOperation(ctx context.Context, flags *globalFlags, operation, value string) error {
	s, err := a.newSession(ctx, flags)
	if err != nil {
		return failure(err)
	}

	d, err := newDispatcher(s)
	if err != nil {
		return failure(err)
	}

	plan, err := d.Plan(operation, value)
	if err != nil {
		if errors.Is(err, recipe.ErrUsage) {
			return usageError(err)
		}
		return failure(err)
	}
	label := plan.Operation + " " + plan.Value

	if s.dryRun {
		fmt.Fprintln(a.stdout, TitleStyle.Render("Dry run: "+label))
	}

	code, err := d.Execute(ctx, operation, plan.Value)
	if err != nil {
		a.printGuide(s, err)
		return &ExitError{Code: code, Err: err}
	}

	if !s.dryRun {
		fmt.Fprintln(a.stderr, SuccessStyle.Render(fmt.Sprintf("✓ %s passed (%d steps)", label, len(plan.Steps))))
	}
	return nil
}

func newDispatcher(s *session) (*dispatch.Dispatcher, error) {
	table, err := recipe.NewBuiltinTable(s.cfg.RecipeOptions())
	if err != nil {
		return nil, err
	}
	return dispatch.New(table, s.invoker), nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(args[0])
}
