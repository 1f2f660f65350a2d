// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/cargoflow/internal/recipe"
	"github.com/invowk/cargoflow/internal/runner"
	"github.com/invowk/cargoflow/pkg/types"
)

func newDispatcher(t *testing.T, exec runner.Executor) *Dispatcher {
	t.Helper()

	table, err := recipe.NewBuiltinTable(recipe.DefaultOptions())
	if err != nil {
		t.Fatalf("NewBuiltinTable() error = %v", err)
	}
	return New(table, runner.NewInvoker(exec))
}

func TestExecuteUsageErrorRunsNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		operation string
		value     string
	}{
		{"unknown operation", "deploy", ""},
		{"unknown check mode", recipe.OpCheck, "strict"},
		{"unknown suite", recipe.OpTest, "integration"},
		{"case matters", recipe.OpTest, "All"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := runner.NewRecordingExecutor()
			d := newDispatcher(t, rec)

			code, err := d.Execute(context.Background(), tt.operation, tt.value)
			if !errors.Is(err, recipe.ErrUsage) {
				t.Errorf("err = %v, want ErrUsage", err)
			}
			if code != types.ExitUsage {
				t.Errorf("code = %d, want %d", code, types.ExitUsage)
			}
			if len(rec.Calls) != 0 {
				t.Errorf("executed %v on a usage error", rec.CommandLines())
			}
		})
	}
}

func TestExecuteTestAllFailFast(t *testing.T) {
	t.Parallel()

	// The first feature-matrix step fails.
	rec := runner.NewRecordingExecutor().FailCall(0, 101)
	d := newDispatcher(t, rec)

	code, err := d.Execute(context.Background(), recipe.OpTest, recipe.SuiteAll)
	if code != 101 {
		t.Errorf("code = %d, want 101", code)
	}
	var failed *runner.StepFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want *runner.StepFailedError", err)
	}
	if len(rec.Calls) != 1 {
		t.Fatalf("calls = %v, want only the failing step", rec.CommandLines())
	}
	for _, line := range rec.CommandLines() {
		if strings.Contains(line, "msrv") || strings.Contains(line, "direct-minimal-versions") {
			t.Errorf("later suite ran: %s", line)
		}
	}
}

func TestExecuteConstraintsReportsExtreme(t *testing.T) {
	t.Parallel()

	// Lockfile removals run natively, so call 1 is the maximum check.
	rec := runner.NewRecordingExecutor().FailCall(1, 101)
	d := newDispatcher(t, rec)

	_, err := d.Execute(context.Background(), recipe.OpTest, recipe.SuiteConstraints)
	var failed *runner.StepFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("err = %v, want *runner.StepFailedError", err)
	}
	if failed.Step.Name != recipe.StepMaximumVersions {
		t.Errorf("failed step = %q, want %q", failed.Step.Name, recipe.StepMaximumVersions)
	}
}

func TestExecuteSuccessRunsEveryStep(t *testing.T) {
	t.Parallel()

	rec := runner.NewRecordingExecutor()
	d := newDispatcher(t, rec)

	code, err := d.Execute(context.Background(), recipe.OpCheck, "")
	if err != nil || code != types.ExitSuccess {
		t.Fatalf("Execute() = %d, %v", code, err)
	}

	want := []string{
		"rustup component add rustfmt clippy --toolchain nightly-2025-07-10",
		"cargo +nightly-2025-07-10 fmt --check --all",
		"cargo +nightly-2025-07-10 clippy --workspace --all-features --all-targets -- -D warnings",
		"cargo +nightly-2025-07-10 check --workspace --all-features --all-targets",
		"cargo +1.63.0 doc --workspace --all-features --no-deps",
	}
	if got := rec.CommandLines(); !slices.Equal(got, want) {
		t.Errorf("commands =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, runner.NewRecordingExecutor())

	first, err := d.Plan(recipe.OpTest, "")
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if first.Value != recipe.SuiteFeatures {
		t.Errorf("Value = %q, want default %q", first.Value, recipe.SuiteFeatures)
	}

	second, _ := d.Plan(recipe.OpTest, recipe.SuiteFeatures)
	if len(first.Steps) != len(second.Steps) {
		t.Fatalf("plans differ in length: %d vs %d", len(first.Steps), len(second.Steps))
	}
	for i := range first.Steps {
		if first.Steps[i].String() != second.Steps[i].String() {
			t.Errorf("step %d: %q vs %q", i, first.Steps[i], second.Steps[i])
		}
	}

	// Mutating a plan does not leak into the table.
	first.Steps[0].Args[0] = "mutated"
	third, _ := d.Plan(recipe.OpTest, "")
	if third.Steps[0].Args[0] == "mutated" {
		t.Error("plan shares storage with the table")
	}
}

func TestPlanUnknownParameter(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, runner.NewRecordingExecutor())
	_, err := d.Plan(recipe.OpCheck, "lenient")

	var unknown *recipe.UnknownParameterError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want *recipe.UnknownParameterError", err)
	}
	if !slices.Equal(unknown.Valid, []string{recipe.ModeVerify, recipe.ModeFix}) {
		t.Errorf("Valid = %v", unknown.Valid)
	}
}
