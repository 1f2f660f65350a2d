// SPDX-License-Identifier: MPL-2.0

// Package dispatch resolves named operations to steps and runs them.
package dispatch

import (
	"context"
	"errors"

	"github.com/invowk/cargoflow/internal/recipe"
	"github.com/invowk/cargoflow/pkg/types"
)

type (
	// StepRunner runs a resolved sequence, stopping at the first failure.
	StepRunner interface {
		RunAll(ctx context.Context, steps []recipe.Step) (types.ExitCode, error)
	}

	// Dispatcher couples the recipe table with a step runner.
	Dispatcher struct {
		table  *recipe.Table
		runner StepRunner
	}

	// Plan is the resolved form of one operation invocation.
	Plan struct {
		Operation string
		// Value is the effective parameter value, the default when none was given.
		Value string
		Steps []recipe.Step
	}
)

// New creates a Dispatcher.
func New(table *recipe.Table, runner StepRunner) *Dispatcher {
	return &Dispatcher{table: table, runner: runner}
}

// Table returns the underlying recipe table.
func (d *Dispatcher) Table() *recipe.Table {
	return d.table
}

// Resolve returns the ordered steps for an operation and parameter value.
func (d *Dispatcher) Resolve(operation, value string) ([]recipe.Step, error) {
	return d.table.Resolve(operation, value)
}

// Plan resolves an invocation and records the effective parameter.
func (d *Dispatcher) Plan(operation, value string) (Plan, error) {
	steps, err := d.table.Resolve(operation, value)
	if err != nil {
		return Plan{}, err
	}
	if value == "" {
		op, _ := d.table.Operation(operation)
		value = op.Default
	}
	return Plan{Operation: operation, Value: value, Steps: steps}, nil
}

// Execute resolves and runs an operation. Resolution errors are reported
// with ExitUsage before any step runs; otherwise the first failing step's
// code is returned unchanged.
func (d *Dispatcher) Execute(ctx context.Context, operation, value string) (types.ExitCode, error) {
	steps, err := d.table.Resolve(operation, value)
	if err != nil {
		if errors.Is(err, recipe.ErrUsage) {
			return types.ExitUsage, err
		}
		return types.ExitFailure, err
	}
	return d.runner.RunAll(ctx, steps)
}
