// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"slices"

	"github.com/invowk/cargoflow/internal/dag"
)

// MaxDepth bounds include expansion. Construction already rejects cycles;
// the bound guards against pathological but acyclic tables.
const MaxDepth = 8

type (
	// Recipe is either a leaf holding Steps or a composite holding Includes.
	Recipe struct {
		Name        string
		Description string
		Steps       []Step
		Includes    []string
	}

	// Choice maps one parameter value to the recipe it selects.
	Choice struct {
		Value  string
		Recipe string
	}

	// Operation is a named entry point with a single optional parameter.
	Operation struct {
		Name        string
		Description string
		// Param is the parameter's display name ("mode", "suite").
		Param   string
		Default string
		Choices []Choice
	}

	// Table is the immutable, process-wide recipe configuration.
	Table struct {
		operations []Operation
		byOp       map[string]int
		recipes    map[string]Recipe
	}
)

// IsComposite reports whether the recipe is built from other recipes.
func (r Recipe) IsComposite() bool {
	return len(r.Includes) > 0
}

// Values returns the declared parameter values in order.
func (o Operation) Values() []string {
	out := make([]string, 0, len(o.Choices))
	for _, c := range o.Choices {
		out = append(out, c.Value)
	}
	return out
}

// RecipeFor returns the recipe selected by value.
func (o Operation) RecipeFor(value string) (string, bool) {
	for _, c := range o.Choices {
		if c.Value == value {
			return c.Recipe, true
		}
	}
	return "", false
}

// NewTable validates and freezes operations and recipes.
func NewTable(operations []Operation, recipes []Recipe) (*Table, error) {
	t := &Table{
		byOp:    make(map[string]int, len(operations)),
		recipes: make(map[string]Recipe, len(recipes)),
	}

	for _, r := range recipes {
		if r.Name == "" {
			return nil, &TableError{Reason: "recipe with empty name"}
		}
		if _, dup := t.recipes[r.Name]; dup {
			return nil, &TableError{Recipe: r.Name, Reason: "declared twice"}
		}
		if (len(r.Steps) == 0) == (len(r.Includes) == 0) {
			return nil, &TableError{Recipe: r.Name, Reason: "must hold either steps or includes"}
		}
		t.recipes[r.Name] = cloneRecipe(r)
	}

	g := dag.New()
	for _, r := range recipes {
		g.AddNode(r.Name)
		for _, inc := range r.Includes {
			if _, ok := t.recipes[inc]; !ok {
				return nil, &TableError{Recipe: r.Name, Reason: fmt.Sprintf("includes unknown recipe %q", inc)}
			}
			g.AddEdge(r.Name, inc)
		}
	}
	if _, err := g.TopologicalSort(); err != nil {
		return nil, &TableError{Reason: err.Error()}
	}

	for i, op := range operations {
		if op.Name == "" {
			return nil, &TableError{Reason: "operation with empty name"}
		}
		if _, dup := t.byOp[op.Name]; dup {
			return nil, &TableError{Reason: fmt.Sprintf("operation %q declared twice", op.Name)}
		}
		if len(op.Choices) == 0 {
			return nil, &TableError{Reason: fmt.Sprintf("operation %q declares no choices", op.Name)}
		}
		for _, c := range op.Choices {
			if _, ok := t.recipes[c.Recipe]; !ok {
				return nil, &TableError{Recipe: c.Recipe, Reason: fmt.Sprintf("selected by %s %s but not declared", op.Name, c.Value)}
			}
		}
		if _, ok := op.RecipeFor(op.Default); !ok {
			return nil, &TableError{Reason: fmt.Sprintf("operation %q default %q is not a choice", op.Name, op.Default)}
		}
		op.Choices = slices.Clone(op.Choices)
		t.byOp[op.Name] = i
		t.operations = append(t.operations, op)
	}

	// Expanding every recipe once proves the depth bound holds for the table.
	for name := range t.recipes {
		if _, err := t.Expand(name); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Operations returns the operations in declaration order.
func (t *Table) Operations() []Operation {
	out := make([]Operation, len(t.operations))
	for i, op := range t.operations {
		op.Choices = slices.Clone(op.Choices)
		out[i] = op
	}
	return out
}

// Operation looks up an operation by name.
func (t *Table) Operation(name string) (Operation, bool) {
	i, ok := t.byOp[name]
	if !ok {
		return Operation{}, false
	}
	op := t.operations[i]
	op.Choices = slices.Clone(op.Choices)
	return op, true
}

// Recipe looks up a recipe by name.
func (t *Table) Recipe(name string) (Recipe, bool) {
	r, ok := t.recipes[name]
	if !ok {
		return Recipe{}, false
	}
	return cloneRecipe(r), true
}

// Resolve expands an operation and parameter value into ordered steps. An
// empty value selects the operation's default.
func (t *Table) Resolve(operation, value string) ([]Step, error) {
	op, ok := t.Operation(operation)
	if !ok {
		known := make([]string, 0, len(t.operations))
		for _, o := range t.operations {
			known = append(known, o.Name)
		}
		return nil, &UnknownOperationError{Name: operation, Known: known}
	}
	if value == "" {
		value = op.Default
	}
	name, ok := op.RecipeFor(value)
	if !ok {
		return nil, &UnknownParameterError{
			Operation: op.Name,
			Param:     op.Param,
			Value:     value,
			Valid:     op.Values(),
		}
	}
	return t.Expand(name)
}

// Expand flattens a recipe into steps, depth first in declared order.
func (t *Table) Expand(name string) ([]Step, error) {
	var out []Step
	if err := t.expand(name, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Table) expand(name string, depth int, out *[]Step) error {
	if depth > MaxDepth {
		return &DepthExceededError{Recipe: name, Depth: MaxDepth}
	}
	r, ok := t.recipes[name]
	if !ok {
		return &TableError{Recipe: name, Reason: "not declared"}
	}
	if !r.IsComposite() {
		for _, s := range r.Steps {
			*out = append(*out, s.clone())
		}
		return nil
	}
	for _, inc := range r.Includes {
		if err := t.expand(inc, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

func cloneRecipe(r Recipe) Recipe {
	out := r
	out.Includes = slices.Clone(r.Includes)
	out.Steps = make([]Step, len(r.Steps))
	for i, s := range r.Steps {
		out.Steps[i] = s.clone()
	}
	return out
}
