// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/invowk/cargoflow/internal/toolchain"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// SelectorPlus places the toolchain as a rustup proxy override:
	// cargo +<toolchain> <args>.
	SelectorPlus Selector = iota
	// SelectorFlag appends --toolchain <toolchain>, for rustup itself.
	SelectorFlag
	// SelectorNone passes no toolchain.
	SelectorNone
)

const (
	// ActionExec runs an external command.
	ActionExec Action = iota
	// ActionRemoveFile deletes a file, ignoring a missing one (rm -f).
	ActionRemoveFile
)

type (
	// Selector controls how a step's toolchain reaches its command line.
	Selector uint8

	// Action is the kind of work a step performs.
	Action uint8

	// Step is one ordered unit of work. Steps are plain values recreated on
	// every resolution; the table hands out deep copies.
	Step struct {
		// Name labels the step in logs and failure messages.
		Name string
		// Category drives toolchain selection.
		Category toolchain.Category
		// Toolchain is the resolved toolchain, empty for SelectorNone.
		Toolchain toolchain.ID
		Selector  Selector
		Action    Action
		// Command is the program to run. Unused by ActionRemoveFile.
		Command string
		// Args excludes the toolchain selector. For ActionRemoveFile it holds
		// the single path to delete.
		Args []string
		// Env holds overrides applied on top of the inherited environment.
		Env map[string]string
	}
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionExec:
		return "exec"
	case ActionRemoveFile:
		return "remove-file"
	default:
		return "unknown"
	}
}

// RemoveFile builds a step that deletes path if present.
func RemoveFile(name, path string) Step {
	return Step{
		Name:     name,
		Category: toolchain.CategoryDependencyExtremes,
		Selector: SelectorNone,
		Action:   ActionRemoveFile,
		Args:     []string{path},
	}
}

// Path returns the target of an ActionRemoveFile step.
func (s Step) Path() string {
	if s.Action != ActionRemoveFile || len(s.Args) == 0 {
		return ""
	}
	return s.Args[0]
}

// Argv returns the arguments passed to Command, with the toolchain placed
// according to the selector.
func (s Step) Argv() []string {
	if s.Toolchain == "" {
		return slices.Clone(s.Args)
	}
	switch s.Selector {
	case SelectorPlus:
		return append([]string{"+" + s.Toolchain.String()}, s.Args...)
	case SelectorFlag:
		return append(slices.Clone(s.Args), "--toolchain", s.Toolchain.String())
	default:
		return slices.Clone(s.Args)
	}
}

// EnvKeys returns the override keys in sorted order.
func (s Step) EnvKeys() []string {
	return slices.Sorted(maps.Keys(s.Env))
}

// String renders the step as a bash command line.
func (s Step) String() string {
	var sb strings.Builder
	for _, k := range s.EnvKeys() {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(quote(s.Env[k]))
		sb.WriteByte(' ')
	}

	if s.Action == ActionRemoveFile {
		sb.WriteString("rm -f ")
		sb.WriteString(quote(s.Path()))
		return sb.String()
	}

	sb.WriteString(quote(s.Command))
	for _, a := range s.Argv() {
		sb.WriteByte(' ')
		sb.WriteString(quote(a))
	}
	return sb.String()
}

func (s Step) clone() Step {
	out := s
	out.Args = slices.Clone(s.Args)
	if s.Env != nil {
		out.Env = maps.Clone(s.Env)
	}
	return out
}

func quote(v string) string {
	q, err := syntax.Quote(v, syntax.LangBash)
	if err != nil {
		return strconv.Quote(v)
	}
	return q
}
