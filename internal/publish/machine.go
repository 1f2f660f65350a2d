// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"io"

	"github.com/invowk/cargoflow/internal/recipe"
	"github.com/invowk/cargoflow/internal/toolchain"
	"github.com/invowk/cargoflow/pkg/types"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"
)

const (
	// DefaultRemote receives the release tag when none is given.
	DefaultRemote = "upstream"
	// DefaultBranch is the only branch releases are cut from.
	DefaultBranch = "master"
)

type (
	// Runner executes the tag and push steps.
	Runner interface {
		Run(ctx context.Context, step recipe.Step) (types.ExitCode, error)
	}

	// Options tune a Machine. Zero fields take defaults.
	Options struct {
		Branch        string
		Remote        string
		ChangelogName string
		ManifestName  string
		// Sign creates a GPG-signed annotated tag.
		Sign bool
		// DryRun evaluates the guards and hands tag and push to the runner
		// without asking for confirmation. The runner is expected to print
		// rather than execute.
		DryRun bool
		// Preview, when set, is called after the guards pass and before the
		// confirmation prompt.
		Preview func(ctx context.Context, version string)
		Logger  *log.Logger
	}

	// Request is one release attempt.
	Request struct {
		Version string
		// Remote overrides Options.Remote.
		Remote string
	}

	// Result describes how far a release got.
	Result struct {
		State State
		Trace []State
		// Code is the exit status for the attempt.
		Code types.ExitCode
	}

	// Machine runs the release flow.
	Machine struct {
		repo      Repository
		records   ReleaseRecords
		confirmer Confirmer
		runner    Runner
		opts      Options
		logger    *log.Logger
	}
)

// NewMachine wires the collaborators of the release flow.
func NewMachine(repo Repository, records ReleaseRecords, confirmer Confirmer, runner Runner, opts Options) *Machine {
	if opts.Branch == "" {
		opts.Branch = DefaultBranch
	}
	if opts.Remote == "" {
		opts.Remote = DefaultRemote
	}
	if opts.ChangelogName == "" {
		opts.ChangelogName = "CHANGELOG.md"
	}
	if opts.ManifestName == "" {
		opts.ManifestName = "Cargo.toml"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Machine{
		repo:      repo,
		records:   records,
		confirmer: confirmer,
		runner:    runner,
		opts:      opts,
		logger:    logger,
	}
}

// ValidateVersion checks that version is a full semantic version such as
// 2.3.0 or 2.3.0-rc.1.
func ValidateVersion(version string) error {
	v := "v" + version
	if !semver.IsValid(v) || semver.Canonical(v)+semver.Build(v) != v {
		return &InvalidVersionError{Version: version}
	}
	return nil
}

// TagStep creates the annotated release tag.
func TagStep(version string, sign bool) recipe.Step {
	kind := "-a"
	if sign {
		kind = "-s"
	}
	tag := "v" + version
	return recipe.Step{
		Name:     "tag " + tag,
		Category: toolchain.CategoryVCS,
		Selector: recipe.SelectorNone,
		Action:   recipe.ActionExec,
		Command:  "git",
		Args:     []string{"tag", kind, tag, "-m", "Release " + tag},
	}
}

// PushStep pushes the release tag to remote.
func PushStep(remote, version string) recipe.Step {
	tag := "v" + version
	return recipe.Step{
		Name:     "push " + tag,
		Category: toolchain.CategoryVCS,
		Selector: recipe.SelectorNone,
		Action:   recipe.ActionExec,
		Command:  "git",
		Args:     []string{"push", remote, tag},
	}
}

// Run walks the release flow for req. The returned error is nil only when
// the flow reached Done.
func (m *Machine) Run(ctx context.Context, req Request) (Result, error) {
	res := Result{State: Idle, Trace: []State{Idle}}

	if err := ValidateVersion(req.Version); err != nil {
		return m.abort(res, types.ExitUsage), err
	}
	remote := req.Remote
	if remote == "" {
		remote = m.opts.Remote
	}

	for _, g := range m.Guards(req.Version) {
		res = m.enter(res, g.State)
		ok, err := g.Check(ctx)
		if err != nil || !ok {
			m.logger.Debug("guard failed", "guard", g.Name, "err", err)
			return m.abort(res, types.ExitFailure), &GuardError{State: g.State, Message: g.Message, Cause: err}
		}
	}

	if m.opts.Preview != nil {
		m.opts.Preview(ctx, req.Version)
	}

	res = m.enter(res, Confirm)
	if !m.opts.DryRun {
		ok, err := m.confirmer.Confirm(ctx, Prompt(req.Version))
		if err != nil {
			return m.abort(res, types.ExitFailure), err
		}
		if !ok {
			return m.abort(res, types.ExitFailure), ErrCancelled
		}
	}

	steps := []struct {
		state State
		step  recipe.Step
	}{
		{Tag, TagStep(req.Version, m.opts.Sign)},
		{Push, PushStep(remote, req.Version)},
	}
	for _, s := range steps {
		res = m.enter(res, s.state)
		if code, err := m.runner.Run(ctx, s.step); err != nil {
			return m.abort(res, code), err
		}
	}

	res = m.enter(res, Done)
	res.Code = types.ExitSuccess
	return res, nil
}

func (m *Machine) enter(res Result, s State) Result {
	m.logger.Debug("publish state", "state", s)
	res.State = s
	res.Trace = append(res.Trace, s)
	return res
}

func (m *Machine) abort(res Result, code types.ExitCode) Result {
	res = m.enter(res, Aborted)
	if code.IsSuccess() {
		code = types.ExitFailure
	}
	res.Code = code
	return res
}
