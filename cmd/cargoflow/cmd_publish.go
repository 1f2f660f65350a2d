// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/invowk/cargoflow/internal/issue"
	"github.com/invowk/cargoflow/internal/manifest"
	"github.com/invowk/cargoflow/internal/publish"
	"github.com/invowk/cargoflow/internal/vcs"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newPublishCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <version> [remote]",
		Short: "Tag a release and push the tag",
		Long: `Create the annotated tag v<version> and push it to remote (default
from release.remote, "upstream" unless configured).

Before anything is tagged, every check must pass, in order:
  1. no staged or unstaged changes to tracked files
  2. the release branch is checked out
  3. the changelog has a "## v<version>" entry
  4. the manifest version equals <version>

The changelog entry is then shown and the release must be confirmed with
"y". With --dry-run the checks run but the tag and push are only printed.`,
		Example: `  cargoflow publish 2.3.0
  cargoflow publish 2.3.0 origin
  cargoflow --dry-run publish 2.3.0-rc.1`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote := ""
			if len(args) > 1 {
				remote = args[1]
			}
			return app.runPublish(cmd.Context(), flags, args[0], remote)
		},
	}
}

func (a *App) runPublish(ctx context.Context, flags *globalFlags, version, remote string) error {
	s, err := a.newSession(ctx, flags)
	if err != nil {
		return failure(err)
	}

	if err := publish.ValidateVersion(version); err != nil {
		a.printGuide(s, err)
		return usageError(err)
	}

	dir := s.dir
	if dir == "" {
		dir = "."
	}
	repo, err := a.OpenRepository(dir)
	if err != nil {
		aerr := issue.NewErrorContext().
			WithOperation("open repository").
			WithResource(dir).
			WithIssue(issue.NotARepositoryID).
			Wrap(err).
			BuildError()
		a.printGuide(s, aerr)
		return failure(aerr)
	}

	rel := s.cfg.Release
	records := manifest.NewRecords(s.dir, rel.Changelog, rel.Manifest)
	m := publish.NewMachine(repo, records, a.confirmer(), s.invoker, publish.Options{
		Branch:        rel.Branch,
		Remote:        rel.Remote,
		ChangelogName: filepath.Base(rel.Changelog),
		ManifestName:  filepath.Base(rel.Manifest),
		Sign:          rel.Sign,
		DryRun:        s.dryRun,
		Preview:       a.changelogPreview(s, records),
		Logger:        s.logger,
	})

	if s.dryRun {
		fmt.Fprintln(a.stdout, TitleStyle.Render("Dry run: publish v"+version))
	}

	res, err := m.Run(ctx, publish.Request{Version: version, Remote: remote})
	if err != nil {
		a.printGuide(s, err)
		return &ExitError{Code: res.Code, Err: err}
	}

	if remote == "" {
		remote = rel.Remote
	}
	if s.dryRun {
		fmt.Fprintln(a.stdout, WarningStyle.Render("dry run: nothing was tagged or pushed"))
		return nil
	}
	fmt.Fprintln(a.stderr, SuccessStyle.Render(fmt.Sprintf("✓ Published v%s to %s", version, remote)))
	return nil
}

// changelogPreview renders the version's changelog section before the
// confirmation prompt.
func (a *App) changelogPreview(s *session, records *manifest.Records) func(context.Context, string) {
	return func(_ context.Context, version string) {
		entry, ok, err := records.ChangelogEntry(version)
		if err != nil || !ok {
			s.logger.Debug("no changelog entry to preview", "version", version, "err", err)
			return
		}
		out, err := glamour.Render(entry, s.mdStyle)
		if err != nil {
			s.logger.Debug("render changelog entry", "err", err)
			out = entry + "\n"
		}
		fmt.Fprint(a.stdout, out)
	}
}

// guideFor picks the remediation guide for a command error.
func guideFor(err error) *issue.Issue {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Guide() != nil {
		return ae.Guide()
	}

	var gerr *publish.GuardError
	if errors.As(err, &gerr) {
		switch gerr.State {
		case publish.CheckTree:
			return issue.Get(issue.UncommittedChangesID)
		case publish.CheckBranch:
			return issue.Get(issue.WrongBranchID)
		case publish.CheckChangelog:
			return issue.Get(issue.ChangelogEntryMissingID)
		case publish.CheckManifest:
			return issue.Get(issue.ManifestMismatchID)
		}
	}

	switch {
	case errors.Is(err, publish.ErrInvalidVersion):
		return issue.Get(issue.InvalidVersionID)
	case errors.Is(err, vcs.ErrNotRepository):
		return issue.Get(issue.NotARepositoryID)
	case isStartFailure(err):
		return issue.Get(issue.ToolNotFoundID)
	case isStepFailure(err):
		return issue.Get(issue.StepFailedID)
	}
	return nil
}

// printGuide renders the remediation guide for err in verbose mode.
func (a *App) printGuide(s *session, err error) {
	if !s.verbose {
		return
	}
	if ae, ok := asActionable(err); ok {
		fmt.Fprintln(a.stderr, ErrorStyle.Render("✗ ")+ae.Format(true))
	}
	guide := guideFor(err)
	if guide == nil {
		return
	}
	out, rerr := guide.Render(s.mdStyle)
	if rerr != nil {
		out = guide.Markdown()
	}
	fmt.Fprint(a.stderr, out)
}

func asActionable(err error) (*issue.ActionableError, bool) {
	var ae *issue.ActionableError
	ok := errors.As(err, &ae)
	return ae, ok
}
