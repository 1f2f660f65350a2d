// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/invowk/cargoflow/internal/issue"
	"github.com/invowk/cargoflow/internal/publish"
	"github.com/invowk/cargoflow/internal/runner"
	"github.com/invowk/cargoflow/internal/testutil"
	"github.com/invowk/cargoflow/internal/vcs"
	"github.com/invowk/cargoflow/pkg/types"
)

func newPublishHarness(t *testing.T, manifestVersion string, entries ...string) *harness {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteCrate(t, dir, manifestVersion, entries...)
	h := newHarness()
	h.dir = dir
	return h
}

func TestPublishTagsAndPushes(t *testing.T) {
	t.Parallel()

	h := newPublishHarness(t, "2.3.0", "2.3.0")
	var prompt string
	h.deps.Confirmer = publish.ConfirmFunc(func(_ context.Context, p string) (bool, error) {
		prompt = p
		return true, nil
	})

	code, err := h.run(t, "-C", h.dir, "publish", "2.3.0")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if code != types.ExitSuccess {
		t.Errorf("code = %d, want 0", code)
	}
	if prompt != publish.Prompt("2.3.0") {
		t.Errorf("prompt = %q", prompt)
	}

	want := []string{
		`git tag -a v2.3.0 -m Release v2.3.0`,
		`git push upstream v2.3.0`,
	}
	got := h.exec.CommandLines()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
	if !strings.Contains(h.stdout.String(), "Changes in 2.3.0") {
		t.Errorf("changelog entry not previewed: %q", h.stdout.String())
	}
}

func TestPublishRemoteArgument(t *testing.T) {
	t.Parallel()

	h := newPublishHarness(t, "2.3.0", "2.3.0")
	if _, err := h.run(t, "-C", h.dir, "publish", "2.3.0", "origin"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	lines := h.exec.CommandLines()
	if len(lines) != 2 || lines[1] != "git push origin v2.3.0" {
		t.Errorf("calls = %v", lines)
	}
}

func TestPublishGuardFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		repo     *fakeRepo
		manifest string
		entries  []string
		wantMsg  string
		wantID   issue.ID
	}{
		{"dirty tree", &fakeRepo{clean: false, branch: "master"}, "2.3.0", []string{"2.3.0"}, "Uncommitted changes", issue.UncommittedChangesID},
		{"wrong branch", &fakeRepo{clean: true, branch: "feature"}, "2.3.0", []string{"2.3.0"}, "Not on master branch", issue.WrongBranchID},
		{"missing entry", &fakeRepo{clean: true, branch: "master"}, "2.3.0", []string{"2.2.0"}, "CHANGELOG.md entry missing for v2.3.0", issue.ChangelogEntryMissingID},
		{"manifest mismatch", &fakeRepo{clean: true, branch: "master"}, "2.2.0", []string{"2.3.0"}, "Cargo.toml version mismatch", issue.ManifestMismatchID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newPublishHarness(t, tt.manifest, tt.entries...)
			h.deps.OpenRepository = func(string) (publish.Repository, error) { return tt.repo, nil }
			asked := false
			h.deps.Confirmer = publish.ConfirmFunc(func(context.Context, string) (bool, error) {
				asked = true
				return true, nil
			})

			code, err := h.run(t, "-C", h.dir, "publish", "2.3.0")
			if err == nil {
				t.Fatal("expected guard failure")
			}
			if code != types.ExitFailure {
				t.Errorf("code = %d, want 1", code)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
			if asked {
				t.Error("confirmation requested after a failed guard")
			}
			if len(h.exec.Calls) != 0 {
				t.Errorf("executor called %d times, want 0", len(h.exec.Calls))
			}
			if g := guideFor(err); g == nil || g.ID() != tt.wantID {
				t.Errorf("guideFor() = %v, want issue %d", g, tt.wantID)
			}
		})
	}
}

func TestPublishDeclined(t *testing.T) {
	t.Parallel()

	h := newPublishHarness(t, "2.3.0", "2.3.0")
	h.deps.Confirmer = publish.ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })

	code, err := h.run(t, "-C", h.dir, "publish", "2.3.0")
	if !errors.Is(err, publish.ErrCancelled) {
		t.Fatalf("error = %v, want ErrCancelled", err)
	}
	if code != types.ExitFailure {
		t.Errorf("code = %d, want 1", code)
	}
	if len(h.exec.Calls) != 0 {
		t.Errorf("executor called %d times, want 0", len(h.exec.Calls))
	}
}

func TestPublishReadsConfirmationFromStdin(t *testing.T) {
	t.Parallel()

	h := newPublishHarness(t, "2.3.0", "2.3.0")
	h.deps.Confirmer = nil
	h.deps.Stdin = strings.NewReader("y\n")

	if _, err := h.run(t, "-C", h.dir, "publish", "2.3.0"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !strings.Contains(h.stdout.String(), publish.Prompt("2.3.0")) {
		t.Errorf("prompt not written to stdout: %q", h.stdout.String())
	}
	if len(h.exec.Calls) != 2 {
		t.Errorf("executor called %d times, want 2", len(h.exec.Calls))
	}
}

func TestPublishInvalidVersion(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"v2.3.0", "2.3", "latest"} {
		t.Run(v, func(t *testing.T) {
			t.Parallel()

			h := newPublishHarness(t, "2.3.0", "2.3.0")
			code, err := h.run(t, "-C", h.dir, "publish", v)
			if !errors.Is(err, publish.ErrInvalidVersion) {
				t.Fatalf("error = %v, want ErrInvalidVersion", err)
			}
			if code != types.ExitUsage {
				t.Errorf("code = %d, want 2", code)
			}
			if len(h.exec.Calls) != 0 {
				t.Errorf("executor called %d times, want 0", len(h.exec.Calls))
			}
		})
	}
}

func TestPublishNotARepository(t *testing.T) {
	t.Parallel()

	h := newPublishHarness(t, "2.3.0", "2.3.0")
	h.deps.OpenRepository = func(string) (publish.Repository, error) { return nil, vcs.ErrNotRepository }

	code, err := h.run(t, "-C", h.dir, "publish", "2.3.0")
	if !errors.Is(err, vcs.ErrNotRepository) {
		t.Fatalf("error = %v, want ErrNotRepository", err)
	}
	if code != types.ExitFailure {
		t.Errorf("code = %d, want 1", code)
	}
	if g := guideFor(err); g == nil || g.ID() != issue.NotARepositoryID {
		t.Errorf("guideFor() = %v, want not-a-repository guide", g)
	}
}

func TestPublishPushFailure(t *testing.T) {
	t.Parallel()

	h := newPublishHarness(t, "2.3.0", "2.3.0")
	h.exec.FailCall(1, 128)

	code, err := h.run(t, "-C", h.dir, "publish", "2.3.0")
	var failed *runner.StepFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error = %v, want StepFailedError", err)
	}
	if code != 128 {
		t.Errorf("code = %d, want 128", code)
	}
	if g := guideFor(err); g == nil || g.ID() != issue.StepFailedID {
		t.Errorf("guideFor() = %v, want step-failed guide", g)
	}
}

func TestPublishDryRun(t *testing.T) {
	t.Parallel()

	h := newPublishHarness(t, "2.3.0", "2.3.0")
	h.deps.Confirmer = publish.ConfirmFunc(func(context.Context, string) (bool, error) {
		t.Error("dry run asked for confirmation")
		return false, nil
	})

	code, err := h.run(t, "-n", "-C", h.dir, "publish", "2.3.0")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if code != types.ExitSuccess {
		t.Errorf("code = %d, want 0", code)
	}
	if len(h.exec.Calls) != 0 {
		t.Errorf("executor called %d times in dry run", len(h.exec.Calls))
	}
	out := h.stdout.String()
	for _, want := range []string{"$ git tag -a v2.3.0", "$ git push upstream v2.3.0", "nothing was tagged or pushed"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestPublishVerboseRendersGuide(t *testing.T) {
	t.Parallel()

	h := newPublishHarness(t, "2.3.0", "2.3.0")
	h.deps.OpenRepository = func(string) (publish.Repository, error) {
		return &fakeRepo{clean: false, branch: "master"}, nil
	}

	if _, err := h.run(t, "-v", "-C", h.dir, "publish", "2.3.0"); err == nil {
		t.Fatal("expected guard failure")
	}
	if !strings.Contains(h.stderr.String(), "git status") {
		t.Errorf("stderr missing remediation guide:\n%s", h.stderr.String())
	}
}
