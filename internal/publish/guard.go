// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"fmt"
)

type (
	// Repository is the version-control state the guards inspect.
	Repository interface {
		// IsClean reports whether tracked files have no staged or unstaged
		// changes.
		IsClean(ctx context.Context) (bool, error)
		CurrentBranch(ctx context.Context) (string, error)
	}

	// ReleaseRecords are the changelog and manifest consulted for a version.
	ReleaseRecords interface {
		HasChangelogEntry(version string) (bool, error)
		ManifestVersion() (string, error)
	}

	// Guard is a named precondition. A Check error counts as a failure.
	// Checks reach the collaborators only when called, so Guards can be
	// listed from a Machine built without them.
	Guard struct {
		Name    string
		State   State
		Message string
		Check   func(ctx context.Context) (bool, error)
	}
)

// Guards returns the ordered preconditions for releasing version.
func (m *Machine) Guards(version string) []Guard {
	return []Guard{
		{
			Name:    "clean working tree",
			State:   CheckTree,
			Message: "Uncommitted changes",
			Check: func(ctx context.Context) (bool, error) {
				return m.repo.IsClean(ctx)
			},
		},
		{
			Name:    "release branch",
			State:   CheckBranch,
			Message: fmt.Sprintf("Not on %s branch", m.opts.Branch),
			Check: func(ctx context.Context) (bool, error) {
				branch, err := m.repo.CurrentBranch(ctx)
				if err != nil {
					return false, err
				}
				return branch == m.opts.Branch, nil
			},
		},
		{
			Name:    "changelog entry",
			State:   CheckChangelog,
			Message: fmt.Sprintf("%s entry missing for v%s", m.opts.ChangelogName, version),
			Check: func(context.Context) (bool, error) {
				return m.records.HasChangelogEntry(version)
			},
		},
		{
			Name:    "manifest version",
			State:   CheckManifest,
			Message: m.opts.ManifestName + " version mismatch",
			Check: func(context.Context) (bool, error) {
				v, err := m.records.ManifestVersion()
				if err != nil {
					return false, err
				}
				return v == version, nil
			},
		},
	}
}
