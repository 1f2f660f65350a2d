// SPDX-License-Identifier: MPL-2.0

// Package vcs inspects the local git repository for the publish guards.
// It never writes: tags are created and pushed by the git CLI as steps.
package vcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DetachedHead is reported by CurrentBranch when HEAD names a commit.
const DetachedHead = "HEAD"

// ErrNotRepository is returned when no repository encloses the directory.
var ErrNotRepository = errors.New("not a git repository")

// Repository is a read-only view over a git working tree.
type Repository struct {
	repo *git.Repository
}

// Open finds the repository enclosing dir, walking up to the .git directory.
func Open(dir string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Repository{repo: repo}, nil
}

// IsClean reports whether tracked files have no staged or unstaged changes.
// Untracked files do not count.
func (r *Repository) IsClean(_ context.Context) (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("worktree status: %w", err)
	}
	for _, fs := range status {
		if fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
			continue
		}
		if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
			return false, nil
		}
	}
	return true, nil
}

// CurrentBranch returns the short name of the checked out branch, or
// DetachedHead. A branch without commits yet is still reported by name.
func (r *Repository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short(), nil
	}
	return DetachedHead, nil
}
