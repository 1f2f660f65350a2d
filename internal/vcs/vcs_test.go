// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	dir  string
	repo *git.Repository
	wt   *git.Worktree
}

func setupTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Master},
	})
	require.NoError(t, err, "failed to initialize test repository")

	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &testRepo{dir: dir, repo: repo, wt: wt}
}

func (tr *testRepo) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(tr.dir, name), []byte(content), 0o644))
}

func (tr *testRepo) commit(t *testing.T, name, content string) plumbing.Hash {
	t.Helper()

	tr.write(t, name, content)
	_, err := tr.wt.Add(name)
	require.NoError(t, err)

	hash, err := tr.wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func TestOpenNotRepository(t *testing.T) {
	t.Parallel()

	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestOpenFromSubdirectory(t *testing.T) {
	t.Parallel()

	tr := setupTestRepo(t)
	tr.commit(t, "Cargo.toml", "[package]\n")
	sub := filepath.Join(tr.dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	r, err := Open(sub)
	require.NoError(t, err)

	branch, err := r.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestIsClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(t *testing.T, tr *testRepo)
		want   bool
	}{
		{
			name:   "fresh commit",
			mutate: func(*testing.T, *testRepo) {},
			want:   true,
		},
		{
			name: "untracked file",
			mutate: func(t *testing.T, tr *testRepo) {
				tr.write(t, "notes.txt", "scratch")
			},
			want: true,
		},
		{
			name: "unstaged change",
			mutate: func(t *testing.T, tr *testRepo) {
				tr.write(t, "Cargo.toml", "[package]\nversion = \"2.3.1\"\n")
			},
			want: false,
		},
		{
			name: "staged change",
			mutate: func(t *testing.T, tr *testRepo) {
				tr.write(t, "CHANGELOG.md", "## v2.3.0\n")
				_, err := tr.wt.Add("CHANGELOG.md")
				require.NoError(t, err)
			},
			want: false,
		},
		{
			name: "deleted file",
			mutate: func(t *testing.T, tr *testRepo) {
				require.NoError(t, os.Remove(filepath.Join(tr.dir, "Cargo.toml")))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := setupTestRepo(t)
			tr.commit(t, "Cargo.toml", "[package]\nversion = \"2.3.0\"\n")
			tt.mutate(t, tr)

			r, err := Open(tr.dir)
			require.NoError(t, err)

			clean, err := r.IsClean(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, clean)
		})
	}
}

func TestCurrentBranch(t *testing.T) {
	t.Parallel()

	t.Run("unborn branch", func(t *testing.T) {
		t.Parallel()

		tr := setupTestRepo(t)
		r, err := Open(tr.dir)
		require.NoError(t, err)

		branch, err := r.CurrentBranch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "master", branch)
	})

	t.Run("feature branch", func(t *testing.T) {
		t.Parallel()

		tr := setupTestRepo(t)
		tr.commit(t, "Cargo.toml", "[package]\n")
		require.NoError(t, tr.wt.Checkout(&git.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName("feature/codecs"),
			Create: true,
		}))

		r, err := Open(tr.dir)
		require.NoError(t, err)

		branch, err := r.CurrentBranch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "feature/codecs", branch)
	})

	t.Run("detached head", func(t *testing.T) {
		t.Parallel()

		tr := setupTestRepo(t)
		hash := tr.commit(t, "Cargo.toml", "[package]\n")
		require.NoError(t, tr.wt.Checkout(&git.CheckoutOptions{Hash: hash}))

		r, err := Open(tr.dir)
		require.NoError(t, err)

		branch, err := r.CurrentBranch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, DetachedHead, branch)
	})
}
