// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifestVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		want    string
		wantErr error
	}{
		{
			name: "package version",
			doc: `[package]
name = "bitcoin-codecs"
version = "2.3.0"
edition = "2021"
`,
			want: "2.3.0",
		},
		{
			name: "inherited from workspace",
			doc: `[workspace]
members = ["."]

[workspace.package]
version = "2.2.9"

[package]
name = "bitcoin-codecs"
version.workspace = true
`,
			want: "2.2.9",
		},
		{
			name: "version in a dependency is ignored",
			doc: `[package]
name = "bitcoin-codecs"

[dependencies]
tokio = { version = "1.0", optional = true }
`,
			wantErr: ErrNoVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := ParseManifest([]byte(tt.doc))
			require.NoError(t, err)

			got, err := m.Version()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseManifestInvalid(t *testing.T) {
	t.Parallel()

	_, err := ParseManifest([]byte("[package\nversion = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse Cargo.toml")
}

func TestRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGELOG.md"), []byte(changelogFixture), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"),
		[]byte("[package]\nname = \"bitcoin-codecs\"\nversion = \"2.3.0\"\n"), 0o644))

	r := NewRecords(dir, "CHANGELOG.md", "Cargo.toml")
	assert.Equal(t, filepath.Join(dir, "Cargo.toml"), r.ManifestPath)

	ok, err := r.HasChangelogEntry("2.3.0")
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := r.ManifestVersion()
	require.NoError(t, err)
	assert.Equal(t, "2.3.0", v)

	entry, ok, err := r.ChangelogEntry("2.3.0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, entry, "async decoders")

	// Records re-read the files on each call.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"),
		[]byte("[package]\nname = \"bitcoin-codecs\"\nversion = \"2.2.9\"\n"), 0o644))
	v, err = r.ManifestVersion()
	require.NoError(t, err)
	assert.Equal(t, "2.2.9", v)
}

func TestRecordsMissingFiles(t *testing.T) {
	t.Parallel()

	r := NewRecords(t.TempDir(), "CHANGELOG.md", "Cargo.toml")

	_, err := r.HasChangelogEntry("1.0.0")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = r.ManifestVersion()
	require.ErrorIs(t, err, os.ErrNotExist)
}
