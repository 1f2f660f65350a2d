// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"path/filepath"
)

// Records reads the changelog and manifest from disk on every call, so a
// guard always sees the current file contents.
type Records struct {
	ChangelogPath string
	ManifestPath  string
}

// NewRecords resolves relative paths against dir.
func NewRecords(dir, changelog, manifest string) *Records {
	return &Records{
		ChangelogPath: resolve(dir, changelog),
		ManifestPath:  resolve(dir, manifest),
	}
}

// HasChangelogEntry reports whether the changelog has a header for version.
func (r *Records) HasChangelogEntry(version string) (bool, error) {
	c, err := ReadChangelog(r.ChangelogPath)
	if err != nil {
		return false, err
	}
	return c.HasEntry(version), nil
}

// ChangelogEntry returns the section for version.
func (r *Records) ChangelogEntry(version string) (string, bool, error) {
	c, err := ReadChangelog(r.ChangelogPath)
	if err != nil {
		return "", false, err
	}
	entry, ok := c.Entry(version)
	return entry, ok, nil
}

// ManifestVersion returns the manifest's package version.
func (r *Records) ManifestVersion() (string, error) {
	m, err := ReadManifest(r.ManifestPath)
	if err != nil {
		return "", err
	}
	return m.Version()
}

func resolve(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
