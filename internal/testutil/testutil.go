// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// MustSetenv sets the environment variable key to value and restores the
// previous state when the test ends. Tests using it must not be parallel.
func MustSetenv(t testing.TB, key, value string) {
	t.Helper()
	restore := snapshotEnv(t, key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(restore)
}

// MustUnsetenv unsets key and restores the previous value when the test
// ends.
func MustUnsetenv(t testing.TB, key string) {
	t.Helper()
	restore := snapshotEnv(t, key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(restore)
}

func snapshotEnv(t testing.TB, key string) func() {
	original, had := os.LookupEnv(key)
	return func() {
		var err error
		if had {
			err = os.Setenv(key, original)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("failed to restore env %s: %v", key, err)
		}
	}
}

// MustWriteFile writes content to dir/name, creating parent directories.
func MustWriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteCrate writes a Cargo.toml declaring manifestVersion and a changelog
// with one "## v<version>" section per entry.
func WriteCrate(t testing.TB, dir, manifestVersion string, entries ...string) {
	t.Helper()
	MustWriteFile(t, dir, "Cargo.toml",
		"[package]\nname = \"bitcoin-codecs\"\nversion = \""+manifestVersion+"\"\nedition = \"2021\"\n")

	changelog := "# Changelog\n"
	for _, v := range entries {
		changelog += "\n## v" + v + "\n\n- Changes in " + v + ".\n"
	}
	MustWriteFile(t, dir, "CHANGELOG.md", changelog)
}
