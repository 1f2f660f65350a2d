// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// IsolateUserConfig points the home and user configuration directories at
// dir so lookups never see the developer's own files. It also clears
// CARGOFLOW_* overrides that commonly leak from a shell.
func IsolateUserConfig(t testing.TB, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		MustSetenv(t, "USERPROFILE", dir)
		MustSetenv(t, "APPDATA", dir)
	default:
		MustSetenv(t, "HOME", dir)
		MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}

	for _, key := range []string{
		"CARGOFLOW_RELEASE_REMOTE",
		"CARGOFLOW_RELEASE_BRANCH",
		"CARGOFLOW_RELEASE_SIGN",
		"CARGOFLOW_UI_VERBOSE",
		"CARGOFLOW_CRATE_FEATURES",
		"CARGOFLOW_TOOLCHAINS_NIGHTLY",
		"CARGOFLOW_TOOLCHAINS_STABLE",
	} {
		MustUnsetenv(t, key)
	}
}
