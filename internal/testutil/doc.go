// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on setup errors:
// environment isolation (MustSetenv, IsolateUserConfig) and crate fixtures
// (WriteCrate) holding a Cargo.toml and CHANGELOG.md.
package testutil
