// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the release records consulted before publishing:
// the changelog and the Cargo manifest. Both are read-only here.
package manifest
