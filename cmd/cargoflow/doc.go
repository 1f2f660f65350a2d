// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the cargoflow CLI: check, test, publish, list and
// config. Handlers resolve everything through an App so tests can swap the
// executor, repository, confirmer and configuration source.
package cmd
