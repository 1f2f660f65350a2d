// SPDX-License-Identifier: MPL-2.0

// Package config loads cargoflow settings using Viper with CUE as the file
// format.
//
// Sources, lowest precedence first: built-in defaults, one CUE file, and
// CARGOFLOW_* environment variables (CARGOFLOW_RELEASE_REMOTE overrides
// release.remote). The file is the --config path when given, otherwise
// ./cargoflow.cue, otherwise config.cue in the user configuration directory
// (~/.config/cargoflow on Linux). Files are validated against the embedded
// #Config schema in config_schema.cue. Configuration is never written back.
package config
