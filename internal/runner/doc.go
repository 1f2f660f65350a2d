// SPDX-License-Identifier: MPL-2.0

// Package runner executes resolved steps one at a time.
//
// External commands go through the Executor capability so tests can swap in
// a RecordingExecutor. The Invoker adds the builtin lockfile removal, dry-run
// printing and logging on top. A non-zero status is never retried or
// reinterpreted: RunAll stops at the first failing step and returns its code.
package runner
