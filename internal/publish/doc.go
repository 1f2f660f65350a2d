// SPDX-License-Identifier: MPL-2.0

// Package publish implements the guarded release flow.
//
// A release walks a fixed chain of states:
//
//	Idle -> CheckTree -> CheckBranch -> CheckChangelog -> CheckManifest
//	     -> Confirm -> Tag -> Push -> Done
//
// Any failed guard, negative confirmation or failing step moves straight to
// Aborted. Tag and Push are the only side effects and run only after every
// guard passed and the operator confirmed. Guards are not re-evaluated after
// confirmation.
package publish
