// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"errors"
	"fmt"
)

var (
	// ErrGuardFailed is wrapped by every GuardError.
	ErrGuardFailed = errors.New("publish guard failed")

	// ErrCancelled is returned when the operator does not confirm.
	ErrCancelled = errors.New("Cancelled") //nolint:staticcheck // fixed user-facing message

	// ErrInvalidVersion is wrapped when the requested version is not a
	// full semantic version. Nothing has been checked when it is returned.
	ErrInvalidVersion = errors.New("invalid release version")
)

type (
	// GuardError reports the first failing guard.
	GuardError struct {
		State   State
		Message string
		// Cause is set when the guard could not be evaluated.
		Cause error
	}

	// InvalidVersionError reports a malformed release version.
	InvalidVersionError struct {
		Version string
	}
)

func (e *GuardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns ErrGuardFailed and the cause.
func (e *GuardError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrGuardFailed, e.Cause}
	}
	return []error{ErrGuardFailed}
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid release version %q (want MAJOR.MINOR.PATCH, without a leading v)", e.Version)
}

// Unwrap returns ErrInvalidVersion.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }
