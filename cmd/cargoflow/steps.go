// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/invowk/cargoflow/internal/runner"
)

func isStepFailure(err error) bool {
	var failed *runner.StepFailedError
	return errors.As(err, &failed)
}

// isStartFailure reports whether a step could not be started at all.
func isStartFailure(err error) bool {
	var failed *runner.StepFailedError
	return errors.As(err, &failed) && failed.Cause != nil
}
