// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"fmt"

	"github.com/invowk/cargoflow/internal/recipe"
	"github.com/invowk/cargoflow/pkg/types"
)

// StepFailedError reports the first failing step of a sequence.
type StepFailedError struct {
	Step recipe.Step
	Code types.ExitCode
	// Cause is set when the step could not run at all.
	Cause error
}

func (e *StepFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %v", e.Step.Name, e.Cause)
	}
	return fmt.Sprintf("%s failed (exit %d): %s", e.Step.Name, e.Code, e.Step)
}

// Unwrap returns the cause, if any.
func (e *StepFailedError) Unwrap() error {
	return e.Cause
}
