// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUsage is wrapped by every resolution error caused by caller input.
	// Nothing has been executed when it is returned.
	ErrUsage = errors.New("usage error")

	// ErrInvalidTable is wrapped by construction errors. A table that fails
	// construction is a configuration defect.
	ErrInvalidTable = errors.New("invalid recipe table")
)

type (
	// UnknownOperationError is returned for an operation not in the table.
	UnknownOperationError struct {
		Name  string
		Known []string
	}

	// UnknownParameterError is returned for a parameter value the operation
	// does not declare.
	UnknownParameterError struct {
		Operation string
		Param     string
		Value     string
		Valid     []string
	}

	// DepthExceededError is returned when include expansion nests deeper than
	// MaxDepth.
	DepthExceededError struct {
		Recipe string
		Depth  int
	}

	// TableError describes why a table could not be built.
	TableError struct {
		Recipe string
		Reason string
	}
)

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Unwrap returns ErrUsage.
func (e *UnknownOperationError) Unwrap() error { return ErrUsage }

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("%s: unknown %s %q (valid: %s)", e.Operation, e.Param, e.Value, strings.Join(e.Valid, ", "))
}

// Unwrap returns ErrUsage.
func (e *UnknownParameterError) Unwrap() error { return ErrUsage }

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("recipe %q nests deeper than %d levels", e.Recipe, e.Depth)
}

// Unwrap returns ErrInvalidTable; excessive nesting is a table defect.
func (e *DepthExceededError) Unwrap() error { return ErrInvalidTable }

func (e *TableError) Error() string {
	if e.Recipe == "" {
		return e.Reason
	}
	return fmt.Sprintf("recipe %q: %s", e.Recipe, e.Reason)
}

// Unwrap returns ErrInvalidTable.
func (e *TableError) Unwrap() error { return ErrInvalidTable }
