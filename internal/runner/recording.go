// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"strings"

	"github.com/invowk/cargoflow/pkg/types"
)

// RecordingExecutor records requests instead of running them and returns
// scripted results. Calls are numbered from zero. It is meant for tests.
type RecordingExecutor struct {
	Calls []ExecRequest
	codes map[int]types.ExitCode
	errs  map[int]error
}

// NewRecordingExecutor creates an executor where every call succeeds.
func NewRecordingExecutor() *RecordingExecutor {
	return &RecordingExecutor{
		codes: make(map[int]types.ExitCode),
		errs:  make(map[int]error),
	}
}

// FailCall makes call n exit with code.
func (r *RecordingExecutor) FailCall(n int, code types.ExitCode) *RecordingExecutor {
	r.codes[n] = code
	return r
}

// ErrorCall makes call n fail to start with err.
func (r *RecordingExecutor) ErrorCall(n int, err error) *RecordingExecutor {
	r.errs[n] = err
	return r
}

// Execute implements Executor.
func (r *RecordingExecutor) Execute(_ context.Context, req ExecRequest) (types.ExitCode, error) {
	n := len(r.Calls)
	r.Calls = append(r.Calls, req)
	if err, ok := r.errs[n]; ok {
		return types.ExitFailure, err
	}
	return r.codes[n], nil
}

// CommandLines returns each recorded call as "command arg...".
func (r *RecordingExecutor) CommandLines() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = strings.Join(append([]string{c.Command}, c.Args...), " ")
	}
	return out
}
