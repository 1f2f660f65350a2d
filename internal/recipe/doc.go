// SPDX-License-Identifier: MPL-2.0

// Package recipe holds the static expansion of named operations into ordered
// steps.
//
// A Table is built once at startup from configuration and never mutated.
// Each Operation maps a parameter value (a check mode, a test suite) to a
// Recipe. A Recipe is a tagged variant: either a flat list of Steps or an
// ordered list of other recipe names, which Resolve expands depth first in
// declared order. Table construction rejects unknown includes and include
// cycles, so resolution of a built table only fails on usage errors.
package recipe
