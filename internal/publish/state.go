// SPDX-License-Identifier: MPL-2.0

package publish

// Publish states, in the order they are visited.
const (
	Idle State = iota
	CheckTree
	CheckBranch
	CheckChangelog
	CheckManifest
	Confirm
	Tag
	Push
	Done
	Aborted
)

// State is a position in the release flow.
type State uint8

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CheckTree:
		return "check-tree"
	case CheckBranch:
		return "check-branch"
	case CheckChangelog:
		return "check-changelog"
	case CheckManifest:
		return "check-manifest"
	case Confirm:
		return "confirm"
	case Tag:
		return "tag"
	case Push:
		return "push"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no transition leaves s.
func (s State) IsTerminal() bool {
	return s == Done || s == Aborted
}
