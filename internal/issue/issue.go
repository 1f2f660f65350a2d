// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	ConfigLoadFailedID ID = iota + 1
	NotARepositoryID
	UncommittedChangesID
	WrongBranchID
	ChangelogEntryMissingID
	ManifestMismatchID
	InvalidVersionID
	StepFailedID
	ToolNotFoundID
)

type (
	// ID names a catalog entry.
	ID int

	// MarkdownMsg is the body of a remediation guide.
	MarkdownMsg string

	// HTTPLink is a reference shown under "See also".
	HTTPLink string

	// Issue is one remediation guide.
	Issue struct {
		id       ID
		mdMsg    MarkdownMsg
		docLinks []HTTPLink
	}
)

var render = glamour.Render

// ID returns the catalog key.
func (i *Issue) ID() ID {
	return i.id
}

// MarkdownMsg returns the raw guide.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns the reference links.
func (i *Issue) DocLinks() []HTTPLink {
	return slices.Clone(i.docLinks)
}

// Markdown returns the guide with its links appended.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(string(i.mdMsg)))
	if len(i.docLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("\n- <")
			sb.WriteString(string(link))
			sb.WriteString(">")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// Render renders the guide for the terminal with a glamour style
// ("dark", "light", "notty" or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var issues = map[ID]*Issue{
	ConfigLoadFailedID: {
		id: ConfigLoadFailedID,
		mdMsg: `
# Configuration could not be loaded

The configuration file is not valid CUE or does not match the schema.

## Things you can try
- Print the file that was picked up:
~~~
$ cargoflow config path
~~~
- Print the effective configuration with defaults applied:
~~~
$ cargoflow config show
~~~
- Remove keys the schema does not know; unknown keys are rejected.`,
	},
	NotARepositoryID: {
		id: NotARepositoryID,
		mdMsg: `
# Not a git repository

Publishing inspects the working tree and branch, so it must run inside the
crate's git checkout.

## Things you can try
- Run from the repository root, or point at it:
~~~
$ cargoflow -C path/to/crate publish 2.3.0
~~~`,
		docLinks: []HTTPLink{"https://git-scm.com/docs/git-rev-parse"},
	},
	UncommittedChangesID: {
		id: UncommittedChangesID,
		mdMsg: `
# Uncommitted changes

A release tag must point at a committed tree. Tracked files have staged or
unstaged changes; untracked files are ignored.

## Things you can try
- Review what changed:
~~~
$ git status --short
~~~
- Commit the changes or stash them:
~~~
$ git stash push
~~~`,
	},
	WrongBranchID: {
		id: WrongBranchID,
		mdMsg: `
# Not on the release branch

Releases are only cut from the configured release branch.

## Things you can try
~~~
$ git switch master
$ git pull --ff-only
~~~
- Set ` + "`release.branch`" + ` if this crate releases from another branch.`,
	},
	ChangelogEntryMissingID: {
		id: ChangelogEntryMissingID,
		mdMsg: `
# Changelog entry missing

The changelog needs a second-level header for the version being released.

## Example
~~~markdown
## v2.3.0 - 2025-07-01

- Describe the changes in this release.
~~~`,
		docLinks: []HTTPLink{"https://keepachangelog.com"},
	},
	ManifestMismatchID: {
		id: ManifestMismatchID,
		mdMsg: `
# Manifest version mismatch

The ` + "`version`" + ` in Cargo.toml must equal the version being released.

## Things you can try
~~~toml
[package]
version = "2.3.0"
~~~
- For workspace inheritance, update ` + "`[workspace.package] version`" + `.
- Commit the bump before publishing.`,
		docLinks: []HTTPLink{"https://doc.rust-lang.org/cargo/reference/manifest.html#the-version-field"},
	},
	InvalidVersionID: {
		id: InvalidVersionID,
		mdMsg: `
# Invalid release version

Pass the version as MAJOR.MINOR.PATCH without a leading ` + "`v`" + `; the tag
prefix is added automatically.

~~~
$ cargoflow publish 2.3.0
$ cargoflow publish 2.3.0-rc.1
~~~`,
		docLinks: []HTTPLink{"https://semver.org"},
	},
	StepFailedID: {
		id: StepFailedID,
		mdMsg: `
# A step failed

The output above comes from the failing tool itself. Remaining steps were not
run.

## Things you can try
- Print the exact commands without running them:
~~~
$ cargoflow --dry-run test all
~~~
- Re-run with ` + "`--verbose`" + ` to log each command before it starts.`,
	},
	ToolNotFoundID: {
		id: ToolNotFoundID,
		mdMsg: `
# Tool not found

A step could not start. Steps need ` + "`cargo`" + `, ` + "`rustup`" + ` and ` + "`git`" + ` on PATH.

## Things you can try
~~~
$ rustup toolchain install nightly-2025-07-10 1.63.0
~~~`,
		docLinks: []HTTPLink{"https://rustup.rs"},
	},
}

// Values returns every catalog entry ordered by ID.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, id := range slices.Sorted(maps.Keys(issues)) {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the entry for id, or nil.
func Get(id ID) *Issue {
	return issues[id]
}
