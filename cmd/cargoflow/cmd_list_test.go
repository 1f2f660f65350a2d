// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"
)

func TestListShowsOperationsAndGuards(t *testing.T) {
	t.Parallel()

	h := newHarness()
	if _, err := h.run(t, "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(h.exec.Calls) != 0 {
		t.Errorf("list executed %d steps", len(h.exec.Calls))
	}

	out := h.stdout.String()
	for _, want := range []string{
		"check [verify|fix]",
		"test [features|msrv|constraints|all]",
		"* verify",
		"* features",
		"fmt --check --all",
		"msrv verify --all-features",
		"Uncommitted changes",
		"Not on master branch",
		"CHANGELOG.md entry missing for v<version>",
		"Cargo.toml version mismatch",
		"git push upstream",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}
