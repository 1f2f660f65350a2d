// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"os"
	"strings"
)

const entryPrefix = "## "

// Changelog is a parsed markdown changelog whose releases are second-level
// headers of the form "## v1.2.3".
type Changelog struct {
	lines []string
}

// ParseChangelog splits data into lines. Lines have no length limit.
func ParseChangelog(data []byte) *Changelog {
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return &Changelog{}
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Changelog{lines: lines}
}

// ReadChangelog reads and parses the changelog at path.
func ReadChangelog(path string) (*Changelog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read changelog: %w", err)
	}
	return ParseChangelog(data), nil
}

// HasEntry reports whether a header for version exists. "## v2.3.0" and
// "## v2.3.0 - 2025-07-01" match 2.3.0; "## v2.3.0-rc.1" and "## v2.3.01" do not.
func (c *Changelog) HasEntry(version string) bool {
	return c.headerIndex(version) >= 0
}

// Entry returns the body of the version's section, up to the next header.
func (c *Changelog) Entry(version string) (string, bool) {
	start := c.headerIndex(version)
	if start < 0 {
		return "", false
	}
	end := len(c.lines)
	for i := start + 1; i < len(c.lines); i++ {
		if strings.HasPrefix(c.lines[i], entryPrefix) {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(c.lines[start:end], "\n")), true
}

func (c *Changelog) headerIndex(version string) int {
	header := entryPrefix + "v" + version
	for i, line := range c.lines {
		rest, ok := strings.CutPrefix(line, header)
		if !ok {
			continue
		}
		if rest == "" || !isVersionByte(rest[0]) {
			return i
		}
	}
	return -1
}

func isVersionByte(b byte) bool {
	switch {
	case b >= '0' && b <= '9', b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case b == '.', b == '-', b == '+':
		return true
	default:
		return false
	}
}
