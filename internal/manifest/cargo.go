// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrNoVersion is returned when a manifest declares no package version.
var ErrNoVersion = errors.New("manifest has no package version")

type (
	// Manifest is the subset of Cargo.toml relevant to releases.
	Manifest struct {
		Name    string
		version string
	}

	cargoToml struct {
		Package   cargoPackage `toml:"package"`
		Workspace struct {
			Package struct {
				Version string `toml:"version"`
			} `toml:"package"`
		} `toml:"workspace"`
	}

	cargoPackage struct {
		Name string `toml:"name"`
		// Version is a string, or {workspace = true} when inherited.
		Version any `toml:"version"`
	}
)

// ParseManifest decodes a Cargo.toml document.
func ParseManifest(data []byte) (*Manifest, error) {
	var doc cargoToml
	if err := toml.Unmarshal(data, &doc); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("parse Cargo.toml at %d:%d: %w", row, col, err)
		}
		return nil, fmt.Errorf("parse Cargo.toml: %w", err)
	}

	m := &Manifest{Name: doc.Package.Name}
	switch v := doc.Package.Version.(type) {
	case string:
		m.version = v
	case map[string]any:
		if inherit, _ := v["workspace"].(bool); inherit {
			m.version = doc.Workspace.Package.Version
		}
	case nil:
		// A virtual manifest only carries the workspace version.
		m.version = doc.Workspace.Package.Version
	}
	return m, nil
}

// ReadManifest reads and parses the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// Version returns the effective package version.
func (m *Manifest) Version() (string, error) {
	if m.version == "" {
		return "", ErrNoVersion
	}
	return m.version, nil
}
