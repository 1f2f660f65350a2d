// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invowk/cargoflow/internal/recipe"
	"github.com/invowk/cargoflow/internal/toolchain"
)

const (
	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the terminal palette.
	ColorScheme string

	// InvalidConfigError collects every field error found by Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the effective configuration.
	Config struct {
		Toolchains ToolchainsConfig `json:"toolchains" mapstructure:"toolchains"`
		Crate      CrateConfig      `json:"crate" mapstructure:"crate"`
		MSRV       MSRVConfig       `json:"msrv" mapstructure:"msrv"`
		Release    ReleaseConfig    `json:"release" mapstructure:"release"`
		UI         UIConfig         `json:"ui" mapstructure:"ui"`
	}

	// ToolchainsConfig pins the two toolchains.
	ToolchainsConfig struct {
		Nightly toolchain.ID `json:"nightly" mapstructure:"nightly"`
		Stable  toolchain.ID `json:"stable" mapstructure:"stable"`
	}

	// CrateConfig names the crate under test.
	CrateConfig struct {
		Name     string   `json:"name" mapstructure:"name"`
		Features []string `json:"features" mapstructure:"features"`
	}

	// MSRVConfig configures minimum supported version verification.
	MSRVConfig struct {
		// ToolVersion is the cargo-msrv release to install.
		ToolVersion string `json:"tool_version" mapstructure:"tool_version"`
	}

	// ReleaseConfig configures the publish flow.
	ReleaseConfig struct {
		Branch    string `json:"branch" mapstructure:"branch"`
		Remote    string `json:"remote" mapstructure:"remote"`
		Changelog string `json:"changelog" mapstructure:"changelog"`
		Manifest  string `json:"manifest" mapstructure:"manifest"`
		// Lockfile is cleared by the constraints suite.
		Lockfile string `json:"lockfile" mapstructure:"lockfile"`
		// Sign creates GPG-signed tags.
		Sign bool `json:"sign" mapstructure:"sign"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration for the bitcoin-codecs crate.
func DefaultConfig() *Config {
	opts := recipe.DefaultOptions()
	return &Config{
		Toolchains: ToolchainsConfig{
			Nightly: opts.Pins.Nightly,
			Stable:  opts.Pins.Stable,
		},
		Crate: CrateConfig{
			Name:     opts.Package,
			Features: slices.Clone(opts.Features),
		},
		MSRV: MSRVConfig{ToolVersion: opts.MSRVToolVersion},
		Release: ReleaseConfig{
			Branch:    "master",
			Remote:    "upstream",
			Changelog: "CHANGELOG.md",
			Manifest:  "Cargo.toml",
			Lockfile:  opts.Lockfile,
		},
		UI: UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// Validate checks the color scheme.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: auto, dark, light)", ErrInvalidColorScheme, string(c))
	}
}

// Validate checks values that environment overrides can set without passing
// through the CUE schema.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Pins().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Crate.Name == "" {
		errs = append(errs, errors.New("crate.name must not be empty"))
	}
	for _, f := range []struct{ key, value string }{
		{"release.branch", c.Release.Branch},
		{"release.remote", c.Release.Remote},
		{"release.changelog", c.Release.Changelog},
		{"release.manifest", c.Release.Manifest},
		{"release.lockfile", c.Release.Lockfile},
	} {
		if f.value == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", f.key))
		}
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Pins returns the configured toolchains.
func (c *Config) Pins() toolchain.Pins {
	return toolchain.Pins{Nightly: c.Toolchains.Nightly, Stable: c.Toolchains.Stable}
}

// RecipeOptions converts the configuration into built-in table options.
func (c *Config) RecipeOptions() recipe.Options {
	return recipe.Options{
		Pins:            c.Pins(),
		Package:         c.Crate.Name,
		Features:        slices.Clone(c.Crate.Features),
		MSRVToolVersion: c.MSRV.ToolVersion,
		Lockfile:        c.Release.Lockfile,
	}
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
