// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"
	"slices"

	"github.com/invowk/cargoflow/internal/toolchain"
)

// Operation and recipe names of the built-in table.
const (
	OpCheck = "check"
	OpTest  = "test"

	ModeVerify = "verify"
	ModeFix    = "fix"

	SuiteFeatures    = "features"
	SuiteMSRV        = "msrv"
	SuiteConstraints = "constraints"
	SuiteAll         = "all"

	RecipeComponents       = "_components"
	RecipeCheckVerify      = "_check-verify"
	RecipeCheckFix         = "_check-fix"
	RecipeVerify           = "check-verify"
	RecipeFix              = "check-fix"
	RecipeTestFeatures     = "_test-features"
	RecipeTestMSRV         = "_test-msrv"
	RecipeTestConstraints  = "_test-constraints"
	RecipeTestAll          = "_test-all"
	StepMinimumVersions    = "minimum dependency versions"
	StepMaximumVersions    = "maximum dependency versions"
	incompatibleRustEnvKey = "CARGO_RESOLVER_INCOMPATIBLE_RUST_VERSIONS"
)

// Options parameterise the built-in table.
type Options struct {
	Pins toolchain.Pins
	// Package is the cargo package exercised by the feature matrix.
	Package string
	// Features lists the optional features tested one at a time.
	Features []string
	// MSRVToolVersion pins the cargo-msrv release installed for the msrv suite.
	MSRVToolVersion string
	// Lockfile is the dependency resolution record cleared by the
	// constraints suite.
	Lockfile string
}

// DefaultOptions returns the options for the bitcoin-codecs crate.
func DefaultOptions() Options {
	return Options{
		Pins: toolchain.Pins{
			Nightly: "nightly-2025-07-10",
			Stable:  "1.63.0",
		},
		Package:         "bitcoin-codecs",
		Features:        []string{"std", "tokio"},
		MSRVToolVersion: "0.18.4",
		Lockfile:        "Cargo.lock",
	}
}

// NewBuiltinTable builds the check and test operations.
func NewBuiltinTable(opts Options) (*Table, error) {
	if err := opts.Pins.Validate(); err != nil {
		return nil, &TableError{Reason: err.Error()}
	}
	if opts.Package == "" {
		return nil, &TableError{Reason: "package name is required"}
	}
	if opts.Lockfile == "" {
		return nil, &TableError{Reason: "lockfile path is required"}
	}

	b := &stepBuilder{resolver: toolchain.NewResolver(opts.Pins)}

	operations := []Operation{
		{
			Name:        OpCheck,
			Description: "Formatting, lint, type and documentation checks",
			Param:       "mode",
			Default:     ModeVerify,
			Choices: []Choice{
				{Value: ModeVerify, Recipe: RecipeVerify},
				{Value: ModeFix, Recipe: RecipeFix},
			},
		},
		{
			Name:        OpTest,
			Description: "Run a test suite",
			Param:       "suite",
			Default:     SuiteFeatures,
			Choices: []Choice{
				{Value: SuiteFeatures, Recipe: RecipeTestFeatures},
				{Value: SuiteMSRV, Recipe: RecipeTestMSRV},
				{Value: SuiteConstraints, Recipe: RecipeTestConstraints},
				{Value: SuiteAll, Recipe: RecipeTestAll},
			},
		},
	}

	recipes := []Recipe{
		{
			Name:        RecipeComponents,
			Description: "Install formatter and linter components on the nightly toolchain",
			Steps: []Step{
				b.rustup("components", toolchain.CategorySetup, "component", "add", "rustfmt", "clippy"),
			},
		},
		{
			Name:        RecipeVerify,
			Description: "Fail on any formatting, lint, type or documentation issue",
			Includes:    []string{RecipeComponents, RecipeCheckVerify},
		},
		{
			Name:        RecipeFix,
			Description: "Apply automatic format and lint fixes",
			Includes:    []string{RecipeComponents, RecipeCheckFix},
		},
		{
			Name: RecipeCheckVerify,
			Steps: []Step{
				b.cargo("format", toolchain.CategoryFormat, "fmt", "--check", "--all"),
				b.cargo("lint", toolchain.CategoryLint,
					"clippy", "--workspace", "--all-features", "--all-targets", "--", "-D", "warnings"),
				b.cargo("type check", toolchain.CategoryStaticCheck,
					"check", "--workspace", "--all-features", "--all-targets"),
				b.withEnv(
					b.cargo("docs", toolchain.CategoryDocs, "doc", "--workspace", "--all-features", "--no-deps"),
					"RUSTDOCFLAGS", "-D warnings",
				),
			},
		},
		{
			Name: RecipeCheckFix,
			Steps: []Step{
				b.cargo("format", toolchain.CategoryFormat, "fmt", "--all"),
				b.cargo("lint fix", toolchain.CategoryLint,
					"clippy", "--workspace", "--all-features", "--all-targets", "--fix", "--allow-dirty", "--allow-staged"),
				// Lint fixes can leave formatting behind.
				b.cargo("format", toolchain.CategoryFormat, "fmt", "--all"),
			},
		},
		{
			Name:        RecipeTestFeatures,
			Description: "Feature flag matrix",
			Steps:       b.featureMatrix(opts.Package, opts.Features),
		},
		{
			Name:        RecipeTestMSRV,
			Description: "Verify the minimum supported compiler version",
			Steps: []Step{
				b.cargo("install cargo-msrv", toolchain.CategoryToolInstall,
					"install", "cargo-msrv@"+opts.MSRVToolVersion, "--locked"),
				b.cargo("msrv verify", toolchain.CategoryMSRV, "msrv", "verify", "--all-features"),
			},
		},
		{
			Name:        RecipeTestConstraints,
			Description: "Build at minimum and maximum dependency versions",
			Steps: []Step{
				RemoveFile("clear lockfile", opts.Lockfile),
				b.cargo(StepMinimumVersions, toolchain.CategoryDependencyExtremes,
					"check", "--workspace", "--all-features", "-Z", "direct-minimal-versions"),
				RemoveFile("clear lockfile", opts.Lockfile),
				b.withEnv(
					b.cargo(StepMaximumVersions, toolchain.CategoryDependencyExtremes,
						"check", "--workspace", "--all-features"),
					incompatibleRustEnvKey, "allow",
				),
				RemoveFile("clear lockfile", opts.Lockfile),
			},
		},
		{
			Name:        RecipeTestAll,
			Description: "Every suite, stopping at the first failure",
			Includes:    []string{RecipeTestFeatures, RecipeTestMSRV, RecipeTestConstraints},
		},
	}

	if b.err != nil {
		return nil, &TableError{Reason: b.err.Error()}
	}
	return NewTable(operations, recipes)
}

// stepBuilder builds exec steps and records the first category that has no
// toolchain channel.
type stepBuilder struct {
	resolver *toolchain.Resolver
	err      error
}

func (b *stepBuilder) cargo(name string, c toolchain.Category, args ...string) Step {
	return b.exec(name, c, SelectorPlus, "cargo", args)
}

func (b *stepBuilder) rustup(name string, c toolchain.Category, args ...string) Step {
	return b.exec(name, c, SelectorFlag, "rustup", args)
}

func (b *stepBuilder) exec(name string, c toolchain.Category, sel Selector, command string, args []string) Step {
	id, err := b.resolver.Lookup(c)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("step %q: %w", name, err)
	}
	if id == "" {
		sel = SelectorNone
	}
	return Step{
		Name:      name,
		Category:  c,
		Toolchain: id,
		Selector:  sel,
		Action:    ActionExec,
		Command:   command,
		Args:      args,
	}
}

func (b *stepBuilder) withEnv(s Step, key, value string) Step {
	if s.Env == nil {
		s.Env = make(map[string]string)
	}
	s.Env[key] = value
	return s
}

// featureMatrix tests the extremes (all features, no features) and then
// every optional feature alone, followed by a build of the example targets.
func (b *stepBuilder) featureMatrix(pkg string, features []string) []Step {
	base := []string{"test", "--package", pkg, "--lib"}
	steps := []Step{
		b.cargo("test all features", toolchain.CategoryTest, append(slices.Clone(base), "--all-features")...),
		b.cargo("test no default features", toolchain.CategoryTest, append(slices.Clone(base), "--no-default-features")...),
	}
	for _, f := range features {
		steps = append(steps, b.cargo("test feature "+f, toolchain.CategoryTest,
			append(slices.Clone(base), "--no-default-features", "--features", f)...))
	}
	steps = append(steps, b.cargo("check examples", toolchain.CategoryTest,
		"check", "--package", pkg, "--examples", "--all-features"))
	return steps
}
