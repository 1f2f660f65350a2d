// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ChannelNone marks categories that run without a compiler toolchain.
	ChannelNone Channel = ""
	// ChannelNightly is the pinned experimental toolchain.
	ChannelNightly Channel = "nightly"
	// ChannelStable is the pinned stable toolchain.
	ChannelStable Channel = "stable"

	// CategorySetup installs toolchain components (rustfmt, clippy).
	CategorySetup Category = "setup"
	// CategoryFormat runs the formatter.
	CategoryFormat Category = "format"
	// CategoryLint runs the linter.
	CategoryLint Category = "lint"
	// CategoryStaticCheck runs the type and borrow checker.
	CategoryStaticCheck Category = "static-check"
	// CategoryDocs builds documentation.
	CategoryDocs Category = "docs"
	// CategoryTest runs the feature-matrix test suite.
	CategoryTest Category = "test"
	// CategoryMSRV verifies the minimum supported compiler version.
	CategoryMSRV Category = "msrv"
	// CategoryDependencyExtremes checks buildability at minimum and maximum
	// dependency versions.
	CategoryDependencyExtremes Category = "dependency-extremes"
	// CategoryVCS covers version-control commands (tag, push).
	CategoryVCS Category = "vcs"
	// CategoryToolInstall installs helper binaries with the default
	// toolchain. Their own dependency trees need a newer compiler than the
	// pinned stable one.
	CategoryToolInstall Category = "tool-install"
)

var (
	// ErrInvalidToolchainID is the sentinel error wrapped by InvalidIDError.
	ErrInvalidToolchainID = errors.New("invalid toolchain identifier")
	// ErrUnknownCategory is the sentinel error wrapped by UnknownCategoryError.
	ErrUnknownCategory = errors.New("unknown step category")
)

type (
	// Channel names one of the two pinned toolchains.
	Channel string

	// Category classifies a step for toolchain selection.
	Category string

	// ID is a concrete toolchain identifier as understood by rustup
	// (e.g. "nightly-2025-07-10", "1.63.0").
	ID string

	// InvalidIDError is returned when a pinned toolchain is empty or contains
	// whitespace.
	InvalidIDError struct {
		Channel Channel
		Value   ID
	}

	// UnknownCategoryError is returned for categories missing from the
	// channel table.
	UnknownCategoryError struct {
		Category Category
	}

	// Pins holds the concrete identifier for each channel.
	Pins struct {
		Nightly ID
		Stable  ID
	}

	// Resolver selects the toolchain for a step category.
	Resolver struct {
		pins Pins
	}
)

// categoryChannels is the static category table. A category is never mapped
// to more than one channel.
var categoryChannels = map[Category]Channel{
	CategorySetup:              ChannelNightly,
	CategoryFormat:             ChannelNightly,
	CategoryLint:               ChannelNightly,
	CategoryStaticCheck:        ChannelNightly,
	CategoryDependencyExtremes: ChannelNightly,
	CategoryDocs:               ChannelStable,
	CategoryTest:               ChannelStable,
	CategoryMSRV:               ChannelStable,
	CategoryVCS:                ChannelNone,
	CategoryToolInstall:        ChannelNone,
}

// Categories returns every declared category in a fixed order.
func Categories() []Category {
	return []Category{
		CategorySetup,
		CategoryFormat,
		CategoryLint,
		CategoryStaticCheck,
		CategoryDocs,
		CategoryTest,
		CategoryMSRV,
		CategoryDependencyExtremes,
		CategoryVCS,
		CategoryToolInstall,
	}
}

// Error implements the error interface.
func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid %s toolchain %q (must be non-empty without whitespace)", e.Channel, e.Value)
}

// Unwrap returns ErrInvalidToolchainID for errors.Is compatibility.
func (e *InvalidIDError) Unwrap() error { return ErrInvalidToolchainID }

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("step category %q has no toolchain channel", e.Category)
}

// Unwrap returns ErrUnknownCategory for errors.Is compatibility.
func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }

// String returns the identifier.
func (id ID) String() string { return string(id) }

// Validate checks both pins.
func (p Pins) Validate() error {
	for _, pin := range []struct {
		channel Channel
		id      ID
	}{
		{ChannelNightly, p.Nightly},
		{ChannelStable, p.Stable},
	} {
		if pin.id == "" || strings.ContainsFunc(string(pin.id), isSpace) {
			return &InvalidIDError{Channel: pin.channel, Value: pin.id}
		}
	}
	return nil
}

// NewResolver creates a resolver for the given pins.
func NewResolver(pins Pins) *Resolver {
	return &Resolver{pins: pins}
}

// ChannelFor returns the channel a category runs on. The second result is
// false for categories missing from the static table.
func ChannelFor(c Category) (Channel, bool) {
	ch, ok := categoryChannels[c]
	return ch, ok
}

// Resolve returns the toolchain for a category. Categories that run without
// a toolchain, and unknown categories, resolve to the empty ID.
func (r *Resolver) Resolve(c Category) ID {
	switch categoryChannels[c] {
	case ChannelNightly:
		return r.pins.Nightly
	case ChannelStable:
		return r.pins.Stable
	default:
		return ""
	}
}

// Lookup is Resolve for callers that build steps: an unknown category is an
// error instead of the empty ID.
func (r *Resolver) Lookup(c Category) (ID, error) {
	if _, ok := ChannelFor(c); !ok {
		return "", &UnknownCategoryError{Category: c}
	}
	return r.Resolve(c), nil
}

// Pins returns the pins the resolver was built with.
func (r *Resolver) Pins() Pins {
	return r.pins
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
