// SPDX-License-Identifier: MPL-2.0

// Package toolchain maps step categories to the pinned compiler toolchain
// they run with.
//
// Two channels exist. The nightly pin carries formatting, linting, strict
// type-checking and dependency-extreme resolution (which relies on unstable
// cargo flags). The stable pin carries portable test execution, documentation
// builds and minimum-supported-version verification. Every category maps to
// exactly one channel, or to none for version-control steps.
package toolchain
