// SPDX-License-Identifier: MPL-2.0

// Package variant selects the distribution variant of a package that fits
// the running machine.
//
// A package declares one variant or an ordered list of them, each optionally
// tagged with target identifiers. Resolver.Resolve picks the first variant
// whose targets the host satisfies, falls back once to the compatibility
// family when one is installed, and otherwise fails with
// ErrPlatformUnsupported. Resolution performs no I/O and is deterministic.
package variant
