// SPDX-License-Identifier: MPL-2.0

// Package target parses target identifiers of the form os[_arch[_env]] and
// answers whether the running machine satisfies them.
//
// A Table is built once from a platform.Snapshot and an optional Extension
// (normally the Linux compatibility policy from package compat). It is never
// mutated afterwards and may be shared between goroutines.
package target
