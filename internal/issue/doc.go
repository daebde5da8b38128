// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for the pkgtarget CLI.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. An error may also point at an Issue, a catalogued
// Markdown explanation rendered with glamour when the CLI reports it.
package issue
