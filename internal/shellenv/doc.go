// SPDX-License-Identifier: MPL-2.0

// Package shellenv computes the environment changes that expose a Linux
// compatibility layer's binaries and renders them as shell assignments.
//
// Nothing here mutates the process environment. The installer decides whether
// and when to apply the exports, typically by evaluating the output of
// 'pkgtarget env --shell-quote' during its own initialization.
package shellenv
