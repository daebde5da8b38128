// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers: environment and home directory
// overrides that restore themselves on cleanup, file writing that fails the
// test on error, and capability snapshot fixtures for the common hosts.
package testutil
