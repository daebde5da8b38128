// SPDX-License-Identifier: MPL-2.0

// Package platform detects what the running machine can execute.
//
// Detection produces an immutable Snapshot: the OS family, the normalized CPU
// architecture, the C library flavor, the sandbox the process runs in, and, on
// BSD hosts, the state of a Linux binary compatibility layer (for example
// FreeBSD's /compat/linux). The snapshot is computed once per process by Detect
// and every later call returns the same value.
//
// All probes are best-effort. A missing file, an unreadable release file, or a
// probe binary that fails to run lowers the reported capability instead of
// returning an error.
package platform
