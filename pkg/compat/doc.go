// SPDX-License-Identifier: MPL-2.0

// Package compat provides the Linux compatibility policy for BSD hosts and
// the process-wide slot it is installed into.
//
// A LinuxPolicy lets a target.Table accept linux targets when the host can
// run Linux binaries through its compatibility layer. The CPU architecture
// must always match the host exactly: a functional layer does not make an
// x64 binary runnable on an arm64 machine.
//
// The policy is installed at most once, before the first engine is built.
// The first Install wins: later calls do not replace it and fail with
// ErrAlreadyInstalled, even when they race with the first one. This is a
// deliberate change from last-write-wins, so a late installer cannot swap the
// policy under code that already observed it. Installation after the engine
// is built fails with ErrSealed.
package compat
