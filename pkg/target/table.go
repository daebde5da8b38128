// SPDX-License-Identifier: MPL-2.0

package target

import (
	"slices"

	"github.com/invowk/pkgtarget/pkg/platform"
)

const (
	// Defer means the extension has no opinion and the standard rules apply.
	Defer Verdict = iota
	// Accept means the extension declares the target satisfied.
	Accept
	// Reject means the extension declares the target unsatisfied.
	Reject
)

type (
	// Verdict is an extension's answer for a single target.
	Verdict int

	// Extension widens what a Table accepts and where extra families sit in
	// the priority order. Implementations must be immutable.
	Extension interface {
		// ExtendPredicate returns Accept or Reject for targets it claims and
		// Defer for everything else.
		ExtendPredicate(id Identifier) Verdict
		// ExtendPriority returns order with the extension's family inserted.
		// It must not reorder or remove existing entries.
		ExtendPriority(order []platform.Family) []platform.Family
	}

	// Table answers whether the host described by a snapshot satisfies a
	// target identifier.
	Table struct {
		snap     platform.Snapshot
		ext      Extension
		priority []platform.Family
	}
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Defer:
		return "defer"
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// NewTable builds a table for snap. ext may be nil.
func NewTable(snap platform.Snapshot, ext Extension) *Table {
	t := &Table{snap: snap, ext: ext}
	t.priority = t.buildPriority()
	return t
}

// Snapshot returns the snapshot the table was built from.
func (t *Table) Snapshot() platform.Snapshot { return t.snap }

// Extension returns the installed extension, or nil.
func (t *Table) Extension() Extension { return t.ext }

// Priority returns the family order used for dispatch and default targets:
// the native family, then any families inserted by the extension, then unix
// for POSIX hosts. The returned slice is a copy.
func (t *Table) Priority() []platform.Family {
	return slices.Clone(t.priority)
}

// Satisfies reports whether the host satisfies the target string. Malformed
// identifiers are never satisfied.
func (t *Table) Satisfies(s string) bool {
	id, err := Parse(s)
	if err != nil {
		return false
	}
	return t.SatisfiesID(id)
}

// SatisfiesID reports whether the host satisfies id.
func (t *Table) SatisfiesID(id Identifier) bool {
	if t.ext != nil {
		switch t.ext.ExtendPredicate(id) {
		case Accept:
			return true
		case Reject:
			return false
		case Defer:
		}
	}

	family, ok := LookupOS(id.OS)
	if !ok {
		return false
	}
	if !t.familyMatches(family) {
		return false
	}
	if id.Arch != "" && id.Arch != string(t.snap.Arch) {
		return false
	}
	return id.Env == "" || t.envMatches(id.Env)
}

func (t *Table) familyMatches(family platform.Family) bool {
	if family == platform.FamilyUnix {
		return t.snap.Family.IsPOSIX()
	}
	return family == t.snap.Family
}

// envMatches maps each env token to exactly one libc or family check.
func (t *Table) envMatches(env string) bool {
	switch env {
	case EnvGNU:
		return t.snap.Libc == platform.LibcGlibc
	case EnvMusl:
		return t.snap.Libc == platform.LibcMusl
	case platform.OpenBSD:
		return t.snap.Family == platform.FamilyOpenBSD
	case platform.FreeBSD:
		return t.snap.Family == platform.FamilyFreeBSD
	case platform.NetBSD:
		return t.snap.Family == platform.FamilyNetBSD
	default:
		return false
	}
}

func (t *Table) buildPriority() []platform.Family {
	var order []platform.Family
	if t.snap.Family != "" {
		order = append(order, t.snap.Family)
	}
	if t.ext != nil {
		order = t.ext.ExtendPriority(slices.Clone(order))
	}
	if t.snap.Family.IsPOSIX() {
		order = append(order, platform.FamilyUnix)
	}
	return dedupe(order)
}

// dedupe drops repeated families, keeping the first occurrence.
func dedupe(order []platform.Family) []platform.Family {
	out := make([]platform.Family, 0, len(order))
	for _, f := range order {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// ForeignExtension is an Extension that adds a whole foreign family, such as
// Linux on a BSD host. The resolver uses Family to build its fallback target.
type ForeignExtension interface {
	Extension
	Family() platform.Family
}
