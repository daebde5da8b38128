// SPDX-License-Identifier: MPL-2.0

// Package engine bundles the capability snapshot, target table and variant
// resolver into the single object installers work with.
//
// Default builds the process-wide engine from platform.Detect and the
// installed compatibility policy. Building it seals package compat, so the
// policy must be installed first (see compat.Setup).
package engine

import (
	"log/slog"
	"sync"

	"github.com/invowk/pkgtarget/pkg/compat"
	"github.com/invowk/pkgtarget/pkg/dispatch"
	"github.com/invowk/pkgtarget/pkg/platform"
	"github.com/invowk/pkgtarget/pkg/target"
	"github.com/invowk/pkgtarget/pkg/variant"
)

// Engine resolves targets and variants for one snapshot. It is immutable.
type Engine struct {
	snap     platform.Snapshot
	table    *target.Table
	resolver *variant.Resolver
}

var defaultEngine = sync.OnceValue(func() *Engine {
	compat.Seal()
	e := New(platform.Detect(), compat.Installed())
	slog.Debug("resolution engine ready",
		"family", e.snap.Family, "arch", e.snap.Arch, "compat", e.table.Extension() != nil)
	return e
})

// New returns an engine for snap with an optional extension.
func New(snap platform.Snapshot, ext target.Extension) *Engine {
	table := target.NewTable(snap, ext)
	return &Engine{
		snap:     snap,
		table:    table,
		resolver: variant.NewResolver(table),
	}
}

// Default returns the process-wide engine, building it on first use.
func Default() *Engine {
	return defaultEngine()
}

// Snapshot returns the capability snapshot.
func (e *Engine) Snapshot() platform.Snapshot { return e.snap }

// Table returns the target table.
func (e *Engine) Table() *target.Table { return e.table }

// Satisfies reports whether the host satisfies the target string.
func (e *Engine) Satisfies(t string) bool { return e.table.Satisfies(t) }

// Priority returns the family priority order.
func (e *Engine) Priority() []platform.Family { return e.table.Priority() }

// CompatActive reports whether a compatibility extension is installed.
func (e *Engine) CompatActive() bool { return e.table.Extension() != nil }

// Resolve selects a variant from set.
func (e *Engine) Resolve(set variant.Set, opts variant.Options) (variant.Variant, error) {
	return e.resolver.Resolve(set, opts)
}

// DefaultTarget returns the capability-derived effective target.
func (e *Engine) DefaultTarget() (target.Identifier, error) {
	id, _, err := e.resolver.EffectiveTarget(variant.Options{})
	return id, err
}

// When dispatches cases over the engine's family priority.
func When[T any](e *Engine, cases dispatch.Cases[T]) T {
	return dispatch.When(e.table.Priority(), cases)
}
