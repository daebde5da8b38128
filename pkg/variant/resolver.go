// SPDX-License-Identifier: MPL-2.0

package variant

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/invowk/pkgtarget/pkg/target"
)

type (
	// Resolver selects variants against a target table. It holds no mutable
	// state and is safe for concurrent use.
	Resolver struct {
		table *target.Table
	}

	// matcher decides whether one declared target applies.
	matcher func(declared target.Identifier) bool
)

// NewResolver returns a resolver over table.
func NewResolver(table *target.Table) *Resolver {
	return &Resolver{table: table}
}

// Table returns the table the resolver consults.
func (r *Resolver) Table() *target.Table { return r.table }

// EffectiveTarget returns the target variants are matched against and
// whether it came from opts. An explicit target is used verbatim. Otherwise
// it is the first family in priority order that the host satisfies, joined
// with the host architecture.
func (r *Resolver) EffectiveTarget(opts Options) (target.Identifier, bool, error) {
	if opts.Target != "" {
		id, err := target.Parse(opts.Target)
		if err != nil {
			return target.Identifier{}, true, err
		}
		return id, true, nil
	}

	arch := r.table.Snapshot().Arch
	for _, family := range r.table.Priority() {
		if r.table.SatisfiesID(target.Identifier{OS: family.Token()}) {
			return target.New(family, arch), false, nil
		}
	}
	return target.Identifier{}, false, &PlatformUnsupportedError{}
}

// Resolve returns the first variant in set that fits the effective target.
// A single variant is treated as a list of one. When nothing fits a derived
// target and a foreign-family extension is active, the scan is retried once
// against that family, skipping every declared target whose architecture
// differs from the host's.
func (r *Resolver) Resolve(set Set, opts Options) (Variant, error) {
	effective, explicit, err := r.EffectiveTarget(opts)
	if err != nil {
		if explicit {
			return Variant{}, fmt.Errorf("resolving explicit target: %w", err)
		}
		// Nothing is satisfied, so only unconstrained variants can apply.
		if v, ok := scan(set, func(target.Identifier) bool { return false }); ok {
			return v, nil
		}
		return Variant{}, &PlatformUnsupportedError{Declared: set.Declared()}
	}

	if explicit {
		if v, ok := scan(set, func(d target.Identifier) bool { return target.Covers(d, effective) }); ok {
			return v, nil
		}
		return Variant{}, r.unsupported(effective, set)
	}

	if v, ok := scan(set, r.derivedMatcher(effective, false)); ok {
		return v, nil
	}

	if fallback, ok := r.fallbackTarget(); ok {
		slog.Debug("no variant for native target, retrying with compatibility family",
			"target", effective.String(), "fallback", fallback.String())
		if v, ok := scan(set, r.derivedMatcher(fallback, true)); ok {
			return v, nil
		}
	}

	return Variant{}, r.unsupported(effective, set)
}

// derivedMatcher matches declared targets the host satisfies whose OS also
// covers the effective OS. With strictArch set, declared targets naming a
// different architecture than the host are skipped outright.
func (r *Resolver) derivedMatcher(effective target.Identifier, strictArch bool) matcher {
	hostArch := string(r.table.Snapshot().Arch)
	return func(d target.Identifier) bool {
		if strictArch && d.Arch != "" && d.Arch != hostArch {
			return false
		}
		return r.table.SatisfiesID(d) && target.CoversOS(d.OS, effective.OS)
	}
}

// fallbackTarget returns {foreign family}_{host arch} when the installed
// extension adds a family that is active in the priority order.
func (r *Resolver) fallbackTarget() (target.Identifier, bool) {
	foreign, ok := r.table.Extension().(target.ForeignExtension)
	if !ok {
		return target.Identifier{}, false
	}
	family := foreign.Family()
	if !slices.Contains(r.table.Priority(), family) {
		return target.Identifier{}, false
	}
	return target.New(family, r.table.Snapshot().Arch), true
}

func (r *Resolver) unsupported(effective target.Identifier, set Set) error {
	return &PlatformUnsupportedError{Target: effective.String(), Declared: set.Declared()}
}

// scan returns the first variant that is unconstrained or has a declared
// target accepted by match. Malformed declared targets never match.
func scan(set Set, match matcher) (Variant, bool) {
	for _, v := range set.variants {
		if v.Untargeted() {
			return v, true
		}
		for _, raw := range v.Targets {
			d, err := target.Parse(raw)
			if err != nil {
				slog.Debug("skipping malformed declared target", "target", raw, "error", err)
				continue
			}
			if match(d) {
				return v, true
			}
		}
	}
	return Variant{}, false
}
