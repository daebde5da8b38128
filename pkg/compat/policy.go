// SPDX-License-Identifier: MPL-2.0

package compat

import (
	"log/slog"
	"slices"

	"github.com/invowk/pkgtarget/pkg/platform"
	"github.com/invowk/pkgtarget/pkg/target"
)

// LinuxPolicy widens a BSD host's accepted targets to same-architecture
// Linux targets when the compatibility layer works.
type LinuxPolicy struct {
	snap platform.Snapshot
}

// NewLinuxPolicy returns a policy bound to snap. The policy evaluates the
// snapshot's compatibility layer on every call, so a policy built for a host
// without a usable layer rejects every linux target it claims.
func NewLinuxPolicy(snap platform.Snapshot) *LinuxPolicy {
	return &LinuxPolicy{snap: snap}
}

// ForSnapshot returns a policy only when snap describes a BSD host with an
// available and functional Linux compatibility layer.
func ForSnapshot(snap platform.Snapshot) (*LinuxPolicy, bool) {
	if !snap.Family.IsBSD() || !snap.HasUsableCompat() {
		return nil, false
	}
	return NewLinuxPolicy(snap), true
}

// Family returns the foreign family the policy adds.
func (p *LinuxPolicy) Family() platform.Family {
	return platform.FamilyLinux
}

// ExtendPredicate claims linux targets on non-Linux hosts. It accepts one
// only when the layer is usable, the arch component is absent or equal to the
// host arch, and the env component is absent or gnu.
func (p *LinuxPolicy) ExtendPredicate(id target.Identifier) target.Verdict {
	family, ok := id.Family()
	if !ok || family != platform.FamilyLinux || p.snap.Family == platform.FamilyLinux {
		return target.Defer
	}

	if !p.snap.HasUsableCompat() {
		return target.Reject
	}
	if id.Arch != "" && id.Arch != string(p.snap.Arch) {
		slog.Debug("compat policy rejected cross-architecture target",
			"target", id.String(), "host_arch", p.snap.Arch)
		return target.Reject
	}
	// Linux ABI layers ship a glibc userland.
	if id.Env != "" && id.Env != target.EnvGNU {
		return target.Reject
	}
	return target.Accept
}

// ExtendPriority inserts linux right after the native family. The order is
// returned unchanged when the layer is not usable or linux is already listed.
func (p *LinuxPolicy) ExtendPriority(order []platform.Family) []platform.Family {
	if !p.snap.HasUsableCompat() || slices.Contains(order, platform.FamilyLinux) {
		return order
	}

	at := slices.Index(order, p.snap.Family) + 1
	if at == 0 {
		at = slices.Index(order, platform.FamilyUnix)
		if at < 0 {
			at = len(order)
		}
	}
	return slices.Insert(slices.Clone(order), at, platform.FamilyLinux)
}
