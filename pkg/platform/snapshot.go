// SPDX-License-Identifier: MPL-2.0

package platform

// DistroUnknown is reported when the compatibility layer's release metadata
// could not be read.
const DistroUnknown = "unknown"

type (
	// Snapshot is an immutable record of what the running machine natively
	// supports. It is a plain value: copies are independent and nothing in
	// this package mutates a Snapshot after it has been returned.
	Snapshot struct {
		// Family is the native OS family. Empty for systems outside the
		// known families (js, wasip1, plan9).
		Family Family `json:"family"`
		// Arch is the normalized host CPU architecture.
		Arch Arch `json:"arch"`
		// Libc is the host C library flavor.
		Libc Libc `json:"libc"`
		// Compat describes the foreign-OS compatibility layer. The zero value
		// means no layer was found or the host is not a BSD.
		Compat CompatLayer `json:"compat"`
		// Sandbox is the application sandbox the process runs in, if any.
		Sandbox SandboxType `json:"sandbox,omitempty"`
		// RawOS is runtime.GOOS as seen by the process.
		RawOS string `json:"raw_os"`
		// RawArch is the machine name before normalization.
		RawArch string `json:"raw_arch"`
	}

	// CompatLayer is the state of a Linux binary compatibility layer on a
	// BSD host.
	CompatLayer struct {
		// Root is the directory tree holding the foreign userland.
		Root string `json:"root,omitempty"`
		// Available is true when Root exists.
		Available bool `json:"available"`
		// Functional is true when a trivial foreign binary inside Root ran
		// successfully.
		Functional bool `json:"functional"`
		// DistroID is the os-release ID of the foreign userland, or
		// DistroUnknown.
		DistroID string `json:"distro_id,omitempty"`
	}
)

// Usable reports whether foreign binaries can be executed through the layer.
func (c CompatLayer) Usable() bool {
	return c.Available && c.Functional
}

// HasUsableCompat reports whether the snapshot has a usable compatibility layer.
func (s Snapshot) HasUsableCompat() bool {
	return s.Compat.Usable()
}
