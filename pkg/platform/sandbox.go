// SPDX-License-Identifier: MPL-2.0

package platform

const (
	// SandboxNone means the process runs directly on the host.
	SandboxNone SandboxType = ""
	// SandboxFlatpak means the process runs inside a Flatpak.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap means the process runs inside a Snap.
	SandboxSnap SandboxType = "snap"

	flatpakInfoFile = "/.flatpak-info"
	snapNameEnv     = "SNAP_NAME"
)

// SandboxType identifies the application sandbox the process runs in. It is
// reported as a snapshot fact; Flatpak and Snap are Linux-only, so they never
// affect the compatibility probe, which runs on BSD hosts.
type SandboxType string

// detectSandboxFrom identifies the sandbox from its marker file or
// environment. Flatpak wins when both markers are present.
func detectSandboxFrom(getenv func(string) string, stat func(string) error) SandboxType {
	switch {
	case stat(flatpakInfoFile) == nil:
		return SandboxFlatpak
	case getenv(snapNameEnv) != "":
		return SandboxSnap
	default:
		return SandboxNone
	}
}
