// SPDX-License-Identifier: MPL-2.0

package testutil

import "github.com/invowk/pkgtarget/pkg/platform"

// LinuxSnapshot returns a glibc Linux host with the given architecture.
func LinuxSnapshot(arch platform.Arch) platform.Snapshot {
	return platform.Snapshot{
		Family:  platform.FamilyLinux,
		Arch:    arch,
		Libc:    platform.LibcGlibc,
		RawOS:   platform.Linux,
		RawArch: string(arch),
	}
}

// MuslSnapshot returns a musl Linux host with the given architecture.
func MuslSnapshot(arch platform.Arch) platform.Snapshot {
	snap := LinuxSnapshot(arch)
	snap.Libc = platform.LibcMusl
	return snap
}

// DarwinSnapshot returns a macOS host with the given architecture.
func DarwinSnapshot(arch platform.Arch) platform.Snapshot {
	return platform.Snapshot{
		Family:  platform.FamilyDarwin,
		Arch:    arch,
		Libc:    platform.LibcUnknown,
		RawOS:   platform.Darwin,
		RawArch: string(arch),
	}
}

// WindowsSnapshot returns a Windows host with the given architecture.
func WindowsSnapshot(arch platform.Arch) platform.Snapshot {
	return platform.Snapshot{
		Family:  platform.FamilyWindows,
		Arch:    arch,
		Libc:    platform.LibcUnknown,
		RawOS:   platform.Windows,
		RawArch: string(arch),
	}
}

// FreeBSDSnapshot returns a FreeBSD host without a Linux compatibility layer.
func FreeBSDSnapshot(arch platform.Arch) platform.Snapshot {
	return platform.Snapshot{
		Family:  platform.FamilyFreeBSD,
		Arch:    arch,
		Libc:    platform.LibcBSD,
		RawOS:   platform.FreeBSD,
		RawArch: string(arch),
	}
}

// FreeBSDCompatSnapshot returns a FreeBSD host whose /compat/linux layer is
// present and, depending on functional, able to run Linux binaries.
func FreeBSDCompatSnapshot(arch platform.Arch, functional bool) platform.Snapshot {
	snap := FreeBSDSnapshot(arch)
	snap.Compat = platform.CompatLayer{
		Root:       "/compat/linux",
		Available:  true,
		Functional: functional,
		DistroID:   "rocky",
	}
	return snap
}

// IllumosSnapshot returns a generic POSIX host outside the named families.
func IllumosSnapshot(arch platform.Arch) platform.Snapshot {
	return platform.Snapshot{
		Family:  platform.FamilyUnix,
		Arch:    arch,
		Libc:    platform.LibcUnknown,
		RawOS:   "illumos",
		RawArch: string(arch),
	}
}
