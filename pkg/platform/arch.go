// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"log/slog"
	"strings"
)

const (
	// ArchX64 is 64-bit x86 (x86_64, amd64).
	ArchX64 Arch = "x64"
	// ArchARM64 is 64-bit ARM (aarch64).
	ArchARM64 Arch = "arm64"
	// ArchX86 is 32-bit x86 (i386..i686).
	ArchX86 Arch = "x86"
	// ArchARM is 32-bit ARM without a more specific revision.
	ArchARM Arch = "arm"
)

// archAliases maps raw machine names reported by uname(2) or runtime.GOARCH
// to the names used in target identifiers.
var archAliases = map[string]Arch{
	"x86_64":     ArchX64,
	"amd64":      ArchX64,
	"aarch64":    ArchARM64,
	"aarch64_be": ArchARM64,
	"armv8b":     ArchARM64,
	"armv8l":     ArchARM64,
	"arm64":      ArchARM64,
	"i386":       ArchX86,
	"i486":       ArchX86,
	"i586":       ArchX86,
	"i686":       ArchX86,
	"386":        ArchX86,
	"x86":        ArchX86,
	"armhf":      ArchARM,
	"arm":        ArchARM,
}

// Arch is a normalized CPU architecture name.
type Arch string

// String returns the string representation of the Arch.
func (a Arch) String() string { return string(a) }

// NormalizeArch maps a raw machine name to its normalized form. Names outside
// the alias table are lower-cased and returned as-is (armv7l, riscv64,
// ppc64le), which keeps them distinct from every aliased name.
func NormalizeArch(raw string) Arch {
	key := strings.ToLower(strings.TrimSpace(raw))
	if a, ok := archAliases[key]; ok {
		return a
	}
	if key != "" {
		slog.Debug("unrecognized architecture name, using it verbatim", "arch", key)
	}
	return Arch(key)
}
