// SPDX-License-Identifier: MPL-2.0

package platform

const (
	// LibcGlibc is the GNU C library.
	LibcGlibc Libc = "glibc"
	// LibcMusl is musl libc (Alpine, Void musl).
	LibcMusl Libc = "musl"
	// LibcBSD is the native libc of a BSD system.
	LibcBSD Libc = "bsd"
	// LibcUnknown means the flavor could not be determined or does not apply.
	LibcUnknown Libc = "unknown"
)

var (
	muslLoaderGlobs  = []string{"/lib/ld-musl-*.so.1"}
	glibcLoaderGlobs = []string{"/lib*/ld-linux*.so*", "/lib/*/ld-linux*.so*"}
)

// Libc identifies the C library flavor of the host.
type Libc string

// String returns the string representation of the Libc.
func (l Libc) String() string { return string(l) }

// detectLibc inspects dynamic loader paths on Linux. musl is checked first
// because some musl systems also ship a glibc compatibility loader.
func detectLibc(family Family, glob func(string) ([]string, error)) Libc {
	switch {
	case family.IsBSD():
		return LibcBSD
	case family != FamilyLinux:
		return LibcUnknown
	}

	if anyGlobMatch(glob, muslLoaderGlobs) {
		return LibcMusl
	}
	if anyGlobMatch(glob, glibcLoaderGlobs) {
		return LibcGlibc
	}
	return LibcUnknown
}

func anyGlobMatch(glob func(string) ([]string, error), patterns []string) bool {
	for _, p := range patterns {
		matches, err := glob(p)
		if err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}
