// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	FreeBSD = "freebsd"
	OpenBSD = "openbsd"
	NetBSD  = "netbsd"
)

const (
	// FamilyLinux is any Linux distribution.
	FamilyLinux Family = "linux"
	// FamilyDarwin is macOS.
	FamilyDarwin Family = "darwin"
	// FamilyWindows is Microsoft Windows.
	FamilyWindows Family = "windows"
	// FamilyFreeBSD is FreeBSD.
	FamilyFreeBSD Family = "freebsd"
	// FamilyOpenBSD is OpenBSD.
	FamilyOpenBSD Family = "openbsd"
	// FamilyNetBSD is NetBSD.
	FamilyNetBSD Family = "netbsd"
	// FamilyUnix is the generic POSIX family. It is the native family of POSIX
	// hosts not listed above (illumos, solaris, aix, dragonfly) and the
	// fallback family of every POSIX host.
	FamilyUnix Family = "unix"
)

// ErrInvalidFamily is the sentinel error wrapped by InvalidFamilyError.
var ErrInvalidFamily = errors.New("invalid platform family")

type (
	// Family is a coarse operating system family.
	Family string

	// InvalidFamilyError is returned when a Family value is not recognized.
	InvalidFamilyError struct {
		Value Family
	}
)

// AllFamilies returns every known family in a stable order.
func AllFamilies() []Family {
	return []Family{
		FamilyLinux, FamilyDarwin, FamilyWindows,
		FamilyFreeBSD, FamilyOpenBSD, FamilyNetBSD, FamilyUnix,
	}
}

// FamilyFromGOOS maps a runtime.GOOS value to its family. Unlisted POSIX
// systems map to FamilyUnix; anything else (js, wasip1, plan9) returns "".
func FamilyFromGOOS(goos string) Family {
	switch goos {
	case Linux, "android":
		return FamilyLinux
	case Darwin, "ios":
		return FamilyDarwin
	case Windows:
		return FamilyWindows
	case FreeBSD:
		return FamilyFreeBSD
	case OpenBSD:
		return FamilyOpenBSD
	case NetBSD:
		return FamilyNetBSD
	case "dragonfly", "illumos", "solaris", "aix", "hurd":
		return FamilyUnix
	default:
		return ""
	}
}

// String returns the string representation of the Family.
func (f Family) String() string { return string(f) }

// Token returns the spelling used for the family in target identifiers.
// Windows is spelled "win"; every other family uses its own name.
func (f Family) Token() string {
	if f == FamilyWindows {
		return "win"
	}
	return string(f)
}

// IsPOSIX reports whether the family is a POSIX system.
func (f Family) IsPOSIX() bool {
	switch f {
	case FamilyLinux, FamilyDarwin, FamilyFreeBSD, FamilyOpenBSD, FamilyNetBSD, FamilyUnix:
		return true
	default:
		return false
	}
}

// IsBSD reports whether the family is one of the BSDs.
func (f Family) IsBSD() bool {
	return f == FamilyFreeBSD || f == FamilyOpenBSD || f == FamilyNetBSD
}

// IsValid returns whether the Family is one of the defined families,
// and a list of validation errors if it is not.
func (f Family) IsValid() (bool, []error) {
	for _, known := range AllFamilies() {
		if f == known {
			return true, nil
		}
	}
	return false, []error{&InvalidFamilyError{Value: f}}
}

// Error implements the error interface for InvalidFamilyError.
func (e *InvalidFamilyError) Error() string {
	return fmt.Sprintf("invalid platform family %q (valid: linux, darwin, windows, freebsd, openbsd, netbsd, unix)", e.Value)
}

// Unwrap returns ErrInvalidFamily for errors.Is() compatibility.
func (e *InvalidFamilyError) Unwrap() error { return ErrInvalidFamily }
