// SPDX-License-Identifier: MPL-2.0

package target

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/pkgtarget/pkg/platform"
)

const (
	// OSUnix is the OS token satisfied by every POSIX host.
	OSUnix = "unix"
	// OSMac is an alias of darwin.
	OSMac = "mac"
	// OSWin is the short spelling of windows.
	OSWin = "win"

	// EnvGNU requires a glibc userland.
	EnvGNU = "gnu"
	// EnvMusl requires a musl userland.
	EnvMusl = "musl"

	separator     = "_"
	maxComponents = 3
)

// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
var ErrInvalidTarget = errors.New("invalid target identifier")

// osTokens is the closed set of OS components. Anything else never matches.
var osTokens = map[string]platform.Family{
	platform.Linux:   platform.FamilyLinux,
	platform.Darwin:  platform.FamilyDarwin,
	OSMac:            platform.FamilyDarwin,
	OSWin:            platform.FamilyWindows,
	platform.Windows: platform.FamilyWindows,
	platform.FreeBSD: platform.FamilyFreeBSD,
	platform.OpenBSD: platform.FamilyOpenBSD,
	platform.NetBSD:  platform.FamilyNetBSD,
	OSUnix:           platform.FamilyUnix,
}

type (
	// Identifier is a parsed target. Empty Arch or Env means the axis is
	// unconstrained.
	Identifier struct {
		OS   string `json:"os"`
		Arch string `json:"arch,omitempty"`
		Env  string `json:"env,omitempty"`
	}

	// InvalidTargetError is returned when a string is not a well-formed
	// target identifier.
	InvalidTargetError struct {
		Value  string
		Reason string
	}
)

// Parse splits s into its os, arch and env components. It checks shape only:
// an unknown OS token parses fine and simply never matches.
func Parse(s string) (Identifier, error) {
	if s == "" {
		return Identifier{}, &InvalidTargetError{Value: s, Reason: "empty identifier"}
	}

	parts := strings.Split(s, separator)
	if len(parts) > maxComponents {
		return Identifier{}, &InvalidTargetError{
			Value:  s,
			Reason: fmt.Sprintf("expected at most %d components, got %d", maxComponents, len(parts)),
		}
	}
	for i, p := range parts {
		if p == "" {
			return Identifier{}, &InvalidTargetError{Value: s, Reason: fmt.Sprintf("component %d is empty", i+1)}
		}
	}

	id := Identifier{OS: parts[0]}
	if len(parts) > 1 {
		id.Arch = parts[1]
	}
	if len(parts) > 2 {
		id.Env = parts[2]
	}
	return id, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Identifier {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// New builds an identifier for family and arch, using the family's token.
func New(family platform.Family, arch platform.Arch) Identifier {
	return Identifier{OS: family.Token(), Arch: string(arch)}
}

// LookupOS maps an OS token to its family. The boolean is false for tokens
// outside the closed set.
func LookupOS(token string) (platform.Family, bool) {
	f, ok := osTokens[token]
	return f, ok
}

// String joins the present components with underscores.
func (id Identifier) String() string {
	var sb strings.Builder
	sb.WriteString(id.OS)
	if id.Arch != "" {
		sb.WriteString(separator)
		sb.WriteString(id.Arch)
		if id.Env != "" {
			sb.WriteString(separator)
			sb.WriteString(id.Env)
		}
	}
	return sb.String()
}

// Family returns the family named by the OS component.
func (id Identifier) Family() (platform.Family, bool) {
	return LookupOS(id.OS)
}

// IsValid returns whether the identifier has a well-formed shape and a known
// OS token, and a list of validation errors if not.
func (id Identifier) IsValid() (bool, []error) {
	var errs []error
	if id.OS == "" {
		errs = append(errs, &InvalidTargetError{Value: id.String(), Reason: "missing os component"})
	} else if _, ok := LookupOS(id.OS); !ok {
		errs = append(errs, &InvalidTargetError{Value: id.String(), Reason: fmt.Sprintf("unknown os %q", id.OS)})
	}
	if id.Env != "" && id.Arch == "" {
		errs = append(errs, &InvalidTargetError{Value: id.String(), Reason: "env requires an arch component"})
	}
	for _, c := range []string{id.OS, id.Arch, id.Env} {
		if strings.Contains(c, separator) {
			errs = append(errs, &InvalidTargetError{Value: id.String(), Reason: fmt.Sprintf("component %q contains %q", c, separator)})
		}
	}
	return len(errs) == 0, errs
}

// CoversOS reports whether a declared OS token applies to an effective one.
// Tokens naming the same family match (mac and darwin, win and windows);
// unix covers every POSIX family. Unknown tokens cover nothing.
func CoversOS(declared, effective string) bool {
	df, ok := LookupOS(declared)
	if !ok {
		return false
	}
	ef, ok := LookupOS(effective)
	if !ok {
		return false
	}
	if df == ef {
		return true
	}
	return df == platform.FamilyUnix && ef.IsPOSIX()
}

// Covers reports whether declared structurally matches effective: compatible
// OS, and each of arch and env either absent from declared or equal.
func Covers(declared, effective Identifier) bool {
	if !CoversOS(declared.OS, effective.OS) {
		return false
	}
	if declared.Arch != "" && declared.Arch != effective.Arch {
		return false
	}
	return declared.Env == "" || declared.Env == effective.Env
}

// Error implements the error interface for InvalidTargetError.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidTarget for errors.Is() compatibility.
func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }
