// SPDX-License-Identifier: MPL-2.0

package variant

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPlatformUnsupported is the sentinel error wrapped by PlatformUnsupportedError.
var ErrPlatformUnsupported = errors.New("no compatible distribution found for this package on this machine")

// PlatformUnsupportedError is returned when no variant fits the effective
// target. It never carries a variant.
type PlatformUnsupportedError struct {
	// Target is the effective target, or empty when none could be derived.
	Target string
	// Declared lists the targets the package declares.
	Declared []string
}

// Error implements the error interface.
func (e *PlatformUnsupportedError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrPlatformUnsupported.Error())
	if e.Target != "" {
		fmt.Fprintf(&sb, " (target %s", e.Target)
	} else {
		sb.WriteString(" (no target satisfied by host")
	}
	if len(e.Declared) > 0 {
		fmt.Fprintf(&sb, "; declared: %s", strings.Join(e.Declared, ", "))
	}
	sb.WriteString(")")
	return sb.String()
}

// Unwrap returns ErrPlatformUnsupported for errors.Is() compatibility.
func (e *PlatformUnsupportedError) Unwrap() error { return ErrPlatformUnsupported }
