// SPDX-License-Identifier: MPL-2.0

package shellenv

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/invowk/pkgtarget/pkg/platform"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// PathVar is the search-path variable extended with compatibility directories.
	PathVar = "PATH"
	// CompatRootVar exports the compatibility root in use.
	CompatRootVar = "PKGTARGET_COMPAT_ROOT"

	// listSeparator is fixed: compatibility layers only exist on POSIX hosts.
	listSeparator = ":"
)

// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
var ErrInvalidName = errors.New("invalid environment variable name")

// compatBinDirs are the userland directories, relative to the root, that are
// appended to PATH.
var compatBinDirs = []string{"usr/bin", "bin"}

type (
	// Export is a single environment assignment.
	Export struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}

	// InvalidNameError is returned when an export name is not a valid shell
	// variable name.
	InvalidNameError struct {
		Name string
	}
)

// CompatExports returns the exports that put the compatibility layer's
// binaries on the search path. active reports whether the compatibility
// policy is installed; when it is not, or the snapshot has no root, there is
// nothing to export.
//
// Compatibility directories are appended after currentPath so native tools
// keep precedence. Directories already present are not repeated.
func CompatExports(snap platform.Snapshot, active bool, currentPath string) []Export {
	root := snap.Compat.Root
	if !active || root == "" {
		return nil
	}

	var dirs []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	for _, dir := range strings.Split(currentPath, listSeparator) {
		add(dir)
	}
	for _, rel := range compatBinDirs {
		add(path.Join(root, rel))
	}

	return []Export{
		{Name: PathVar, Value: strings.Join(dirs, listSeparator)},
		{Name: CompatRootVar, Value: root},
	}
}

// Render writes one assignment per line. Plain output is NAME=value; quoted
// output is 'export NAME=...' with the value quoted for a POSIX shell, safe
// to pass to eval.
func Render(w io.Writer, exports []Export, quote bool) error {
	for _, e := range exports {
		if !syntax.ValidName(e.Name) {
			return &InvalidNameError{Name: e.Name}
		}

		line := e.Name + "=" + e.Value
		if quote {
			q, err := syntax.Quote(e.Value, syntax.LangPOSIX)
			if err != nil {
				return fmt.Errorf("quoting %s: %w", e.Name, err)
			}
			line = "export " + e.Name + "=" + q
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid environment variable name %q", e.Name)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }
