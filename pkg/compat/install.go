// SPDX-License-Identifier: MPL-2.0

package compat

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/invowk/pkgtarget/pkg/platform"
	"github.com/invowk/pkgtarget/pkg/target"
)

var (
	// ErrAlreadyInstalled is returned when a policy has already been installed.
	ErrAlreadyInstalled = errors.New("compatibility policy already installed")
	// ErrSealed is returned when installing after the engine has been built.
	ErrSealed = errors.New("compatibility policy can no longer be installed")
	// ErrNilPolicy is returned when Install is called with a nil extension.
	ErrNilPolicy = errors.New("compatibility policy is nil")

	installed atomic.Pointer[installation]
	sealed    atomic.Bool
)

type installation struct {
	ext target.Extension
}

// Install sets the process-wide extension. Only the first call succeeds;
// concurrent callers race on a single compare-and-swap.
func Install(ext target.Extension) error {
	if ext == nil {
		return ErrNilPolicy
	}
	if sealed.Load() {
		return ErrSealed
	}
	if !installed.CompareAndSwap(nil, &installation{ext: ext}) {
		return ErrAlreadyInstalled
	}
	slog.Debug("compatibility policy installed")
	return nil
}

// Installed returns the process-wide extension, or nil when none is installed.
func Installed() target.Extension {
	if in := installed.Load(); in != nil {
		return in.ext
	}
	return nil
}

// Seal forbids further installation. It is called when the default engine
// is first built.
func Seal() {
	sealed.Store(true)
}

// Sealed reports whether Seal has been called.
func Sealed() bool {
	return sealed.Load()
}

// Setup installs a LinuxPolicy for snap when enabled and the host has a
// usable compatibility layer. It reports whether a policy was installed.
func Setup(snap platform.Snapshot, enabled bool) (bool, error) {
	if !enabled {
		slog.Debug("compatibility policy disabled by configuration")
		return false, nil
	}
	policy, ok := ForSnapshot(snap)
	if !ok {
		return false, nil
	}
	if err := Install(policy); err != nil {
		return false, err
	}
	return true, nil
}
