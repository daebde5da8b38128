// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultProbeTimeout bounds the whole compatibility-layer probe, across
	// every candidate binary.
	DefaultProbeTimeout = 500 * time.Millisecond

	// MaxProbeTimeout caps configured timeouts. Together with probeWaitDelay
	// it keeps detection under one second.
	MaxProbeTimeout = 800 * time.Millisecond

	// probeWaitDelay caps how long a killed probe may hold its output pipes.
	probeWaitDelay = 100 * time.Millisecond
)

// ErrAlreadyDetected is returned by SetProbeOptions once Detect has run.
var ErrAlreadyDetected = errors.New("platform capabilities already detected")

var (
	// compatRoots lists where each BSD keeps its Linux userland.
	compatRoots = map[Family][]string{
		FamilyFreeBSD: {"/compat/linux"},
		FamilyNetBSD:  {"/emul/linux"},
	}

	// probeBinaries are trivial Linux executables expected inside a userland root.
	probeBinaries = []string{"bin/true", "usr/bin/true"}

	probeOptions atomic.Pointer[ProbeOptions]
	detected     atomic.Bool

	// detectOnce caches the snapshot for the lifetime of the process.
	//
	// INVARIANT: detectFrom MUST NOT panic. sync.OnceValue re-panics on every
	// call after a panic, which would turn one bad probe into a persistent
	// crash condition.
	detectOnce = sync.OnceValue(func() Snapshot {
		detected.Store(true)
		opts := DefaultProbeOptions()
		if o := probeOptions.Load(); o != nil {
			opts = *o
		}
		return detectFrom(systemHost(), opts)
	})
)

type (
	// ProbeOptions tunes the compatibility-layer probe.
	ProbeOptions struct {
		// Roots replaces the built-in userland roots when non-empty.
		Roots []string
		// Timeout bounds the probe of one root, shared by all candidate
		// binaries. Zero means DefaultProbeTimeout; values above
		// MaxProbeTimeout are capped.
		Timeout time.Duration
		// Disabled skips the compatibility-layer probe entirely.
		Disabled bool
	}

	// host is the set of operating system lookups detection depends on.
	// Production code uses systemHost; tests substitute fakes.
	host struct {
		goos     string
		goarch   string
		machine  func() (string, error)
		getenv   func(string) string
		stat     func(string) error
		glob     func(string) ([]string, error)
		readFile func(string) ([]byte, error)
		run      func(ctx context.Context, name string, args ...string) error
	}
)

// DefaultProbeOptions returns the probe settings used when none are configured.
func DefaultProbeOptions() ProbeOptions {
	return ProbeOptions{Timeout: DefaultProbeTimeout}
}

// Detect returns the capability snapshot of the running machine. The probes
// run on the first call only; later calls return an identical value.
func Detect() Snapshot {
	return detectOnce()
}

// DetectWith runs detection with explicit probe options, bypassing the
// process-wide cache. Each call probes the system again.
func DetectWith(opts ProbeOptions) Snapshot {
	return detectFrom(systemHost(), opts)
}

// SetProbeOptions configures the probe used by the first Detect call.
// It must be called during initialization; after Detect has run it returns
// ErrAlreadyDetected and has no effect.
func SetProbeOptions(opts ProbeOptions) error {
	if detected.Load() {
		return ErrAlreadyDetected
	}
	opts.Roots = append([]string(nil), opts.Roots...)
	probeOptions.Store(&opts)
	return nil
}

// systemHost returns the production adapters for detection.
func systemHost() host {
	return host{
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
		machine:  unameMachine,
		getenv:   os.Getenv,
		stat:     statFile,
		glob:     filepath.Glob,
		readFile: os.ReadFile,
		run:      runCommand,
	}
}

// detectFrom builds a snapshot from the given host adapters.
func detectFrom(h host, opts ProbeOptions) Snapshot {
	family := FamilyFromGOOS(h.goos)
	if family == "" {
		slog.Debug("operating system outside known families", "goos", h.goos)
	}

	rawArch, err := h.machine()
	if err != nil || strings.TrimSpace(rawArch) == "" {
		slog.Debug("machine name unavailable, falling back to GOARCH", "goarch", h.goarch, "error", err)
		rawArch = h.goarch
	}

	snap := Snapshot{
		Family:  family,
		Arch:    NormalizeArch(rawArch),
		Libc:    detectLibc(family, h.glob),
		Sandbox: detectSandboxFrom(h.getenv, h.stat),
		RawOS:   h.goos,
		RawArch: rawArch,
	}

	if family.IsBSD() && !opts.Disabled {
		snap.Compat = probeCompat(h, family, opts)
	}

	return snap
}

// probeCompat looks for a Linux userland root and checks that a trivial
// binary inside it actually runs.
func probeCompat(h host, family Family, opts ProbeOptions) CompatLayer {
	roots := opts.Roots
	if len(roots) == 0 {
		roots = compatRoots[family]
	}

	for _, root := range roots {
		if err := h.stat(root); err != nil {
			slog.Debug("compatibility root not present", "root", root, "error", err)
			continue
		}

		layer := CompatLayer{
			Root:      root,
			Available: true,
			DistroID:  readDistroID(h.readFile, root),
		}
		layer.Functional = runProbe(h, root, opts.Timeout)
		return layer
	}

	return CompatLayer{}
}

// runProbe executes the probe binaries under root until one exits cleanly.
// All candidates share one deadline, so a wedged layer costs at most timeout.
func runProbe(h host, root string, timeout time.Duration) bool {
	switch {
	case timeout <= 0:
		timeout = DefaultProbeTimeout
	case timeout > MaxProbeTimeout:
		slog.Debug("probe timeout capped", "requested", timeout, "max", MaxProbeTimeout)
		timeout = MaxProbeTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, rel := range probeBinaries {
		bin := filepath.Join(root, rel)
		if err := h.stat(bin); err != nil {
			continue
		}

		err := h.run(ctx, bin)
		if err == nil {
			return true
		}
		slog.Debug("compatibility probe failed", "binary", bin, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			slog.Debug("compatibility probe deadline reached", "root", root, "timeout", timeout, "error", ctxErr)
			return false
		}
	}

	return false
}

// statFile checks for the existence of a file at the given path.
func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}

// runCommand runs name with args, discarding output.
func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.WaitDelay = probeWaitDelay
	return cmd.Run()
}
