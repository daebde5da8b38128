// SPDX-License-Identifier: MPL-2.0

package compat

import (
	"errors"
	"sync"
	"testing"

	"github.com/invowk/pkgtarget/internal/testutil"
	"github.com/invowk/pkgtarget/pkg/platform"
)

// resetInstallation clears the process-wide slot. Tests using it must not
// run in parallel.
func resetInstallation(t *testing.T) {
	t.Helper()
	installed.Store(nil)
	sealed.Store(false)
	t.Cleanup(func() {
		installed.Store(nil)
		sealed.Store(false)
	})
}

func TestInstall_Once(t *testing.T) {
	resetInstallation(t)

	first := NewLinuxPolicy(testutil.FreeBSDCompatSnapshot(platform.ArchARM64, true))
	second := NewLinuxPolicy(testutil.FreeBSDCompatSnapshot(platform.ArchX64, true))

	if Installed() != nil {
		t.Fatal("Installed() should be nil before Install")
	}
	if err := Install(first); err != nil {
		t.Fatalf("Install() unexpected error: %v", err)
	}
	if err := Install(second); !errors.Is(err, ErrAlreadyInstalled) {
		t.Errorf("second Install() = %v, want ErrAlreadyInstalled", err)
	}
	if Installed() != first {
		t.Error("Installed() should return the first policy")
	}
}

func TestInstall_Nil(t *testing.T) {
	resetInstallation(t)

	if err := Install(nil); !errors.Is(err, ErrNilPolicy) {
		t.Errorf("Install(nil) = %v, want ErrNilPolicy", err)
	}
	if Installed() != nil {
		t.Error("Installed() should stay nil")
	}
}

func TestInstall_Sealed(t *testing.T) {
	resetInstallation(t)

	Seal()
	if !Sealed() {
		t.Fatal("Sealed() = false after Seal")
	}
	policy := NewLinuxPolicy(testutil.FreeBSDCompatSnapshot(platform.ArchARM64, true))
	if err := Install(policy); !errors.Is(err, ErrSealed) {
		t.Errorf("Install() after Seal = %v, want ErrSealed", err)
	}
}

func TestInstall_ConcurrentFirstWins(t *testing.T) {
	resetInstallation(t)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			arch := platform.ArchARM64
			if i%2 == 0 {
				arch = platform.ArchX64
			}
			err := Install(NewLinuxPolicy(testutil.FreeBSDCompatSnapshot(arch, true)))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, ErrAlreadyInstalled) {
				t.Errorf("Install() = %v, want nil or ErrAlreadyInstalled", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("%d installs succeeded, want exactly 1", successes)
	}
}

func TestSetup(t *testing.T) {
	tests := []struct {
		name    string
		snap    platform.Snapshot
		enabled bool
		want    bool
	}{
		{"installs on functional layer", testutil.FreeBSDCompatSnapshot(platform.ArchARM64, true), true, true},
		{"disabled", testutil.FreeBSDCompatSnapshot(platform.ArchARM64, true), false, false},
		{"broken layer", testutil.FreeBSDCompatSnapshot(platform.ArchARM64, false), true, false},
		{"linux host", testutil.LinuxSnapshot(platform.ArchX64), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetInstallation(t)

			got, err := Setup(tt.snap, tt.enabled)
			if err != nil {
				t.Fatalf("Setup() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Setup() = %v, want %v", got, tt.want)
			}
			if (Installed() != nil) != tt.want {
				t.Errorf("Installed() = %v, want installed=%v", Installed(), tt.want)
			}
		})
	}
}

func TestSetup_PropagatesInstallError(t *testing.T) {
	resetInstallation(t)

	snap := testutil.FreeBSDCompatSnapshot(platform.ArchARM64, true)
	if _, err := Setup(snap, true); err != nil {
		t.Fatalf("first Setup() unexpected error: %v", err)
	}
	ok, err := Setup(snap, true)
	if ok || !errors.Is(err, ErrAlreadyInstalled) {
		t.Errorf("second Setup() = (%v, %v), want (false, ErrAlreadyInstalled)", ok, err)
	}
}
