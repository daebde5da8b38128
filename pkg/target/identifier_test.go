// SPDX-License-Identifier: MPL-2.0

package target

import (
	"errors"
	"testing"

	"github.com/invowk/pkgtarget/pkg/platform"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Identifier
		wantErr bool
	}{
		{"linux", Identifier{OS: "linux"}, false},
		{"linux_x64", Identifier{OS: "linux", Arch: "x64"}, false},
		{"linux_x64_gnu", Identifier{OS: "linux", Arch: "x64", Env: "gnu"}, false},
		{"haiku_x64", Identifier{OS: "haiku", Arch: "x64"}, false},
		{"", Identifier{}, true},
		{"_x64", Identifier{}, true},
		{"linux_", Identifier{}, true},
		{"linux__gnu", Identifier{}, true},
		{"linux_x86_64_gnu", Identifier{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %+v, want error", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidTarget) {
					t.Errorf("Parse(%q) error should wrap ErrInvalidTarget, got %v", tt.input, err)
				}
				var ite *InvalidTargetError
				if !errors.As(err, &ite) || ite.Value != tt.input {
					t.Errorf("Parse(%q) error = %v, want *InvalidTargetError for the input", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustParse(\"\") did not panic")
		}
	}()
	_ = MustParse("")
}

func TestNew(t *testing.T) {
	t.Parallel()

	if got := New(platform.FamilyWindows, platform.ArchX64).String(); got != "win_x64" {
		t.Errorf("New(windows, x64) = %q, want win_x64", got)
	}
	if got := New(platform.FamilyFreeBSD, platform.ArchARM64).String(); got != "freebsd_arm64" {
		t.Errorf("New(freebsd, arm64) = %q, want freebsd_arm64", got)
	}
}

func TestLookupOS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token  string
		want   platform.Family
		wantOK bool
	}{
		{"linux", platform.FamilyLinux, true},
		{"mac", platform.FamilyDarwin, true},
		{"darwin", platform.FamilyDarwin, true},
		{"win", platform.FamilyWindows, true},
		{"windows", platform.FamilyWindows, true},
		{"unix", platform.FamilyUnix, true},
		{"netbsd", platform.FamilyNetBSD, true},
		{"Linux", "", false},
		{"macos", "", false},
		{"haiku", "", false},
	}

	for _, tt := range tests {
		got, ok := LookupOS(tt.token)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("LookupOS(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIdentifier_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       Identifier
		wantOK   bool
		wantErrs int
	}{
		{"full", Identifier{OS: "linux", Arch: "x64", Env: "musl"}, true, 0},
		{"unknown os", Identifier{OS: "haiku"}, false, 1},
		{"missing os", Identifier{Arch: "x64"}, false, 1},
		{"env without arch", Identifier{OS: "linux", Env: "gnu"}, false, 1},
		{"separator in arch", Identifier{OS: "linux", Arch: "x86_64"}, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, errs := tt.id.IsValid()
			if ok != tt.wantOK || len(errs) != tt.wantErrs {
				t.Errorf("IsValid() = (%v, %v), want (%v, %d errors)", ok, errs, tt.wantOK, tt.wantErrs)
			}
			for _, err := range errs {
				if !errors.Is(err, ErrInvalidTarget) {
					t.Errorf("error %v should wrap ErrInvalidTarget", err)
				}
			}
		})
	}
}

func TestCovers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		declared  string
		effective string
		want      bool
	}{
		{"linux", "linux_x64", true},
		{"linux_x64", "linux_x64", true},
		{"linux_arm64", "linux_x64", false},
		{"mac_arm64", "darwin_arm64", true},
		{"darwin", "mac_x64", true},
		{"win_x64", "windows_x64", true},
		{"unix", "freebsd_arm64", true},
		{"unix_x64", "darwin_x64", true},
		{"unix", "win_x64", false},
		{"linux_x64_gnu", "linux_x64", false},
		{"linux_x64", "linux_x64_musl", true},
		{"linux_x64_musl", "linux_x64_musl", true},
		{"haiku_x64", "haiku_x64", false},
		{"freebsd", "linux_x64", false},
	}

	for _, tt := range tests {
		t.Run(tt.declared+"/"+tt.effective, func(t *testing.T) {
			t.Parallel()

			if got := Covers(MustParse(tt.declared), MustParse(tt.effective)); got != tt.want {
				t.Errorf("Covers(%q, %q) = %v, want %v", tt.declared, tt.effective, got, tt.want)
			}
		})
	}
}
