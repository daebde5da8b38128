// SPDX-License-Identifier: MPL-2.0

package target

import (
	"slices"
	"testing"

	"github.com/invowk/pkgtarget/internal/testutil"
	"github.com/invowk/pkgtarget/pkg/platform"

	"pgregory.net/rapid"
)

// stubExtension claims one OS token and inserts one family after the first entry.
type stubExtension struct {
	claims  string
	verdict Verdict
	family  platform.Family
}

func (s stubExtension) ExtendPredicate(id Identifier) Verdict {
	if id.OS == s.claims {
		return s.verdict
	}
	return Defer
}

func (s stubExtension) ExtendPriority(order []platform.Family) []platform.Family {
	if s.family == "" || len(order) == 0 {
		return order
	}
	return slices.Insert(order, 1, s.family)
}

func TestTable_Satisfies(t *testing.T) {
	t.Parallel()

	linux := NewTable(testutil.LinuxSnapshot(platform.ArchX64), nil)
	musl := NewTable(testutil.MuslSnapshot(platform.ArchARM64), nil)
	mac := NewTable(testutil.DarwinSnapshot(platform.ArchARM64), nil)
	win := NewTable(testutil.WindowsSnapshot(platform.ArchX64), nil)
	freebsd := NewTable(testutil.FreeBSDSnapshot(platform.ArchARM64), nil)
	illumos := NewTable(testutil.IllumosSnapshot(platform.ArchX64), nil)

	tests := []struct {
		name   string
		table  *Table
		target string
		want   bool
	}{
		{"linux os only", linux, "linux", true},
		{"linux arch match", linux, "linux_x64", true},
		{"linux arch mismatch", linux, "linux_arm64", false},
		{"linux gnu", linux, "linux_x64_gnu", true},
		{"linux musl on glibc", linux, "linux_x64_musl", false},
		{"linux unix", linux, "unix", true},
		{"linux darwin", linux, "darwin", false},
		{"musl env", musl, "linux_arm64_musl", true},
		{"musl gnu", musl, "linux_arm64_gnu", false},
		{"mac alias", mac, "mac_arm64", true},
		{"darwin name", mac, "darwin", true},
		{"mac unix_arm64", mac, "unix_arm64", true},
		{"win short", win, "win_x64", true},
		{"windows long", win, "windows", true},
		{"win unix", win, "unix", false},
		{"freebsd native", freebsd, "freebsd_arm64", true},
		{"freebsd env", freebsd, "freebsd_arm64_freebsd", true},
		{"freebsd wrong bsd env", freebsd, "freebsd_arm64_openbsd", false},
		{"freebsd linux without ext", freebsd, "linux_arm64", false},
		{"illumos unix", illumos, "unix_x64", true},
		{"illumos linux", illumos, "linux", false},
		{"unknown env", linux, "linux_x64_uclibc", false},
		{"malformed", linux, "linux__gnu", false},
		{"empty", linux, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.table.Satisfies(tt.target); got != tt.want {
				t.Errorf("Satisfies(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestTable_ExtensionVerdicts(t *testing.T) {
	t.Parallel()

	snap := testutil.FreeBSDSnapshot(platform.ArchARM64)

	accept := NewTable(snap, stubExtension{claims: "linux", verdict: Accept})
	if !accept.Satisfies("linux_x64") {
		t.Error("Accept verdict should satisfy a claimed target")
	}
	if !accept.Satisfies("freebsd") {
		t.Error("unclaimed targets should fall through to the standard rules")
	}

	reject := NewTable(snap, stubExtension{claims: "freebsd", verdict: Reject})
	if reject.Satisfies("freebsd_arm64") {
		t.Error("Reject verdict should override the standard rules")
	}

	deferring := NewTable(snap, stubExtension{claims: "linux", verdict: Defer})
	if deferring.Satisfies("linux") {
		t.Error("Defer verdict should fall through to the standard rules")
	}
	if deferring.Extension() == nil {
		t.Error("Extension() = nil, want installed extension")
	}
}

func TestTable_Priority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap platform.Snapshot
		ext  Extension
		want []platform.Family
	}{
		{"linux", testutil.LinuxSnapshot(platform.ArchX64), nil, []platform.Family{platform.FamilyLinux, platform.FamilyUnix}},
		{"windows", testutil.WindowsSnapshot(platform.ArchX64), nil, []platform.Family{platform.FamilyWindows}},
		{"illumos", testutil.IllumosSnapshot(platform.ArchX64), nil, []platform.Family{platform.FamilyUnix}},
		{
			"freebsd with extension",
			testutil.FreeBSDSnapshot(platform.ArchARM64),
			stubExtension{family: platform.FamilyLinux},
			[]platform.Family{platform.FamilyFreeBSD, platform.FamilyLinux, platform.FamilyUnix},
		},
		{
			"extension repeating native",
			testutil.FreeBSDSnapshot(platform.ArchARM64),
			stubExtension{family: platform.FamilyFreeBSD},
			[]platform.Family{platform.FamilyFreeBSD, platform.FamilyUnix},
		},
		{"unknown family", platform.Snapshot{RawOS: "plan9"}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table := NewTable(tt.snap, tt.ext)
			got := table.Priority()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Priority() = %v, want %v", got, tt.want)
			}
			if len(got) > 0 {
				got[0] = "mutated"
				if table.Priority()[0] == "mutated" {
					t.Error("Priority() must return a copy")
				}
			}
		})
	}
}

func TestVerdict_String(t *testing.T) {
	t.Parallel()

	for v, want := range map[Verdict]string{Defer: "defer", Accept: "accept", Reject: "reject", Verdict(9): "unknown"} {
		if got := v.String(); got != want {
			t.Errorf("Verdict(%d).String() = %q, want %q", v, got, want)
		}
	}
}

// Unknown OS tokens are never satisfied, whatever the host.
func TestTable_UnknownOSClosedWorld(t *testing.T) {
	t.Parallel()

	snapshots := []platform.Snapshot{
		testutil.LinuxSnapshot(platform.ArchX64),
		testutil.MuslSnapshot(platform.ArchARM64),
		testutil.DarwinSnapshot(platform.ArchARM64),
		testutil.WindowsSnapshot(platform.ArchX64),
		testutil.FreeBSDCompatSnapshot(platform.ArchARM64, true),
		testutil.IllumosSnapshot(platform.ArchX64),
	}

	rapid.Check(t, func(rt *rapid.T) {
		os := rapid.StringMatching(`[a-z0-9]{1,10}`).Filter(func(s string) bool {
			_, known := LookupOS(s)
			return !known
		}).Draw(rt, "os")
		arch := rapid.SampledFrom([]string{"", "x64", "arm64", "x86", "arm"}).Draw(rt, "arch")
		env := ""
		if arch != "" {
			env = rapid.SampledFrom([]string{"", "gnu", "musl", "freebsd"}).Draw(rt, "env")
		}
		snap := rapid.SampledFrom(snapshots).Draw(rt, "snapshot")

		id := Identifier{OS: os, Arch: arch, Env: env}
		if NewTable(snap, nil).Satisfies(id.String()) {
			rt.Fatalf("unknown os %q satisfied on %s", id, snap.Family)
		}
	})
}
