// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"io/fs"
	"testing"
)

func TestParseOSRelease(t *testing.T) {
	t.Parallel()

	data := []byte(`# comment
NAME="Rocky Linux"
ID=rocky
ID_LIKE="rhel centos fedora"
VERSION_ID='9.3'
garbage line
`)
	got := parseOSRelease(data)

	want := map[string]string{
		"NAME":       "Rocky Linux",
		"ID":         "rocky",
		"ID_LIKE":    "rhel centos fedora",
		"VERSION_ID": "9.3",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("parseOSRelease()[%q] = %q, want %q", k, got[k], v)
		}
	}
	if len(got) != len(want) {
		t.Errorf("parseOSRelease() returned %d keys, want %d: %v", len(got), len(want), got)
	}
}

func TestReadDistroID(t *testing.T) {
	t.Parallel()

	files := map[string][]byte{
		"/compat/linux/usr/lib/os-release": []byte("ID=\"Ubuntu\"\n"),
		"/emul/linux/etc/os-release":       []byte("NAME=nothing\n"),
	}
	readFile := func(path string) ([]byte, error) {
		if data, ok := files[path]; ok {
			return data, nil
		}
		return nil, fs.ErrNotExist
	}

	if got := readDistroID(readFile, "/compat/linux"); got != "ubuntu" {
		t.Errorf("readDistroID(/compat/linux) = %q, want ubuntu (from usr/lib fallback)", got)
	}
	if got := readDistroID(readFile, "/emul/linux"); got != DistroUnknown {
		t.Errorf("readDistroID(/emul/linux) = %q, want %q", got, DistroUnknown)
	}
	if got := readDistroID(readFile, "/nowhere"); got != DistroUnknown {
		t.Errorf("readDistroID(/nowhere) = %q, want %q", got, DistroUnknown)
	}
}
