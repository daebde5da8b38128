// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
)

// osReleaseFiles are tried in order, relative to a userland root.
var osReleaseFiles = []string{"etc/os-release", "usr/lib/os-release"}

// parseOSRelease parses KEY=value lines of an os-release file. Quotes around
// values are stripped; comments and malformed lines are skipped.
func parseOSRelease(data []byte) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return fields
}

// readDistroID returns the os-release ID of the userland under root, or
// DistroUnknown when no release file is readable or it carries no ID.
func readDistroID(readFile func(string) ([]byte, error), root string) string {
	for _, name := range osReleaseFiles {
		data, err := readFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		if id := strings.ToLower(parseOSRelease(data)["ID"]); id != "" {
			return id
		}
	}
	return DistroUnknown
}
