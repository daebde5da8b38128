// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"

	"github.com/invowk/pkgtarget/pkg/platform"
)

// HomeEnvVar is the variable os.UserHomeDir reads on this platform.
func HomeEnvVar() string {
	if runtime.GOOS == platform.Windows {
		return "USERPROFILE"
	}
	return "HOME"
}

// SetHomeDir points the home directory at dir and returns a cleanup function
// restoring the original value:
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	return MustSetenv(t, HomeEnvVar(), dir)
}
