// SPDX-License-Identifier: MPL-2.0

//go:build unix

package platform

import "golang.org/x/sys/unix"

// unameMachine returns the machine field of uname(2). Unlike runtime.GOARCH it
// reports the hardware, so a 32-bit build on a 64-bit kernel still sees x86_64.
func unameMachine() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(u.Machine[:]), nil
}
