// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package platform

import "runtime"

func unameMachine() (string, error) {
	return runtime.GOARCH, nil
}
