// SPDX-License-Identifier: MPL-2.0

// Package installdir picks the default installation prefix for the host
// through platform-indexed dispatch.
package installdir

import (
	"os"

	"github.com/invowk/pkgtarget/pkg/dispatch"
	"github.com/invowk/pkgtarget/pkg/engine"
	"github.com/invowk/pkgtarget/pkg/platform"
)

// EnvOverride replaces the computed prefix when set.
const EnvOverride = "PKGTARGET_PREFIX"

// Prefix returns the default prefix on the host described by e, honoring
// EnvOverride from the process environment.
func Prefix(e *engine.Engine) string {
	return PrefixWith(e, os.LookupEnv)
}

// PrefixWith is Prefix with an explicit environment lookup.
func PrefixWith(e *engine.Engine, lookupEnv func(string) (string, bool)) string {
	if p, ok := lookupEnv(EnvOverride); ok && p != "" {
		return p
	}
	return engine.When(e, Cases(e.Snapshot(), lookupEnv))
}

// Cases returns the prefix producer for every family the installer knows.
// Every family has a case, so the native family always answers and the
// compatibility family never picks a prefix for a BSD host.
func Cases(snap platform.Snapshot, lookupEnv func(string) (string, bool)) dispatch.Cases[string] {
	usrLocal := func() string { return "/usr/local" }

	return dispatch.Cases[string]{
		platform.FamilyWindows: func() string {
			if dir, ok := lookupEnv("LOCALAPPDATA"); ok && dir != "" {
				return dir + `\Programs`
			}
			if home, ok := lookupEnv("USERPROFILE"); ok && home != "" {
				return home + `\AppData\Local\Programs`
			}
			return `C:\Program Files`
		},
		platform.FamilyDarwin: func() string {
			if snap.Arch == platform.ArchARM64 {
				return "/opt/homebrew"
			}
			return "/usr/local"
		},
		platform.FamilyNetBSD:  func() string { return "/usr/pkg" },
		platform.FamilyLinux:   usrLocal,
		platform.FamilyFreeBSD: usrLocal,
		platform.FamilyOpenBSD: usrLocal,
		platform.FamilyUnix:    usrLocal,
	}
}
