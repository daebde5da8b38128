// SPDX-License-Identifier: MPL-2.0

// Package config handles pkgtarget configuration using Viper with CUE as the
// file format.
//
// Configuration is loaded from ~/.config/pkgtarget/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/pkgtarget/config.cue on
// macOS, %APPDATA%\pkgtarget\config.cue on Windows), validated against the
// embedded config_schema.cue, and overlaid with PKGTARGET_* environment
// variables (PKGTARGET_COMPAT_ENABLED=false, PKGTARGET_LOG_LEVEL=debug).
package config
