// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The manifest and config packages both follow the same flow:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with schema
//  3. Validate and decode to Go values
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[map[string]any](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Manifest",
//	    cueutil.WithFilename("ripgrep.cue"),
//	    cueutil.WithConcrete(true),
//	)
//	if err != nil {
//	    return nil, err // includes the CUE path of the offending field
//	}
package cueutil
