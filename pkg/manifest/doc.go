// SPDX-License-Identifier: MPL-2.0

// Package manifest decodes package manifests supplied by a registry into a
// variant.Set.
//
// Manifests may be written in CUE, JSON, TOML or YAML. Every format decodes
// to the same generic document, which is then normalized: assets is a single
// table or a non-empty list, each asset's target is a string or a list of
// strings, and all other asset keys become the variant's opaque payload.
package manifest
