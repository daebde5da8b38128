// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/pkgtarget/pkg/cueutil"
	"github.com/invowk/pkgtarget/pkg/target"
	"github.com/invowk/pkgtarget/pkg/variant"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE is a CUE manifest validated against #Manifest.
	FormatCUE Format = "cue"
	// FormatJSON is a JSON manifest.
	FormatJSON Format = "json"
	// FormatTOML is a TOML manifest.
	FormatTOML Format = "toml"
	// FormatYAML is a YAML manifest.
	FormatYAML Format = "yaml"

	targetKey = "target"
)

var (
	//go:embed manifest_schema.cue
	schema []byte

	// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")
	// ErrInvalidManifest is returned for manifests that do not decode or
	// do not have the expected shape.
	ErrInvalidManifest = errors.New("invalid manifest")
)

type (
	// Format identifies a manifest encoding.
	Format string

	// Manifest is a package declaration as supplied by a registry.
	Manifest struct {
		Name    string      `json:"name"`
		Version string      `json:"version,omitempty"`
		Assets  variant.Set `json:"assets"`
	}

	// UnsupportedFormatError is returned for unknown file extensions or formats.
	UnsupportedFormatError struct {
		Value string
	}

	// InvalidManifestError describes a field with the wrong shape.
	InvalidManifestError struct {
		File   string
		Field  string
		Reason string
	}
)

// FormatFromPath returns the format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		return FormatCUE, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &UnsupportedFormatError{Value: ext}
	}
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}
	return Parse(data, format, path)
}

// Parse decodes data in the given format. filename is used in error messages.
func Parse(data []byte, format Format, filename string) (*Manifest, error) {
	doc, err := decode(data, format, filename)
	if err != nil {
		return nil, err
	}
	return normalize(doc, filename)
}

// IsValid returns whether the Format is supported, and a list of validation
// errors if it is not.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatCUE, FormatJSON, FormatTOML, FormatYAML:
		return true, nil
	default:
		return false, []error{&UnsupportedFormatError{Value: string(f)}}
	}
}

func decode(data []byte, format Format, filename string) (map[string]any, error) {
	var (
		doc map[string]any
		err error
	)
	switch format {
	case FormatCUE:
		var result *cueutil.Decoded[map[string]any]
		result, err = cueutil.ParseAndDecode[map[string]any](schema, data, "#Manifest",
			cueutil.WithFilename(filename), cueutil.WithConcrete(true))
		if err == nil {
			doc = *result.Value
		}
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, &UnsupportedFormatError{Value: string(format)}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, filename, err)
	}
	if doc == nil {
		return nil, &InvalidManifestError{File: filename, Reason: "document is empty"}
	}
	return doc, nil
}

func normalize(doc map[string]any, filename string) (*Manifest, error) {
	invalid := func(field, reason string) error {
		return &InvalidManifestError{File: filename, Field: field, Reason: reason}
	}

	name, ok := doc["name"].(string)
	if !ok || name == "" {
		return nil, invalid("name", "must be a non-empty string")
	}

	m := &Manifest{Name: name}
	if raw, present := doc["version"]; present {
		if m.Version, ok = raw.(string); !ok {
			return nil, invalid("version", "must be a string")
		}
	}

	raw, present := doc["assets"]
	if !present {
		return nil, invalid("assets", "is required")
	}

	if table, isTable := asTable(raw); isTable {
		v, err := normalizeAsset(table, "assets")
		if err != nil {
			return nil, invalid(err.field, err.reason)
		}
		m.Assets = variant.One(v)
		return m, nil
	}

	entries, isList := asList(raw)
	if !isList {
		return nil, invalid("assets", "must be a table or a list of tables")
	}
	if len(entries) == 0 {
		return nil, invalid("assets", "must not be empty")
	}
	vs := make([]variant.Variant, 0, len(entries))
	for i, entry := range entries {
		field := fmt.Sprintf("assets[%d]", i)
		table, ok := asTable(entry)
		if !ok {
			return nil, invalid(field, "must be a table")
		}
		v, err := normalizeAsset(table, field)
		if err != nil {
			return nil, invalid(err.field, err.reason)
		}
		vs = append(vs, v)
	}
	m.Assets = variant.List(vs...)
	return m, nil
}

type fieldError struct {
	field  string
	reason string
}

func normalizeAsset(table map[string]any, field string) (variant.Variant, *fieldError) {
	var v variant.Variant

	if raw, ok := table[targetKey]; ok {
		targets, err := normalizeTargets(raw, field+"."+targetKey)
		if err != nil {
			return variant.Variant{}, err
		}
		v.Targets = targets
	}

	payload := maps.Clone(table)
	delete(payload, targetKey)
	if len(payload) > 0 {
		v.Payload = payload
	}
	return v, nil
}

func normalizeTargets(raw any, field string) (variant.Targets, *fieldError) {
	if s, ok := raw.(string); ok {
		if err := checkTarget(s, field); err != nil {
			return nil, err
		}
		return variant.Targets{s}, nil
	}

	items, ok := asList(raw)
	if !ok {
		return nil, &fieldError{field: field, reason: "must be a string or a list of strings"}
	}
	if len(items) == 0 {
		return nil, &fieldError{field: field, reason: "must not be empty"}
	}
	targets := make(variant.Targets, 0, len(items))
	for i, item := range items {
		itemField := fmt.Sprintf("%s[%d]", field, i)
		s, ok := item.(string)
		if !ok {
			return nil, &fieldError{field: itemField, reason: "must be a string"}
		}
		if err := checkTarget(s, itemField); err != nil {
			return nil, err
		}
		targets = append(targets, s)
	}
	return targets, nil
}

// checkTarget rejects malformed identifiers. Unknown OS tokens are kept:
// they are well-formed and simply never match.
func checkTarget(s, field string) *fieldError {
	if _, err := target.Parse(s); err != nil {
		var ite *target.InvalidTargetError
		if errors.As(err, &ite) {
			return &fieldError{field: field, reason: fmt.Sprintf("%q: %s", s, ite.Reason)}
		}
		return &fieldError{field: field, reason: err.Error()}
	}
	return nil
}

func asTable(raw any) (map[string]any, bool) {
	t, ok := raw.(map[string]any)
	return t, ok
}

func asList(raw any) ([]any, bool) {
	switch l := raw.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// Error implements the error interface for UnsupportedFormatError.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported manifest format %q (valid: cue, json, toml, yaml)", e.Value)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Error implements the error interface for InvalidManifestError.
func (e *InvalidManifestError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.File, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidManifest for errors.Is() compatibility.
func (e *InvalidManifestError) Unwrap() error { return ErrInvalidManifest }
