// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Config: {
	name:     string
	enabled?: bool
	tags?: [...string]
}
`

func decodeTest[T any](data []byte, def string, opts ...Option) (*Decoded[T], error) {
	return ParseAndDecode[T]([]byte(testSchema), data, def, opts...)
}

type testConfig struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Tags    []string `json:"tags"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	data := []byte(`
name: "ripgrep"
enabled: true
tags: ["search", "cli"]
`)
	result, err := decodeTest[testConfig](data, "#Config", WithFilename("test.cue"))
	if err != nil {
		t.Fatalf("ParseAndDecode() unexpected error: %v", err)
	}
	if result.Value.Name != "ripgrep" || !result.Value.Enabled || len(result.Value.Tags) != 2 {
		t.Errorf("decoded %+v", result.Value)
	}
	if !result.Source.Exists() {
		t.Error("Source value should exist")
	}
}

func TestParseAndDecode_IntoMap(t *testing.T) {
	t.Parallel()

	result, err := decodeTest[map[string]any]([]byte(`name: "fd"`), "#Config")
	if err != nil {
		t.Fatalf("ParseAndDecode() unexpected error: %v", err)
	}
	if (*result.Value)["name"] != "fd" {
		t.Errorf("decoded %v", *result.Value)
	}
}

func TestParseAndDecode_Errors(t *testing.T) {
	t.Parallel()

	t.Run("type mismatch has path", func(t *testing.T) {
		t.Parallel()

		_, err := decodeTest[testConfig]([]byte(`name: 42`), "#Config", WithFilename("bad.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "bad.cue") || !strings.Contains(err.Error(), "name") {
			t.Errorf("error should name file and field, got %v", err)
		}
		var ve *ValidationError
		if errors.As(err, &ve) && ve.File != "bad.cue" {
			t.Errorf("ValidationError.File = %q, want bad.cue", ve.FilePath)
		}
	})

	t.Run("closed definition rejects unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := decodeTest[testConfig]([]byte("name: \"x\"\nbogus: 1\n"), "#Config")
		if err == nil || !strings.Contains(err.Error(), "bogus") {
			t.Errorf("expected error mentioning bogus, got %v", err)
		}
	})

	t.Run("syntax error uses default filename", func(t *testing.T) {
		t.Parallel()

		_, err := decodeTest[testConfig]([]byte(`name: `), "#Config")
		if err == nil || !strings.Contains(err.Error(), "<input>") {
			t.Errorf("expected error mentioning <input>, got %v", err)
		}
	})

	t.Run("concrete required", func(t *testing.T) {
		t.Parallel()

		_, err := decodeTest[testConfig]([]byte(`name: string`), "#Config", WithConcrete(true))
		if err == nil {
			t.Error("expected error for non-concrete name")
		}
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: "` + strings.Repeat("x", 64) + `"`)
		_, err := decodeTest[testConfig](data, "#Config", WithMaxFileSize(16))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("expected size error, got %v", err)
		}
	})

	t.Run("missing definition", func(t *testing.T) {
		t.Parallel()

		_, err := decodeTest[testConfig]([]byte(`name: "x"`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "#Missing") {
			t.Errorf("expected missing definition error, got %v", err)
		}
	})
}
