// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Decoded is a document that passed schema validation.
type Decoded[T any] struct {
	// Value is the document decoded into T.
	Value *T

	// Source is the schema-unified CUE value the document was decoded from.
	Source cue.Value
}

// ParseAndDecode checks data against the definition def of schema and decodes
// the unified value into T. def names a root definition such as "#Manifest".
//
// Errors produced by user data carry the filename set by WithFilename and the
// path of the offending field. Errors in the embedded schema itself are
// reported as internal errors.
func ParseAndDecode[T any](schema, data []byte, def string, opts ...Option) (*Decoded[T], error) {
	o := resolveOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	cctx := cuecontext.New()
	root, err := lookupDefinition(cctx, schema, def)
	if err != nil {
		return nil, err
	}

	doc := cctx.CompileBytes(data, cue.Filename(o.filename))
	if err := doc.Err(); err != nil {
		return nil, FormatError(err, o.filename)
	}

	unified := root.Unify(doc)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	out := new(T)
	if err := unified.Decode(out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &Decoded[T]{Value: out, Source: unified}, nil
}

func lookupDefinition(cctx *cue.Context, schema []byte, def string) (cue.Value, error) {
	compiled := cctx.CompileBytes(schema)
	if err := compiled.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: embedded schema does not compile: %w", err)
	}
	root := compiled.LookupPath(cue.ParsePath(def))
	if err := root.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: embedded schema has no %s: %w", def, err)
	}
	if !root.Exists() {
		return cue.Value{}, fmt.Errorf("internal error: embedded schema has no %s", def)
	}
	return root, nil
}
