// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

type (
	// ValidationError is a single schema or syntax problem in a CUE document.
	ValidationError struct {
		// File is the document the problem was found in.
		File string
		// Path locates the offending field, e.g. "assets[0].target". Empty for
		// syntax errors.
		Path string
		// Message is CUE's description of the problem.
		Message string
	}

	// ValidationErrors collects every problem CUE reported for one document.
	ValidationErrors struct {
		File   string
		Errors []*ValidationError
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.File + ": " + e.location()
}

func (e *ValidationError) location() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: validation failed:", e.File)
	for _, ve := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(ve.location())
	}
	return b.String()
}

// Unwrap exposes the individual problems to errors.As.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ve := range e.Errors {
		errs[i] = ve
	}
	return errs
}

// FormatError converts a CUE error into a *ValidationError, or a
// *ValidationErrors when CUE reported more than one problem. Errors that did
// not come from CUE are wrapped with the file name.
//
//	ripgrep.cue: assets[1].target: conflicting values string and int
func FormatError(err error, file string) error {
	if err == nil {
		return nil
	}

	reported := cueerrors.Errors(err)
	if len(reported) == 0 {
		return fmt.Errorf("%s: %w", file, err)
	}

	list := make([]*ValidationError, 0, len(reported))
	for _, e := range reported {
		path := formatPath(cueerrors.Path(e))
		list = append(list, &ValidationError{
			File:    file,
			Path:    path,
			Message: trimPathPrefix(e.Error(), path),
		})
	}

	if len(list) == 1 {
		return list[0]
	}
	return &ValidationErrors{File: file, Errors: list}
}

// trimPathPrefix drops the field path CUE sometimes repeats at the start of
// its message.
func trimPathPrefix(msg, path string) string {
	if path == "" {
		return msg
	}
	rest, ok := strings.CutPrefix(msg, path)
	if !ok {
		return msg
	}
	return strings.TrimSpace(strings.TrimPrefix(rest, ":"))
}

// formatPath renders a CUE selector list such as ["assets", "0", "target"]
// in the dotted form "assets[0].target".
func formatPath(selectors []string) string {
	var b strings.Builder
	for i, sel := range selectors {
		switch {
		case i > 0 && isListIndex(sel):
			fmt.Fprintf(&b, "[%s]", sel)
		case i > 0:
			b.WriteByte('.')
			b.WriteString(sel)
		default:
			b.WriteString(sel)
		}
	}
	return b.String()
}

func isListIndex(sel string) bool {
	return sel != "" && strings.Trim(sel, "0123456789") == ""
}

// CheckFileSize reports an error when data is larger than maxSize bytes.
// Callers that read files before decoding use it to fail before CUE does any work.
func CheckFileSize(data []byte, maxSize int64, file string) error {
	if size := int64(len(data)); size > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", file, size, maxSize)
	}
	return nil
}
