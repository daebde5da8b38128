// SPDX-License-Identifier: MPL-2.0

// Package dispatch picks a platform-specific producer by walking a family
// priority order, normally target.Table.Priority.
package dispatch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/pkgtarget/pkg/platform"
)

type (
	// Cases maps families to zero-argument producers. It need not cover
	// every family.
	Cases[T any] map[platform.Family]func() T

	// MissingCaseError is the panic value of When when no family in the
	// order has a producer. It indicates a caller bug.
	MissingCaseError struct {
		Order    []platform.Family
		Declared []platform.Family
	}
)

// When invokes the producer of the first family in order that has one.
// It panics with *MissingCaseError when none does.
func When[T any](order []platform.Family, cases Cases[T]) T {
	_, produce, ok := Pick(order, cases)
	if !ok {
		panic(&MissingCaseError{Order: slices.Clone(order), Declared: cases.Families()})
	}
	return produce()
}

// Pick returns the first family in order that has a non-nil producer.
func Pick[T any](order []platform.Family, cases Cases[T]) (platform.Family, func() T, bool) {
	for _, family := range order {
		if produce := cases[family]; produce != nil {
			return family, produce, true
		}
	}
	return "", nil, false
}

// Families returns the families with a producer, sorted.
func (c Cases[T]) Families() []platform.Family {
	out := make([]platform.Family, 0, len(c))
	for f, produce := range c {
		if produce != nil {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return out
}

// Error implements the error interface.
func (e *MissingCaseError) Error() string {
	return fmt.Sprintf("no platform case for families [%s] (cases declared: [%s])",
		joinFamilies(e.Order), joinFamilies(e.Declared))
}

func joinFamilies(fs []platform.Family) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
