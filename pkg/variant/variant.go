// SPDX-License-Identifier: MPL-2.0

package variant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidTargets is returned when a target field is neither a string nor a
// list of strings.
var ErrInvalidTargets = errors.New("target must be a string or a list of strings")

type (
	// Targets is the set of identifiers a variant is built for. Any one of
	// them applying is enough. A nil set means the variant is unconstrained;
	// an empty non-nil set matches nothing.
	Targets []string

	// Variant is one platform-specific distribution of a package. Payload is
	// opaque to resolution and is handed back unchanged.
	Variant struct {
		Targets Targets        `json:"target,omitzero"`
		Payload map[string]any `json:"payload,omitempty"`
	}

	// Set is the variant declaration of a package: a single variant or an
	// ordered list.
	Set struct {
		variants []Variant
		list     bool
	}

	// Options are per-call resolution settings.
	Options struct {
		// Target is an explicit target identifier that replaces the
		// capability-derived default.
		Target string
		// Force is carried for the install layer, which uses it to skip
		// version validation. Resolution ignores it.
		Force bool
	}
)

// UnmarshalJSON accepts a single string or a list of strings.
func (t *Targets) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*t = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = Targets{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTargets, string(data))
	}
	if list == nil {
		list = Targets{}
	}
	*t = list
	return nil
}

// Untargeted reports whether the variant declares no target at all. A
// declared but empty target list is not untargeted.
func (v Variant) Untargeted() bool {
	return v.Targets == nil
}

// One returns a set holding a single variant.
func One(v Variant) Set {
	return Set{variants: []Variant{v}}
}

// List returns an ordered set of variants.
func List(vs ...Variant) Set {
	return Set{variants: slices.Clone(vs), list: true}
}

// IsList reports whether the set was declared as a list.
func (s Set) IsList() bool { return s.list }

// Len returns the number of variants.
func (s Set) Len() int { return len(s.variants) }

// Variants returns a copy of the variants in declared order.
func (s Set) Variants() []Variant { return slices.Clone(s.variants) }

// Declared returns every declared target in order, without duplicates.
func (s Set) Declared() []string {
	var out []string
	for _, v := range s.variants {
		for _, t := range v.Targets {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}

// MarshalJSON encodes a single-variant set as an object and a list as an array.
func (s Set) MarshalJSON() ([]byte, error) {
	if !s.list && len(s.variants) == 1 {
		return json.Marshal(s.variants[0])
	}
	if s.variants == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.variants)
}
