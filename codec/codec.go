// SPDX-License-Identifier: MIT
// Package: tagged/codec
//
// codec.go — format-independent envelope handling.

package codec

import (
	"fmt"

	"github.com/katalvlaran/tagged/variant"
)

// Format encodes and decodes variant envelopes.
type Format interface {
	// Marshal encodes v's index, alternative name and live value.
	Marshal(v *variant.Variant) ([]byte, error)
	// Unmarshal rebuilds a variant over l from data.
	Unmarshal(l *variant.TypeList, data []byte) (*variant.Variant, error)
}

// Formats supported by this package.
var (
	YAML Format = yamlFormat{}
	CBOR Format = cborFormat{}
)

// payload is the format-independent content of an envelope.
type payload struct {
	index int
	name  string
	value any // nil when valueless
}

func payloadOf(v *variant.Variant) (payload, error) {
	if v.Types() == nil {
		return payload{}, variant.ErrNilVariant
	}
	i := v.Index()
	if i < 0 {
		return payload{index: -1}, nil
	}
	alt, err := v.Types().Alternative(i)
	if err != nil {
		return payload{}, err
	}
	val, err := v.Value()
	if err != nil {
		return payload{}, err
	}

	return payload{index: i, name: alt.Name(), value: val}, nil
}

// rebuild constructs alternative index of l from a value filled by decode.
// An empty name skips the name check; present reports whether the envelope
// carried a value at all (absent values default-construct).
func rebuild(l *variant.TypeList, index int, name string, present bool, decode func(dst any) error) (*variant.Variant, error) {
	if l == nil {
		return nil, variant.ErrNilVariant
	}
	if index == -1 {
		return nil, fmt.Errorf("decode: %w", variant.ErrValueless)
	}
	alt, err := l.Alternative(index)
	if err != nil {
		return nil, err
	}
	if name != "" && name != alt.Name() {
		return nil, fmt.Errorf("%w: index %d is %s, envelope says %s", ErrAlternativeMismatch, index, alt.Name(), name)
	}
	if !present {
		return variant.NewAt(l, index)
	}
	val, err := alt.Decode(decode)
	if err != nil {
		return nil, fmt.Errorf("%w: value of %s: %w", ErrMalformedEnvelope, alt.Name(), err)
	}

	return variant.NewAt(l, index, val)
}
