// SPDX-License-Identifier: MIT
// Package: tagged/codec
//
// cbor.go — CBOR envelope: [index, value].

package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/katalvlaran/tagged/variant"
)

// encMode uses Core Deterministic Encoding: the same variant always encodes
// to the same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

type cborEnvelope struct {
	_     struct{} `cbor:",toarray"`
	Index int
	Value cbor.RawMessage
}

type cborFormat struct{}

// MarshalCBOR encodes v as a CBOR envelope.
func MarshalCBOR(v *variant.Variant) ([]byte, error) { return cborFormat{}.Marshal(v) }

// UnmarshalCBOR decodes a CBOR envelope into a variant over l.
func UnmarshalCBOR(l *variant.TypeList, data []byte) (*variant.Variant, error) {
	return cborFormat{}.Unmarshal(l, data)
}

func (cborFormat) Marshal(v *variant.Variant) ([]byte, error) {
	p, err := payloadOf(v)
	if err != nil {
		return nil, err
	}
	env := cborEnvelope{Index: p.index}
	if p.index >= 0 {
		raw, err := encMode.Marshal(p.value)
		if err != nil {
			return nil, fmt.Errorf("codec: encode %s: %w", p.name, err)
		}
		env.Value = raw
	}

	return encMode.Marshal(env)
}

func (cborFormat) Unmarshal(l *variant.TypeList, data []byte) (*variant.Variant, error) {
	var env cborEnvelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}

	return rebuild(l, env.Index, "", len(env.Value) > 0, func(dst any) error {
		return decMode.Unmarshal(env.Value, dst)
	})
}
