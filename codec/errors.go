// SPDX-License-Identifier: MIT
// Package: tagged/codec
//
// errors.go — sentinel errors for envelope decoding.

package codec

import "errors"

var (
	// ErrMalformedEnvelope indicates the payload is not a variant envelope.
	ErrMalformedEnvelope = errors.New("codec: malformed variant envelope")

	// ErrAlternativeMismatch indicates the envelope's type name disagrees with
	// the alternative at its index in the target TypeList.
	ErrAlternativeMismatch = errors.New("codec: envelope type does not match alternative")
)
