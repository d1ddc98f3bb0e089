// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// errors.go — sentinel errors for the variant package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Context is attached with %w at the failing call site, never baked into
//     the sentinel text.
//   • Errors returned by user construction hooks are propagated unchanged
//     (wrapped with %w), so errors.Is keeps working on caller sentinels.
//   • The package panics only on broken internal invariants, never on
//     user-triggered conditions.

package variant

import (
	"errors"
	"fmt"
)

var (
	// ErrBadAccess indicates Get/Ref was called for an alternative that is not
	// the live one (including when the variant is valueless).
	ErrBadAccess = errors.New("variant: bad variant access")

	// ErrValueless indicates an operation that needs a live alternative
	// (visitation, encoding) was invoked on a valueless variant.
	ErrValueless = errors.New("variant: variant is valueless")

	// ErrNoAlternative indicates no alternative can be selected for a type.
	ErrNoAlternative = errors.New("variant: no matching alternative")

	// ErrAmbiguousAlternative indicates more than one alternative matched where
	// exactly one was required (duplicated types, several conversions, or two
	// visitor cases for the same alternative).
	ErrAmbiguousAlternative = errors.New("variant: ambiguous alternative")

	// ErrNotConstructible indicates the requested alternative cannot be
	// constructed from the supplied arguments.
	ErrNotConstructible = errors.New("variant: alternative not constructible from arguments")

	// ErrIndexOutOfRange indicates an alternative index outside [0, n).
	ErrIndexOutOfRange = errors.New("variant: alternative index out of range")

	// ErrEmptyTypeList indicates a TypeList was requested with no alternatives.
	ErrEmptyTypeList = errors.New("variant: type list has no alternatives")

	// ErrTooManyAlternatives indicates the discriminant cannot encode the list.
	ErrTooManyAlternatives = errors.New("variant: too many alternatives")

	// ErrTypeListMismatch indicates two variants (or a variant and a visitor)
	// were built over different type lists.
	ErrTypeListMismatch = errors.New("variant: type list mismatch")

	// ErrUnordered indicates an ordering was requested for an alternative that
	// declares no comparison function.
	ErrUnordered = errors.New("variant: alternative has no ordering")

	// ErrNonExhaustive indicates a visitor leaves at least one alternative (or
	// combination of alternatives) without a case.
	ErrNonExhaustive = errors.New("variant: visitor is not exhaustive")

	// ErrNilVariant indicates a nil *Variant, or a zero Variant that was never
	// bound to a TypeList.
	ErrNilVariant = errors.New("variant: nil or unbound variant")
)

// badAccess builds the ErrBadAccess error for a request of alternative want.
// A valueless variant additionally matches ErrValueless.
func badAccess(want int, have int16) error {
	if have < 0 {
		return fmt.Errorf("%w: want alternative %d: %w", ErrBadAccess, want, ErrValueless)
	}

	return fmt.Errorf("%w: want alternative %d, holds %d", ErrBadAccess, want, have)
}
