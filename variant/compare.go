// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// compare.go — equality and ordering between variants of one TypeList.

package variant

import "fmt"

// Equal reports whether a and b hold the same alternative index (both
// valueless counts) with equal values. Variants over different lists, or
// unbound ones, are never equal; two nil variants are.
func Equal(a, b *Variant) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.bound() != nil || b.bound() != nil || a.types != b.types {
		return false
	}
	i := a.index()
	if i != b.index() {
		return false
	}
	if i < 0 {
		return true
	}

	return a.types.tables.equal[i](a.store.get(i), b.store.get(i))
}

// NotEqual is !Equal.
func NotEqual(a, b *Variant) bool { return !Equal(a, b) }

// Compare orders a against b: by alternative index first, then by the live
// alternative's comparison. A valueless variant sorts before every live one
// (its index, -1, is the smallest).
//
// Errors: ErrTypeListMismatch, ErrNilVariant, ErrUnordered when the shared
// live alternative has no comparison.
func Compare(a, b *Variant) (int, error) {
	if err := a.sameList(b); err != nil {
		return 0, err
	}
	i, j := a.index(), b.index()
	switch {
	case i < j:
		return -1, nil
	case i > j:
		return 1, nil
	case i < 0:
		return 0, nil
	}
	c := a.types.tables.compare[i]
	if c == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnordered, a.types.alts[i].name)
	}

	return c(a.store.get(i), b.store.get(i)), nil
}

// Less reports a < b.
func Less(a, b *Variant) (bool, error) {
	c, err := Compare(a, b)
	return c < 0, err
}

// Greater reports a > b, evaluated as b < a.
func Greater(a, b *Variant) (bool, error) { return Less(b, a) }

// LessOrEqual reports a <= b, evaluated as !(b < a).
func LessOrEqual(a, b *Variant) (bool, error) {
	gt, err := Less(b, a)
	return !gt && err == nil, err
}

// GreaterOrEqual reports a >= b, evaluated as !(a < b).
func GreaterOrEqual(a, b *Variant) (bool, error) {
	lt, err := Less(a, b)
	return !lt && err == nil, err
}
