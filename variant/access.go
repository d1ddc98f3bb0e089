// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// access.go — typed and indexed accessors.

package variant

import (
	"fmt"
	"reflect"
)

func typeOf(x any) reflect.Type { return reflect.TypeOf(x) }

// HoldsAlternative reports whether the live alternative has type T.
func HoldsAlternative[T any](v *Variant) bool {
	if v.bound() != nil {
		return false
	}
	i := v.index()

	return i >= 0 && v.types.alts[i].typ == reflect.TypeFor[T]()
}

// Get returns a copy of the live value of type T. When T appears more than
// once, each of its indices is tried in declaration order.
//
// Errors: ErrNoAlternative when T is not in the list, ErrBadAccess when the
// live alternative is not a T (also matching ErrValueless when valueless).
func Get[T any](v *Variant) (T, error) {
	p, err := Ref[T](v)
	if err != nil {
		var zero T
		return zero, err
	}

	return *p, nil
}

// Ref is Get returning a pointer into the variant's storage. The pointer is
// valid until the next operation that replaces or destroys the value.
func Ref[T any](v *Variant) (*T, error) {
	if err := v.bound(); err != nil {
		return nil, err
	}
	t := reflect.TypeFor[T]()
	idx := v.types.byType[t]
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: %v is not in %s", ErrNoAlternative, t, v.types.name)
	}
	live := v.index()
	for _, i := range idx {
		if i == live {
			return v.store.get(i).(*T), nil
		}
	}

	return nil, badAccess(idx[0], v.store.tag)
}

// GetAt returns a copy of alternative i, which must have type T.
func GetAt[T any](v *Variant, i int) (T, error) {
	p, err := RefAt[T](v, i)
	if err != nil {
		var zero T
		return zero, err
	}

	return *p, nil
}

// RefAt is GetAt returning a pointer into the variant's storage.
func RefAt[T any](v *Variant, i int) (*T, error) {
	if err := v.bound(); err != nil {
		return nil, err
	}
	a, err := v.alternative(i)
	if err != nil {
		return nil, err
	}
	if t := reflect.TypeFor[T](); a.typ != t {
		return nil, fmt.Errorf("%w: alternative %d is %v, not %v", ErrBadAccess, i, a.typ, t)
	}
	if i != v.index() {
		return nil, badAccess(i, v.store.tag)
	}

	return v.store.get(i).(*T), nil
}

// GetIndex returns a copy of alternative i boxed in any.
func GetIndex(v *Variant, i int) (any, error) {
	if err := v.bound(); err != nil {
		return nil, err
	}
	if _, err := v.alternative(i); err != nil {
		return nil, err
	}
	if i != v.index() {
		return nil, badAccess(i, v.store.tag)
	}

	return v.types.tables.load[i](v.store.get(i)), nil
}

// Value returns a copy of the live value boxed in any.
func (v *Variant) Value() (any, error) {
	if err := v.bound(); err != nil {
		return nil, err
	}
	i := v.index()
	if i < 0 {
		return nil, ErrValueless
	}

	return v.types.tables.load[i](v.store.get(i)), nil
}
