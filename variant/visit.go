// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// visit.go — single-variant visitation and lambda-style matching.
//
// A Visitor is compiled once per (cases, TypeList) into an n-entry table;
// Visit is then table[index](value). Case binding mirrors overload
// resolution: for each alternative, an OnIndex case wins, then an exact type
// case, then an interface case the alternative implements, then Otherwise.
// Two equally good cases for one alternative are ambiguous.

package variant

import (
	"fmt"
	"reflect"
)

type caseRank int

const (
	rankNone caseRank = iota
	rankOtherwise
	rankInterface
	rankExact
	rankIndex
)

// Case is one arm of a Visitor. Build it with On, OnRef, OnIndex or Otherwise.
type Case[R any] struct {
	bind func(i int, a *Alternative) (func(p any) R, caseRank)
}

// On handles alternatives of type T. When T is an interface it also handles
// every alternative whose type implements T, at lower priority than exact
// cases.
func On[T, R any](fn func(T) R) Case[R] {
	t := reflect.TypeFor[T]()
	return Case[R]{bind: func(_ int, a *Alternative) (func(p any) R, caseRank) {
		switch {
		case a.typ == t:
			return func(p any) R { return fn(*p.(*T)) }, rankExact
		case t.Kind() == reflect.Interface && a.typ.Implements(t):
			load := a.ops.load
			return func(p any) R { return fn(load(p).(T)) }, rankInterface
		}

		return nil, rankNone
	}}
}

// OnRef handles alternatives of exactly type T through a pointer into
// storage, so the case may modify the value in place.
func OnRef[T, R any](fn func(*T) R) Case[R] {
	t := reflect.TypeFor[T]()
	return Case[R]{bind: func(_ int, a *Alternative) (func(p any) R, caseRank) {
		if a.typ != t {
			return nil, rankNone
		}

		return func(p any) R { return fn(p.(*T)) }, rankExact
	}}
}

// OnIndex handles alternative i only, which must have type T. It is the way
// to tell duplicated types apart.
func OnIndex[T, R any](i int, fn func(T) R) Case[R] {
	t := reflect.TypeFor[T]()
	return Case[R]{bind: func(j int, a *Alternative) (func(p any) R, caseRank) {
		if j != i || a.typ != t {
			return nil, rankNone
		}

		return func(p any) R { return fn(*p.(*T)) }, rankIndex
	}}
}

// Otherwise handles every alternative no better case claims. It receives the
// index and a copy of the value.
func Otherwise[R any](fn func(i int, value any) R) Case[R] {
	return Case[R]{bind: func(i int, a *Alternative) (func(p any) R, caseRank) {
		load := a.ops.load
		return func(p any) R { return fn(i, load(p)) }, rankOtherwise
	}}
}

// Visitor is a compiled dispatch table over one TypeList.
type Visitor[R any] struct {
	types *TypeList
	table []func(p any) R
}

// NewVisitor binds cases to every alternative of l.
//
// Errors: ErrNonExhaustive when an alternative has no case,
// ErrAmbiguousAlternative when two cases bind equally well.
func NewVisitor[R any](l *TypeList, cases ...Case[R]) (*Visitor[R], error) {
	if l == nil {
		return nil, ErrNilVariant
	}
	vis := &Visitor[R]{types: l, table: make([]func(any) R, len(l.alts))}
	for i := range l.alts {
		a := &l.alts[i]
		var (
			best     func(any) R
			bestRank caseRank
			tied     bool
		)
		for _, c := range cases {
			if c.bind == nil {
				continue
			}
			fn, rank := c.bind(i, a)
			switch {
			case rank == rankNone || rank < bestRank:
			case rank == bestRank:
				tied = true
			default:
				best, bestRank, tied = fn, rank, false
			}
		}
		if best == nil {
			return nil, fmt.Errorf("%w: no case for alternative %d (%s)", ErrNonExhaustive, i, a.name)
		}
		if tied && bestRank != rankOtherwise {
			return nil, fmt.Errorf("%w: several cases for alternative %d (%s)", ErrAmbiguousAlternative, i, a.name)
		}
		vis.table[i] = best
	}

	return vis, nil
}

// Visit invokes the case bound to v's live alternative, exactly once.
//
// Errors: ErrValueless, ErrTypeListMismatch, ErrNilVariant.
func (vis *Visitor[R]) Visit(v *Variant) (R, error) {
	var zero R
	if err := v.bound(); err != nil {
		return zero, err
	}
	if v.types != vis.types {
		return zero, fmt.Errorf("%w: visitor built for %s, variant is %s", ErrTypeListMismatch, vis.types.name, v.types.name)
	}
	i := v.index()
	if i < 0 {
		return zero, fmt.Errorf("visit: %w", ErrValueless)
	}

	return vis.table[i](v.store.get(i)), nil
}

// Match composes cases into a visitor for v's list and visits v. Hot paths
// should keep a Visitor from NewVisitor instead.
func Match[R any](v *Variant, cases ...Case[R]) (R, error) {
	var zero R
	if err := v.bound(); err != nil {
		return zero, err
	}
	vis, err := NewVisitor(v.types, cases...)
	if err != nil {
		return zero, err
	}

	return vis.Visit(v)
}
