// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// multivisit.go — visitation over several variants at once.
//
// The table is flat, one entry per combination of alternatives
// (∏ n_k entries). Dispatch narrows one variant at a time:
//
//	offset = (((i0)·n1 + i1)·n2 + i2)…
//
// and calls table[offset] with all the live values.

package variant

import (
	"fmt"
	"reflect"
)

// MultiCase is one arm of a MultiVisitor. Build it with Pair, Triple,
// OnTypes or OtherwiseAll.
type MultiCase[R any] struct {
	pattern   []reflect.Type // nil entry: any alternative
	otherwise bool
	// bind returns the entry for the given alternatives.
	bind func(alts []*Alternative, indices []int) func(ps []any) R
}

// Pair handles two variants holding exactly A and B.
func Pair[A, B, R any](fn func(A, B) R) MultiCase[R] {
	return MultiCase[R]{
		pattern: []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B]()},
		bind: func([]*Alternative, []int) func([]any) R {
			return func(ps []any) R { return fn(*ps[0].(*A), *ps[1].(*B)) }
		},
	}
}

// Triple handles three variants holding exactly A, B and C.
func Triple[A, B, C, R any](fn func(A, B, C) R) MultiCase[R] {
	return MultiCase[R]{
		pattern: []reflect.Type{reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]()},
		bind: func([]*Alternative, []int) func([]any) R {
			return func(ps []any) R { return fn(*ps[0].(*A), *ps[1].(*B), *ps[2].(*C)) }
		},
	}
}

// OnTypes handles any arity: types[k] must match the k-th variant's live
// alternative exactly, and a nil entry matches anything. fn receives copies
// of the values.
func OnTypes[R any](fn func(values []any) R, types ...reflect.Type) MultiCase[R] {
	return MultiCase[R]{
		pattern: types,
		bind:    loadingEntry(func(_ []int, vals []any) R { return fn(vals) }),
	}
}

// OtherwiseAll handles every combination no other case claims.
func OtherwiseAll[R any](fn func(indices []int, values []any) R) MultiCase[R] {
	return MultiCase[R]{otherwise: true, bind: loadingEntry(fn)}
}

func loadingEntry[R any](fn func(indices []int, values []any) R) func([]*Alternative, []int) func([]any) R {
	return func(alts []*Alternative, indices []int) func([]any) R {
		loads := make([]func(any) any, len(alts))
		for k, a := range alts {
			loads[k] = a.ops.load
		}
		idx := append([]int(nil), indices...)
		return func(ps []any) R {
			vals := make([]any, len(ps))
			for k, p := range ps {
				vals[k] = loads[k](p)
			}
			return fn(idx, vals)
		}
	}
}

func (c MultiCase[R]) matches(alts []*Alternative) bool {
	if c.otherwise || len(c.pattern) != len(alts) {
		return false
	}
	for k, t := range c.pattern {
		if t != nil && t != alts[k].typ {
			return false
		}
	}

	return true
}

// MultiVisitor is a compiled dispatch table over an ordered tuple of lists.
type MultiVisitor[R any] struct {
	lists []*TypeList
	table []func(ps []any) R
}

// NewMultiVisitor binds cases to every combination of alternatives of lists.
// The first matching case in declaration order wins; OtherwiseAll catches
// the rest.
//
// Errors: ErrNonExhaustive naming the first uncovered combination.
func NewMultiVisitor[R any](lists []*TypeList, cases ...MultiCase[R]) (*MultiVisitor[R], error) {
	if len(lists) == 0 {
		return nil, fmt.Errorf("%w: no type lists", ErrEmptyTypeList)
	}
	total := 1
	for _, l := range lists {
		if l == nil {
			return nil, ErrNilVariant
		}
		total *= len(l.alts)
	}
	mv := &MultiVisitor[R]{lists: append([]*TypeList(nil), lists...), table: make([]func([]any) R, total)}

	indices := make([]int, len(lists))
	alts := make([]*Alternative, len(lists))
	for offset := 0; offset < total; offset++ {
		// decode offset into per-list indices, last list varying fastest
		rem := offset
		for k := len(lists) - 1; k >= 0; k-- {
			n := len(lists[k].alts)
			indices[k] = rem % n
			rem /= n
			alts[k] = &lists[k].alts[indices[k]]
		}
		entry := bindMulti(cases, alts, indices)
		if entry == nil {
			return nil, fmt.Errorf("%w: no case for alternatives %v", ErrNonExhaustive, indices)
		}
		mv.table[offset] = entry
	}

	return mv, nil
}

func bindMulti[R any](cases []MultiCase[R], alts []*Alternative, indices []int) func([]any) R {
	for _, c := range cases {
		if c.bind != nil && c.matches(alts) {
			return c.bind(alts, indices)
		}
	}
	for _, c := range cases {
		if c.bind != nil && c.otherwise {
			return c.bind(alts, indices)
		}
	}

	return nil
}

// Visit dispatches on the live alternatives of vs, which must line up with
// the visitor's lists.
//
// Errors: ErrValueless naming the first valueless argument,
// ErrTypeListMismatch, ErrNilVariant.
func (mv *MultiVisitor[R]) Visit(vs ...*Variant) (R, error) {
	var zero R
	if len(vs) != len(mv.lists) {
		return zero, fmt.Errorf("%w: visitor takes %d variants, got %d", ErrTypeListMismatch, len(mv.lists), len(vs))
	}

	return mv.narrow(vs, make([]any, len(vs)), 0, 0)
}

// narrow resolves variant k's index and recurses with the refined offset.
func (mv *MultiVisitor[R]) narrow(vs []*Variant, ps []any, k, offset int) (R, error) {
	if k == len(vs) {
		return mv.table[offset](ps), nil
	}
	var zero R
	v := vs[k]
	if err := v.bound(); err != nil {
		return zero, fmt.Errorf("argument %d: %w", k, err)
	}
	if v.types != mv.lists[k] {
		return zero, fmt.Errorf("%w: argument %d is %s, want %s", ErrTypeListMismatch, k, v.types.name, mv.lists[k].name)
	}
	i := v.index()
	if i < 0 {
		return zero, fmt.Errorf("visit argument %d: %w", k, ErrValueless)
	}
	ps[k] = v.store.get(i)

	return mv.narrow(vs, ps, k+1, offset*len(mv.lists[k].alts)+i)
}

// MatchAll composes cases for the lists of vs and visits them.
func MatchAll[R any](vs []*Variant, cases ...MultiCase[R]) (R, error) {
	var zero R
	lists := make([]*TypeList, len(vs))
	for k, v := range vs {
		if err := v.bound(); err != nil {
			return zero, fmt.Errorf("argument %d: %w", k, err)
		}
		lists[k] = v.types
	}
	mv, err := NewMultiVisitor(lists, cases...)
	if err != nil {
		return zero, err
	}

	return mv.Visit(vs...)
}
