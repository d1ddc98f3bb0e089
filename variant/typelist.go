// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// typelist.go — the closed, ordered list of alternatives a Variant may hold.
//
// A TypeList is built once and is immutable afterwards: its operation tables
// and strategy plans are computed in NewTypeList, and conversion plans are
// memoized per source type on first use. It is safe for concurrent use and
// is meant to live in a package-level variable next to the code that owns
// the alternatives.

package variant

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// TypeList is the closed alternative list shared by every Variant over it.
type TypeList struct {
	name   string
	alts   []Alternative
	byType map[reflect.Type][]int
	layout Layout
	tables opTables
	plans  [kindCount][]Strategy
	log    logrus.FieldLogger

	// conversions memoizes resolveConversion per source type.
	conversions sync.Map // reflect.Type → conversionResult
}

// conversionPlan is the outcome of converting-constructor selection for one
// source type.
type conversionPlan struct {
	index    int
	rule     int // 1 identical type, 2 pointer to alternative, 3 constructible
	build    func(x any) (any, error)
	strategy Strategy
}

type conversionResult struct {
	plan *conversionPlan
	err  error
}

// NewTypeList builds a TypeList over alts, in order. Duplicated types are
// allowed; they are then addressable by index only.
//
// Errors: ErrEmptyTypeList, ErrTooManyAlternatives, ErrNotConstructible for a
// zero Alternative.
func NewTypeList(alts []Alternative, opts ...Option) (*TypeList, error) {
	if len(alts) == 0 {
		return nil, ErrEmptyTypeList
	}
	if len(alts) > math.MaxInt16 {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyAlternatives, len(alts), math.MaxInt16)
	}
	cfg := defaultListConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &TypeList{
		alts:   make([]Alternative, len(alts)),
		byType: make(map[reflect.Type][]int, len(alts)),
	}
	copy(l.alts, alts)
	names := make([]string, len(alts))
	for i, a := range l.alts {
		if a.typ == nil {
			return nil, fmt.Errorf("%w: alternative %d is a zero Alternative", ErrNotConstructible, i)
		}
		l.byType[a.typ] = append(l.byType[a.typ], i)
		names[i] = a.name
	}
	l.name = cfg.name
	if l.name == "" {
		l.name = "variant<" + strings.Join(names, ", ") + ">"
	}
	l.log = cfg.logger.WithField("typelist", l.name)
	l.layout = computeLayout(l.alts)
	l.tables = buildTables(l.alts)
	l.buildPlans()

	fields := logrus.Fields{"alternatives": len(l.alts), "size": l.layout.Size, "tagBits": l.layout.TagBits}
	for k := Kind(0); k < kindCount; k++ {
		fields[k.String()] = l.plans[k]
	}
	l.log.WithFields(fields).Debug("variant: type list built")

	return l, nil
}

// MustTypeList is NewTypeList that panics on error, for package-level vars.
func MustTypeList(alts ...Alternative) *TypeList {
	l, err := NewTypeList(alts)
	if err != nil {
		panic(err)
	}

	return l
}

// Name returns the list's name (WithListName or a generated one).
func (l *TypeList) Name() string { return l.name }

// Len returns the number of alternatives.
func (l *TypeList) Len() int { return len(l.alts) }

// Alternative returns the descriptor at index i.
func (l *TypeList) Alternative(i int) (Alternative, error) {
	if i < 0 || i >= len(l.alts) {
		return Alternative{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(l.alts))
	}

	return l.alts[i], nil
}

// Layout reports the storage footprint the list needs.
func (l *TypeList) Layout() Layout { return l.layout }

// Plan returns the replacement strategy precomputed for constructing
// alternative i through kind.
func (l *TypeList) Plan(kind Kind, i int) (Strategy, error) {
	if kind < 0 || kind >= kindCount {
		return 0, fmt.Errorf("variant: unknown kind %v", kind)
	}
	if i < 0 || i >= len(l.alts) {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(l.alts))
	}

	return l.plans[kind][i], nil
}

// ConversionPlan reports which alternative a converting construction from a
// value of type src selects, and the strategy an assignment would use.
func (l *TypeList) ConversionPlan(src reflect.Type) (int, Strategy, error) {
	p, err := l.resolveConversion(src)
	if err != nil {
		return -1, 0, err
	}

	return p.index, p.strategy, nil
}

// IndexOf returns the index of T in l. A duplicated T is ambiguous.
func IndexOf[T any](l *TypeList) (int, error) {
	return l.uniqueIndex(reflect.TypeFor[T]())
}

// Indices returns every index holding T, in declaration order.
func Indices[T any](l *TypeList) []int {
	idx := l.byType[reflect.TypeFor[T]()]
	out := make([]int, len(idx))
	copy(out, idx)

	return out
}

func (l *TypeList) uniqueIndex(t reflect.Type) (int, error) {
	idx := l.byType[t]
	switch len(idx) {
	case 0:
		return -1, fmt.Errorf("%w: %v is not in %s", ErrNoAlternative, t, l.name)
	case 1:
		return idx[0], nil
	}

	return -1, fmt.Errorf("%w: %v appears at indices %v", ErrAmbiguousAlternative, t, idx)
}

// resolveConversion selects the alternative constructed from a value of
// type src, in priority order:
//  1. an alternative of exactly type src;
//  2. when src is *A, an alternative of type A;
//  3. otherwise exactly one alternative constructible from src, either by a
//     declared conversion or by being an interface src implements.
func (l *TypeList) resolveConversion(src reflect.Type) (*conversionPlan, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: untyped nil", ErrNoAlternative)
	}
	if r, ok := l.conversions.Load(src); ok {
		res := r.(conversionResult)
		return res.plan, res.err
	}
	p, err := l.selectConversion(src)
	l.conversions.Store(src, conversionResult{plan: p, err: err})

	return p, err
}

func (l *TypeList) selectConversion(src reflect.Type) (*conversionPlan, error) {
	copyPlan := func(i, rule int) *conversionPlan {
		a := &l.alts[i]
		return &conversionPlan{
			index: i,
			rule:  rule,
			build: func(x any) (any, error) {
				p, ok, err := a.ops.fromValue(x)
				if err == nil && !ok {
					return nil, fmt.Errorf("%w: %s from %T", ErrNotConstructible, a.name, x)
				}
				return p, err
			},
			strategy: l.plans[KindCopy][i],
		}
	}
	if idx := l.byType[src]; len(idx) > 0 {
		return copyPlan(idx[0], 1), nil
	}
	if src.Kind() == reflect.Pointer {
		if idx := l.byType[src.Elem()]; len(idx) > 0 {
			return copyPlan(idx[0], 2), nil
		}
	}

	// rule 3 counts alternatives, not conversions: each alternative
	// contributes at most one match.
	var matches []*conversionPlan
	for i := range l.alts {
		if m := l.constructibleFrom(i, src); m != nil {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: nothing in %s is constructible from %v", ErrNoAlternative, l.name, src)
	case 1:
		return matches[0], nil
	}
	at := make([]int, len(matches))
	for i, m := range matches {
		at[i] = m.index
	}

	return nil, fmt.Errorf("%w: %v converts to alternatives %v", ErrAmbiguousAlternative, src, at)
}

// constructibleFrom returns the rule-3 plan building alternative i from src,
// or nil. A conversion declared for exactly src beats an assignable one, the
// first declared wins among assignable ones, and an interface alternative
// src implements is used only when no conversion applies.
func (l *TypeList) constructibleFrom(i int, src reflect.Type) *conversionPlan {
	a := &l.alts[i]
	var best *conversion
	for k := range a.conversions {
		c := &a.conversions[k]
		if c.from == src {
			best = c
			break
		}
		if best == nil && src.AssignableTo(c.from) {
			best = c
		}
	}
	if best != nil {
		return &conversionPlan{
			index:    i,
			rule:     3,
			build:    best.fn,
			strategy: l.selectStrategy(i, best.nothrow),
		}
	}
	if a.typ.Kind() == reflect.Interface && src.Implements(a.typ) {
		return &conversionPlan{
			index: i,
			rule:  3,
			build: func(x any) (any, error) {
				p, _, err := a.ops.fromValue(x)
				return p, err
			},
			strategy: l.plans[KindCopy][i],
		}
	}

	return nil
}

// admit rejects x before anything is built or destroyed: a nil pointer can
// only select its element alternative (rule 2), which it cannot construct.
func (p *conversionPlan) admit(x any) error {
	if p.rule == 2 && reflect.ValueOf(x).IsNil() {
		return fmt.Errorf("%w: nil %T", ErrNotConstructible, x)
	}

	return nil
}
