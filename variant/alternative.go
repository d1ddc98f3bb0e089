// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// alternative.go — Alternative descriptors and their per-type hooks.
//
// An Alternative captures everything the container needs to know about one
// member type T: how to default-construct, copy, move, destroy, compare and
// decode it, and which of those can fail. All of it is bound once through
// generics (Alt[T]); afterwards the container only sees closures over any,
// so no value is ever inspected to pick a code path.

package variant

import (
	"cmp"
	"fmt"
	"reflect"
	"unsafe"

	gocmp "github.com/google/go-cmp/cmp"
)

// Traits records which operations of an alternative can fail. A trait is
// false ("may fail") as soon as the matching fallible hook is registered.
type Traits struct {
	// DefaultConstructible is false after WithNoDefault.
	DefaultConstructible bool
	// NothrowDefault is false after WithDefault.
	NothrowDefault bool
	// NothrowCopy is false after WithCopy.
	NothrowCopy bool
	// NothrowMove is false after WithMove.
	NothrowMove bool
	// NothrowConstruct is false after WithConstructor.
	NothrowConstruct bool
	// TrivialDestroy is false after WithDestroy.
	TrivialDestroy bool
	// Ordered is true when a comparison is available (Ordered or WithCompare).
	Ordered bool
}

// thunk produces a freshly constructed *T boxed in any.
type thunk func() (any, error)

// conversion constructs T from a foreign source type.
type conversion struct {
	from    reflect.Type
	fn      func(x any) (any, error)
	nothrow bool
}

// altOps are the type-erased per-alternative operations. Every pointer
// argument and result is a *T boxed in any.
type altOps struct {
	newDefault func() (any, error) // nil when not default-constructible
	fromValue  func(x any) (any, bool, error)
	construct  func(args []any) (any, error) // nil without WithConstructor
	copy       func(src any) (any, error)
	move       func(src any) (any, error)
	destroy    func(p any) // nil when trivially destructible
	swap       func(a, b any)
	assign     func(dst, src any)
	equal      func(a, b any) bool
	compare    func(a, b any) int // nil when unordered
	load       func(p any) any
	decode     func(fn func(dst any) error) (any, error)
}

// Alternative describes one member of a closed type list.
// Build it with Alt or Ordered; the zero Alternative is unusable.
type Alternative struct {
	name        string
	typ         reflect.Type
	size        uintptr
	align       uintptr
	traits      Traits
	ops         altOps
	conversions []conversion
}

// Name returns the alternative's display name (WithName or the Go type name).
func (a Alternative) Name() string { return a.name }

// Type returns the Go type of the alternative.
func (a Alternative) Type() reflect.Type { return a.typ }

// Traits returns the failure traits captured from the registered hooks.
func (a Alternative) Traits() Traits { return a.traits }

// Decode allocates a fresh T, lets fn fill it (fn receives a *T) and returns
// the resulting T value boxed in any. Codecs use it to rebuild a variant.
func (a Alternative) Decode(fn func(dst any) error) (any, error) {
	if a.ops.decode == nil {
		return nil, fmt.Errorf("%w: zero Alternative", ErrNotConstructible)
	}
	p, err := a.ops.decode(fn)
	if err != nil {
		return nil, err
	}

	return a.ops.load(p), nil
}

// AltOption customizes an alternative of type T.
type AltOption[T any] func(*altSpec[T])

// altSpec collects the hooks registered through AltOption before Alt binds
// them into an Alternative.
type altSpec[T any] struct {
	name        string
	def         func() (T, error)
	noDefault   bool
	ctor        func(args ...any) (T, error)
	nothrowCtor bool
	conversions []conversion
	copy        func(T) (T, error)
	move        func(*T) (T, error)
	destroy     func(*T)
	equal       func(a, b T) bool
	compare     func(a, b T) int
}

// WithName overrides the display name used in errors, logs and codecs.
func WithName[T any](name string) AltOption[T] {
	return func(s *altSpec[T]) { s.name = name }
}

// WithDefault registers a fallible default constructor.
func WithDefault[T any](fn func() (T, error)) AltOption[T] {
	return func(s *altSpec[T]) {
		if fn != nil {
			s.def = fn
			s.noDefault = false
		}
	}
}

// WithNoDefault marks T as not default-constructible.
func WithNoDefault[T any]() AltOption[T] {
	return func(s *altSpec[T]) {
		s.def = nil
		s.noDefault = true
	}
}

// WithConstructor registers a fallible constructor used by Emplace/Replace
// when the arguments are not a single T.
func WithConstructor[T any](fn func(args ...any) (T, error)) AltOption[T] {
	return func(s *altSpec[T]) {
		if fn != nil {
			s.ctor = fn
			s.nothrowCtor = false
		}
	}
}

// WithNothrowConstructor registers a constructor that cannot fail.
func WithNothrowConstructor[T any](fn func(args ...any) T) AltOption[T] {
	return func(s *altSpec[T]) {
		if fn != nil {
			s.ctor = func(args ...any) (T, error) { return fn(args...), nil }
			s.nothrowCtor = true
		}
	}
}

// WithConversion declares T constructible from a value of type X, which makes
// the alternative a candidate for converting construction from X.
func WithConversion[T, X any](fn func(X) (T, error)) AltOption[T] {
	return func(s *altSpec[T]) {
		if fn == nil {
			return
		}
		s.conversions = append(s.conversions, conversion{
			from: reflect.TypeFor[X](),
			fn: func(x any) (any, error) {
				v, err := fn(x.(X))
				if err != nil {
					return nil, err
				}

				return &v, nil
			},
		})
	}
}

// WithNothrowConversion is WithConversion for a conversion that cannot fail.
func WithNothrowConversion[T, X any](fn func(X) T) AltOption[T] {
	return func(s *altSpec[T]) {
		if fn == nil {
			return
		}
		s.conversions = append(s.conversions, conversion{
			from: reflect.TypeFor[X](),
			fn: func(x any) (any, error) {
				v := fn(x.(X))
				return &v, nil
			},
			nothrow: true,
		})
	}
}

// WithCopy registers a fallible copy. Without it a copy is Go assignment.
func WithCopy[T any](fn func(T) (T, error)) AltOption[T] {
	return func(s *altSpec[T]) { s.copy = fn }
}

// WithMove registers a fallible move. It receives the source and may leave
// any residue in it. Without it a move is assignment followed by zeroing
// the source.
func WithMove[T any](fn func(*T) (T, error)) AltOption[T] {
	return func(s *altSpec[T]) { s.move = fn }
}

// WithDestroy registers a hook run whenever a live T leaves storage.
func WithDestroy[T any](fn func(*T)) AltOption[T] {
	return func(s *altSpec[T]) { s.destroy = fn }
}

// WithEqual overrides the default go-cmp based equality.
func WithEqual[T any](fn func(a, b T) bool) AltOption[T] {
	return func(s *altSpec[T]) { s.equal = fn }
}

// WithCompare registers a three-way comparison (negative, zero, positive).
func WithCompare[T any](fn func(a, b T) int) AltOption[T] {
	return func(s *altSpec[T]) { s.compare = fn }
}

// exportAll lets go-cmp look into unexported fields; the container compares
// whole values, not just their exported surface.
var exportAll = gocmp.Exporter(func(reflect.Type) bool { return true })

// Alt binds T into an Alternative.
//
// Defaults: T is default-constructible with its zero value, copies and moves
// are plain assignment (and cannot fail), destruction is trivial, equality is
// go-cmp's Equal, and there is no ordering.
func Alt[T any](opts ...AltOption[T]) Alternative {
	s := &altSpec[T]{}
	for _, opt := range opts {
		opt(s)
	}

	return s.build()
}

// Ordered binds an ordered T; comparison defaults to cmp.Compare.
func Ordered[T cmp.Ordered](opts ...AltOption[T]) Alternative {
	s := &altSpec[T]{compare: cmp.Compare[T]}
	for _, opt := range opts {
		opt(s)
	}
	if s.equal == nil {
		cmpFn := s.compare
		s.equal = func(a, b T) bool { return cmpFn(a, b) == 0 }
	}

	return s.build()
}

func (s *altSpec[T]) build() Alternative {
	var zero T
	a := Alternative{
		name:  s.name,
		typ:   reflect.TypeFor[T](),
		size:  unsafe.Sizeof(zero),
		align: unsafe.Alignof(zero),
		traits: Traits{
			DefaultConstructible: !s.noDefault,
			NothrowDefault:       s.def == nil,
			NothrowCopy:          s.copy == nil,
			NothrowMove:          s.move == nil,
			NothrowConstruct:     s.ctor == nil || s.nothrowCtor,
			TrivialDestroy:       s.destroy == nil,
			Ordered:              s.compare != nil,
		},
		conversions: s.conversions,
	}
	if a.name == "" {
		a.name = a.typ.String()
	}

	a.ops = altOps{
		copy:    s.copyOp,
		move:    s.moveOp,
		swap:    func(x, y any) { px, py := x.(*T), y.(*T); *px, *py = *py, *px },
		assign:  func(dst, src any) { *dst.(*T) = *src.(*T) },
		load:    func(p any) any { return *p.(*T) },
		decode:  s.decodeOp,
		equal:   s.equalOp(),
		compare: s.compareOp(),
	}
	a.ops.fromValue = s.fromValueOp
	if !s.noDefault {
		a.ops.newDefault = s.defaultOp
	}
	if s.ctor != nil {
		ctor := s.ctor
		a.ops.construct = func(args []any) (any, error) {
			v, err := ctor(args...)
			if err != nil {
				return nil, err
			}

			return &v, nil
		}
	}
	if s.destroy != nil {
		destroy := s.destroy
		a.ops.destroy = func(p any) { destroy(p.(*T)) }
	}

	return a
}

func (s *altSpec[T]) defaultOp() (any, error) {
	p := new(T)
	if s.def != nil {
		v, err := s.def()
		if err != nil {
			return nil, err
		}
		*p = v
	}

	return p, nil
}

func (s *altSpec[T]) copyValue(v T) (any, error) {
	if s.copy != nil {
		c, err := s.copy(v)
		if err != nil {
			return nil, err
		}

		return &c, nil
	}

	return &v, nil
}

func (s *altSpec[T]) copyOp(src any) (any, error) { return s.copyValue(*src.(*T)) }

func (s *altSpec[T]) moveOp(src any) (any, error) {
	p := src.(*T)
	if s.move != nil {
		v, err := s.move(p)
		if err != nil {
			return nil, err
		}

		return &v, nil
	}
	v := *p
	var zero T
	*p = zero

	return &v, nil
}

// fromValueOp copy-constructs T from x when x is a T or a *T. The bool
// reports whether x had one of those shapes at all.
func (s *altSpec[T]) fromValueOp(x any) (any, bool, error) {
	switch v := x.(type) {
	case T:
		p, err := s.copyValue(v)
		return p, true, err
	case *T:
		if v == nil {
			return nil, false, nil
		}
		p, err := s.copyValue(*v)
		return p, true, err
	}

	return nil, false, nil
}

func (s *altSpec[T]) decodeOp(fn func(dst any) error) (any, error) {
	p := new(T)
	if err := fn(p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *altSpec[T]) equalOp() func(a, b any) bool {
	if eq := s.equal; eq != nil {
		return func(a, b any) bool { return eq(*a.(*T), *b.(*T)) }
	}

	return func(a, b any) bool { return gocmp.Equal(*a.(*T), *b.(*T), exportAll) }
}

func (s *altSpec[T]) compareOp() func(a, b any) int {
	c := s.compare
	if c == nil {
		return nil
	}

	return func(a, b any) int { return c(*a.(*T), *b.(*T)) }
}

// resolveArgs decides how args construct this alternative without running
// anything. Precedence: no args → default constructor; a single T or *T →
// copy; a registered constructor; otherwise not constructible.
func (a *Alternative) resolveArgs(args []any) (thunk, Kind, error) {
	switch {
	case len(args) == 0:
		if a.ops.newDefault == nil {
			return nil, KindDefault, fmt.Errorf("%w: %s has no default constructor", ErrNotConstructible, a.name)
		}

		return a.ops.newDefault, KindDefault, nil
	case len(args) == 1 && a.acceptsValue(args[0]):
		x := args[0]
		return func() (any, error) {
			p, _, err := a.ops.fromValue(x)
			return p, err
		}, KindCopy, nil
	case a.ops.construct != nil:
		return func() (any, error) { return a.ops.construct(args) }, KindConstruct, nil
	}

	return nil, KindConstruct, fmt.Errorf("%w: %s from %d argument(s)", ErrNotConstructible, a.name, len(args))
}

// acceptsValue reports whether x is a T (or non-nil *T) for this alternative.
func (a *Alternative) acceptsValue(x any) bool {
	if x == nil {
		return false
	}
	t := reflect.TypeOf(x)
	if t == a.typ || (t.Kind() == reflect.Pointer && t.Elem() == a.typ && !reflect.ValueOf(x).IsNil()) {
		return true
	}

	return a.typ.Kind() == reflect.Interface && t.Implements(a.typ)
}

// nothrow reports whether constructing through kind cannot fail.
func (a *Alternative) nothrow(kind Kind) bool {
	switch kind {
	case KindDefault:
		return a.traits.NothrowDefault
	case KindCopy:
		return a.traits.NothrowCopy
	case KindMove:
		return a.traits.NothrowMove
	default:
		return a.traits.NothrowConstruct
	}
}
