// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// variant.go — the Variant value: construction, emplace, assignment, swap.
//
// Invariants:
//   - at most one alternative is live in storage;
//   - Index() == -1 iff nothing is live (valueless);
//   - every exported operation leaves either a live alternative matching
//     Index() or a valueless variant.
//
// A Variant is a value container with no internal locking; concurrent use
// needs external synchronization. Its TypeList is shared and immutable.

package variant

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Variant holds exactly one alternative of its TypeList, or none.
// The zero Variant is unbound; use New, NewFrom, NewAt or NewOf.
type Variant struct {
	types *TypeList
	store storage
}

// New default-constructs alternative 0.
//
// Errors: ErrNotConstructible when alternative 0 has no default constructor,
// or whatever its WithDefault hook returns.
func New(l *TypeList) (*Variant, error) {
	return NewAt(l, 0)
}

// NewAt constructs alternative i from args (see Emplace for argument rules).
func NewAt(l *TypeList, i int, args ...any) (*Variant, error) {
	if l == nil {
		return nil, ErrNilVariant
	}
	v := &Variant{types: l, store: emptyStorage()}
	if err := v.Emplace(i, args...); err != nil {
		return nil, err
	}

	return v, nil
}

// NewOf constructs the alternative of type T from args. T must appear in the
// list exactly once.
func NewOf[T any](l *TypeList, args ...any) (*Variant, error) {
	if l == nil {
		return nil, ErrNilVariant
	}
	i, err := IndexOf[T](l)
	if err != nil {
		return nil, err
	}

	return NewAt(l, i, args...)
}

// NewFrom is the converting constructor: it selects the alternative for x's
// dynamic type (identical type, then pointer to an alternative, then the one
// alternative constructible from it) and constructs it from x.
//
// Errors: ErrNoAlternative, ErrAmbiguousAlternative, or the construction error.
func NewFrom(l *TypeList, x any) (*Variant, error) {
	if l == nil {
		return nil, ErrNilVariant
	}
	plan, err := l.resolveConversion(typeOf(x))
	if err != nil {
		return nil, err
	}
	if err := plan.admit(x); err != nil {
		return nil, err
	}
	p, err := plan.build(x)
	if err != nil {
		return nil, err
	}
	v := &Variant{types: l, store: emptyStorage()}
	v.store.construct(plan.index, p)

	return v, nil
}

// Types returns the list the variant is bound to.
func (v *Variant) Types() *TypeList {
	if v == nil {
		return nil
	}

	return v.types
}

// Index returns the live alternative index, or -1 when valueless or unbound.
func (v *Variant) Index() int {
	if v == nil || v.types == nil {
		return -1
	}

	return v.index()
}

// ValuelessByException reports whether no alternative is live.
func (v *Variant) ValuelessByException() bool { return v.Index() < 0 }

func (v *Variant) index() int { return int(v.store.tag) }

func (v *Variant) bound() error {
	if v == nil || v.types == nil {
		return ErrNilVariant
	}

	return nil
}

func (v *Variant) alternative(i int) (*Alternative, error) {
	if i < 0 || i >= len(v.types.alts) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(v.types.alts))
	}

	return &v.types.alts[i], nil
}

// Clone copy-constructs a new variant with the same index and an equal value.
// Cloning a valueless variant yields a valueless variant.
func (v *Variant) Clone() (*Variant, error) {
	if err := v.bound(); err != nil {
		return nil, err
	}
	out := &Variant{types: v.types, store: emptyStorage()}
	i := v.index()
	if i < 0 {
		return out, nil
	}
	p, err := v.types.tables.copyConstruct[i](v.store.get(i))
	if err != nil {
		return nil, err
	}
	out.store.construct(i, p)

	return out, nil
}

// Move move-constructs a new variant from v. v keeps its index and holds
// whatever residue the alternative's move leaves (the zero value for the
// default move).
func (v *Variant) Move() (*Variant, error) {
	if err := v.bound(); err != nil {
		return nil, err
	}
	out := &Variant{types: v.types, store: emptyStorage()}
	i := v.index()
	if i < 0 {
		return out, nil
	}
	p, err := v.types.tables.moveConstruct[i](v.store.get(i))
	if err != nil {
		return nil, err
	}
	out.store.construct(i, p)

	return out, nil
}

// Emplace destroys the live alternative and constructs alternative i in its
// place. Arguments: none → default constructor; a single T or *T → copy;
// otherwise the WithConstructor hook.
//
// Emplace gives no failure guarantee: if construction fails the variant is
// left valueless. Use Replace to keep the old value on failure. Argument
// mismatches (ErrNotConstructible, ErrIndexOutOfRange) are detected before
// anything is destroyed.
func (v *Variant) Emplace(i int, args ...any) error {
	if err := v.bound(); err != nil {
		return err
	}
	a, err := v.alternative(i)
	if err != nil {
		return err
	}
	build, _, err := a.resolveArgs(args)
	if err != nil {
		return err
	}

	return v.directReplace(i, build)
}

// EmplaceOf is Emplace addressed by type. T must appear exactly once.
func EmplaceOf[T any](v *Variant, args ...any) error {
	if err := v.bound(); err != nil {
		return err
	}
	i, err := IndexOf[T](v.types)
	if err != nil {
		return err
	}

	return v.Emplace(i, args...)
}

// Replace constructs alternative i from args (same rules as Emplace) with the
// strongest guarantee the list allows: when i is live the new value is built
// first and assigned in place; otherwise the planned Strategy is used.
func (v *Variant) Replace(i int, args ...any) error {
	if err := v.bound(); err != nil {
		return err
	}
	a, err := v.alternative(i)
	if err != nil {
		return err
	}
	build, kind, err := a.resolveArgs(args)
	if err != nil {
		return err
	}
	if i == v.index() {
		return v.assignInPlace(i, build)
	}

	return v.replace(i, v.types.plans[kind][i], build)
}

// ReplaceOf is Replace addressed by type. T must appear exactly once.
func ReplaceOf[T any](v *Variant, args ...any) error {
	if err := v.bound(); err != nil {
		return err
	}
	i, err := IndexOf[T](v.types)
	if err != nil {
		return err
	}

	return v.Replace(i, args...)
}

// Assign is converting assignment: x selects an alternative as in NewFrom.
// If it is the live one the value is assigned in place; otherwise the
// planned replacement Strategy runs.
func (v *Variant) Assign(x any) error {
	if err := v.bound(); err != nil {
		return err
	}
	plan, err := v.types.resolveConversion(typeOf(x))
	if err != nil {
		return err
	}
	if err := plan.admit(x); err != nil {
		return err
	}
	build := func() (any, error) { return plan.build(x) }
	if plan.index == v.index() {
		return v.assignInPlace(plan.index, build)
	}

	return v.replace(plan.index, plan.strategy, build)
}

// CopyFrom is copy assignment. A valueless src makes v valueless.
func (v *Variant) CopyFrom(src *Variant) error {
	if err := v.sameList(src); err != nil {
		return err
	}
	if v == src {
		return nil
	}
	i := src.index()
	if i < 0 {
		v.destroySelf()
		return nil
	}
	build := func() (any, error) { return v.types.tables.copyConstruct[i](src.store.get(i)) }
	if i == v.index() {
		return v.assignInPlace(i, build)
	}

	return v.replace(i, v.types.plans[KindCopy][i], build)
}

// MoveFrom is move assignment. src keeps its index and holds the moved-from
// residue; a valueless src makes v valueless.
func (v *Variant) MoveFrom(src *Variant) error {
	if err := v.sameList(src); err != nil {
		return err
	}
	if v == src {
		return nil
	}
	i := src.index()
	if i < 0 {
		v.destroySelf()
		return nil
	}
	build := func() (any, error) { return v.types.tables.moveConstruct[i](src.store.get(i)) }
	if i == v.index() {
		return v.assignInPlace(i, build)
	}

	return v.replace(i, v.types.plans[KindMove][i], build)
}

// Swap exchanges the contents of v and other. Equal indices swap the values
// in place; different indices go through a temporary with move construction
// and move assignment, so each step keeps its own failure guarantee.
//
// If moving other into v fails, v's value is moved back from the temporary
// and other keeps whatever the failed move left in it. If moving the temporary into other fails,
// v already holds other's old value and v's old value is lost.
func (v *Variant) Swap(other *Variant) error {
	if err := v.sameList(other); err != nil {
		return err
	}
	if v == other {
		return nil
	}
	if i := v.index(); i == other.index() {
		if i >= 0 {
			v.types.tables.swap[i](v.store.get(i), other.store.get(i))
		}
		return nil
	}
	tmp, err := v.Move()
	if err != nil {
		return err
	}
	if err := v.MoveFrom(other); err != nil {
		if rerr := v.MoveFrom(tmp); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	return other.MoveFrom(tmp)
}

// Release runs the live alternative's destroy hook and leaves v valueless.
// It is the explicit end of life for alternatives registered WithDestroy.
func (v *Variant) Release() {
	if v == nil || v.types == nil {
		return
	}
	v.destroySelf()
}

// String renders "variant<index:name>(value)" or "variant<valueless>".
func (v *Variant) String() string {
	if v == nil || v.types == nil {
		return "variant<unbound>"
	}
	i := v.index()
	if i < 0 {
		return "variant<valueless>"
	}

	return fmt.Sprintf("variant<%d:%s>(%v)", i, v.types.alts[i].name, v.types.tables.load[i](v.store.get(i)))
}

func (v *Variant) sameList(other *Variant) error {
	if err := v.bound(); err != nil {
		return err
	}
	if err := other.bound(); err != nil {
		return err
	}
	if v.types != other.types {
		return fmt.Errorf("%w: %s vs %s", ErrTypeListMismatch, v.types.name, other.types.name)
	}

	return nil
}

// destroySelf runs the destroy entry for the live alternative, if any, and
// marks v valueless.
func (v *Variant) destroySelf() {
	i := v.index()
	if i < 0 {
		return
	}
	p := v.store.take(i)
	if !v.types.tables.allTrivialDestroy {
		if d := v.types.tables.destroy[i]; d != nil {
			d(p)
		}
	}
}

// assignInPlace builds the new value first, then overwrites the live one of
// the same alternative. A failed build leaves v untouched.
func (v *Variant) assignInPlace(i int, build thunk) error {
	p, err := build()
	if err != nil {
		return err
	}
	dst := v.store.get(i)
	tb := v.types.tables
	if d := tb.destroy[i]; d != nil {
		d(dst)
	}
	tb.assign[i](dst, p)

	return nil
}

// replace runs strategy s to put a freshly built alternative target into v.
// target differs from the live index.
func (v *Variant) replace(target int, s Strategy, build thunk) error {
	switch s {
	case StrategyTwoStage:
		return v.twoStageReplace(target, build)
	case StrategyBackup:
		return v.backupReplace(target, build)
	default:
		return v.directReplace(target, build)
	}
}

// directReplace destroys, then constructs. Used when construction cannot
// fail (StrategyDirect), by Emplace, and as StrategyFallback.
func (v *Variant) directReplace(target int, build thunk) error {
	v.destroySelf()
	p, err := build()
	if err != nil {
		v.types.log.WithFields(logrus.Fields{"target": target}).WithError(err).
			Debug("variant: construction failed, variant left valueless")
		return err
	}
	v.store.construct(target, p)

	return nil
}

// twoStageReplace constructs into a local, then moves it into storage. The
// old value survives a failed construction untouched.
func (v *Variant) twoStageReplace(target int, build thunk) error {
	local, err := build()
	if err != nil {
		return err
	}
	tb := v.types.tables
	v.destroySelf()
	p, err := tb.moveConstruct[target](local)
	if err != nil {
		// Only reachable when a move declared infallible fails anyway.
		return err
	}
	v.store.construct(target, p)
	if d := tb.destroy[target]; d != nil {
		d(local)
	}

	return nil
}

// backupReplace relocates the live value to backup storage, constructs in
// place and restores the backup on failure or panic.
func (v *Variant) backupReplace(target int, build thunk) error {
	b, err := acquireBackup(v, target)
	if err != nil {
		return err
	}
	defer b.release()

	p, err := build()
	if err != nil {
		return err
	}
	v.store.construct(target, p)
	b.commit()

	return nil
}
