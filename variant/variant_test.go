package variant_test

import (
	"errors"
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tagged/variant"
)

// point is built by a variadic constructor that cannot fail.
type point struct{ X, Y int }

func newPoint(args ...any) point {
	return point{X: args[0].(int), Y: args[1].(int)}
}

// TestIntStringScenario: construct from 5, assign "hi", int access fails.
func TestIntStringScenario(t *testing.T) {
	v := mustFrom(t, scalars, 5)
	require.Equal(t, 0, v.Index())
	n, err := variant.Get[int](v)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	require.NoError(t, v.Assign("hi"))
	require.Equal(t, 1, v.Index())
	s, err := variant.Get[string](v)
	require.NoError(t, err)
	require.Equal(t, "hi", s)

	_, err = variant.Get[int](v)
	require.ErrorIs(t, err, variant.ErrBadAccess)
	require.False(t, errors.Is(err, variant.ErrValueless))
}

// TestDefaultConstruction: index 0, default-constructed value.
func TestDefaultConstruction(t *testing.T) {
	v, err := variant.New(scalars)
	require.NoError(t, err)
	require.Equal(t, 0, v.Index())
	require.False(t, v.ValuelessByException())
	n, err := variant.Get[int](v)
	require.NoError(t, err)
	require.Zero(t, n)

	custom := variant.MustTypeList(
		variant.Alt[point](variant.WithDefault(func() (point, error) { return point{1, 1}, nil })),
	)
	v, err = variant.New(custom)
	require.NoError(t, err)
	p, err := variant.Get[point](v)
	require.NoError(t, err)
	require.Equal(t, point{1, 1}, p)

	failing := variant.MustTypeList(
		variant.Alt[point](variant.WithDefault(func() (point, error) { return point{}, errRefused })),
	)
	_, err = variant.New(failing)
	require.ErrorIs(t, err, errRefused)

	noDefault := variant.MustTypeList(variant.Alt[picky](variant.WithNoDefault[picky]()), variant.Ordered[int]())
	_, err = variant.New(noDefault)
	require.ErrorIs(t, err, variant.ErrNotConstructible)
	a, err := noDefault.Alternative(0)
	require.NoError(t, err)
	require.False(t, a.Traits().DefaultConstructible)
}

// TestEmplaceEveryAlternative: after Emplace(i, args), Index()==i and the
// value equals one built directly from args.
func TestEmplaceEveryAlternative(t *testing.T) {
	l := variant.MustTypeList(
		variant.Ordered[int](),
		variant.Ordered[string](),
		variant.Alt[point](variant.WithNothrowConstructor(newPoint)),
	)
	cases := []struct {
		index int
		args  []any
		want  any
	}{
		{0, nil, 0},
		{0, []any{12}, 12},
		{1, []any{"abc"}, "abc"},
		{2, nil, point{}},
		{2, []any{3, 4}, newPoint(3, 4)},
		{2, []any{point{5, 6}}, point{5, 6}},
		{2, []any{&point{7, 8}}, point{7, 8}},
	}
	v, err := variant.New(l)
	require.NoError(t, err)
	for _, tc := range cases {
		require.NoError(t, v.Emplace(tc.index, tc.args...), "emplace %d %v", tc.index, tc.args)
		require.Equal(t, tc.index, v.Index())
		got, err := variant.GetIndex(v, tc.index)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}

	require.NoError(t, variant.EmplaceOf[string](v, "typed"))
	s, err := variant.Get[string](v)
	require.NoError(t, err)
	require.Equal(t, "typed", s)

	require.ErrorIs(t, variant.EmplaceOf[float64](v), variant.ErrNoAlternative)
}

// TestConvertingConstruction walks the three selection rules.
func TestConvertingConstruction(t *testing.T) {
	// rule 1: identical type wins over a declared conversion
	l := variant.MustTypeList(variant.Ordered[int](), variant.Alt[picky](variant.WithConversion(pickyFromInt)))
	v := mustFrom(t, l, 3)
	require.Equal(t, 0, v.Index())

	// rule 2: pointer to an alternative
	s := "via pointer"
	v = mustFrom(t, scalars, &s)
	require.Equal(t, 1, v.Index())
	got, err := variant.Get[string](v)
	require.NoError(t, err)
	require.Equal(t, s, got)

	// rule 3: the single alternative constructible from the value
	v = mustFrom(t, twoStageList, 8)
	require.Equal(t, 2, v.Index())
	errs := variant.MustTypeList(variant.Alt[error](), variant.Ordered[int]())
	v = mustFrom(t, errs, errRefused)
	require.Equal(t, 0, v.Index())
	e, err := variant.Get[error](v)
	require.NoError(t, err)
	require.Same(t, errRefused, e)

	// rule 3 with no or several candidates
	_, err = variant.NewFrom(scalars, 2.5)
	require.ErrorIs(t, err, variant.ErrNoAlternative)
	_, err = variant.NewFrom(scalars, nil)
	require.ErrorIs(t, err, variant.ErrNoAlternative)
	two := variant.MustTypeList(
		variant.Alt[picky](variant.WithConversion(pickyFromInt)),
		variant.Alt[point](variant.WithNothrowConversion(func(n int) point { return point{n, n} })),
	)
	_, err = variant.NewFrom(two, 1)
	require.ErrorIs(t, err, variant.ErrAmbiguousAlternative)
	// the failure is memoized and stays the same
	_, err = variant.NewFrom(two, 1)
	require.ErrorIs(t, err, variant.ErrAmbiguousAlternative)

	// a failing conversion surfaces its own error
	_, err = variant.NewFrom(twoStageList, -1)
	require.ErrorIs(t, err, errRefused)
}

// TestConstructByIndexAndType covers NewAt and NewOf.
func TestConstructByIndexAndType(t *testing.T) {
	v, err := variant.NewAt(scalars, 1, "x")
	require.NoError(t, err)
	require.True(t, variant.HoldsAlternative[string](v))
	require.False(t, variant.HoldsAlternative[int](v))

	v, err = variant.NewOf[int](scalars, 4)
	require.NoError(t, err)
	require.Equal(t, 0, v.Index())

	_, err = variant.NewAt(scalars, -1)
	require.ErrorIs(t, err, variant.ErrIndexOutOfRange)
	_, err = variant.NewOf[bool](scalars)
	require.ErrorIs(t, err, variant.ErrNoAlternative)
	_, err = variant.NewAt(nil, 0)
	require.ErrorIs(t, err, variant.ErrNilVariant)
}

// TestCopyAndMove: both preserve index and value; a moved-from source keeps
// its index and holds the zero value.
func TestCopyAndMove(t *testing.T) {
	src := mustFrom(t, scalars, "payload")

	c, err := src.Clone()
	require.NoError(t, err)
	require.Equal(t, src.Index(), c.Index())
	require.True(t, variant.Equal(src, c))

	m, err := src.Move()
	require.NoError(t, err)
	require.Equal(t, 1, m.Index())
	got, err := variant.Get[string](m)
	require.NoError(t, err)
	require.Equal(t, "payload", got)

	require.Equal(t, 1, src.Index())
	residue, err := variant.Get[string](src)
	require.NoError(t, err)
	require.Empty(t, residue)

	// copies are independent
	require.NoError(t, c.Assign("changed"))
	got, err = variant.Get[string](m)
	require.NoError(t, err)
	require.Equal(t, "payload", got)

	// valueless copies stay valueless
	vl := mustValueless(t)
	c, err = vl.Clone()
	require.NoError(t, err)
	require.True(t, c.ValuelessByException())
}

// TestCopyFromMoveFrom covers copy/move assignment, including valueless
// sources and same-index assignment.
func TestCopyFromMoveFrom(t *testing.T) {
	a := mustFrom(t, scalars, 1)
	b := mustFrom(t, scalars, "text")

	require.NoError(t, a.CopyFrom(b))
	require.True(t, variant.Equal(a, b))

	c := mustFrom(t, scalars, "other")
	require.NoError(t, a.MoveFrom(c))
	got, err := variant.Get[string](a)
	require.NoError(t, err)
	require.Equal(t, "other", got)
	residue, _ := variant.Get[string](c)
	require.Empty(t, residue)

	require.NoError(t, a.CopyFrom(a))
	require.NoError(t, a.MoveFrom(a))
	got, _ = variant.Get[string](a)
	require.Equal(t, "other", got)

	f := mustFrom(t, fallbackList, "kept")
	require.NoError(t, f.CopyFrom(mustValueless(t)))
	require.True(t, f.ValuelessByException())
	f = mustFrom(t, fallbackList, "kept")
	require.NoError(t, f.MoveFrom(mustValueless(t)))
	require.True(t, f.ValuelessByException())

	require.ErrorIs(t, a.CopyFrom(f), variant.ErrTypeListMismatch)
	require.ErrorIs(t, a.MoveFrom(&variant.Variant{}), variant.ErrNilVariant)
}

// TestSwap: same index swaps in place, different indices exchange, and the
// operation is its own inverse.
func TestSwap(t *testing.T) {
	a := mustFrom(t, scalars, 5)
	b := mustFrom(t, scalars, "hi")
	a0, _ := a.Clone()
	b0, _ := b.Clone()

	require.NoError(t, a.Swap(b))
	require.True(t, variant.Equal(a, b0))
	require.True(t, variant.Equal(b, a0))
	require.NoError(t, a.Swap(b))
	require.True(t, variant.Equal(a, a0))
	require.True(t, variant.Equal(b, b0))

	x := mustFrom(t, scalars, 1)
	y := mustFrom(t, scalars, 2)
	require.NoError(t, x.Swap(y))
	xv, _ := variant.Get[int](x)
	yv, _ := variant.Get[int](y)
	assert.Equal(t, 2, xv)
	assert.Equal(t, 1, yv)

	require.NoError(t, x.Swap(x))
	require.ErrorIs(t, x.Swap(mustFrom(t, twoStageList, "z")), variant.ErrTypeListMismatch)
}

// TestSwapWithValueless moves the live value over and leaves the other side
// valueless.
func TestSwapWithValueless(t *testing.T) {
	empty := mustValueless(t)
	full := mustFrom(t, fallbackList, int64(42))

	require.NoError(t, empty.Swap(full))
	require.True(t, full.ValuelessByException())
	n, err := variant.Get[int64](empty)
	require.NoError(t, err)
	require.Equal(t, int64(42), n)

	require.NoError(t, empty.Swap(full))
	require.True(t, empty.ValuelessByException())
	n, err = variant.Get[int64](full)
	require.NoError(t, err)
	require.Equal(t, int64(42), n)
}

// handle records its ID when destroyed.
type handle struct{ ID int }

// TestDestroyHooks: replaced, overwritten and released values are destroyed.
func TestDestroyHooks(t *testing.T) {
	var closed []int
	l := variant.MustTypeList(
		variant.Alt[handle](variant.WithDestroy(func(h *handle) { closed = append(closed, h.ID) })),
		variant.Ordered[int](),
	)
	v, err := variant.NewAt(l, 0, handle{ID: 1})
	require.NoError(t, err)

	require.NoError(t, v.Assign(5))
	require.Equal(t, []int{1}, closed)

	require.NoError(t, v.Assign(handle{ID: 2}))
	require.NoError(t, v.Assign(handle{ID: 3}))
	require.Equal(t, []int{1, 2}, closed)

	v.Release()
	require.Equal(t, []int{1, 2, 3}, closed)
	require.True(t, v.ValuelessByException())
	v.Release()
	require.Len(t, closed, 3)
}

// TestLayout: max size and alignment, narrowest tag.
func TestLayout(t *testing.T) {
	lay := scalars.Layout()
	require.Equal(t, max(unsafe.Sizeof(0), unsafe.Sizeof("")), lay.Size)
	require.Equal(t, max(unsafe.Alignof(0), unsafe.Alignof("")), lay.Align)
	require.Equal(t, 8, lay.TagBits)

	alts := make([]variant.Alternative, 129)
	for i := range alts {
		alts[i] = variant.Alt[int8]()
	}
	big, err := variant.NewTypeList(alts)
	require.NoError(t, err)
	require.Equal(t, 16, big.Layout().TagBits)
	require.Equal(t, uintptr(1), big.Layout().Size)
}

// TestTypeListErrors covers list construction failures.
func TestTypeListErrors(t *testing.T) {
	_, err := variant.NewTypeList(nil)
	require.ErrorIs(t, err, variant.ErrEmptyTypeList)
	_, err = variant.NewTypeList([]variant.Alternative{{}})
	require.ErrorIs(t, err, variant.ErrNotConstructible)
	require.Panics(t, func() { variant.MustTypeList() })

	_, err = scalars.Alternative(2)
	require.ErrorIs(t, err, variant.ErrIndexOutOfRange)
	a, err := scalars.Alternative(1)
	require.NoError(t, err)
	require.Equal(t, "string", a.Name())
	require.True(t, a.Traits().Ordered)
	require.Equal(t, "variant<int, string>", scalars.Name())
}

// TestZeroVariant: an unbound Variant reports -1 and refuses operations.
func TestZeroVariant(t *testing.T) {
	var v variant.Variant
	require.Equal(t, -1, v.Index())
	require.True(t, v.ValuelessByException())
	require.Nil(t, v.Types())
	require.ErrorIs(t, v.Assign(1), variant.ErrNilVariant)
	require.ErrorIs(t, v.Emplace(0), variant.ErrNilVariant)
	_, err := variant.Get[int](&v)
	require.ErrorIs(t, err, variant.ErrNilVariant)
	require.Equal(t, "variant<unbound>", v.String())
	v.Release()
}

// TestString renders index, name and value.
func TestString(t *testing.T) {
	v := mustFrom(t, scalars, 5)
	require.Equal(t, "variant<0:int>(5)", v.String())
	require.Equal(t, "variant<0:int>(5)", fmt.Sprint(v))
}

// brittle refuses to move when Stuck is set.
type brittle struct {
	N     int
	Stuck bool
}

func moveBrittle(p *brittle) (brittle, error) {
	if p.Stuck {
		return brittle{}, errMoveFailed
	}

	return *p, nil
}

// TestSwapRestoresOnFailedMove: when other cannot move into v, v gets its
// own value back from the temporary and other is untouched.
func TestSwapRestoresOnFailedMove(t *testing.T) {
	l := variant.MustTypeList(
		variant.Ordered[int](),
		variant.Alt[brittle](variant.WithMove(moveBrittle)),
	)
	v := mustFrom(t, l, 5)
	other := mustFrom(t, l, brittle{N: 1, Stuck: true})

	require.ErrorIs(t, v.Swap(other), errMoveFailed)
	n, err := variant.Get[int](v)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	b, err := variant.Get[brittle](other)
	require.NoError(t, err)
	require.Equal(t, brittle{N: 1, Stuck: true}, b)

	// a movable value swaps normally
	free := mustFrom(t, l, brittle{N: 2})
	require.NoError(t, v.Swap(free))
	b, err = variant.Get[brittle](v)
	require.NoError(t, err)
	require.Equal(t, brittle{N: 2}, b)
	n, err = variant.Get[int](free)
	require.NoError(t, err)
	require.Equal(t, 5, n)
}
