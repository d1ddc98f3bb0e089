// SPDX-License-Identifier: MIT
// Package variant_test holds shared fixtures for the variant tests.
//
// Fixture lists, by replacement behavior when assigning an int into a
// variant that holds int64(42):
//
//	twoStageList: picky's move cannot fail       → StrategyTwoStage
//	backupList:   only picky's move can fail      → StrategyBackup
//	fallbackList: int64's and picky's moves fail  → StrategyFallback

package variant_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tagged/variant"
)

// errRefused is what picky's conversion returns for -1.
var errRefused = errors.New("picky: refused")

// errMoveFailed is never returned by the fixtures' moves; it only marks
// their move hooks as fallible.
var errMoveFailed = errors.New("move failed")

// picky converts from int, refuses -1 and panics on -2.
type picky struct{ N int }

func pickyFromInt(n int) (picky, error) {
	switch n {
	case -1:
		return picky{}, errRefused
	case -2:
		panic("boom")
	}

	return picky{N: n}, nil
}

func pickyCtor(args ...any) (picky, error) {
	n, ok := args[0].(int)
	if !ok {
		return picky{}, errRefused
	}

	return pickyFromInt(n)
}

// fallibleMove moves by copy; it only declares the move as fallible.
func fallibleMove[T any](p *T) (T, error) {
	if p == nil {
		return *new(T), errMoveFailed
	}

	return *p, nil
}

var (
	scalars = variant.MustTypeList(
		variant.Ordered[int](),
		variant.Ordered[string](),
	)

	twoStageList = variant.MustTypeList(
		variant.Ordered[int64](),
		variant.Ordered[string](),
		variant.Alt[picky](
			variant.WithConversion(pickyFromInt),
			variant.WithConstructor(pickyCtor),
		),
	)

	backupList = variant.MustTypeList(
		variant.Ordered[int64](),
		variant.Ordered[string](),
		variant.Alt[picky](
			variant.WithConversion(pickyFromInt),
			variant.WithMove(fallibleMove[picky]),
		),
	)

	fallbackList = variant.MustTypeList(
		variant.Ordered[int64](variant.WithMove(fallibleMove[int64])),
		variant.Ordered[string](),
		variant.Alt[picky](
			variant.WithConversion(pickyFromInt),
			variant.WithMove(fallibleMove[picky]),
		),
	)
)

// mustFrom converts x into a variant over l or fails the test.
func mustFrom(t *testing.T, l *variant.TypeList, x any) *variant.Variant {
	t.Helper()
	v, err := variant.NewFrom(l, x)
	require.NoError(t, err)

	return v
}

// mustValueless returns a fallbackList variant left valueless by a failed
// fallback assignment.
func mustValueless(t *testing.T) *variant.Variant {
	t.Helper()
	v := mustFrom(t, fallbackList, int64(42))
	require.ErrorIs(t, v.Assign(-1), errRefused)
	require.True(t, v.ValuelessByException())

	return v
}
