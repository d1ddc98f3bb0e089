// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// strategy.go — replacement strategy selection.
//
// Replacing the live alternative with a different one picks one of four
// strategies, ranked by the guarantee they give when construction fails:
//
//	StrategyDirect:   construction cannot fail (or n == 1): destroy, construct.
//	StrategyTwoStage: construct into a local first, then move it in; the
//	                   target's move cannot fail.
//	StrategyBackup:   move the live value to backup storage, construct in
//	                   place, restore the backup on failure; every other
//	                   alternative's move cannot fail.
//	StrategyFallback: no safe path: destroy, construct, and accept ending
//	                   valueless on failure.
//
// The choice depends only on Traits, never on values, and is computed once
// per (list, kind, target) when the list is built.

package variant

import "fmt"

// Kind names the way a replacement value is constructed.
type Kind int

const (
	// KindDefault constructs with the default constructor.
	KindDefault Kind = iota
	// KindCopy copy-constructs from an existing value.
	KindCopy
	// KindMove move-constructs from an existing value.
	KindMove
	// KindConstruct runs the registered constructor on emplace arguments.
	KindConstruct

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindCopy:
		return "copy"
	case KindMove:
		return "move"
	case KindConstruct:
		return "construct"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Strategy is the replacement algorithm chosen for a target alternative.
type Strategy int

const (
	// StrategyDirect destroys the old value and constructs in place; used
	// when construction cannot fail.
	StrategyDirect Strategy = iota
	// StrategyTwoStage constructs into a local and moves it into storage.
	StrategyTwoStage
	// StrategyBackup relocates the old value to backup storage and restores
	// it if construction fails.
	StrategyBackup
	// StrategyFallback is StrategyDirect without the guarantee: a failed
	// construction leaves the variant valueless.
	StrategyFallback
)

func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyTwoStage:
		return "two-stage"
	case StrategyBackup:
		return "backup"
	case StrategyFallback:
		return "fallback"
	}

	return fmt.Sprintf("Strategy(%d)", int(s))
}

// selectStrategy ranks the strategies for replacing with alternative target.
func (l *TypeList) selectStrategy(target int, nothrowConstruct bool) Strategy {
	switch {
	case nothrowConstruct || len(l.alts) == 1:
		return StrategyDirect
	case l.alts[target].traits.NothrowMove:
		return StrategyTwoStage
	case l.othersNothrowMove(target):
		return StrategyBackup
	default:
		return StrategyFallback
	}
}

// othersNothrowMove reports whether every alternative except target has a
// move that cannot fail.
func (l *TypeList) othersNothrowMove(target int) bool {
	for i := range l.alts {
		if i != target && !l.alts[i].traits.NothrowMove {
			return false
		}
	}

	return true
}

// buildPlans fills the per-kind strategy table.
func (l *TypeList) buildPlans() {
	for k := Kind(0); k < kindCount; k++ {
		row := make([]Strategy, len(l.alts))
		for i := range l.alts {
			row[i] = l.selectStrategy(i, l.alts[i].nothrow(k))
		}
		l.plans[k] = row
	}
}
