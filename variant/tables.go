// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// tables.go — per-list operation tables indexed by the discriminant.
//
// One slice per operation, one entry per alternative, filled once in
// NewTypeList and never written again. Dispatch is tables.op[index](...):
// O(1), no branching on type.

package variant

// opTables are the dispatch tables of a TypeList.
type opTables struct {
	copyConstruct []func(src any) (any, error)
	moveConstruct []func(src any) (any, error)
	destroy       []func(p any)
	swap          []func(a, b any)
	assign        []func(dst, src any)
	equal         []func(a, b any) bool
	compare       []func(a, b any) int
	load          []func(p any) any

	// allTrivialDestroy lets destroySelf skip the table entirely.
	allTrivialDestroy bool
}

func buildTables(alts []Alternative) opTables {
	n := len(alts)
	t := opTables{
		copyConstruct:     make([]func(any) (any, error), n),
		moveConstruct:     make([]func(any) (any, error), n),
		destroy:           make([]func(any), n),
		swap:              make([]func(any, any), n),
		assign:            make([]func(any, any), n),
		equal:             make([]func(any, any) bool, n),
		compare:           make([]func(any, any) int, n),
		load:              make([]func(any) any, n),
		allTrivialDestroy: true,
	}
	for i, a := range alts {
		t.copyConstruct[i] = a.ops.copy
		t.moveConstruct[i] = a.ops.move
		t.destroy[i] = a.ops.destroy
		t.swap[i] = a.ops.swap
		t.assign[i] = a.ops.assign
		t.equal[i] = a.ops.equal
		t.compare[i] = a.ops.compare
		t.load[i] = a.ops.load
		if a.ops.destroy != nil {
			t.allTrivialDestroy = false
		}
	}

	return t
}
