// SPDX-License-Identifier: MIT
// Package: tagged/variant
//
// storage.go — the single slot holding the live alternative.
//
// Go cannot place values holding pointers into a raw byte buffer, so the
// slot holds the live *T boxed in any; Layout still reports the footprint a
// flat buffer would need. Every access is qualified by the index the caller
// believes is live, and a mismatch is an internal invariant breach.

package variant

import "fmt"

// Layout is the footprint of the list: the largest alternative's size, the
// strictest alignment, and the narrowest signed tag covering [-1, n-1].
type Layout struct {
	Size    uintptr
	Align   uintptr
	TagBits int
}

func computeLayout(alts []Alternative) Layout {
	lay := Layout{Align: 1, TagBits: 8}
	for _, a := range alts {
		lay.Size = max(lay.Size, a.size)
		lay.Align = max(lay.Align, a.align)
	}
	if len(alts) > 128 {
		lay.TagBits = 16
	}

	return lay
}

// storage holds at most one live alternative.
type storage struct {
	tag int16 // index of the value in p; -1 when empty
	p   any
}

func emptyStorage() storage { return storage{tag: -1} }

// construct places p (a *T for alternative i) into an empty slot.
func (s *storage) construct(i int, p any) {
	if s.tag >= 0 {
		panic(fmt.Sprintf("variant: construct alternative %d over live %d", i, s.tag))
	}
	s.tag, s.p = int16(i), p
}

// get returns the live *T of alternative i.
func (s *storage) get(i int) any {
	if int(s.tag) != i {
		panic(fmt.Sprintf("variant: access alternative %d, storage holds %d", i, s.tag))
	}

	return s.p
}

// take empties the slot and returns the *T of alternative i.
func (s *storage) take(i int) any {
	p := s.get(i)
	s.tag, s.p = -1, nil

	return p
}
