// Package tagged is a discriminated-union toolkit for Go: a closed list of
// alternative types, a Variant that holds exactly one of them (or none),
// and table-driven visitation over one or many variants.
//
// What is in the box?
//
//   - Closed type lists with per-alternative hooks (default, copy, move,
//     destroy, equality, ordering) bound once through generics
//   - Replacement with the strongest failure guarantee the hooks allow:
//     direct, two-stage, backup, or a valueless fallback
//   - Typed and indexed access, with duplicated types told apart by index
//   - Visitors compiled to O(1) dispatch tables, including multi-variant
//   - Tagged envelopes in YAML and deterministic CBOR
//
// Subpackages:
//
//	variant/   TypeList, Variant, access, visitation, comparison
//	codec/     YAML and CBOR envelopes that rebuild a variant over its list
//	examples/  runnable programs (eventlog: an input event stream)
//
// Quick example:
//
//	l := variant.MustTypeList(variant.Ordered[int](), variant.Ordered[string]())
//	v, _ := variant.NewFrom(l, 5)     // index 0
//	_ = v.Assign("hi")                // index 1
//	s, _ := variant.Get[string](v)    // "hi"
//
//	go get github.com/katalvlaran/tagged
package tagged
