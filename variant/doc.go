// Package variant provides a tagged union (sum type) over a closed, ordered
// list of Go types, with explicit failure guarantees on replacement and
// O(1) table-driven dispatch.
//
// A Variant holds exactly one alternative at a time, or none ("valueless").
// The alternatives are fixed by a TypeList, built once from Alternative
// descriptors:
//
//	var Shapes = variant.MustTypeList(
//		variant.Ordered[int](),
//		variant.Alt[string](),
//		variant.Alt[Circle](variant.WithConstructor(NewCircle)),
//	)
//
// Duplicated types are allowed and are then told apart by index only.
//
// What an Alternative records:
//
//   - how T is default-constructed, copied, moved, destroyed, compared
//     and decoded, as closures bound through generics;
//   - Traits: which of those operations may fail. A hook returning
//     (T, error) may fail; the defaults (zero value, Go assignment) cannot.
//
// Construction:
//
//	New(l)                 // alternative 0, default-constructed
//	NewAt(l, i, args...)   // by index
//	NewOf[T](l, args...)   // by type (T must be unique)
//	NewFrom(l, x)          // converting: identical type, then *T, then the
//	                       // single alternative constructible from x
//	v.Clone(), v.Move()    // copy / move construction
//
// Replacement and failure guarantees:
//
//	Emplace(i, args...)    // destroy then construct; valueless on failure
//	Replace(i, args...)    // planned strategy, see below
//	Assign(x)              // converting assignment, planned strategy
//	CopyFrom(src)          // copy assignment, planned strategy
//	MoveFrom(src)          // move assignment, planned strategy
//	Swap(other)            // in place for equal indices, else three-way move
//
// When the target alternative differs from the live one, one Strategy is
// chosen per (kind, target) when the list is built:
//
//	StrategyDirect   construction cannot fail, or the list has one type
//	StrategyTwoStage target's move cannot fail: build a local, then move in
//	StrategyBackup   every other move cannot fail: back up the old value,
//	                 build in place, restore the backup on error or panic
//	StrategyFallback no safe path: a failed construction leaves v valueless
//
// After a failed replacement the variant is in its previous state under the
// first three strategies, and valueless under the fallback. The caller always
// receives the construction error.
//
// Access:
//
//	v.Index(), v.ValuelessByException(), HoldsAlternative[T](v)
//	Get[T](v), GetAt[T](v, i), GetIndex(v, i), Ref[T](v), RefAt[T](v, i)
//
// A mismatched or valueless access fails with ErrBadAccess.
//
// Visitation:
//
//	vis, _ := variant.NewVisitor[string](Shapes,
//		variant.On(func(n int) string { return "int" }),
//		variant.Otherwise(func(i int, v any) string { return "other" }),
//	)
//	s, err := vis.Visit(v)
//
// Match builds and visits in one call. NewMultiVisitor dispatches over
// several variants through one flat table of ∏ n_k entries.
//
// Comparison: Equal, NotEqual, Compare, Less, Greater, LessOrEqual,
// GreaterOrEqual. Indices are compared first and valueless sorts lowest.
//
// Concurrency: a TypeList (and its tables and plans) is immutable and safe
// to share. A Variant is a plain value with no locking.
//
// Logging: the list's debug entries go to logrus (WithLogger), covering the
// built plan, backup rollbacks and transitions to valueless.
package variant
