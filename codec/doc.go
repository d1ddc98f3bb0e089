// Package codec encodes variants as self-describing tagged envelopes so they
// can cross a process boundary and be rebuilt over the same TypeList.
//
// Two formats are provided:
//
//	YAML: {index: 1, type: string, value: hi}
//	CBOR: [1, "hi"]  (deterministic core encoding, array envelope)
//
// A valueless variant encodes with index -1 and no value; decoding such an
// envelope fails with variant.ErrValueless, since there is nothing to
// construct. Decoding rebuilds the alternative through its Decode hook and
// NewAt, so copy hooks and traits apply as for any construction.
package codec
