// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"encoding/binary"
	"sort"
)

// VersionVector maps NodeID to a non-negative counter and imposes a
// partial (causal, not total) order over events touching a shared atom.
type VersionVector map[NodeID]uint64

// NewVersionVector returns an empty vector.
func NewVersionVector() VersionVector {
	return make(VersionVector)
}

// Clone returns an independent copy.
func (v VersionVector) Clone() VersionVector {
	out := make(VersionVector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Get returns the counter for node, or 0 if absent.
func (v VersionVector) Get(node NodeID) uint64 {
	return v[node]
}

// Increment bumps node's counter by one, returning the new vector (v is
// mutated in place; the receiver value is returned for chaining).
func (v VersionVector) Increment(node NodeID) VersionVector {
	v[node] = v[node] + 1
	return v
}

// LessEq reports whether a ≤ b: for every node, a[n] ≤ b[n].
func (a VersionVector) LessEq(b VersionVector) bool {
	for n, av := range a {
		if av > b[n] {
			return false
		}
	}
	return true
}

// Equal reports whether a and b carry identical counters (absent entries
// count as zero).
func (a VersionVector) Equal(b VersionVector) bool {
	return a.LessEq(b) && b.LessEq(a)
}

// HappensBefore reports whether a < b: a ≤ b and a ≠ b.
func (a VersionVector) HappensBefore(b VersionVector) bool {
	return a.LessEq(b) && !a.Equal(b)
}

// Concurrent reports whether a and b are causally unordered: neither
// a ≤ b nor b ≤ a, and a ≠ b.
func (a VersionVector) Concurrent(b VersionVector) bool {
	return !a.LessEq(b) && !b.LessEq(a)
}

// Merge returns the elementwise maximum of a and b. Merge is idempotent,
// commutative, and associative.
func Merge(a, b VersionVector) VersionVector {
	out := a.Clone()
	for n, bv := range b {
		if bv > out[n] {
			out[n] = bv
		}
	}
	return out
}

// MergeInto merges other into v in place, taking the elementwise maximum.
func (v VersionVector) MergeInto(other VersionVector) {
	for n, ov := range other {
		if ov > v[n] {
			v[n] = ov
		}
	}
}

// sortedPairs returns v's (NodeID, counter) pairs sorted by NodeID, for
// deterministic wire encoding.
func (v VersionVector) sortedPairs() []struct {
	Node    NodeID
	Counter uint64
} {
	pairs := make([]struct {
		Node    NodeID
		Counter uint64
	}, 0, len(v))
	for n, c := range v {
		pairs = append(pairs, struct {
			Node    NodeID
			Counter uint64
		}{n, c})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Node < pairs[j].Node })
	return pairs
}

// Encode serializes v as sorted (NodeID, counter) pairs, 16 bytes each,
// little-endian.
func (v VersionVector) Encode() []byte {
	pairs := v.sortedPairs()
	out := make([]byte, 16*len(pairs))
	for i, p := range pairs {
		binary.LittleEndian.PutUint64(out[i*16:i*16+8], uint64(p.Node))
		binary.LittleEndian.PutUint64(out[i*16+8:i*16+16], p.Counter)
	}
	return out
}

// DecodeVersionVector parses the wire encoding produced by Encode.
func DecodeVersionVector(data []byte) (VersionVector, error) {
	if len(data)%16 != 0 {
		return nil, WrapErr(ErrInvalidWireFormat, "version vector length not a multiple of 16")
	}
	v := make(VersionVector, len(data)/16)
	for i := 0; i+16 <= len(data); i += 16 {
		node := NodeID(binary.LittleEndian.Uint64(data[i : i+8]))
		counter := binary.LittleEndian.Uint64(data[i+8 : i+16])
		v[node] = counter
	}
	return v, nil
}
