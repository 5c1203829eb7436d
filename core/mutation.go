// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"encoding/binary"
	"math"
)

// MutationKind tags the operation an Event asks the reconciler to apply.
type MutationKind uint8

const (
	MutationSet MutationKind = iota
	MutationIncrement
	MutationAppend
	MutationMerge
	MutationDelete
	MutationBlend
)

// MutationOp is the tagged union of lawful value changes an Event may
// carry. Exactly the fields relevant to Kind are populated.
type MutationOp struct {
	Kind   MutationKind
	Bytes  []byte  // Set, Append, Merge
	Delta  int64   // Increment
	Value  float64 // Blend
	Weight float64 // Blend
}

// Encode serializes a MutationOp as kind(1) | len(4) | payload, the
// tagged variable encoding signed over by an event's authority proof.
func (m MutationOp) Encode() []byte {
	var payload []byte
	switch m.Kind {
	case MutationSet, MutationAppend, MutationMerge:
		payload = m.Bytes
	case MutationIncrement:
		payload = make([]byte, 8)
		binary.LittleEndian.PutUint64(payload, uint64(m.Delta))
	case MutationDelete:
		payload = nil
	case MutationBlend:
		payload = make([]byte, 16)
		binary.LittleEndian.PutUint64(payload[0:8], math.Float64bits(m.Value))
		binary.LittleEndian.PutUint64(payload[8:16], math.Float64bits(m.Weight))
	}
	out := make([]byte, 5+len(payload))
	out[0] = byte(m.Kind)
	binary.LittleEndian.PutUint32(out[1:5], uint32(len(payload)))
	copy(out[5:], payload)
	return out
}

// DecodeMutationOp parses the encoding produced by Encode, returning the
// number of bytes consumed.
func DecodeMutationOp(data []byte) (MutationOp, int, error) {
	if len(data) < 5 {
		return MutationOp{}, 0, &BufferTooShortError{Expected: 5, Actual: len(data)}
	}
	kind := MutationKind(data[0])
	length := int(binary.LittleEndian.Uint32(data[1:5]))
	if len(data) < 5+length {
		return MutationOp{}, 0, &BufferTooShortError{Expected: 5 + length, Actual: len(data)}
	}
	payload := data[5 : 5+length]
	m := MutationOp{Kind: kind}
	switch kind {
	case MutationSet, MutationAppend, MutationMerge:
		m.Bytes = append([]byte(nil), payload...)
	case MutationIncrement:
		if length != 8 {
			return MutationOp{}, 0, WrapErr(ErrInvalidWireFormat, "increment mutation must be 8 bytes")
		}
		m.Delta = int64(binary.LittleEndian.Uint64(payload))
	case MutationDelete:
	case MutationBlend:
		if length != 16 {
			return MutationOp{}, 0, WrapErr(ErrInvalidWireFormat, "blend mutation must be 16 bytes")
		}
		m.Value = math.Float64frombits(binary.LittleEndian.Uint64(payload[0:8]))
		m.Weight = math.Float64frombits(binary.LittleEndian.Uint64(payload[8:16]))
	default:
		return MutationOp{}, 0, WrapErr(ErrInvalidWireFormat, "unknown mutation kind")
	}
	return m, 5 + length, nil
}

