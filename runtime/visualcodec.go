// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"encoding/binary"
	"math"

	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/predict"
)

// encodeVisualState serializes a perceptual sample as timestamp(8)|
// sequence(8)|speaking(1)|field_count(2)|fields(8 each), the opaque
// mutation payload an atom's Set mutation carries for voice and visual
// state alike.
func encodeVisualState(s predict.State) []byte {
	out := make([]byte, 19+8*len(s.Fields))
	binary.LittleEndian.PutUint64(out[0:8], uint64(s.Timestamp))
	binary.LittleEndian.PutUint64(out[8:16], s.Sequence)
	if s.Speaking {
		out[16] = 1
	}
	binary.LittleEndian.PutUint16(out[17:19], uint16(len(s.Fields)))
	for i, f := range s.Fields {
		binary.LittleEndian.PutUint64(out[19+i*8:27+i*8], math.Float64bits(f))
	}
	return out
}

// decodeVisualState parses the encoding produced by encodeVisualState.
func decodeVisualState(data []byte) (predict.State, bool) {
	if len(data) < 19 {
		return predict.State{}, false
	}
	count := int(binary.LittleEndian.Uint16(data[17:19]))
	if len(data) < 19+8*count {
		return predict.State{}, false
	}
	fields := make([]float64, count)
	for i := range fields {
		fields[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[19+i*8 : 27+i*8]))
	}
	return predict.State{
		Timestamp: core.StateTime(binary.LittleEndian.Uint64(data[0:8])),
		Sequence:  binary.LittleEndian.Uint64(data[8:16]),
		Speaking:  data[16] != 0,
		Fields:    fields,
	}, true
}
