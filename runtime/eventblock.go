// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"encoding/binary"

	"github.com/luxfi/elara/core"
)

// encodeEventBlock serializes one event for inclusion in a frame
// payload: type(1)|seq(8)|target_state(8)|version_ref_count(2)|
// (node(8)|counter(8))*|mutation.encode(). A frame's header already
// carries the source node and a single time_hint shared by every event
// block it contains.
func encodeEventBlock(event core.Event) []byte {
	vv := event.VersionRef.Encode()
	mutation := event.Mutation.Encode()

	out := make([]byte, 0, 19+len(vv)+len(mutation))
	out = append(out, byte(event.Type))
	var seqBuf [8]byte
	binary.LittleEndian.PutUint64(seqBuf[:], event.ID.Seq)
	out = append(out, seqBuf[:]...)

	var targetBuf [8]byte
	binary.LittleEndian.PutUint64(targetBuf[:], uint64(event.TargetState))
	out = append(out, targetBuf[:]...)

	var vvLen [2]byte
	binary.LittleEndian.PutUint16(vvLen[:], uint16(len(vv)/16))
	out = append(out, vvLen[:]...)
	out = append(out, vv...)
	out = append(out, mutation...)
	return out
}

// decodeEventBlocks parses every event block out of payload, attaching
// source and the frame's shared timeHint to each.
func decodeEventBlocks(payload []byte, source core.NodeID, timeHint int32) ([]core.Event, error) {
	var events []core.Event
	offset := 0
	for offset < len(payload) {
		if offset+19 > len(payload) {
			return nil, core.WrapErr(core.ErrInvalidWireFormat, "truncated event block header")
		}
		eventType := core.EventType(payload[offset])
		seq := binary.LittleEndian.Uint64(payload[offset+1 : offset+9])
		target := core.StateID(binary.LittleEndian.Uint64(payload[offset+9 : offset+17]))
		vvCount := int(binary.LittleEndian.Uint16(payload[offset+17 : offset+19]))
		cursor := offset + 19

		vvBytes := vvCount * 16
		if cursor+vvBytes > len(payload) {
			return nil, core.WrapErr(core.ErrInvalidWireFormat, "truncated version vector")
		}
		vv, err := core.DecodeVersionVector(payload[cursor : cursor+vvBytes])
		if err != nil {
			return nil, err
		}
		cursor += vvBytes

		mutation, consumed, err := core.DecodeMutationOp(payload[cursor:])
		if err != nil {
			return nil, err
		}
		cursor += consumed

		events = append(events, core.Event{
			ID:          core.EventID{Source: source, Seq: seq},
			Type:        eventType,
			Source:      source,
			TargetState: target,
			VersionRef:  vv,
			Mutation:    mutation,
			TimeIntent:  core.TimeIntent{OffsetUnits100us: timeHint},
		})
		offset = cursor
	}
	return events, nil
}
