// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcrypto

import "github.com/luxfi/elara/core"

// aheadOfWindowThreshold is the offset beyond which a sequence is
// treated as too-old rather than far-future (half the u16 space).
const aheadOfWindowThreshold = 32768

// ReplayWindow guards at-most-once acceptance of sequence numbers for
// one (peer, class) pair: a sequence minimum plus a sliding bitmap of
// recently seen sequences.
type ReplayWindow struct {
	minSeq uint16
	bitmap uint64
	size   int
	seeded bool
}

// NewReplayWindow returns a window of the given bit size (≤64).
func NewReplayWindow(size int) *ReplayWindow {
	if size > 64 {
		size = 64
	}
	return &ReplayWindow{size: size}
}

// Check reports whether seq would be accepted without mutating state.
func (w *ReplayWindow) Check(seq uint16) bool {
	if !w.seeded {
		return true
	}
	offset := seq - w.minSeq // u16 wrapping subtraction
	if offset > aheadOfWindowThreshold {
		return false // too old
	}
	if int(offset) >= w.size {
		return true // ahead of window: valid, window will slide
	}
	return w.bitmap&(1<<uint(offset)) == 0
}

// Accept checks seq and, if valid, records it in the bitmap, sliding
// the window forward as needed. Returns false (ReplayDetected) if seq
// was already accepted or is too old.
func (w *ReplayWindow) Accept(seq uint16) bool {
	if !w.Check(seq) {
		return false
	}
	if !w.seeded {
		w.minSeq = seq
		w.bitmap = 1
		w.seeded = true
		return true
	}

	offset := seq - w.minSeq
	switch {
	case int(offset) >= w.size:
		shift := int(offset) - w.size + 1
		if shift >= w.size {
			// Large jump: reset the window around the new sequence.
			w.bitmap = 0
			w.minSeq = seq
			w.bitmap = 1
			return true
		}
		w.bitmap >>= uint(shift)
		w.minSeq += uint16(shift)
		newOffset := seq - w.minSeq
		w.bitmap |= 1 << uint(newOffset)
	default:
		w.bitmap |= 1 << uint(offset)
	}
	return true
}

// AcceptOrErr is Accept expressed as the tagged error the spec requires
// on replay.
func (w *ReplayWindow) AcceptOrErr(seq uint16) error {
	if !w.Accept(seq) {
		return &core.ReplayDetectedError{Seq: seq}
	}
	return nil
}
