// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package predict

import "github.com/luxfi/elara/core"

// The capacity and target-delay ranges BufferConfigForStability chooses within.
const (
	minBufferCapacity  = 16
	maxBufferCapacity  = 64
	minTargetDelayMs   = 30
	maxTargetDelayMs   = 200
)

// BufferConfigForStability derives a state buffer's capacity and target
// delay from the temporal engine's stability score: an unstable network
// (low score) earns a bigger buffer and more smoothing delay, a stable
// one stays lean and responsive.
func BufferConfigForStability(stability float64) (capacity int, targetDelayMs uint32) {
	if stability < 0 {
		stability = 0
	}
	if stability > 1 {
		stability = 1
	}
	instability := 1 - stability
	capacity = minBufferCapacity + int(instability*float64(maxBufferCapacity-minBufferCapacity))
	targetDelayMs = minTargetDelayMs + uint32(instability*float64(maxTargetDelayMs-minTargetDelayMs))
	return capacity, targetDelayMs
}

// StateBuffer is a timestamp-ordered ring of recently received full
// states, supporting delayed interpolated lookups for smoothing.
type StateBuffer struct {
	states        []State
	maxSize       int
	targetDelayMs uint32
}

// NewStateBuffer returns an empty buffer.
func NewStateBuffer(maxSize int, targetDelayMs uint32) *StateBuffer {
	return &StateBuffer{maxSize: maxSize, targetDelayMs: targetDelayMs}
}

// Push inserts state in timestamp order, evicting the oldest entries if
// the buffer exceeds its capacity.
func (b *StateBuffer) Push(state State) {
	pos := len(b.states)
	for i, s := range b.states {
		if s.Timestamp > state.Timestamp {
			pos = i
			break
		}
	}
	b.states = append(b.states, State{})
	copy(b.states[pos+1:], b.states[pos:])
	b.states[pos] = state

	for len(b.states) > b.maxSize {
		b.states = b.states[1:]
	}
}

// GetAt returns the state interpolated at time minus the buffer's
// target delay, bracketing between the surrounding buffered samples
// when both exist.
func (b *StateBuffer) GetAt(time core.StateTime) (State, bool) {
	if len(b.states) == 0 {
		return State{}, false
	}
	target := time - core.StateTime(b.targetDelayMs)*1000

	var before, after *State
	for i := range b.states {
		if b.states[i].Timestamp <= target {
			before = &b.states[i]
		} else {
			after = &b.states[i]
			break
		}
	}

	switch {
	case before != nil && after != nil:
		span := after.Timestamp - before.Timestamp
		if span <= 0 {
			return before.clone(), true
		}
		t := float64(target-before.Timestamp) / float64(span)
		return Interpolate(*before, *after, t), true
	case before != nil:
		return before.clone(), true
	case after != nil:
		return after.clone(), true
	default:
		return State{}, false
	}
}

// Latest returns the most recently buffered state.
func (b *StateBuffer) Latest() (State, bool) {
	if len(b.states) == 0 {
		return State{}, false
	}
	return b.states[len(b.states)-1], true
}

// Clear empties the buffer.
func (b *StateBuffer) Clear() { b.states = nil }

// Len returns the number of buffered states.
func (b *StateBuffer) Len() int { return len(b.states) }

// Interpolate linearly blends every field between from and to at
// fraction t, clamped to [0, 1].
func Interpolate(from, to State, t float64) State {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	result := to.clone()
	for i := range result.Fields {
		if i >= len(from.Fields) {
			break
		}
		result.Fields[i] = from.Fields[i] + (to.Fields[i]-from.Fields[i])*t
	}
	return result
}
