// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import "time"

// StateTime is signed microseconds since the session epoch — elastic,
// may be slewed for convergence, never retreats under direct sync.
type StateTime int64

// Add returns t advanced by d.
func (t StateTime) Add(d time.Duration) StateTime {
	return t + StateTime(d.Microseconds())
}

// Sub returns the duration between t and other (t - other).
func (t StateTime) Sub(other StateTime) time.Duration {
	return time.Duration(int64(t)-int64(other)) * time.Microsecond
}

// PerceptualTime is unsigned microseconds since node start — strictly
// monotone, never retreats.
type PerceptualTime uint64

// Add returns t advanced by d.
func (t PerceptualTime) Add(d time.Duration) PerceptualTime {
	return t + PerceptualTime(d.Microseconds())
}

// TimeIntent is the wire-level expression of when an event is meant to
// apply: an offset from the receiver's τs in 100µs units, plus an
// optional hard deadline.
type TimeIntent struct {
	OffsetUnits100us int32
	Deadline         *StateTime
}

// AbsoluteTime resolves a TimeIntent against the receiver's current τs.
func (ti TimeIntent) AbsoluteTime(tau StateTime) StateTime {
	return tau + StateTime(ti.OffsetUnits100us)*100
}

// TimeIntentFor builds a TimeIntent expressing "apply as of timestamp"
// relative to the given reference τs.
func TimeIntentFor(timestamp, reference StateTime) TimeIntent {
	delta := int64(timestamp-reference) / 100
	return TimeIntent{OffsetUnits100us: int32(delta)}
}

// TimePosition classifies an event's absolute time relative to the
// reality window.
type TimePosition uint8

const (
	TimePositionTooLate TimePosition = iota
	TimePositionCorrectable
	TimePositionCurrent
	TimePositionPredictable
	TimePositionTooEarly
)

func (p TimePosition) String() string {
	switch p {
	case TimePositionTooLate:
		return "too-late"
	case TimePositionCorrectable:
		return "correctable"
	case TimePositionCurrent:
		return "current"
	case TimePositionPredictable:
		return "predictable"
	case TimePositionTooEarly:
		return "too-early"
	default:
		return "unknown"
	}
}

// currentWindowMicros is the half-width, in microseconds, within which an
// event is treated as exactly "now" rather than correctable/predictable.
const currentWindowMicros = 5000
