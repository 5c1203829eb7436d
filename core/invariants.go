// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import "fmt"

// Invariant names one of the five hard guarantees every layer is built
// to uphold. They are documentation and assertion anchors, not runtime
// gates — each concrete engine enforces its own invariant directly.
type Invariant uint8

const (
	// RealityNeverWaits: a tick never blocks on network I/O; τp advances
	// every tick regardless of any other state.
	RealityNeverWaits Invariant = iota + 1
	// PresenceOverPackets: existence of the session outranks completeness
	// of any single packet; dropped Cosmetic/Enhancement data never ends
	// a session.
	PresenceOverPackets
	// ExperienceDegradesNeverCollapses: quality steps down through the
	// degradation ladder rather than disconnecting.
	ExperienceDegradesNeverCollapses
	// EventIsTruth: state atoms are a projection of applied events, never
	// the authoritative record themselves.
	EventIsTruth
	// IdentitySurvivesTransport: NodeID and signing identity are
	// independent of any session key or transport path.
	IdentitySurvivesTransport
)

// Code returns the invariant's short tag, e.g. "INV-1".
func (i Invariant) Code() string {
	return fmt.Sprintf("INV-%d", int(i))
}

func (i Invariant) String() string {
	switch i {
	case RealityNeverWaits:
		return "RealityNeverWaits"
	case PresenceOverPackets:
		return "PresenceOverPackets"
	case ExperienceDegradesNeverCollapses:
		return "ExperienceDegradesNeverCollapses"
	case EventIsTruth:
		return "EventIsTruth"
	case IdentitySurvivesTransport:
		return "IdentitySurvivesTransport"
	default:
		return "Unknown"
	}
}

// AllInvariants lists every invariant in order.
func AllInvariants() []Invariant {
	return []Invariant{
		RealityNeverWaits,
		PresenceOverPackets,
		ExperienceDegradesNeverCollapses,
		EventIsTruth,
		IdentitySurvivesTransport,
	}
}

// InvariantViolation reports which invariant a caller believes was
// broken and under what circumstances — used in tests and assertions,
// never raised by production code paths (no stage panics).
type InvariantViolation struct {
	Invariant Invariant
	Context   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%s (%s) violated: %s", e.Invariant.Code(), e.Invariant, e.Context)
}
