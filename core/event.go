// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

// EventType tags the kind of lawful mutation an Event carries.
type EventType uint8

const (
	EventStateCreate EventType = iota
	EventStateUpdate
	EventStateDelete
	EventAuthorityGrant
	EventAuthorityRevoke
	EventSessionJoin
	EventSessionLeave
	EventSessionSync
	EventTimeSync
	EventTimeCorrection
	EventRepair

	// Profile-specific kinds consumed by the core only to trigger
	// runtime side effects; their payloads are opaque mutation bytes.
	EventTextAppend
	EventFeedAppend
	EventFeedDelete
	EventVoiceFrame
	EventVoiceMute
	EventTypingStart
	EventTypingStop
	EventPresenceUpdate
	EventVisualKeyframe
	EventVisualDelta
	EventStreamStart
	EventStreamEnd
	EventStateRequest
	EventStateResponse
	EventGapFill
)

// DelegationLink is one hop of a parsed delegation chain: delegator
// grants delegate a scope, attested by delegator's signature.
type DelegationLink struct {
	Delegator NodeID
	Delegate  NodeID
	Scope     AuthorityScope
	Signature []byte
}

// AuthorityProof attests that Source was entitled to submit the event's
// mutation: a direct Ed25519 signature over the encoded mutation, plus
// an optional chain of delegations justifying Source's standing.
type AuthorityProof struct {
	Signature  []byte
	Delegation []DelegationLink
}

// EntropyHint lets an event's author flag how uncertain the value is,
// independent of the receiver's own entropy accounting.
type EntropyHint struct {
	Entropy    float64
	Confidence float64
}

// Event is the lawful unit of mutation: everything the reconciliation
// engine consumes to update a StateAtom.
type Event struct {
	ID             EventID
	Type           EventType
	Source         NodeID
	TargetState    StateID
	VersionRef     VersionVector
	Mutation       MutationOp
	TimeIntent     TimeIntent
	AuthorityProof AuthorityProof
	EntropyHint    EntropyHint
}

// AbsoluteTime resolves the event's TimeIntent against the receiver's τs.
func (e Event) AbsoluteTime(tau StateTime) StateTime {
	return e.TimeIntent.AbsoluteTime(tau)
}
