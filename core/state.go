// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import "github.com/luxfi/elara/set"

// StateType classifies an atom for divergence control and default
// creation behavior.
type StateType uint8

const (
	StateTypeCore StateType = iota
	StateTypePerceptual
	StateTypeEnhancement
	StateTypeCosmetic
)

// AuthorityScope bounds what a delegate may do to an atom.
type AuthorityScope uint8

const (
	ScopeFull AuthorityScope = iota
	ScopeAppend
	ScopeReadOnly
	ScopeCustom
)

// Authority gates writes to an atom: owners always have Full scope;
// delegates are granted a specific scope; revocation overrides both.
type Authority struct {
	Owners    set.Set[NodeID]
	Delegates map[NodeID]AuthorityScope
	// CustomOps holds the permitted operation tags for delegates scoped
	// Custom; ignored for any other scope.
	CustomOps map[NodeID]map[MutationKind]struct{}
	Revoked   set.Set[NodeID]
}

// NewAuthority returns an Authority with node as sole owner.
func NewAuthority(node NodeID) Authority {
	return Authority{
		Owners:    set.Of(node),
		Delegates: map[NodeID]AuthorityScope{},
		CustomOps: map[NodeID]map[MutationKind]struct{}{},
		Revoked:   set.Of[NodeID](),
	}
}

// HasAuthority reports whether node may perform an operation requiring
// requested scope, given it is not revoked and is either an owner or a
// delegate whose granted scope covers the request.
func (a Authority) HasAuthority(node NodeID, requested AuthorityScope, op MutationKind) bool {
	if a.Revoked.Contains(node) {
		return false
	}
	if a.Owners.Contains(node) {
		return true
	}
	scope, delegate := a.Delegates[node]
	if !delegate {
		return false
	}
	switch scope {
	case ScopeFull:
		return true
	case ScopeAppend:
		return requested == ScopeAppend || requested == ScopeReadOnly
	case ScopeReadOnly:
		return requested == ScopeReadOnly
	case ScopeCustom:
		ops, ok := a.CustomOps[node]
		if !ok {
			return false
		}
		_, allowed := ops[op]
		return allowed
	default:
		return false
	}
}

// Grant delegates scope to node.
func (a *Authority) Grant(node NodeID, scope AuthorityScope) {
	a.Revoked.Remove(node)
	a.Delegates[node] = scope
}

// Revoke removes a node's standing regardless of prior ownership or
// delegation.
func (a *Authority) Revoke(node NodeID) {
	a.Revoked.Add(node)
}

// DeltaLawKind names an atom's merge rule.
type DeltaLawKind uint8

const (
	DeltaLawLastWriterWins DeltaLawKind = iota
	DeltaLawAppendOnly
	DeltaLawCounter
	DeltaLawMultiValueRegister
	DeltaLawContinuousBlend
)

// CounterReduce names the reduction applied by a Counter delta law.
type CounterReduce uint8

const (
	CounterMax CounterReduce = iota
	CounterSum
	CounterAvg
)

// BlendInterp names the interpolation curve for a ContinuousBlend law.
type BlendInterp uint8

const (
	BlendLinear BlendInterp = iota
	BlendEaseInOut
)

// DeltaLaw is a tagged union over the atom-local merge rule applied to
// an incoming mutation.
type DeltaLaw struct {
	Kind DeltaLawKind

	// AppendOnly
	AppendCap int

	// Counter
	CounterReduce CounterReduce

	// ContinuousBlend
	Interp    BlendInterp
	MaxDeviation float64
}

// Bounds caps how large and how fast an atom may grow.
type Bounds struct {
	MaxSize     int
	RateLimit   *float64 // writes per second, nil = unbounded
	MaxEntropy  float64
}

// Entropy tracks how stale an atom's projected value is relative to the
// last confirmed event.
type Entropy struct {
	Level           float64
	Accumulated     float64
	TimeSinceActual StateTime
}

// Increase bumps entropy by delta, clamping Level to [0, 1].
func (e *Entropy) Increase(delta float64) {
	e.Accumulated += delta
	e.Level += delta
	if e.Level > 1 {
		e.Level = 1
	}
	if e.Level < 0 {
		e.Level = 0
	}
}

// Reset zeroes entropy after a successful actual application.
func (e *Entropy) Reset() {
	e.Level = 0
	e.Accumulated = 0
	e.TimeSinceActual = 0
}

// StateAtom is the fundamental unit of reality: an opaque value governed
// by authority, a delta law, and an entropy model.
type StateAtom struct {
	ID           StateID
	Type         StateType
	Authority    Authority
	Version      VersionVector
	DeltaLaw     DeltaLaw
	Bounds       Bounds
	Entropy      Entropy
	LastModified StateTime
	// LastWriter is the source of the write currently reflected in
	// Value, used to break LastWriterWins ties when two writes resolve
	// to the same LastModified.
	LastWriter NodeID
	Value      []byte
}

// NewStateAtom creates an atom owned solely by owner, defaulting to Core
// type and LastWriterWins semantics — the default used when an event
// creates an atom implicitly.
func NewStateAtom(id StateID, owner NodeID) *StateAtom {
	return &StateAtom{
		ID:        id,
		Type:      StateTypeCore,
		Authority: NewAuthority(owner),
		Version:   NewVersionVector(),
		DeltaLaw:  DeltaLaw{Kind: DeltaLawLastWriterWins},
		Bounds:    Bounds{MaxSize: 1 << 20, MaxEntropy: 1.0},
		Entropy:   Entropy{},
	}
}
