// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state implements the per-node store of state atoms, the
// quarantine queue for events awaiting dependencies, and the
// reconciliation pipeline that applies lawful mutations to atoms.
package state

import "github.com/luxfi/elara/core"

// QuarantinedEvent is an event held back because it references version
// counters its target atom has not yet observed. MissingDeps is the
// subset of the event's version_ref that must be dominated by the
// atom's version before the event can be replayed.
type QuarantinedEvent struct {
	Event         core.Event
	MissingDeps   core.VersionVector
	QuarantinedAt core.StateTime
}

// Field is a node's store of state atoms plus its quarantine queue.
type Field struct {
	atoms      map[core.StateID]*core.StateAtom
	quarantine []QuarantinedEvent
}

// NewField returns an empty field.
func NewField() *Field {
	return &Field{atoms: make(map[core.StateID]*core.StateAtom)}
}

// Get returns the atom for id, if any.
func (f *Field) Get(id core.StateID) (*core.StateAtom, bool) {
	a, ok := f.atoms[id]
	return a, ok
}

// Insert stores atom, replacing any existing entry for its ID.
func (f *Field) Insert(atom *core.StateAtom) {
	f.atoms[atom.ID] = atom
}

// Remove deletes the atom for id.
func (f *Field) Remove(id core.StateID) {
	delete(f.atoms, id)
}

// Contains reports whether id has an atom.
func (f *Field) Contains(id core.StateID) bool {
	_, ok := f.atoms[id]
	return ok
}

// Len returns the number of atoms.
func (f *Field) Len() int { return len(f.atoms) }

// CreateAtom creates and stores a new atom owned by owner, returning it.
func (f *Field) CreateAtom(id core.StateID, owner core.NodeID) *core.StateAtom {
	atom := core.NewStateAtom(id, owner)
	f.atoms[id] = atom
	return atom
}

// Each calls fn for every atom in the field.
func (f *Field) Each(fn func(*core.StateAtom)) {
	for _, a := range f.atoms {
		fn(a)
	}
}

// AtomsNeedingPrediction returns atoms whose time_since_actual exceeds
// threshold, i.e. candidates for the runtime's entropy-advance stage.
func (f *Field) AtomsNeedingPrediction(threshold core.StateTime) []*core.StateAtom {
	var out []*core.StateAtom
	for _, a := range f.atoms {
		if a.Entropy.TimeSinceActual > threshold {
			out = append(out, a)
		}
	}
	return out
}

// Quarantine holds an event whose version_ref is not yet dominated by
// its target atom's version.
func (f *Field) Quarantine(event core.Event, missing core.VersionVector, at core.StateTime) {
	f.quarantine = append(f.quarantine, QuarantinedEvent{
		Event:         event,
		MissingDeps:   missing,
		QuarantinedAt: at,
	})
}

// ReleaseQuarantine scans the quarantine queue and returns every event
// whose target atom's version now dominates its missing dependencies,
// removing them from the queue.
func (f *Field) ReleaseQuarantine() []core.Event {
	var released []core.Event
	var remaining []QuarantinedEvent
	for _, q := range f.quarantine {
		atom, ok := f.atoms[q.Event.TargetState]
		if ok && q.MissingDeps.LessEq(atom.Version) {
			released = append(released, q.Event)
			continue
		}
		remaining = append(remaining, q)
	}
	f.quarantine = remaining
	return released
}

// QuarantineLen returns the number of quarantined events.
func (f *Field) QuarantineLen() int { return len(f.quarantine) }
