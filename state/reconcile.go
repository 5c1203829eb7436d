// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"encoding/binary"
	"math"

	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/temporal"
)

// Result aggregates the outcome of processing a batch of events.
type Result struct {
	Applied       int
	Merged        int
	LateCorrected int
	Buffered      int
	Rejected      int
	Duplicate     int
	Rejections    []RejectedEvent
}

// RejectedEvent pairs a rejected event with its tagged reason.
type RejectedEvent struct {
	Event  core.Event
	Reason error
}

// defaultDivergenceThreshold is used when a Reconciler is constructed
// with NewReconciler, matching config.DefaultParameters().
const defaultDivergenceThreshold = 0.5

// Reconciler holds a node's state field and runs the six-stage event
// pipeline against it.
type Reconciler struct {
	Field               *Field
	DivergenceThreshold float64
}

// NewReconciler returns a Reconciler over a fresh Field.
func NewReconciler() *Reconciler {
	return &Reconciler{Field: NewField(), DivergenceThreshold: defaultDivergenceThreshold}
}

// ProcessEvents runs every event through the pipeline against engine's
// current reality window, aggregating the outcome.
func (r *Reconciler) ProcessEvents(events []core.Event, engine *temporal.Engine) Result {
	var result Result
	for _, e := range events {
		r.processSingle(e, engine, &result)
	}
	for _, released := range r.Field.ReleaseQuarantine() {
		r.processSingle(released, engine, &result)
	}
	r.ControlDivergence()
	return result
}

// ControlDivergence implements stage 6: atoms whose entropy exceeds the
// divergence threshold have their value dropped if they are
// Enhancement/Cosmetic (quality downgrade), or have their entropy
// accumulator increased if Perceptual/Core (never dropped).
func (r *Reconciler) ControlDivergence() {
	r.Field.Each(func(atom *core.StateAtom) {
		if atom.Entropy.Level <= r.DivergenceThreshold {
			return
		}
		switch atom.Type {
		case core.StateTypeEnhancement, core.StateTypeCosmetic:
			atom.Value = nil
		case core.StateTypePerceptual:
			atom.Entropy.Increase(0.1)
		case core.StateTypeCore:
			atom.Entropy.Increase(0.05)
		}
	})
}

func (r *Reconciler) processSingle(event core.Event, engine *temporal.Engine, result *Result) {
	atom, exists := r.Field.Get(event.TargetState)

	// Duplicate check: a replayed event carries the same per-source
	// sequence number the atom's version already reflects (each applied
	// event bumps atom.Version[source] exactly once), so a sequence
	// already dominated by the atom's version has already been applied.
	if exists && event.ID.Seq < atom.Version.Get(event.Source) {
		result.Duplicate++
		return
	}

	// Stage 1: authority.
	if exists {
		requested := requestedScope(event.Mutation.Kind)
		if !atom.Authority.HasAuthority(event.Source, requested, event.Mutation.Kind) {
			result.Rejected++
			result.Rejections = append(result.Rejections, RejectedEvent{event, core.ErrUnauthorized})
			return
		}
	}

	// Stage 2: causality.
	if exists {
		if !causalityOK(event.VersionRef, atom.Version) {
			missing := missingDeps(event.VersionRef, atom.Version)
			r.Field.Quarantine(event, missing, engine.TauS())
			result.Buffered++
			return
		}
	}

	// Stage 3: temporal placement.
	absolute := event.AbsoluteTime(engine.TauS())
	position := engine.ClassifyTime(absolute)

	// Stage 4: application by position.
	switch position {
	case core.TimePositionTooLate:
		result.Rejected++
		result.Rejections = append(result.Rejections, RejectedEvent{event, core.ErrTooLate})
	case core.TimePositionCorrectable:
		delay := engine.TauS().Sub(absolute)
		weight := engine.CorrectionWeight(delay)
		if weight > 0.1 {
			r.applyEvent(event, absolute, weight)
			result.LateCorrected++
		}
	case core.TimePositionCurrent:
		r.applyEvent(event, absolute, 1.0)
		result.Applied++
	case core.TimePositionPredictable:
		r.applyEvent(event, absolute, 1.0)
		result.Merged++
	case core.TimePositionTooEarly:
		r.Field.Quarantine(event, core.VersionVector{}, engine.TauS())
		result.Buffered++
	}
}

// requestedScope maps a mutation kind to the authority scope it needs.
func requestedScope(kind core.MutationKind) core.AuthorityScope {
	switch kind {
	case core.MutationAppend:
		return core.ScopeAppend
	default:
		return core.ScopeFull
	}
}

// causalityOK accepts when version_ref is already dominated by the
// atom's version (the common case) or the two are concurrent — only
// rejecting (quarantining) when the atom strictly lags the event's
// observed version, i.e. the event depends on counters not yet merged.
func causalityOK(ref, atomVersion core.VersionVector) bool {
	return ref.LessEq(atomVersion) || ref.Concurrent(atomVersion)
}

// missingDeps returns the entries of ref that exceed atomVersion.
func missingDeps(ref, atomVersion core.VersionVector) core.VersionVector {
	missing := core.NewVersionVector()
	for n, c := range ref {
		if c > atomVersion.Get(n) {
			missing[n] = c
		}
	}
	return missing
}

// applyEvent runs stage 5: merges versions, mutates the atom's value
// per its delta law, and resets entropy. Creating a new Core atom owned
// by the event's source if the target does not yet exist — unless the
// mutation is a Delete, which has nothing to do against a target that
// was never created (and, per the lifecycle rule that atoms are
// "removed on explicit delete", removes the atom outright rather than
// leaving a Deleted-but-present tombstone behind).
func (r *Reconciler) applyEvent(event core.Event, absoluteTime core.StateTime, weight float64) {
	atom, exists := r.Field.Get(event.TargetState)

	if event.Mutation.Kind == core.MutationDelete {
		if !exists {
			return
		}
		r.Field.Remove(event.TargetState)
		return
	}

	if !exists {
		atom = r.Field.CreateAtom(event.TargetState, event.Source)
	}

	atom.Version.MergeInto(event.VersionRef)
	atom.Version.Increment(event.Source)

	if applyMutation(atom, event.Mutation, weight, absoluteTime, event.Source) {
		atom.LastModified = absoluteTime
	}
	atom.Entropy.Reset()
}

// applyMutation mutates atom.Value according to the atom's delta law
// and the event's mutation op. It returns false only when a Set against
// a LastWriterWins atom loses its tiebreak and leaves the atom
// untouched; every other case returns true, including a Blend that
// leaves a non-ContinuousBlend value unchanged.
func applyMutation(atom *core.StateAtom, m core.MutationOp, weight float64, writeTime core.StateTime, writer core.NodeID) bool {
	switch m.Kind {
	case core.MutationSet:
		if atom.DeltaLaw.Kind == core.DeltaLawLastWriterWins &&
			!lastWriterWins(writeTime, writer, atom.LastModified, atom.LastWriter) {
			return false
		}
		atom.Value = append([]byte(nil), m.Bytes...)
		atom.LastWriter = writer
	case core.MutationAppend:
		atom.Value = append(atom.Value, m.Bytes...)
		if cap := atom.DeltaLaw.AppendCap; cap > 0 && len(atom.Value) > cap {
			atom.Value = atom.Value[len(atom.Value)-cap:]
		}
	case core.MutationIncrement:
		applyIncrement(atom, m.Delta)
	case core.MutationMerge:
		atom.Value = mergeByteSets(atom.Value, m.Bytes)
	case core.MutationBlend:
		if atom.DeltaLaw.Kind == core.DeltaLawContinuousBlend {
			applyBlend(atom, m.Value, m.Weight*weight)
		}
		// Blend semantics are defined only for ContinuousBlend atoms;
		// other delta laws leave the value untouched.
	}
	return true
}

// lastWriterWins reports whether a write at (newTime, newWriter) should
// replace the atom's currently recorded write at (curTime, curWriter):
// the later StateTime wins; ties are broken by the larger NodeID. Both
// halves of the comparison are order-independent, so every node that
// sees the same pair of writes reaches the same decision regardless of
// which one it applies first.
func lastWriterWins(newTime core.StateTime, newWriter core.NodeID, curTime core.StateTime, curWriter core.NodeID) bool {
	if newTime != curTime {
		return newTime > curTime
	}
	return newWriter > curWriter
}

func applyIncrement(atom *core.StateAtom, delta int64) {
	var current int64
	if len(atom.Value) == 8 {
		current = int64(binary.LittleEndian.Uint64(atom.Value))
	}
	current += delta
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(current))
	atom.Value = buf
}

// mergeByteSets performs a CRDT union over newline-delimited byte
// entries, the simplified set-of-bytes-by-id merge the delta law names.
func mergeByteSets(existing, incoming []byte) []byte {
	seen := map[string]struct{}{}
	var out []byte
	add := func(b []byte) {
		if _, ok := seen[string(b)]; ok {
			return
		}
		seen[string(b)] = struct{}{}
		if len(out) > 0 {
			out = append(out, '\n')
		}
		out = append(out, b...)
	}
	for _, part := range splitLines(existing) {
		add(part)
	}
	for _, part := range splitLines(incoming) {
		add(part)
	}
	return out
}

func splitLines(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	var out [][]byte
	start := 0
	for i, c := range b {
		if c == '\n' {
			out = append(out, b[start:i])
			start = i + 1
		}
	}
	out = append(out, b[start:])
	return out
}

func applyBlend(atom *core.StateAtom, value, weight float64) {
	var current float64
	if len(atom.Value) == 8 {
		current = bytesToFloat64(atom.Value)
	}
	maxDev := atom.DeltaLaw.MaxDeviation
	delta := (value - current) * weight
	if maxDev > 0 {
		if delta > maxDev {
			delta = maxDev
		}
		if delta < -maxDev {
			delta = -maxDev
		}
	}
	atom.Value = float64ToBytes(current + delta)
}

func bytesToFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func float64ToBytes(f float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
	return buf
}
