package state

import (
	"testing"

	"github.com/luxfi/elara/config"
	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/temporal"
	"github.com/stretchr/testify/require"
)

func newEngine() *temporal.Engine {
	return temporal.NewEngine(config.DefaultParameters())
}

func textState(instance uint64) core.StateID {
	return core.NewStateID(core.StateTypePrefixText, instance)
}

func setEvent(source core.NodeID, target core.StateID, seq uint64, value []byte) core.Event {
	return core.Event{
		ID:          core.EventID{Source: source, Seq: seq},
		Type:        core.EventTextAppend,
		Source:      source,
		TargetState: target,
		VersionRef:  core.NewVersionVector(),
		Mutation:    core.MutationOp{Kind: core.MutationSet, Bytes: value},
		TimeIntent:  core.TimeIntent{},
	}
}

func TestApplyCurrentEventCreatesAtom(t *testing.T) {
	r := NewReconciler()
	e := newEngine()

	result := r.ProcessEvents([]core.Event{setEvent(1, textState(1), 1, []byte("Hello, ELARA!"))}, e)
	require.Equal(t, 1, result.Applied)

	atom, ok := r.Field.Get(textState(1))
	require.True(t, ok)
	require.Equal(t, []byte("Hello, ELARA!"), atom.Value)
	require.Equal(t, uint64(1), atom.Version.Get(1))
}

func TestTooLateEventRejected(t *testing.T) {
	r := NewReconciler()
	e := newEngine()

	target := textState(2)
	r.ProcessEvents([]core.Event{setEvent(1, target, 1, []byte("first"))}, e)

	ev := setEvent(1, target, 2, []byte("late"))
	ev.TimeIntent = core.TimeIntentFor(e.TauS()-core.StateTime(e.Hc().Microseconds())*10, e.TauS())

	result := r.ProcessEvents([]core.Event{ev}, e)
	require.Equal(t, 1, result.Rejected)

	atom, _ := r.Field.Get(target)
	require.Equal(t, []byte("first"), atom.Value)
}

func TestUnauthorizedWriteRejected(t *testing.T) {
	r := NewReconciler()
	e := newEngine()

	target := textState(3)
	r.ProcessEvents([]core.Event{setEvent(1, target, 1, []byte("owner-write"))}, e)

	intruder := setEvent(2, target, 1, []byte("intruder-write"))
	result := r.ProcessEvents([]core.Event{intruder}, e)
	require.Equal(t, 1, result.Rejected)

	atom, _ := r.Field.Get(target)
	require.Equal(t, []byte("owner-write"), atom.Value)
}

func TestConcurrentEditsConverge(t *testing.T) {
	target := textState(4)

	nodeA := NewReconciler()
	nodeB := NewReconciler()
	eA := newEngine()
	eB := newEngine()

	evA := setEvent(1, target, 1, []byte("from-A"))
	evB := setEvent(2, target, 1, []byte("from-B"))

	nodeA.ProcessEvents([]core.Event{evA}, eA)
	nodeB.ProcessEvents([]core.Event{evB}, eB)

	// Cross-deliver: each node now reconciles the other's event against
	// its local atom, which already has authority granted to the
	// original author. Simulate by granting the peer full authority.
	atomA, _ := nodeA.Field.Get(target)
	atomA.Authority.Grant(2, core.ScopeFull)
	atomB, _ := nodeB.Field.Get(target)
	atomB.Authority.Grant(1, core.ScopeFull)

	nodeA.ProcessEvents([]core.Event{evB}, eA)
	nodeB.ProcessEvents([]core.Event{evA}, eB)

	atomA, _ = nodeA.Field.Get(target)
	atomB, _ = nodeB.Field.Get(target)

	require.Equal(t, atomA.Version, atomB.Version)
	require.Equal(t, uint64(1), atomA.Version.Get(1))
	require.Equal(t, uint64(1), atomA.Version.Get(2))

	// Both nodes saw the same pair of writes, so LastWriterWins must
	// converge them on the same value regardless of which one each
	// node happened to apply first.
	require.Equal(t, atomA.Value, atomB.Value)
	require.Equal(t, atomA.LastWriter, atomB.LastWriter)
}

func TestDeleteAgainstMissingAtomIsNoOp(t *testing.T) {
	r := NewReconciler()
	e := newEngine()
	target := textState(6)

	ev := core.Event{
		ID:          core.EventID{Source: 1, Seq: 1},
		Type:        core.EventStateDelete,
		Source:      1,
		TargetState: target,
		VersionRef:  core.NewVersionVector(),
		Mutation:    core.MutationOp{Kind: core.MutationDelete},
	}

	result := r.ProcessEvents([]core.Event{ev}, e)
	require.Equal(t, 1, result.Applied)
	require.False(t, r.Field.Contains(target))
}

func TestDeleteRemovesExistingAtom(t *testing.T) {
	r := NewReconciler()
	e := newEngine()
	target := textState(7)

	r.ProcessEvents([]core.Event{setEvent(1, target, 1, []byte("present"))}, e)
	require.True(t, r.Field.Contains(target))

	del := core.Event{
		ID:          core.EventID{Source: 1, Seq: 2},
		Type:        core.EventStateDelete,
		Source:      1,
		TargetState: target,
		VersionRef:  core.NewVersionVector(),
		Mutation:    core.MutationOp{Kind: core.MutationDelete},
	}
	r.ProcessEvents([]core.Event{del}, e)
	require.False(t, r.Field.Contains(target))
}

func TestDuplicateEventIsReportedAndNotReapplied(t *testing.T) {
	r := NewReconciler()
	e := newEngine()
	target := textState(8)

	ev := core.Event{
		ID:          core.EventID{Source: 1, Seq: 0},
		Type:        core.EventTextAppend,
		Source:      1,
		TargetState: target,
		VersionRef:  core.NewVersionVector(),
		Mutation:    core.MutationOp{Kind: core.MutationAppend, Bytes: []byte("hi")},
	}

	r.ProcessEvents([]core.Event{ev}, e)
	atom, ok := r.Field.Get(target)
	require.True(t, ok)
	require.Equal(t, []byte("hi"), atom.Value)

	result := r.ProcessEvents([]core.Event{ev}, e)
	require.Equal(t, 1, result.Duplicate)
	require.Equal(t, 0, result.Applied)

	atom, _ = r.Field.Get(target)
	require.Equal(t, []byte("hi"), atom.Value, "a duplicate must not be re-applied")
}

func TestDivergenceControlDropsEnhancementValue(t *testing.T) {
	r := NewReconciler()
	atom := r.Field.CreateAtom(core.NewStateID(core.StateTypePrefixVisual, 1), 1)
	atom.Type = core.StateTypeEnhancement
	atom.Value = []byte("stale-enhancement-data")
	atom.Entropy.Level = 0.9

	r.ControlDivergence()

	require.Nil(t, atom.Value)
}

func TestDivergenceControlNeverDropsCoreValue(t *testing.T) {
	r := NewReconciler()
	atom := r.Field.CreateAtom(textState(9), 1)
	atom.Value = []byte("core-data")
	atom.Entropy.Level = 0.9

	r.ControlDivergence()

	require.Equal(t, []byte("core-data"), atom.Value)
	require.Greater(t, atom.Entropy.Accumulated, 0.0)
}

func TestQuarantineReleasesWhenDependencySatisfied(t *testing.T) {
	r := NewReconciler()
	e := newEngine()
	target := textState(5)

	r.Field.CreateAtom(target, 1)

	ev := setEvent(1, target, 2, []byte("depends-on-future"))
	ev.VersionRef = core.VersionVector{1: 5}

	result := r.ProcessEvents([]core.Event{ev}, e)
	require.Equal(t, 1, result.Buffered)
	require.Equal(t, 1, r.Field.QuarantineLen())

	atom, _ := r.Field.Get(target)
	atom.Version[1] = 5

	released := r.Field.ReleaseQuarantine()
	require.Len(t, released, 1)
	require.Equal(t, 0, r.Field.QuarantineLen())
}
