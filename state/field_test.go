package state

import (
	"testing"

	"github.com/luxfi/elara/core"
	"github.com/stretchr/testify/require"
)

func TestFieldCreateGetRemove(t *testing.T) {
	f := NewField()
	id := core.NewStateID(core.StateTypePrefixPresence, 1)

	atom := f.CreateAtom(id, 7)
	require.Equal(t, 1, f.Len())

	got, ok := f.Get(id)
	require.True(t, ok)
	require.Equal(t, atom, got)

	f.Remove(id)
	require.False(t, f.Contains(id))
}

func TestAtomsNeedingPrediction(t *testing.T) {
	f := NewField()
	id := core.NewStateID(core.StateTypePrefixVoice, 1)
	atom := f.CreateAtom(id, 1)
	atom.Entropy.TimeSinceActual = 500

	stale := f.AtomsNeedingPrediction(100)
	require.Len(t, stale, 1)

	fresh := f.AtomsNeedingPrediction(1000)
	require.Len(t, fresh, 0)
}
