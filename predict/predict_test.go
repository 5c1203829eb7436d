package predict

import (
	"testing"

	"github.com/luxfi/elara/core"
	"github.com/stretchr/testify/require"
)

func TestPredictorUpdateClearsPrediction(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	p.Update(State{Timestamp: 0, Fields: []float64{1, 2, 3}})

	_, ok := p.CurrentState()
	require.True(t, ok)
	require.False(t, p.IsPredicting())
}

func TestPredictorExtrapolatesWithVelocity(t *testing.T) {
	p := NewPredictor(DefaultConfig())
	p.Update(State{Timestamp: 0, Fields: []float64{0}})
	p.Update(State{Timestamp: 100_000, Fields: []float64{10}}) // +100ms, field moved by 10

	predicted, ok := p.Predict(core.StateTime(150_000)) // +50ms further
	require.True(t, ok)
	require.True(t, p.IsPredicting())
	// velocity = 10 units/100ms = 100 units/sec, damped by 0.5 over 0.05s
	require.InDelta(t, 10+100*0.05*0.5, predicted.Fields[0], 1e-9)
}

func TestPredictorRefusesBeyondHorizon(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPredictor(cfg)
	p.Update(State{Timestamp: 0, Fields: []float64{1}})

	_, ok := p.Predict(core.StateTime(int64(cfg.MaxHorizonMs)*1000 + 1000))
	require.False(t, ok)
}

func TestPredictorRefusesLowConfidence(t *testing.T) {
	cfg := Config{MaxHorizonMs: 10_000, ConfidenceDecay: 1.0, MinConfidence: 0.9, Damping: 0.5}
	p := NewPredictor(cfg)
	p.Update(State{Timestamp: 0, Fields: []float64{1}})

	_, ok := p.Predict(core.StateTime(200_000)) // 200ms => 2 decay steps => confidence -1.0
	require.False(t, ok)
}

func TestStateBufferInterpolation(t *testing.T) {
	b := NewStateBuffer(10, 50)
	b.Push(State{Timestamp: 0, Fields: []float64{0}})
	b.Push(State{Timestamp: 100_000, Fields: []float64{100}})

	// target 100ms - 50ms delay = 50ms => halfway between 0 and 100
	got, ok := b.GetAt(core.StateTime(100_000))
	require.True(t, ok)
	require.InDelta(t, 50, got.Fields[0], 1e-9)
}

func TestStateBufferEvictsOldest(t *testing.T) {
	b := NewStateBuffer(2, 0)
	b.Push(State{Timestamp: 0})
	b.Push(State{Timestamp: 1})
	b.Push(State{Timestamp: 2})
	require.Equal(t, 2, b.Len())
	latest, ok := b.Latest()
	require.True(t, ok)
	require.Equal(t, core.StateTime(2), latest.Timestamp)
}

func TestBufferConfigForStabilityWidensUnderInstability(t *testing.T) {
	stableCap, stableDelay := BufferConfigForStability(1.0)
	unstableCap, unstableDelay := BufferConfigForStability(0.0)

	require.Less(t, stableCap, unstableCap)
	require.Less(t, stableDelay, unstableDelay)
}

func TestDegradationLadderPrunesTrailingFields(t *testing.T) {
	s := State{Fields: []float64{1, 2, 3, 4, 5}}

	full := Apply(LevelFull, s)
	require.Equal(t, s.Fields, full.Fields)

	latent := Apply(LevelLatent, s)
	for _, f := range latent.Fields {
		require.Zero(t, f)
	}

	reduced := Apply(LevelReduced, s)
	require.NotZero(t, reduced.Fields[0])
}
