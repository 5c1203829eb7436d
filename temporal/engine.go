// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package temporal

import (
	"time"

	"github.com/luxfi/elara/config"
	"github.com/luxfi/elara/core"
)

// Engine binds the perceptual clock, state clock, and network model
// into the adaptive reality window the reconciliation engine consults
// every tick.
type Engine struct {
	perceptual *PerceptualClock
	state      *StateClock
	network    *NetworkModel

	hp time.Duration
	hc time.Duration

	params config.Parameters
}

// NewEngine returns an Engine governed by the given parameters.
func NewEngine(params config.Parameters) *Engine {
	return &Engine{
		perceptual: NewPerceptualClock(),
		state:      NewStateClock(),
		network:    NewNetworkModel(),
		hp:         params.HpMin,
		hc:         params.HcMin,
		params:     params,
	}
}

// Tick advances τp then τs by the configured tick interval, then
// recomputes the adaptive horizons.
func (e *Engine) Tick(now time.Time) {
	e.perceptual.Tick(now)
	e.state.Advance(e.params.TickInterval)
	e.adjustHorizons()
}

// adjustHorizons recomputes Hp and Hc from the current network model,
// per the formula: worse network conditions widen both horizons.
func (e *Engine) adjustHorizons() {
	jitterMs := e.network.JitterMillis()
	reorder := float64(e.network.ReorderDepth())
	loss := e.network.LossRate()

	hpMs := float64(e.params.HpMin.Milliseconds()) +
		e.params.K1Jitter*jitterMs +
		e.params.K2Reorder*reorder*0.001 +
		e.params.K3Loss*loss
	hp := time.Duration(hpMs) * time.Millisecond
	e.hp = clampDuration(hp, e.params.HpMin, e.params.HpMax)

	hcMs := float64(e.params.HcMin.Milliseconds()) + e.params.K4JitterCorrect*jitterMs
	hc := time.Duration(hcMs) * time.Millisecond
	e.hc = clampDuration(hc, e.params.HcMin, e.params.HcMax)
}

func clampDuration(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

// TauP returns the current perceptual time.
func (e *Engine) TauP() core.PerceptualTime { return e.perceptual.Now() }

// TauS returns the current state time.
func (e *Engine) TauS() core.StateTime { return e.state.Now() }

// Hp returns the current prediction horizon.
func (e *Engine) Hp() time.Duration { return e.hp }

// Hc returns the current correction horizon.
func (e *Engine) Hc() time.Duration { return e.hc }

// SyncStateTo forwards to the state clock's forward-only sync.
func (e *Engine) SyncStateTo(target core.StateTime) { e.state.SyncTo(target) }

// SetConvergenceTarget arms state-clock correction toward target.
func (e *Engine) SetConvergenceTarget(target core.StateTime) {
	e.state.SetConvergenceTarget(target)
}

// SetRate adjusts the state clock's elastic rate.
func (e *Engine) SetRate(rate float64) { e.state.SetRate(rate) }

// UpdateFromPacket feeds one peer's (local, remote) timestamp pair into
// the network model.
func (e *Engine) UpdateFromPacket(peer core.NodeID, local, remote core.StateTime) {
	e.network.UpdateFromPacket(peer, local, remote)
}

// RecordReorder folds in an observed reorder depth.
func (e *Engine) RecordReorder(depth int) { e.network.RecordReorder(depth) }

// RecordLoss folds in a loss observation.
func (e *Engine) RecordLoss(lost, total int) { e.network.RecordLoss(lost, total) }

// StabilityScore returns the network model's composite stability score.
func (e *Engine) StabilityScore() float64 { return e.network.StabilityScore() }

// RealityWindow returns the current [τs − Hc, τs + Hp] band.
func (e *Engine) RealityWindow() (lo, hi core.StateTime) {
	tau := e.state.Now()
	lo = tau - core.StateTime(e.hc.Microseconds())
	hi = tau + core.StateTime(e.hp.Microseconds())
	return lo, hi
}

// currentWindowMicros is the half-width within which an event is "now" rather
// than correctable/predictable, matching core.currentWindowMicros.
const currentWindowMicros = 5000

// ClassifyTime places an absolute event time within the reality window.
func (e *Engine) ClassifyTime(t core.StateTime) core.TimePosition {
	tau := e.state.Now()
	delta := int64(t - tau)

	lo := -int64(e.hc.Microseconds())
	hi := int64(e.hp.Microseconds())

	switch {
	case delta >= -currentWindowMicros && delta <= currentWindowMicros:
		return core.TimePositionCurrent
	case delta < lo:
		return core.TimePositionTooLate
	case delta < 0:
		return core.TimePositionCorrectable
	case delta <= hi:
		return core.TimePositionPredictable
	default:
		return core.TimePositionTooEarly
	}
}

// CorrectionWeight returns the blend weight for a Correctable event:
// 1 at zero delay, decaying linearly to 0 at Hc.
func (e *Engine) CorrectionWeight(delay time.Duration) float64 {
	if e.hc == 0 {
		return 0
	}
	weight := 1.0 - float64(delay)/float64(e.hc)
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}
	return weight
}
