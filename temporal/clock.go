// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package temporal implements the dual-clock engine: a strictly monotone
// perceptual clock and an elastic state clock, the per-peer network
// model that feeds them, and the adaptive reality window derived from
// both.
package temporal

import (
	"time"

	"github.com/luxfi/elara/core"
)

// maxPerceptualStep bounds how far τp can jump in a single tick, so a
// system sleep or debugger pause cannot be mistaken for a huge elapsed
// duration.
const maxPerceptualStep = 100 * time.Millisecond

// PerceptualClock is τp: strictly monotone, advanced by real elapsed
// time since the last tick. It never retreats and never freezes.
type PerceptualClock struct {
	value       core.PerceptualTime
	lastUpdate  time.Time
	initialized bool
}

// NewPerceptualClock returns a clock starting at zero.
func NewPerceptualClock() *PerceptualClock {
	return &PerceptualClock{}
}

// Tick advances the clock by the elapsed wall time since the previous
// call, clamped to maxPerceptualStep.
func (c *PerceptualClock) Tick(now time.Time) core.PerceptualTime {
	if !c.initialized {
		c.lastUpdate = now
		c.initialized = true
		return c.value
	}
	elapsed := now.Sub(c.lastUpdate)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > maxPerceptualStep {
		elapsed = maxPerceptualStep
	}
	c.value = c.value.Add(elapsed)
	c.lastUpdate = now
	return c.value
}

// Now returns the current value without advancing.
func (c *PerceptualClock) Now() core.PerceptualTime {
	return c.value
}

// IsAdvancing reports whether Tick has been called at least once.
func (c *PerceptualClock) IsAdvancing() bool {
	return c.initialized
}

// defaultRate is the state clock's elastic rate absent any correction.
const defaultRate = 1.0

// rateMin and rateMax bound the configurable rate multiplier.
const (
	rateMin = 0.5
	rateMax = 2.0
)

// StateClock is τs: a signed microsecond elastic clock that advances by
// tick_interval × rate each tick, optionally correcting toward a
// convergence target, and may only be synced forward.
type StateClock struct {
	value                core.StateTime
	rate                 float64
	convergenceTarget    *core.StateTime
	maxCorrectionPerTick core.StateTime
}

// NewStateClock returns a clock starting at zero with the default rate.
func NewStateClock() *StateClock {
	return &StateClock{
		rate:                 defaultRate,
		maxCorrectionPerTick: core.StateTime(10 * time.Millisecond.Microseconds()),
	}
}

// SetRate updates the elastic rate multiplier, clamped to [0.5, 2.0].
func (c *StateClock) SetRate(rate float64) {
	if rate < rateMin {
		rate = rateMin
	}
	if rate > rateMax {
		rate = rateMax
	}
	c.rate = rate
}

// SetConvergenceTarget arms proportional correction toward target.
func (c *StateClock) SetConvergenceTarget(target core.StateTime) {
	t := target
	c.convergenceTarget = &t
}

// ClearConvergenceTarget disarms correction.
func (c *StateClock) ClearConvergenceTarget() {
	c.convergenceTarget = nil
}

// Advance moves τs forward by dt × rate, plus a clamped proportional
// correction toward the convergence target if one is set.
func (c *StateClock) Advance(dt time.Duration) core.StateTime {
	baseAdvance := core.StateTime(float64(dt.Microseconds()) * c.rate)
	c.value += baseAdvance

	if c.convergenceTarget != nil {
		errAmount := *c.convergenceTarget - c.value
		correction := core.StateTime(float64(errAmount) * 0.1)
		if correction > c.maxCorrectionPerTick {
			correction = c.maxCorrectionPerTick
		}
		if correction < -c.maxCorrectionPerTick {
			correction = -c.maxCorrectionPerTick
		}
		c.value += correction
	}
	return c.value
}

// Now returns the current value without advancing.
func (c *StateClock) Now() core.StateTime {
	return c.value
}

// SyncTo moves τs forward to target if target is ahead of the current
// value; it never moves backward.
func (c *StateClock) SyncTo(target core.StateTime) {
	if target > c.value {
		c.value = target
	}
}
