// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package predict

import "github.com/luxfi/elara/core"

// Config tunes a Predictor's extrapolation horizon and confidence decay.
type Config struct {
	MaxHorizonMs    uint32
	ConfidenceDecay float64 // per 100ms
	MinConfidence   float64
	Damping         float64 // velocity damping factor applied per extrapolated step
}

// DefaultConfig matches the baseline visual/voice prediction tuning.
func DefaultConfig() Config {
	return Config{
		MaxHorizonMs:    500,
		ConfidenceDecay: 0.1,
		MinConfidence:   0.3,
		Damping:         0.5,
	}
}

// Predictor extrapolates a peer's perceptual state forward from the
// last two received samples when no fresher sample has arrived in
// time, refusing once confidence or horizon bounds are exceeded.
type Predictor struct {
	config Config

	last       *State
	prev       *State
	prediction *State

	predictionCount uint32
}

// NewPredictor returns a predictor with no state yet.
func NewPredictor(config Config) *Predictor {
	return &Predictor{config: config}
}

// Update records a freshly received full state, clearing any in-flight
// prediction — a real sample always displaces an extrapolated one.
func (p *Predictor) Update(state State) {
	p.prev = p.last
	s := state.clone()
	p.last = &s
	p.prediction = nil
	p.predictionCount = 0
}

// CurrentState returns the best available state: an active prediction
// if one exists, else the last received sample.
func (p *Predictor) CurrentState() (State, bool) {
	if p.prediction != nil {
		return *p.prediction, true
	}
	if p.last != nil {
		return *p.last, true
	}
	return State{}, false
}

// Predict extrapolates toward target, returning false if there is no
// baseline sample, the target lies beyond the configured horizon, or
// confidence has decayed below the configured minimum.
func (p *Predictor) Predict(target core.StateTime) (State, bool) {
	if p.last == nil {
		return State{}, false
	}

	deltaMs := float64(target-p.last.Timestamp) / 1000
	if deltaMs <= 0 {
		return p.last.clone(), true
	}
	if deltaMs > float64(p.config.MaxHorizonMs) {
		return State{}, false
	}

	decaySteps := deltaMs / 100
	confidence := 1 - decaySteps*p.config.ConfidenceDecay
	if confidence < p.config.MinConfidence {
		return State{}, false
	}

	predicted := p.last.clone()
	predicted.Timestamp = target
	predicted.Sequence = p.last.Sequence + 1

	if p.prev != nil {
		dtPrevSec := float64(p.last.Timestamp-p.prev.Timestamp) / 1e6
		dtTargetSec := deltaMs / 1000
		if dtPrevSec > 0 {
			for i := range predicted.Fields {
				if i >= len(p.prev.Fields) {
					break
				}
				velocity := (p.last.Fields[i] - p.prev.Fields[i]) / dtPrevSec
				predicted.Fields[i] += velocity * dtTargetSec * p.config.Damping
			}
		}
	}

	p.prediction = &predicted
	p.predictionCount++
	return *p.prediction, true
}

// IsPredicting reports whether at least one extrapolation has been
// produced since the last received sample.
func (p *Predictor) IsPredicting() bool { return p.predictionCount > 0 }

// PredictionCount returns the number of consecutive extrapolations
// since the last received sample.
func (p *Predictor) PredictionCount() uint32 { return p.predictionCount }

// Confidence estimates the reliability of CurrentState's result.
func (p *Predictor) Confidence() float64 {
	switch {
	case p.prediction != nil:
		deltaMs := float64(p.prediction.Timestamp-p.last.Timestamp) / 1000
		confidence := 1 - (deltaMs/100)*p.config.ConfidenceDecay
		if confidence < 0 {
			return 0
		}
		return confidence
	case p.last != nil:
		return 1.0
	default:
		return 0.0
	}
}
