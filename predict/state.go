// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package predict implements the perceptual state predictors: per-peer
// (and per-stream) buffering, velocity-based extrapolation, and the
// degradation ladder that trims carried detail under sustained loss.
// The core treats a perceptual state as an opaque vector of numeric
// fields — pitch/energy for voice, head rotation/joint positions for
// visual — leaving the concrete layout to the profile above it.
package predict

import "github.com/luxfi/elara/core"

// State is one full sample of perceptual data at a point in state time.
// Fields holds whatever numeric channels the owning profile defines
// (e.g. voice: [pitch, energy, formant...]; visual: [headYaw, headPitch,
// headRoll, joint0.x, joint0.y, joint0.z, ...]); all channels move
// together under the same velocity/confidence model.
type State struct {
	Timestamp core.StateTime
	Sequence  uint64
	Fields    []float64
	Speaking  bool
}

// clone returns a deep copy of s.
func (s State) clone() State {
	fields := make([]float64, len(s.Fields))
	copy(fields, s.Fields)
	s.Fields = fields
	return s
}
