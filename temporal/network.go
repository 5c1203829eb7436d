// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package temporal

import (
	"sort"

	"github.com/luxfi/elara/core"
)

// maxSamplesPerPeer bounds the sliding window of clock-offset samples
// kept per peer.
const maxSamplesPerPeer = 100

// minSamplesForEstimate is the smallest sample count before offset and
// jitter envelope are considered trustworthy.
const minSamplesForEstimate = 5

// lossEMAAlpha weights the most recent loss observation in the running
// exponential moving average.
const lossEMAAlpha = 0.1

// PeerNetworkModel tracks one peer's clock offset and jitter from a
// sliding window of (local - remote) timestamp samples.
type PeerNetworkModel struct {
	offset         int64
	jitterEnvelope int64
	samples        []int64
}

// Update folds in a new (local, remote) timestamp pair.
func (p *PeerNetworkModel) Update(local, remote core.StateTime) {
	sample := int64(local) - int64(remote)
	p.samples = append(p.samples, sample)
	if len(p.samples) > maxSamplesPerPeer {
		p.samples = p.samples[1:]
	}
	if len(p.samples) < minSamplesForEstimate {
		return
	}
	p.offset = median(p.samples)
	maxDev := int64(0)
	for _, s := range p.samples {
		dev := s - p.offset
		if dev < 0 {
			dev = -dev
		}
		if dev > maxDev {
			maxDev = dev
		}
	}
	p.jitterEnvelope = maxDev
}

func median(samples []int64) int64 {
	sorted := append([]int64(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// NetworkModel aggregates per-peer timing into the signals the temporal
// engine uses to size its horizons: mean jitter, loss rate, reorder
// depth, and an overall stability score.
type NetworkModel struct {
	peers map[core.NodeID]*PeerNetworkModel

	latencyMean   float64
	jitter        float64
	reorderDepth  int
	lossRate      float64
	stability     float64
}

// NewNetworkModel returns an empty model.
func NewNetworkModel() *NetworkModel {
	return &NetworkModel{peers: make(map[core.NodeID]*PeerNetworkModel)}
}

// UpdateFromPacket folds in one peer's (local, remote) timestamp sample
// and recomputes aggregates.
func (m *NetworkModel) UpdateFromPacket(peer core.NodeID, local, remote core.StateTime) {
	p, ok := m.peers[peer]
	if !ok {
		p = &PeerNetworkModel{}
		m.peers[peer] = p
	}
	p.Update(local, remote)
	m.updateAggregates()
}

// RecordReorder folds in an observed out-of-order delivery depth,
// keeping the running maximum.
func (m *NetworkModel) RecordReorder(depth int) {
	if depth > m.reorderDepth {
		m.reorderDepth = depth
	}
}

// RecordLoss folds a loss observation into the running EMA.
func (m *NetworkModel) RecordLoss(lost, total int) {
	if total == 0 {
		return
	}
	newRate := float64(lost) / float64(total)
	m.lossRate = m.lossRate*(1-lossEMAAlpha) + newRate*lossEMAAlpha
	m.updateAggregates()
}

func (m *NetworkModel) updateAggregates() {
	if len(m.peers) == 0 {
		m.jitter = 0
	} else {
		var sum float64
		for _, p := range m.peers {
			sum += float64(p.jitterEnvelope)
		}
		m.jitter = sum / float64(len(m.peers))
	}

	jitterSeconds := m.jitter / 1_000_000
	stability := (1.0 / (1.0 + 10.0*jitterSeconds)) * (1.0 - m.lossRate) * (1.0 / (1.0 + 0.1*float64(m.reorderDepth)))
	if stability < 0 {
		stability = 0
	}
	if stability > 1 {
		stability = 1
	}
	m.stability = stability
}

// JitterMicros returns the current mean jitter across peers, in
// microseconds.
func (m *NetworkModel) JitterMicros() float64 { return m.jitter }

// JitterMillis returns the current mean jitter across peers, in
// milliseconds — the scale the horizon formula's k1 coefficient expects.
func (m *NetworkModel) JitterMillis() float64 { return m.jitter / 1000 }

// LossRate returns the current EMA loss rate in [0, 1].
func (m *NetworkModel) LossRate() float64 { return m.lossRate }

// ReorderDepth returns the maximum observed reorder depth.
func (m *NetworkModel) ReorderDepth() int { return m.reorderDepth }

// StabilityScore returns the composite stability score in [0, 1].
func (m *NetworkModel) StabilityScore() float64 { return m.stability }

// Peer returns the model for a specific peer, or nil if never observed.
func (m *NetworkModel) Peer(id core.NodeID) *PeerNetworkModel {
	return m.peers[id]
}
