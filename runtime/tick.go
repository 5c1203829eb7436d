// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"time"

	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/predict"
	"github.com/luxfi/elara/wire"
)

// entropyStep is how much an atom's entropy grows per tick once it has
// gone longer than a prediction threshold without a confirmed event,
// keyed by state type.
var entropyStep = map[core.StateType]float64{
	core.StateTypeCore:        0.01,
	core.StateTypePerceptual:  0.03,
	core.StateTypeEnhancement: 0.05,
	core.StateTypeCosmetic:    0.07,
}

// predictionThreshold is the time_since_actual an atom must exceed
// before it is considered stale enough to accrue prediction entropy.
const predictionThreshold = core.StateTime(100_000) // 100ms

// Tick runs one synchronous pass: advance clocks, drain and decrypt
// inbound frames, reconcile their events, advance prediction entropy,
// sign and package queued local events into outbound frames. It never
// suspends and never returns an error — every failure mode is either a
// dropped frame, a rejected event, or a silent queue-overflow drop.
func (n *Node) Tick() {
	start := n.wallClockNow()
	n.stats.Ticks++

	// Stage 1: advance clocks, never skip.
	n.engine.Tick(start)

	// Stage 2: drain inbound frames.
	packets := n.incoming
	n.incoming = nil
	n.stats.PacketsIn += uint64(len(packets))

	// Stage 3: decrypt + validate each.
	type decoded struct {
		source   core.NodeID
		timeHint int32
		payload  []byte
	}
	var frames []decoded
	for _, frame := range packets {
		data, err := frame.Serialize()
		if err != nil {
			continue
		}
		plaintext, source, err := n.decryptInbound(data)
		if err != nil {
			n.framesDropped.Inc()
			continue
		}
		frames = append(frames, decoded{source: source, timeHint: frame.Header.TimeHint, payload: plaintext})
	}

	// Stage 4: decode event blocks; trigger per-event side effects.
	var events []core.Event
	for _, f := range frames {
		blockEvents, err := decodeEventBlocks(f.payload, f.source, f.timeHint)
		if err != nil {
			n.framesDropped.Inc()
			continue
		}
		for _, e := range blockEvents {
			n.handleEventSideEffects(e)
		}
		events = append(events, blockEvents...)
	}

	// Stage 5: update the temporal engine's network model.
	reference := n.engine.TauS()
	for _, e := range events {
		remote := e.AbsoluteTime(reference)
		n.engine.UpdateFromPacket(e.Source, reference, remote)
	}

	// Stage 6: reconcile + divergence control.
	n.reconciler.ProcessEvents(events, n.engine)

	// Stage 7: advance prediction entropy.
	n.advanceEntropy()

	// Stage 8 (projection) is external: the embedder reads query methods.

	// Stage 9: local events are already queued via QueueLocalEvent.
	toSend := n.local
	n.local = nil

	// Stage 10 + 11: sign, classify, encrypt, and enqueue outbound frames.
	for _, e := range toSend {
		n.stats.EventsSigned++
		n.buildAndQueueOutbound(e)
	}

	// Stage 12 (transmission) is external: the embedder drains PopOutgoing.

	n.stats.LastTickDuration = n.wallClockNow().Sub(start)
	n.tickDuration.Observe(float64(n.stats.LastTickDuration.Nanoseconds()))
}

// wallClockNow is isolated behind a method so tests can stub a fixed
// clock if needed; production always uses the real wall clock.
func (n *Node) wallClockNow() time.Time { return time.Now() }

func (n *Node) decryptInbound(data []byte) ([]byte, core.NodeID, error) {
	if n.secure == nil {
		return nil, 0, core.ErrSessionMismatch
	}
	return n.secure.Decrypt(data)
}

// handleEventSideEffects reacts to event kinds that affect runtime
// bookkeeping beyond the reconciler's own atom value: stream lifecycle
// and visual predictor updates.
func (n *Node) handleEventSideEffects(event core.Event) {
	switch event.Type {
	case core.EventStreamStart:
		streamID := event.TargetState.Instance()
		startedAt := event.AbsoluteTime(n.engine.TauS())
		if event.Mutation.Kind == core.MutationSet {
			n.streamMetadata[streamID] = StreamMetadata{
				Source:    event.Source,
				StartedAt: startedAt,
				Data:      event.Mutation.Bytes,
			}
		}
		if !n.reconciler.Field.Contains(event.TargetState) {
			n.reconciler.Field.CreateAtom(event.TargetState, event.Source)
		}
		visualID := streamVisualStateID(streamID)
		if !n.reconciler.Field.Contains(visualID) {
			atom := n.reconciler.Field.CreateAtom(visualID, event.Source)
			atom.Type = core.StateTypePerceptual
		}

	case core.EventStreamEnd:
		streamID := event.TargetState.Instance()
		delete(n.streamMetadata, streamID)
		delete(n.streamVisualBuffers, streamID)
		delete(n.streamVisualPredictors, streamID)
		n.reconciler.Field.Remove(livestreamStateID(streamID))
		n.reconciler.Field.Remove(streamVisualStateID(streamID))

	case core.EventVisualKeyframe, core.EventVisualDelta:
		if event.Mutation.Kind != core.MutationSet {
			return
		}
		sample, ok := decodeVisualState(event.Mutation.Bytes)
		if !ok {
			return
		}
		streamID := event.TargetState.Instance() &^ (1 << 47)
		if _, isStream := n.streamMetadata[streamID]; isStream && event.TargetState == streamVisualStateID(streamID) {
			n.updateStreamVisualState(streamID, sample)
		} else {
			n.updatePeerVisualState(event.Source, sample)
		}
	}
}

// updatePeerVisualState feeds a received visual sample into a peer's
// buffer and predictor, sizing the buffer from current network
// stability.
func (n *Node) updatePeerVisualState(peer core.NodeID, sample predict.State) {
	buf, ok := n.visualBuffers[peer]
	if !ok {
		capacity, delay := predict.BufferConfigForStability(n.engine.StabilityScore())
		buf = predict.NewStateBuffer(capacity, delay)
		n.visualBuffers[peer] = buf
	}
	buf.Push(sample)

	pred, ok := n.visualPredictors[peer]
	if !ok {
		pred = predict.NewPredictor(predict.DefaultConfig())
		n.visualPredictors[peer] = pred
	}
	pred.Update(sample)
}

// updateStreamVisualState is the livestream analogue of
// updatePeerVisualState.
func (n *Node) updateStreamVisualState(streamID uint64, sample predict.State) {
	buf, ok := n.streamVisualBuffers[streamID]
	if !ok {
		capacity, delay := predict.BufferConfigForStability(n.engine.StabilityScore())
		buf = predict.NewStateBuffer(capacity, delay)
		n.streamVisualBuffers[streamID] = buf
	}
	buf.Push(sample)

	pred, ok := n.streamVisualPredictors[streamID]
	if !ok {
		pred = predict.NewPredictor(predict.DefaultConfig())
		n.streamVisualPredictors[streamID] = pred
	}
	pred.Update(sample)
}

// advanceEntropy implements stage 7: every atom's time_since_actual
// grows by one tick interval; atoms stale beyond predictionThreshold
// accrue entropy at a rate set by their state type.
func (n *Node) advanceEntropy() {
	dt := core.StateTime(n.config.TickInterval.Microseconds())
	n.reconciler.Field.Each(func(atom *core.StateAtom) {
		atom.Entropy.TimeSinceActual += dt
		if atom.Entropy.TimeSinceActual <= predictionThreshold {
			return
		}
		if step, ok := entropyStep[atom.Type]; ok {
			atom.Entropy.Increase(step)
		}
	})
}

// buildAndQueueOutbound implements stages 10-11 for one locally
// authored event: pick its class/profile, encode it as a single-event
// block, encrypt, and enqueue the resulting frame.
func (n *Node) buildAndQueueOutbound(event core.Event) {
	if n.secure == nil {
		return
	}
	class, profile := classFor(event.Type)
	timeHint := event.TimeIntent.OffsetUnits100us
	payload := encodeEventBlock(event)

	frame, err := n.secure.Encrypt(class, uint8(profile), timeHint, wire.Extensions{}, payload)
	if err != nil {
		return
	}
	if len(n.outgoing) >= n.config.MaxOutgoingBuffer {
		return
	}
	n.outgoing = append(n.outgoing, frame)
	n.stats.PacketsOut++
}
