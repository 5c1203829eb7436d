// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime implements the node runtime loop: the twelve-stage
// tick that binds the temporal engine, reconciliation engine, secure
// frame processor, and perceptual predictors into one synchronous
// per-node heartbeat, plus the queueing and query surface an embedder
// drives it through.
package runtime

import (
	"time"

	"github.com/luxfi/elara/codec"
	"github.com/luxfi/elara/config"
	elaracontext "github.com/luxfi/elara/context"
	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/metrics"
	"github.com/luxfi/elara/predict"
	"github.com/luxfi/elara/session"
	"github.com/luxfi/elara/state"
	"github.com/luxfi/elara/temporal"
	"github.com/luxfi/elara/wire"
	"github.com/luxfi/elara/xcrypto"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
)

// NodeConfig bounds the runtime's queues and sets its tick cadence.
type NodeConfig struct {
	TickInterval      time.Duration
	MaxPacketBuffer   int
	MaxOutgoingBuffer int
	MaxLocalEvents    int
}

// DefaultNodeConfig derives a NodeConfig from the shared engine
// parameters, keeping queue bounds and tick cadence consistent with the
// temporal engine they feed.
func DefaultNodeConfig(params config.Parameters) NodeConfig {
	return NodeConfig{
		TickInterval:      params.TickInterval,
		MaxPacketBuffer:   params.MaxPacketBuffer,
		MaxOutgoingBuffer: params.MaxOutgoingBuffer,
		MaxLocalEvents:    params.MaxLocalEvents,
	}
}

// RuntimeStats accumulates counters an embedder can surface as metrics
// or diagnostics.
type RuntimeStats struct {
	Ticks             uint64
	IncomingQueued    uint64
	OutgoingPopped    uint64
	LocalEventsQueued uint64
	EventsSigned      uint64
	PacketsIn         uint64
	PacketsOut        uint64
	LastTickDuration  time.Duration
}

// StreamMetadata records a livestream's start-event payload for the
// lifetime of the stream.
type StreamMetadata struct {
	Source    core.NodeID
	StartedAt core.StateTime
	Data      []byte
}

// Node is one participant's complete runtime: its identity, temporal
// and reconciliation engines, secure frame processor, perceptual
// predictors, and bounded queues.
type Node struct {
	identity *xcrypto.Identity
	config   NodeConfig
	params   config.Parameters

	sessionID core.SessionID
	inSession bool
	secure    *session.SecureFrameProcessor

	engine      *temporal.Engine
	reconciler  *state.Reconciler
	ctx         *elaracontext.Context
	nextEventSeq uint64

	incoming []wire.Frame
	outgoing []wire.Frame
	local    []core.Event

	visualBuffers    map[core.NodeID]*predict.StateBuffer
	visualPredictors map[core.NodeID]*predict.Predictor

	streamMetadata         map[uint64]StreamMetadata
	streamVisualBuffers    map[uint64]*predict.StateBuffer
	streamVisualPredictors map[uint64]*predict.Predictor

	stats RuntimeStats

	tickDuration  metrics.Averager
	framesDropped metrics.Counter
}

// NewNode returns a node with a fresh identity, not yet joined to any
// session.
func NewNode(params config.Parameters, logger log.Logger, reg prometheus.Registerer) (*Node, error) {
	identity, err := xcrypto.NewIdentity()
	if err != nil {
		return nil, err
	}
	return NewNodeWithIdentity(identity, params, logger, reg), nil
}

// NewNodeWithIdentity returns a node using the given identity.
func NewNodeWithIdentity(identity *xcrypto.Identity, params config.Parameters, logger log.Logger, reg prometheus.Registerer) *Node {
	ctx := elaracontext.NewContext(identity.NodeID(), logger, reg)
	reconciler := state.NewReconciler()
	reconciler.DivergenceThreshold = params.DivergenceThreshold
	return &Node{
		identity:               identity,
		config:                 DefaultNodeConfig(params),
		params:                 params,
		engine:                 temporal.NewEngine(params),
		reconciler:             reconciler,
		ctx:                    ctx,
		visualBuffers:          make(map[core.NodeID]*predict.StateBuffer),
		visualPredictors:       make(map[core.NodeID]*predict.Predictor),
		streamMetadata:         make(map[uint64]StreamMetadata),
		streamVisualBuffers:    make(map[uint64]*predict.StateBuffer),
		streamVisualPredictors: make(map[uint64]*predict.Predictor),
		tickDuration:           ctx.Stats.NewAverager("tick_duration_ns"),
		framesDropped:          ctx.Stats.NewCounter("frames_dropped"),
	}
}

// NodeID returns the node's derived identity.
func (n *Node) NodeID() core.NodeID { return n.identity.NodeID() }

// InSession reports whether the node currently belongs to a session.
func (n *Node) InSession() bool { return n.inSession }

// SessionID returns the node's current session, if any.
func (n *Node) SessionID() (core.SessionID, bool) { return n.sessionID, n.inSession }

// JoinSession derives the session's secure frame processor from the
// shared session key and marks the node as joined.
func (n *Node) JoinSession(sessionID core.SessionID, sharedKey []byte) {
	n.sessionID = sessionID
	n.inSession = true
	n.secure = session.NewSecureFrameProcessor(sessionID, n.identity.NodeID(), sharedKey, n.params.Classes)
	n.ctx.WithSession(sessionID)
}

// LeaveSession clears the node's session state, discarding its secure
// frame processor and per-peer predictors.
func (n *Node) LeaveSession() {
	n.inSession = false
	n.secure = nil
	n.ctx.ClearSession()
	n.visualBuffers = make(map[core.NodeID]*predict.StateBuffer)
	n.visualPredictors = make(map[core.NodeID]*predict.Predictor)
}

// QueueIncoming enqueues a frame for the next tick's decrypt stage,
// silently dropping it if the inbound queue is already full.
func (n *Node) QueueIncoming(frame wire.Frame) {
	if len(n.incoming) >= n.config.MaxPacketBuffer {
		return
	}
	n.incoming = append(n.incoming, frame)
	n.stats.IncomingQueued++
}

// PopOutgoing removes and returns the oldest built outbound frame, if
// any.
func (n *Node) PopOutgoing() (wire.Frame, bool) {
	if len(n.outgoing) == 0 {
		return wire.Frame{}, false
	}
	f := n.outgoing[0]
	n.outgoing = n.outgoing[1:]
	n.stats.OutgoingPopped++
	return f, true
}

// QueueLocalEvent enqueues a locally authored event for the next tick's
// sign-and-send stage, silently dropping it if the local queue is full.
func (n *Node) QueueLocalEvent(event core.Event) {
	if len(n.local) >= n.config.MaxLocalEvents {
		return
	}
	n.local = append(n.local, event)
	n.stats.LocalEventsQueued++
}

// NextEventSeq returns the next per-source sequence number this node
// will stamp on a locally authored event, advancing the counter.
func (n *Node) NextEventSeq() uint64 {
	seq := n.nextEventSeq
	n.nextEventSeq++
	return seq
}

// TimeEngine returns the node's temporal engine.
func (n *Node) TimeEngine() *temporal.Engine { return n.engine }

// Reconciler returns the node's reconciliation engine.
func (n *Node) Reconciler() *state.Reconciler { return n.reconciler }

// Stats returns the runtime's accumulated counters.
func (n *Node) Stats() RuntimeStats { return n.stats }

// StreamMeta returns the metadata recorded for a started livestream.
func (n *Node) StreamMeta(streamID uint64) (StreamMetadata, bool) {
	m, ok := n.streamMetadata[streamID]
	return m, ok
}

// AverageTickDuration returns the running average of Tick's wall-clock
// cost, in nanoseconds, across every tick this node has run.
func (n *Node) AverageTickDuration() time.Duration {
	return time.Duration(n.tickDuration.Read())
}

// FramesDropped returns how many inbound frames failed to decrypt or
// decode since the node was created.
func (n *Node) FramesDropped() int64 { return n.framesDropped.Read() }

// DumpStats serializes the node's current counters for debug or
// snapshot output — never the wire format, which is fixed-byte and
// lives in package wire.
func (n *Node) DumpStats() ([]byte, error) {
	return codec.Codec.Marshal(codec.CurrentVersion, n.stats)
}
