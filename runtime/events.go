// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/predict"
)

// newLocalEvent builds an event authored by this node: its version_ref
// is the target atom's current version if one exists (so the
// reconciler treats it as causally caught up), and its authority proof
// signs the encoded mutation.
func (n *Node) newLocalEvent(eventType core.EventType, target core.StateID, mutation core.MutationOp) core.Event {
	versionRef := core.NewVersionVector()
	if atom, ok := n.reconciler.Field.Get(target); ok {
		versionRef = atom.Version.Clone()
	}

	event := core.Event{
		ID:          core.EventID{Source: n.NodeID(), Seq: n.NextEventSeq()},
		Type:        eventType,
		Source:      n.NodeID(),
		TargetState: target,
		VersionRef:  versionRef,
		Mutation:    mutation,
	}
	event.AuthorityProof.Signature = n.identity.Sign(mutation.Encode())
	return event
}

// QueueTextAppend queues a text-append event on the given text state.
func (n *Node) QueueTextAppend(instance uint64, text []byte) {
	target := textStateID(instance)
	n.QueueLocalEvent(n.newLocalEvent(core.EventTextAppend, target, core.MutationOp{Kind: core.MutationAppend, Bytes: text}))
}

// QueueFeedAppend queues an append of a new feed item.
func (n *Node) QueueFeedAppend(instance uint64, content []byte, timestamp core.StateTime) {
	target := feedStateID(instance)
	item := FeedItem{
		ID:        core.DeriveMessageID(core.EventID{Source: n.NodeID(), Seq: n.nextEventSeq}),
		Author:    n.NodeID(),
		Content:   content,
		Timestamp: timestamp,
	}
	n.QueueLocalEvent(n.newLocalEvent(core.EventFeedAppend, target, core.MutationOp{Kind: core.MutationAppend, Bytes: item.Encode()}))
}

// QueueFeedDelete queues a tombstone for an existing feed item. Feed
// atoms project their value by replaying each appended FeedItem record
// in order and keeping the last one seen per ID, so a tombstone is
// itself an appended record sharing the original item's ID.
func (n *Node) QueueFeedDelete(instance uint64, id core.MessageID, timestamp core.StateTime) {
	target := feedStateID(instance)
	item := FeedItem{ID: id, Author: n.NodeID(), Timestamp: timestamp, Deleted: true}
	n.QueueLocalEvent(n.newLocalEvent(core.EventFeedDelete, target, core.MutationOp{Kind: core.MutationAppend, Bytes: item.Encode()}))
}

// QueueVisualKeyframe queues a full visual state sample for this node's
// own outbound visual atom.
func (n *Node) QueueVisualKeyframe(state predict.State) {
	n.queueVisualSample(core.EventVisualKeyframe, visualStateID(n.NodeID()), state)
}

// QueueVisualDelta queues an incremental visual state sample.
func (n *Node) QueueVisualDelta(state predict.State) {
	n.queueVisualSample(core.EventVisualDelta, visualStateID(n.NodeID()), state)
}

// QueueStreamVisualKeyframe queues a full visual sample for a livestream
// this node is the source of.
func (n *Node) QueueStreamVisualKeyframe(streamID uint64, state predict.State) {
	n.queueVisualSample(core.EventVisualKeyframe, streamVisualStateID(streamID), state)
}

// QueueStreamVisualDelta queues an incremental visual sample for a
// livestream.
func (n *Node) QueueStreamVisualDelta(streamID uint64, state predict.State) {
	n.queueVisualSample(core.EventVisualDelta, streamVisualStateID(streamID), state)
}

func (n *Node) queueVisualSample(eventType core.EventType, target core.StateID, state predict.State) {
	n.QueueLocalEvent(n.newLocalEvent(eventType, target, core.MutationOp{Kind: core.MutationSet, Bytes: encodeVisualState(state)}))
}

// QueueStreamStart queues a stream-start event; the receiving runtime's
// side-effect stage creates the stream's control and visual atoms.
func (n *Node) QueueStreamStart(streamID uint64, metadata []byte, timestamp core.StateTime) {
	target := livestreamStateID(streamID)
	n.QueueLocalEvent(n.newLocalEvent(core.EventStreamStart, target, core.MutationOp{Kind: core.MutationSet, Bytes: metadata}))
}

// QueueStreamEnd queues a stream-end event; the receiving runtime's
// side-effect stage removes the stream's atoms and predictor state.
func (n *Node) QueueStreamEnd(streamID uint64) {
	target := livestreamStateID(streamID)
	n.QueueLocalEvent(n.newLocalEvent(core.EventStreamEnd, target, core.MutationOp{Kind: core.MutationDelete}))
}
