// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "github.com/luxfi/elara/core"

// voiceStateID returns the per-peer voice atom's ID.
func voiceStateID(peer core.NodeID) core.StateID {
	return core.NewStateID(core.StateTypePrefixVoice, uint64(peer))
}

// visualStateID returns the per-peer visual atom's ID.
func visualStateID(peer core.NodeID) core.StateID {
	return core.NewStateID(core.StateTypePrefixVisual, uint64(peer))
}

// livestreamStateID returns a stream's control-plane atom ID.
func livestreamStateID(streamID uint64) core.StateID {
	return core.NewStateID(core.StateTypePrefixLivestream, streamID)
}

// streamVisualStateID returns a stream's visual atom ID, distinguished
// from a per-peer visual atom by carrying the stream ID's instance
// under the same prefix with the top instance bit set.
func streamVisualStateID(streamID uint64) core.StateID {
	return core.NewStateID(core.StateTypePrefixVisual, streamID|(1<<47))
}

// feedStateID returns the feed atom's ID for a given feed instance.
func feedStateID(instance uint64) core.StateID {
	return core.NewStateID(core.StateTypePrefixFeed, instance)
}

// textStateID returns the text atom's ID for a given instance.
func textStateID(instance uint64) core.StateID {
	return core.NewStateID(core.StateTypePrefixText, instance)
}
