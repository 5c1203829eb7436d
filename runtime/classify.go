// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/luxfi/elara/config"
	"github.com/luxfi/elara/core"
)

// ProfileHint names the representation profile carried in a header's
// profile_hint byte — informational for the receiver's projection
// layer, opaque to the core.
type ProfileHint uint8

const (
	ProfileGeneric ProfileHint = iota
	ProfileTextual              // text/feed append and delete
	ProfileVoiceMinimal         // compressed voice frame
	ProfileVideoStandard        // visual keyframe/delta
	ProfileStreamAsymmetric     // stream lifecycle control
	ProfileRepair
)

// classFor returns the packet class and profile hint an event type maps
// to when building an outbound frame.
func classFor(t core.EventType) (config.PacketClass, ProfileHint) {
	switch t {
	case core.EventVoiceFrame, core.EventVoiceMute:
		return config.ClassPerceptual, ProfileVoiceMinimal
	case core.EventVisualKeyframe, core.EventVisualDelta:
		return config.ClassPerceptual, ProfileVideoStandard
	case core.EventStreamStart, core.EventStreamEnd:
		return config.ClassCore, ProfileStreamAsymmetric
	case core.EventTextAppend, core.EventFeedAppend, core.EventFeedDelete:
		return config.ClassCore, ProfileTextual
	case core.EventTypingStart, core.EventTypingStop, core.EventPresenceUpdate:
		return config.ClassCosmetic, ProfileGeneric
	case core.EventRepair, core.EventGapFill, core.EventStateRequest, core.EventStateResponse:
		return config.ClassRepair, ProfileRepair
	case core.EventAuthorityGrant, core.EventAuthorityRevoke, core.EventSessionJoin,
		core.EventSessionLeave, core.EventSessionSync, core.EventTimeSync, core.EventTimeCorrection:
		return config.ClassCore, ProfileGeneric
	default:
		return config.ClassEnhancement, ProfileGeneric
	}
}
