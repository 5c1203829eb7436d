// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

// PacketClass categorizes a frame's tolerance for loss and the network and
// crypto behavior that follows from it.
type PacketClass uint8

const (
	ClassCore PacketClass = iota
	ClassPerceptual
	ClassEnhancement
	ClassCosmetic
	ClassRepair
)

// String names the class for logging.
func (c PacketClass) String() string {
	switch c {
	case ClassCore:
		return "core"
	case ClassPerceptual:
		return "perceptual"
	case ClassEnhancement:
		return "enhancement"
	case ClassCosmetic:
		return "cosmetic"
	case ClassRepair:
		return "repair"
	default:
		return "unknown"
	}
}

// ClassProfile captures the per-class behavior the wire and crypto layers
// derive: whether loss is tolerated, send priority, redundant copies sent,
// how many messages elapse between ratchet epoch advances, and the replay
// window size in bits.
type ClassProfile struct {
	Droppable     bool
	Priority      int
	Redundancy    int
	RatchetFreq   int
	ReplayWindow  int
}

// ClassProfiles maps every PacketClass to its profile.
type ClassProfiles map[PacketClass]ClassProfile

// DefaultClassProfiles returns the baseline per-class profile table.
func DefaultClassProfiles() ClassProfiles {
	return ClassProfiles{
		ClassCore:        {Droppable: false, Priority: 0, Redundancy: 3, RatchetFreq: 100, ReplayWindow: 64},
		ClassPerceptual:  {Droppable: false, Priority: 1, Redundancy: 1, RatchetFreq: 1000, ReplayWindow: 256},
		ClassEnhancement: {Droppable: true, Priority: 3, Redundancy: 1, RatchetFreq: 500, ReplayWindow: 128},
		ClassCosmetic:    {Droppable: true, Priority: 4, Redundancy: 1, RatchetFreq: 2000, ReplayWindow: 32},
		ClassRepair:      {Droppable: false, Priority: 2, Redundancy: 2, RatchetFreq: 50, ReplayWindow: 32},
	}
}

// LowBandwidthClassProfiles lowers Core redundancy from three copies to
// two to save bandwidth; every other class keeps its default profile.
func LowBandwidthClassProfiles() ClassProfiles {
	p := DefaultClassProfiles()
	core := p[ClassCore]
	core.Redundancy = 2
	p[ClassCore] = core
	return p
}
