// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config collects the tunable parameters that govern a node's
// temporal engine, reconciliation engine, and packet scheduling.
package config

import (
	"errors"
	"time"
)

var (
	ErrParametersInvalid    = errors.New("config: parameters invalid")
	ErrInvalidHorizonBounds = errors.New("config: horizon min must not exceed max")
	ErrInvalidTickInterval  = errors.New("config: tick interval must be positive")
	ErrInvalidQueueBound    = errors.New("config: queue bound must be positive")
	ErrInvalidDivergence    = errors.New("config: divergence threshold must be in (0, 1]")
)

// Parameters holds every knob that shapes how a node perceives time,
// reconciles state, and schedules packets. Construct one with a preset
// function and override individual fields rather than building one by hand.
type Parameters struct {
	// Horizon bounds for the adaptive prediction (Hp) and correction (Hc)
	// windows, in line with the degradation ladder.
	HpMin time.Duration
	HpMax time.Duration
	HcMin time.Duration
	HcMax time.Duration

	// Horizon adjustment coefficients.
	K1Jitter        float64
	K2Reorder       float64
	K3Loss          float64
	K4JitterCorrect float64

	TickInterval time.Duration

	// MaxPacketBuffer bounds the number of undecrypted frames held
	// pending ingestion.
	MaxPacketBuffer int
	// MaxOutgoingBuffer bounds the number of built frames awaiting send.
	MaxOutgoingBuffer int
	// MaxLocalEvents bounds the number of locally authored events awaiting
	// packaging into outgoing frames.
	MaxLocalEvents int

	// DivergenceThreshold is the entropy level above which the
	// reconciliation engine clears Enhancement/Cosmetic state and grows
	// entropy on Perceptual/Core state.
	DivergenceThreshold float64

	// Classes holds the per-packet-class profile (redundancy, priority,
	// ratchet frequency, replay window size).
	Classes ClassProfiles
}

// DefaultParameters returns the baseline tuning used when no preset fits.
func DefaultParameters() Parameters {
	return Parameters{
		HpMin:               40 * time.Millisecond,
		HpMax:               300 * time.Millisecond,
		HcMin:               80 * time.Millisecond,
		HcMax:               600 * time.Millisecond,
		K1Jitter:            2.5,
		K2Reorder:           15.0,
		K3Loss:              150.0,
		K4JitterCorrect:     2.0,
		TickInterval:        10 * time.Millisecond,
		MaxPacketBuffer:     1000,
		MaxOutgoingBuffer:   1000,
		MaxLocalEvents:      1000,
		DivergenceThreshold: 0.5,
		Classes:             DefaultClassProfiles(),
	}
}

// LowBandwidthParameters widens the correction horizon and slows the tick
// rate for constrained links, at the cost of responsiveness.
func LowBandwidthParameters() Parameters {
	p := DefaultParameters()
	p.HcMax = 1200 * time.Millisecond
	p.TickInterval = 20 * time.Millisecond
	p.Classes = LowBandwidthClassProfiles()
	return p
}

// LocalParameters tightens every bound for same-host or LAN testing where
// jitter and loss are negligible.
func LocalParameters() Parameters {
	p := DefaultParameters()
	p.HpMin = 10 * time.Millisecond
	p.HpMax = 60 * time.Millisecond
	p.HcMin = 20 * time.Millisecond
	p.HcMax = 150 * time.Millisecond
	return p
}

// WithTickInterval returns a copy of p with TickInterval replaced.
func (p Parameters) WithTickInterval(d time.Duration) Parameters {
	p.TickInterval = d
	return p
}

// Valid reports whether p satisfies the invariants the temporal and
// reconciliation engines assume.
func (p Parameters) Valid() bool {
	return p.Validate() == nil
}

// Validate reports every violated constraint at once, each wrapped in
// ErrParametersInvalid, or nil if p is usable.
func (p Parameters) Validate() error {
	var errs []error
	if p.HpMin > p.HpMax || p.HcMin > p.HcMax {
		errs = append(errs, errJoin(ErrParametersInvalid, ErrInvalidHorizonBounds))
	}
	if p.TickInterval <= 0 {
		errs = append(errs, errJoin(ErrParametersInvalid, ErrInvalidTickInterval))
	}
	if p.MaxPacketBuffer <= 0 || p.MaxOutgoingBuffer <= 0 || p.MaxLocalEvents <= 0 {
		errs = append(errs, errJoin(ErrParametersInvalid, ErrInvalidQueueBound))
	}
	if p.DivergenceThreshold <= 0 || p.DivergenceThreshold > 1 {
		errs = append(errs, errJoin(ErrParametersInvalid, ErrInvalidDivergence))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func errJoin(outer, inner error) error {
	return errors.Join(outer, inner)
}
