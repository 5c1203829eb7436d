// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire implements the fixed header, TLV extensions, and frame
// encode/decode that make up ELARA's on-the-wire byte format.
package wire

import (
	"encoding/binary"

	"github.com/luxfi/elara/config"
	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/version"
)

// FixedHeaderSize is the on-wire size of Header in bytes.
const FixedHeaderSize = 30

// Flag bits carried in a header's Flags byte.
const (
	FlagExtension uint8 = 1 << iota
	FlagMultipath
	FlagPriority
	FlagFragment
)

// Header is the fixed 30-byte little-endian frame header.
type Header struct {
	WireVersion uint8
	CryptoSuite version.CryptoSuite
	Flags       uint8
	HeaderLen   uint16
	SessionID   core.SessionID
	NodeID      core.NodeID
	Class       config.PacketClass
	ProfileHint uint8
	TimeHint    int32
	Seq         uint16
	Window      uint16
}

// Encode serializes h into the fixed 30-byte layout.
func (h Header) Encode() []byte {
	buf := make([]byte, FixedHeaderSize)
	buf[0] = version.VersionByte(h.WireVersion, h.CryptoSuite)
	buf[1] = h.Flags
	binary.LittleEndian.PutUint16(buf[2:4], h.HeaderLen)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(h.SessionID))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(h.NodeID))
	buf[20] = byte(h.Class)
	buf[21] = h.ProfileHint
	binary.LittleEndian.PutUint32(buf[22:26], uint32(h.TimeHint))
	binary.LittleEndian.PutUint32(buf[26:30], (uint32(h.Seq)<<16)|uint32(h.Window))
	return buf
}

// DecodeHeader parses the fixed 30-byte header from the front of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < FixedHeaderSize {
		return Header{}, &core.BufferTooShortError{Expected: FixedHeaderSize, Actual: len(data)}
	}
	wireVersion, suite := version.SplitVersionByte(data[0])
	seqWindow := binary.LittleEndian.Uint32(data[26:30])
	return Header{
		WireVersion: wireVersion,
		CryptoSuite: suite,
		Flags:       data[1],
		HeaderLen:   binary.LittleEndian.Uint16(data[2:4]),
		SessionID:   core.SessionID(binary.LittleEndian.Uint64(data[4:12])),
		NodeID:      core.NodeID(binary.LittleEndian.Uint64(data[12:20])),
		Class:       config.PacketClass(data[20]),
		ProfileHint: data[21],
		TimeHint:    int32(binary.LittleEndian.Uint32(data[22:26])),
		Seq:         uint16(seqWindow >> 16),
		Window:      uint16(seqWindow & 0xFFFF),
	}, nil
}
