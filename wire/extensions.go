// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"encoding/binary"

	"github.com/luxfi/elara/core"
)

// ExtensionType tags a TLV extension's meaning.
type ExtensionType uint8

const (
	ExtRatchetID        ExtensionType = 0x01
	ExtKeyEpoch         ExtensionType = 0x02
	ExtSwarmRole        ExtensionType = 0x03
	ExtRelayHop         ExtensionType = 0x04
	ExtInterestMask     ExtensionType = 0x05
	ExtRedundancyGroup  ExtensionType = 0x06
	ExtCompressionHint  ExtensionType = 0x07
	ExtFragmentInfo     ExtensionType = 0x08
	ExtPathID           ExtensionType = 0x09
	ExtPriorityHint     ExtensionType = 0x0A
	ExtCausalityRef     ExtensionType = 0x0B

	// ExtTerminator ends the TLV sequence.
	ExtTerminator ExtensionType = 0xFF
)

// Extension is one type(1)|len(1)|value(len) TLV entry.
type Extension struct {
	Type  ExtensionType
	Value []byte
}

// Extensions is an ordered list of TLVs, encoded with a terminator byte.
type Extensions []Extension

// Encode serializes the extension list, appending the 0xFF terminator.
func (ext Extensions) Encode() []byte {
	var out []byte
	for _, e := range ext {
		out = append(out, byte(e.Type), byte(len(e.Value)))
		out = append(out, e.Value...)
	}
	out = append(out, byte(ExtTerminator))
	return out
}

// DecodeExtensions parses TLVs from the front of data until the
// terminator or the bound byte count is exhausted, returning the
// extensions and the number of bytes consumed (including the
// terminator, if found within bound).
func DecodeExtensions(data []byte, bound int) (Extensions, int, error) {
	if bound > len(data) {
		bound = len(data)
	}
	var out Extensions
	i := 0
	for i < bound {
		typ := ExtensionType(data[i])
		if typ == ExtTerminator {
			return out, i + 1, nil
		}
		if i+2 > bound {
			return nil, 0, core.WrapErr(core.ErrInvalidWireFormat, "truncated extension TLV header")
		}
		length := int(data[i+1])
		if i+2+length > bound {
			return nil, 0, core.WrapErr(core.ErrInvalidWireFormat, "truncated extension TLV value")
		}
		value := append([]byte(nil), data[i+2:i+2+length]...)
		out = append(out, Extension{Type: typ, Value: value})
		i += 2 + length
	}
	return out, i, nil
}

// Uint32Extension builds a 4-byte little-endian extension value.
func Uint32Extension(typ ExtensionType, v uint32) Extension {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return Extension{Type: typ, Value: buf}
}

// Uint16Extension builds a 2-byte little-endian extension value.
func Uint16Extension(typ ExtensionType, v uint16) Extension {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, v)
	return Extension{Type: typ, Value: buf}
}

// AsUint32 reads e's value as a 4-byte little-endian integer.
func (e Extension) AsUint32() (uint32, bool) {
	if len(e.Value) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(e.Value), true
}

// AsUint16 reads e's value as a 2-byte little-endian integer.
func (e Extension) AsUint16() (uint16, bool) {
	if len(e.Value) != 2 {
		return 0, false
	}
	return binary.LittleEndian.Uint16(e.Value), true
}
