// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package core defines the identifiers, version vectors, state atoms, and
// events shared by every other layer: temporal, crypto, wire, and the
// reconciliation engine all operate on these flat, ID-keyed types.
package core

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

// NodeID is the low 64 bits of SHA-256(public_key). It never changes for
// the lifetime of an identity keypair.
type NodeID uint64

// SessionID is an opaque session handle agreed out-of-band.
type SessionID uint64

// StateID packs a 16-bit type prefix in the high bits and a 48-bit
// type-local instance in the low bits.
type StateID uint64

// State type prefixes, placed in a StateID's top 16 bits.
const (
	StateTypePrefixText       uint16 = 0x0001
	StateTypePrefixPresence   uint16 = 0x0002
	StateTypePrefixVoice      uint16 = 0x0003
	StateTypePrefixVisual     uint16 = 0x0004
	StateTypePrefixLivestream uint16 = 0x0005
	StateTypePrefixFeed       uint16 = 0x0006
)

// NewStateID builds a StateID from a type prefix and an instance number.
// Only the low 48 bits of instance are retained.
func NewStateID(prefix uint16, instance uint64) StateID {
	return StateID(uint64(prefix)<<48 | (instance & 0x0000FFFFFFFFFFFF))
}

// Prefix returns the state's type prefix.
func (s StateID) Prefix() uint16 {
	return uint16(s >> 48)
}

// Instance returns the state's type-local instance number.
func (s StateID) Instance() uint64 {
	return uint64(s) & 0x0000FFFFFFFFFFFF
}

// EventID identifies an event by its author and a monotone per-author
// sequence number.
type EventID struct {
	Source NodeID
	Seq    uint64
}

// MessageID is a 64-bit hash derived from an EventID, used for
// deduplication where a full EventID is unwieldy.
type MessageID uint64

// DeriveMessageID hashes an EventID down to a MessageID.
func DeriveMessageID(id EventID) MessageID {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(id.Source))
	binary.LittleEndian.PutUint64(buf[8:16], id.Seq)
	sum := sha256.Sum256(buf[:])
	return MessageID(binary.LittleEndian.Uint64(sum[:8]))
}

// NodeIDFromPublicKey derives a NodeID as the low 64 bits of
// SHA-256(public key).
func NodeIDFromPublicKey(pub ed25519.PublicKey) NodeID {
	sum := sha256.Sum256(pub)
	return NodeID(binary.LittleEndian.Uint64(sum[len(sum)-8:]))
}

// SortNodeIDs returns a sorted copy of ids, ascending.
func SortNodeIDs(ids []NodeID) []NodeID {
	out := make([]NodeID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
