// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcrypto

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/luxfi/elara/config"
	"golang.org/x/crypto/hkdf"
)

const (
	classKeyInfo    = "ELARA_CLASS_KEY_v0"
	msgKeyInfoBase  = "ELARA_MSG_KEY_"
	ratchetInfoBase = "ELARA_RATCHET_CHAIN"
)

func hkdfExpand(secret, salt []byte, info string, size int) []byte {
	reader := hkdf.New(sha256.New, secret, salt, []byte(info))
	out := make([]byte, size)
	if _, err := io.ReadFull(reader, out); err != nil {
		panic(fmt.Sprintf("xcrypto: hkdf expand failed: %v", err))
	}
	return out
}

// ClassChain is one class's independent forward-secrecy ratchet: a
// chain key that advances in epochs, with a message counter within each
// epoch. Classes never share key material, so compromising one chain
// never reveals another's keys.
type ClassChain struct {
	class     config.PacketClass
	chainKey  []byte
	epoch     uint16
	counter   uint32
	frequency int
}

// NewClassChain derives a class's root chain key from the shared
// session root via HKDF-SHA256, salted by the class byte.
func NewClassChain(sessionRoot []byte, class config.PacketClass, profile config.ClassProfile) *ClassChain {
	salt := []byte{byte(class)}
	chainKey := hkdfExpand(sessionRoot, salt, classKeyInfo, KeySize)
	return &ClassChain{
		class:     class,
		chainKey:  chainKey,
		frequency: profile.RatchetFreq,
	}
}

// Epoch returns the chain's current epoch.
func (c *ClassChain) Epoch() uint16 { return c.epoch }

// NextMessageKey derives the key for the current counter position, then
// advances the message counter, ratcheting the epoch forward if the
// class's ratchet frequency has been reached.
func (c *ClassChain) NextMessageKey() []byte {
	info := fmt.Sprintf("%s%d", msgKeyInfoBase, c.counter)
	key := hkdfExpand(c.chainKey, nil, info, KeySize)
	c.counter++
	if c.frequency > 0 && int(c.counter) >= c.frequency {
		c.advanceEpoch()
	}
	return key
}

// advanceEpoch ratchets the chain key forward and resets the counter.
// Prior message keys cannot be recovered from the new chain key.
func (c *ClassChain) advanceEpoch() {
	var epochLE [2]byte
	binary.LittleEndian.PutUint16(epochLE[:], c.epoch)
	c.chainKey = hkdfExpand(c.chainKey, epochLE[:], ratchetInfoBase, KeySize)
	c.epoch++
	c.counter = 0
}

// NextMessageKeyForSeq derives the message key for seq directly off the
// epoch and in-epoch counter implied by seq and the chain's ratchet
// frequency, advancing the chain's epoch to match if it has not reached
// it yet. Keying off seq rather than a call count keeps a sender and a
// receiver's independently-advancing chains aligned under reordering
// within the replay window; it still only moves forward; a seq whose
// epoch has already been passed can no longer be decrypted.
func (c *ClassChain) NextMessageKeyForSeq(seq uint16) []byte {
	target := c.epochForSeq(seq)
	for c.epoch < target {
		c.advanceEpoch()
	}
	info := fmt.Sprintf("%s%d", msgKeyInfoBase, c.counterForSeq(seq))
	return hkdfExpand(c.chainKey, nil, info, KeySize)
}

func (c *ClassChain) epochForSeq(seq uint16) uint16 {
	if c.frequency <= 0 {
		return 0
	}
	return seq / uint16(c.frequency)
}

func (c *ClassChain) counterForSeq(seq uint16) uint32 {
	if c.frequency <= 0 {
		return uint32(seq)
	}
	return uint32(seq % uint16(c.frequency))
}

// SyncToEpoch advances the chain forward until it reaches target,
// letting a lagging receiver catch up without losing forward secrecy.
// It is a no-op if the chain is already at or past target.
func (c *ClassChain) SyncToEpoch(target uint16) {
	for c.epoch < target {
		c.advanceEpoch()
	}
}

// MultiRatchet holds the five independent class chains for a session.
type MultiRatchet struct {
	chains map[config.PacketClass]*ClassChain
}

// NewMultiRatchet derives all five class chains from the shared session
// root.
func NewMultiRatchet(sessionRoot []byte, profiles config.ClassProfiles) *MultiRatchet {
	m := &MultiRatchet{chains: make(map[config.PacketClass]*ClassChain, len(profiles))}
	for class, profile := range profiles {
		m.chains[class] = NewClassChain(sessionRoot, class, profile)
	}
	return m
}

// Chain returns the chain for class.
func (m *MultiRatchet) Chain(class config.PacketClass) *ClassChain {
	return m.chains[class]
}

// NextMessageKey derives and advances the message key for class.
func (m *MultiRatchet) NextMessageKey(class config.PacketClass) []byte {
	return m.chains[class].NextMessageKey()
}

// NextMessageKeyForSeq derives class's message key for a specific seq.
func (m *MultiRatchet) NextMessageKeyForSeq(class config.PacketClass, seq uint16) []byte {
	return m.chains[class].NextMessageKeyForSeq(seq)
}
