// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package session binds the cryptographic core in package xcrypto to the
// wire format in package wire, producing the frame processor every node
// uses to turn outgoing plaintext into sealed frames and incoming frames
// back into verified plaintext.
package session

import (
	"sync"

	"github.com/luxfi/elara/config"
	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/version"
	"github.com/luxfi/elara/wire"
	"github.com/luxfi/elara/xcrypto"
)

// SecureFrameProcessor holds the per-class sequence counters, the send
// and receive multi-ratchets, and the per-(peer, class) replay windows
// for one session on one local node.
//
// The five class chains derive from a single session root shared by
// every participant, so a send ratchet and a receive ratchet each track
// their own epoch position independently: sending advances with this
// node's own per-class seq counter, receiving advances with whatever
// seq the frame being decrypted carries. Associating the AEAD nonce
// with the frame's NodeID (see xcrypto.BuildNonce) keeps distinct
// senders from colliding even though they derive keys from the same
// chain.
type SecureFrameProcessor struct {
	mu sync.Mutex

	sessionID core.SessionID
	localNode core.NodeID
	profiles  config.ClassProfiles

	sendSeq map[config.PacketClass]uint16
	send    *xcrypto.MultiRatchet
	recv    *xcrypto.MultiRatchet

	replay map[core.NodeID]map[config.PacketClass]*xcrypto.ReplayWindow
}

// NewSecureFrameProcessor derives both multi-ratchets from sessionRoot
// and returns a processor ready to encrypt and decrypt frames for
// sessionID on behalf of localNode.
func NewSecureFrameProcessor(sessionID core.SessionID, localNode core.NodeID, sessionRoot []byte, profiles config.ClassProfiles) *SecureFrameProcessor {
	return &SecureFrameProcessor{
		sessionID: sessionID,
		localNode: localNode,
		profiles:  profiles,
		sendSeq:   make(map[config.PacketClass]uint16),
		send:      xcrypto.NewMultiRatchet(sessionRoot, profiles),
		recv:      xcrypto.NewMultiRatchet(sessionRoot, profiles),
		replay:    make(map[core.NodeID]map[config.PacketClass]*xcrypto.ReplayWindow),
	}
}

// Encrypt builds and seals a frame carrying plaintext on class, with
// timeHint as the event's offset from this node's current state clock.
// The header's window field advertises the class profile's replay
// window size.
func (p *SecureFrameProcessor) Encrypt(class config.PacketClass, profileHint uint8, timeHint int32, extensions wire.Extensions, plaintext []byte) (wire.Frame, error) {
	p.mu.Lock()
	seq := p.sendSeq[class]
	p.sendSeq[class] = seq + 1
	key := p.send.NextMessageKeyForSeq(class, seq)
	p.mu.Unlock()

	profile := p.profiles[class]
	header := wire.Header{
		WireVersion: version.WireVersion,
		CryptoSuite: version.CryptoSuiteChaCha20Poly1305Ed25519,
		Flags:       0,
		SessionID:   p.sessionID,
		NodeID:      p.localNode,
		Class:       class,
		ProfileHint: profileHint,
		TimeHint:    timeHint,
		Seq:         seq,
		Window:      uint16(profile.ReplayWindow),
	}
	if len(extensions) > 0 {
		header.Flags |= wire.FlagExtension
	}

	frame := wire.Frame{Header: header, Extensions: extensions}
	frame.Header.HeaderLen = uint16(wire.FixedHeaderSize + len(extensions.Encode()))
	aad := frame.AssociatedData()

	sealed, err := xcrypto.Seal(key, p.localNode, seq, class, plaintext, aad)
	if err != nil {
		return wire.Frame{}, err
	}
	frame.Payload = sealed[:len(sealed)-xcrypto.TagSize]
	copy(frame.AuthTag[:], sealed[len(sealed)-xcrypto.TagSize:])
	return frame, nil
}

// Decrypt parses data as a frame, rejects it if it does not belong to
// this session, enforces at-most-once delivery per (peer, class), and
// AEAD-decrypts the payload. On success it returns the plaintext and
// the verified source node ID carried in the frame.
func (p *SecureFrameProcessor) Decrypt(data []byte) ([]byte, core.NodeID, error) {
	frame, err := wire.Parse(data)
	if err != nil {
		return nil, 0, err
	}
	if frame.Header.SessionID != p.sessionID {
		return nil, 0, core.WrapErr(core.ErrSessionMismatch, "frame session does not match local session")
	}

	source := frame.Header.NodeID
	class := frame.Header.Class

	window := p.replayWindowFor(source, class)
	if err := window.AcceptOrErr(frame.Header.Seq); err != nil {
		return nil, 0, err
	}

	p.mu.Lock()
	key := p.recv.NextMessageKeyForSeq(class, frame.Header.Seq)
	p.mu.Unlock()

	aad := frame.AssociatedData()
	ciphertext := append(append([]byte(nil), frame.Payload...), frame.AuthTag[:]...)
	plaintext, err := xcrypto.Open(key, source, frame.Header.Seq, class, ciphertext, aad)
	if err != nil {
		return nil, 0, err
	}
	return plaintext, source, nil
}

func (p *SecureFrameProcessor) replayWindowFor(peer core.NodeID, class config.PacketClass) *xcrypto.ReplayWindow {
	p.mu.Lock()
	defer p.mu.Unlock()

	byClass, ok := p.replay[peer]
	if !ok {
		byClass = make(map[config.PacketClass]*xcrypto.ReplayWindow)
		p.replay[peer] = byClass
	}
	w, ok := byClass[class]
	if !ok {
		w = xcrypto.NewReplayWindow(p.profiles[class].ReplayWindow)
		byClass[class] = w
	}
	return w
}
