// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package xcrypto implements the cryptographic core: node identity,
// AEAD framing, the per-class multi-ratchet, and replay windows.
package xcrypto

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/luxfi/elara/core"
)

// Identity is a node's signing keypair. NodeID is derived from the
// public half and is stable for the keypair's lifetime.
type Identity struct {
	public  ed25519.PublicKey
	private ed25519.PrivateKey
	nodeID  core.NodeID
}

// NewIdentity generates a fresh Ed25519 keypair.
func NewIdentity() (*Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Identity{
		public:  pub,
		private: priv,
		nodeID:  core.NodeIDFromPublicKey(pub),
	}, nil
}

// IdentityFromSeed deterministically derives a keypair from a 32-byte
// seed — used by tests and by callers restoring a persisted identity.
func IdentityFromSeed(seed []byte) *Identity {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Identity{
		public:  pub,
		private: priv,
		nodeID:  core.NodeIDFromPublicKey(pub),
	}
}

// NodeID returns the identity's derived node ID.
func (id *Identity) NodeID() core.NodeID { return id.nodeID }

// PublicKey returns the identity's public key.
func (id *Identity) PublicKey() ed25519.PublicKey { return id.public }

// Sign signs message with the identity's private key.
func (id *Identity) Sign(message []byte) []byte {
	return ed25519.Sign(id.private, message)
}

// PublicIdentity is the portion of an Identity that can be imported and
// verified independently, without ever holding the private key.
type PublicIdentity struct {
	public ed25519.PublicKey
	nodeID core.NodeID
}

// NewPublicIdentity wraps a public key, deriving its NodeID.
func NewPublicIdentity(pub ed25519.PublicKey) *PublicIdentity {
	return &PublicIdentity{public: pub, nodeID: core.NodeIDFromPublicKey(pub)}
}

// NodeID returns the identity's derived node ID.
func (p *PublicIdentity) NodeID() core.NodeID { return p.nodeID }

// Verify reports whether sig is a valid signature over message under
// this identity's public key.
func (p *PublicIdentity) Verify(message, sig []byte) bool {
	return ed25519.Verify(p.public, message, sig)
}
