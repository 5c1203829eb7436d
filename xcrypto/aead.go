// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcrypto

import (
	"encoding/binary"

	"github.com/luxfi/elara/config"
	"github.com/luxfi/elara/core"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the AEAD key length in bytes.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the AEAD nonce length in bytes.
	NonceSize = chacha20poly1305.NonceSize
	// TagSize is the AEAD authentication tag length in bytes.
	TagSize = 16
)

// BuildNonce constructs the deterministic per-(node, seq, class) nonce:
// node_id_le[8] | seq_le[2] | class_byte[1] | reserved[1].
func BuildNonce(node core.NodeID, seq uint16, class config.PacketClass) [NonceSize]byte {
	var nonce [NonceSize]byte
	binary.LittleEndian.PutUint64(nonce[0:8], uint64(node))
	binary.LittleEndian.PutUint16(nonce[8:10], seq)
	nonce[10] = byte(class)
	nonce[11] = 0
	return nonce
}

// Seal encrypts plaintext with aad as associated data, under key and the
// deterministic nonce for (node, seq, class).
func Seal(key []byte, node core.NodeID, seq uint16, class config.PacketClass, plaintext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := BuildNonce(node, seq, class)
	return aead.Seal(nil, nonce[:], plaintext, aad), nil
}

// Open decrypts ciphertext (payload + tag) with aad as associated data,
// under key and the deterministic nonce for (node, seq, class).
func Open(key []byte, node core.NodeID, seq uint16, class config.PacketClass, ciphertext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := BuildNonce(node, seq, class)
	plaintext, err := aead.Open(nil, nonce[:], ciphertext, aad)
	if err != nil {
		return nil, core.WrapErr(core.ErrDecryptionFailed, err.Error())
	}
	return plaintext, nil
}
