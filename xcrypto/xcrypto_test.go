package xcrypto

import (
	"testing"

	"github.com/luxfi/elara/config"
	"github.com/luxfi/elara/core"
	"github.com/stretchr/testify/require"
)

func TestIdentitySignVerifyRoundTrip(t *testing.T) {
	id, err := NewIdentity()
	require.NoError(t, err)

	msg := []byte("hello, elara")
	sig := id.Sign(msg)

	pub := NewPublicIdentity(id.PublicKey())
	require.Equal(t, id.NodeID(), pub.NodeID())
	require.True(t, pub.Verify(msg, sig))
	require.False(t, pub.Verify([]byte("tampered"), sig))
}

func TestIdentityFromSeedDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = 0x42
	}
	a := IdentityFromSeed(seed)
	b := IdentityFromSeed(seed)
	require.Equal(t, a.NodeID(), b.NodeID())
}

func TestAEADRoundTripAndBitFlip(t *testing.T) {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	node := core.NodeID(1234)
	aad := []byte("header-bytes")
	plaintext := []byte("Hello, ELARA!")

	ciphertext, err := Seal(key, node, 0, config.ClassCore, plaintext, aad)
	require.NoError(t, err)

	decrypted, err := Open(key, node, 0, config.ClassCore, ciphertext, aad)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)

	flipped := append([]byte(nil), ciphertext...)
	flipped[0] ^= 0x01
	_, err = Open(key, node, 0, config.ClassCore, flipped, aad)
	require.ErrorIs(t, err, core.ErrDecryptionFailed)

	flippedAAD := append([]byte(nil), aad...)
	flippedAAD[0] ^= 0x01
	_, err = Open(key, node, 0, config.ClassCore, ciphertext, flippedAAD)
	require.ErrorIs(t, err, core.ErrDecryptionFailed)

	_, err = Open(key, node, 1, config.ClassCore, ciphertext, aad)
	require.ErrorIs(t, err, core.ErrDecryptionFailed)
}

func TestMultiRatchetClassIsolation(t *testing.T) {
	root := make([]byte, 32)
	for i := range root {
		root[i] = 0x7
	}
	profiles := config.DefaultClassProfiles()
	m := NewMultiRatchet(root, profiles)

	coreKey := m.NextMessageKey(config.ClassCore)
	perceptualKey := m.NextMessageKey(config.ClassPerceptual)
	require.NotEqual(t, coreKey, perceptualKey)
}

func TestRatchetEpochAdvancesAtFrequency(t *testing.T) {
	chain := NewClassChain([]byte("session-root-material-32-bytes!"), config.ClassRepair, config.ClassProfile{RatchetFreq: 2})
	require.Equal(t, uint16(0), chain.Epoch())
	chain.NextMessageKey()
	require.Equal(t, uint16(0), chain.Epoch())
	chain.NextMessageKey()
	require.Equal(t, uint16(1), chain.Epoch())
}

func TestSyncToEpochCatchesUp(t *testing.T) {
	chain := NewClassChain([]byte("session-root-material-32-bytes!"), config.ClassRepair, config.ClassProfile{RatchetFreq: 1000})
	chain.SyncToEpoch(5)
	require.Equal(t, uint16(5), chain.Epoch())
	chain.SyncToEpoch(3)
	require.Equal(t, uint16(5), chain.Epoch())
}

func TestReplayWindowAtMostOnce(t *testing.T) {
	w := NewReplayWindow(64)
	require.True(t, w.Accept(0))
	require.False(t, w.Accept(0))
}

func TestReplayWindowSlidesForward(t *testing.T) {
	w := NewReplayWindow(8)
	require.True(t, w.Accept(0))
	require.True(t, w.Accept(20))
	require.False(t, w.Accept(0))
	require.True(t, w.Accept(20+8-1))
}

func TestReplayWindowTooOldRejected(t *testing.T) {
	w := NewReplayWindow(8)
	require.True(t, w.Accept(40000))
	require.False(t, w.Check(40000-100))
}
