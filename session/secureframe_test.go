package session

import (
	"testing"

	"github.com/luxfi/elara/config"
	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/wire"
	"github.com/stretchr/testify/require"
)

func sessionRoot() []byte {
	root := make([]byte, 32)
	for i := range root {
		root[i] = byte(i)
	}
	return root
}

func TestSecureFrameRoundTrip(t *testing.T) {
	profiles := config.DefaultClassProfiles()
	root := sessionRoot()

	alice := NewSecureFrameProcessor(1, 100, root, profiles)
	bob := NewSecureFrameProcessor(1, 200, root, profiles)

	frame, err := alice.Encrypt(config.ClassPerceptual, 0, 0, nil, []byte("hello bob"))
	require.NoError(t, err)

	data, err := frame.Serialize()
	require.NoError(t, err)

	plaintext, source, err := bob.Decrypt(data)
	require.NoError(t, err)
	require.Equal(t, []byte("hello bob"), plaintext)
	require.Equal(t, core.NodeID(100), source)
}

func TestSecureFrameRejectsWrongSession(t *testing.T) {
	profiles := config.DefaultClassProfiles()
	root := sessionRoot()

	alice := NewSecureFrameProcessor(1, 100, root, profiles)
	bob := NewSecureFrameProcessor(2, 200, root, profiles)

	frame, err := alice.Encrypt(config.ClassCore, 0, 0, nil, []byte("data"))
	require.NoError(t, err)
	data, err := frame.Serialize()
	require.NoError(t, err)

	_, _, err = bob.Decrypt(data)
	require.ErrorIs(t, err, core.ErrSessionMismatch)
}

func TestSecureFrameRejectsReplay(t *testing.T) {
	profiles := config.DefaultClassProfiles()
	root := sessionRoot()

	alice := NewSecureFrameProcessor(1, 100, root, profiles)
	bob := NewSecureFrameProcessor(1, 200, root, profiles)

	frame, err := alice.Encrypt(config.ClassCore, 0, 0, nil, []byte("once"))
	require.NoError(t, err)
	data, err := frame.Serialize()
	require.NoError(t, err)

	_, _, err = bob.Decrypt(data)
	require.NoError(t, err)

	_, _, err = bob.Decrypt(data)
	require.ErrorIs(t, err, core.ErrReplayDetected)
}

func TestSecureFrameTamperedCiphertextFails(t *testing.T) {
	profiles := config.DefaultClassProfiles()
	root := sessionRoot()

	alice := NewSecureFrameProcessor(1, 100, root, profiles)
	bob := NewSecureFrameProcessor(1, 200, root, profiles)

	frame, err := alice.Encrypt(config.ClassCore, 0, 0, nil, []byte("tamper me"))
	require.NoError(t, err)
	data, err := frame.Serialize()
	require.NoError(t, err)

	data[len(data)-1] ^= 0xFF

	_, _, err = bob.Decrypt(data)
	require.ErrorIs(t, err, core.ErrDecryptionFailed)
}

func TestSecureFrameOutOfOrderWithinRatchetEpoch(t *testing.T) {
	profiles := config.DefaultClassProfiles()
	root := sessionRoot()

	alice := NewSecureFrameProcessor(1, 100, root, profiles)
	bob := NewSecureFrameProcessor(1, 200, root, profiles)

	var frames [][]byte
	for i := 0; i < 3; i++ {
		f, err := alice.Encrypt(config.ClassCosmetic, 0, 0, nil, []byte("frame"))
		require.NoError(t, err)
		data, err := f.Serialize()
		require.NoError(t, err)
		frames = append(frames, data)
	}

	// Deliver seq 0 first (establishing the replay window's floor), then
	// seq 2 ahead of it, then seq 1 filling the gap behind seq 2 — all
	// within the class's replay window and ratchet epoch (Cosmetic's
	// frequency is 2000), so every one must still decrypt.
	_, _, err := bob.Decrypt(frames[0])
	require.NoError(t, err)
	_, _, err = bob.Decrypt(frames[2])
	require.NoError(t, err)
	_, _, err = bob.Decrypt(frames[1])
	require.NoError(t, err)
}

func TestSecureFrameClassKeysAreIsolated(t *testing.T) {
	profiles := config.DefaultClassProfiles()
	root := sessionRoot()

	alice := NewSecureFrameProcessor(1, 100, root, profiles)

	coreFrame, err := alice.Encrypt(config.ClassCore, 0, 0, nil, []byte("same plaintext"))
	require.NoError(t, err)
	perceptualFrame, err := alice.Encrypt(config.ClassPerceptual, 0, 0, nil, []byte("same plaintext"))
	require.NoError(t, err)

	require.NotEqual(t, coreFrame.Payload, perceptualFrame.Payload)
}

func TestSecureFrameWithExtensions(t *testing.T) {
	profiles := config.DefaultClassProfiles()
	root := sessionRoot()

	alice := NewSecureFrameProcessor(1, 100, root, profiles)
	bob := NewSecureFrameProcessor(1, 200, root, profiles)

	ext := wire.Extensions{wire.Uint16Extension(wire.ExtKeyEpoch, 1)}
	frame, err := alice.Encrypt(config.ClassRepair, 0, 5, ext, []byte("repair-payload"))
	require.NoError(t, err)
	require.True(t, frame.Header.Flags&wire.FlagExtension != 0)

	data, err := frame.Serialize()
	require.NoError(t, err)

	plaintext, _, err := bob.Decrypt(data)
	require.NoError(t, err)
	require.Equal(t, []byte("repair-payload"), plaintext)
}
