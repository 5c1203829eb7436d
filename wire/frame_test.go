package wire

import (
	"testing"

	"github.com/luxfi/elara/config"
	"github.com/luxfi/elara/core"
	"github.com/luxfi/elara/version"
	"github.com/stretchr/testify/require"
)

func sampleHeader() Header {
	return Header{
		WireVersion: version.WireVersion,
		CryptoSuite: version.CryptoSuiteChaCha20Poly1305Ed25519,
		Flags:       FlagExtension,
		SessionID:   12345,
		NodeID:      67890,
		Class:       config.ClassCore,
		ProfileHint: 1,
		TimeHint:    -42,
		Seq:         7,
		Window:      64,
	}
}

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := sampleHeader()
	h.HeaderLen = FixedHeaderSize
	encoded := h.Encode()
	require.Len(t, encoded, FixedHeaderSize)

	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	require.Equal(t, h, decoded)
}

func TestFrameSerializeParseRoundTrip(t *testing.T) {
	f := Frame{
		Header:     sampleHeader(),
		Extensions: Extensions{Uint16Extension(ExtKeyEpoch, 3)},
		Payload:    []byte("ciphertext-bytes-here"),
	}
	for i := range f.AuthTag {
		f.AuthTag[i] = byte(i)
	}

	data, err := f.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	require.Equal(t, f.Payload, parsed.Payload)
	require.Equal(t, f.AuthTag, parsed.AuthTag)
	require.Equal(t, f.Extensions, parsed.Extensions)
	require.Equal(t, f.Header.SessionID, parsed.Header.SessionID)
	require.Equal(t, f.Header.NodeID, parsed.Header.NodeID)
	require.Equal(t, f.Header.Class, parsed.Header.Class)
}

func TestFrameRejectsOverMTU(t *testing.T) {
	f := Frame{
		Header:  sampleHeader(),
		Payload: make([]byte, MaxFrameSize),
	}
	_, err := f.Serialize()
	require.Error(t, err)
}

func TestParseRejectsShortBuffer(t *testing.T) {
	_, err := Parse(make([]byte, MinFrameSize-1))
	require.Error(t, err)
	var shortErr *core.BufferTooShortError
	require.ErrorAs(t, err, &shortErr)
}

func TestExtensionsEncodeDecodeRoundTrip(t *testing.T) {
	ext := Extensions{
		Uint32Extension(ExtRatchetID, 99),
		Uint16Extension(ExtKeyEpoch, 12),
		{Type: ExtSwarmRole, Value: []byte{0x03}},
	}
	encoded := ext.Encode()

	decoded, consumed, err := DecodeExtensions(encoded, len(encoded))
	require.NoError(t, err)
	require.Equal(t, len(encoded), consumed)
	require.Equal(t, ext, decoded)
}

func TestBuilderProducesEquivalentFrame(t *testing.T) {
	h := sampleHeader()
	var tag [AuthTagSize]byte
	f := NewBuilder(h).
		WithExtensions(Extensions{Uint16Extension(ExtPathID, 1)}).
		WithPayload([]byte("payload")).
		WithAuthTag(tag).
		Build()

	require.Equal(t, h.SessionID, f.Header.SessionID)
	require.Equal(t, []byte("payload"), f.Payload)
}
