// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import "github.com/luxfi/elara/core"

// AuthTagSize is the ChaCha20-Poly1305 tag length in bytes.
const AuthTagSize = 16

// MaxFrameSize bounds a frame to stay under a ~1400-byte MTU.
const MaxFrameSize = 1400

// MinFrameSize is the smallest possible frame: header plus tag, no
// extensions or payload.
const MinFrameSize = FixedHeaderSize + AuthTagSize

// Frame is the full wire layout: fixed header, TLV extensions,
// ciphertext payload, and auth tag.
type Frame struct {
	Header     Header
	Extensions Extensions
	Payload    []byte // ciphertext
	AuthTag    [AuthTagSize]byte
}

// AssociatedData returns the bytes that serve as AEAD associated data:
// the header plus extensions, never the ciphertext or tag.
func (f Frame) AssociatedData() []byte {
	return append(f.Header.Encode(), f.Extensions.Encode()...)
}

// Size returns the frame's total serialized size.
func (f Frame) Size() int {
	return FixedHeaderSize + len(f.Extensions.Encode()) + len(f.Payload) + AuthTagSize
}

// FitsMTU reports whether f serializes within MaxFrameSize.
func (f Frame) FitsMTU() bool {
	return f.Size() <= MaxFrameSize
}

// Serialize encodes f into its wire bytes, setting Header.HeaderLen from
// the actual extension size.
func (f Frame) Serialize() ([]byte, error) {
	extBytes := f.Extensions.Encode()
	f.Header.HeaderLen = uint16(FixedHeaderSize + len(extBytes))

	total := FixedHeaderSize + len(extBytes) + len(f.Payload) + AuthTagSize
	if total > MaxFrameSize {
		return nil, core.WrapErr(core.ErrInvalidWireFormat, "frame exceeds MTU")
	}

	out := make([]byte, 0, total)
	out = append(out, f.Header.Encode()...)
	out = append(out, extBytes...)
	out = append(out, f.Payload...)
	out = append(out, f.AuthTag[:]...)
	return out, nil
}

// Parse decodes a Frame from its wire bytes.
func Parse(data []byte) (Frame, error) {
	if len(data) < MinFrameSize {
		return Frame{}, &core.BufferTooShortError{Expected: MinFrameSize, Actual: len(data)}
	}
	header, err := DecodeHeader(data)
	if err != nil {
		return Frame{}, err
	}
	if int(header.HeaderLen) < FixedHeaderSize || int(header.HeaderLen) > len(data) {
		return Frame{}, core.WrapErr(core.ErrInvalidWireFormat, "header_len out of range")
	}

	extBound := int(header.HeaderLen) - FixedHeaderSize
	extensions, consumed, err := DecodeExtensions(data[FixedHeaderSize:], extBound)
	if err != nil {
		return Frame{}, err
	}
	_ = consumed

	rest := data[header.HeaderLen:]
	if len(rest) < AuthTagSize {
		return Frame{}, &core.BufferTooShortError{Expected: AuthTagSize, Actual: len(rest)}
	}
	payload := rest[:len(rest)-AuthTagSize]
	var tag [AuthTagSize]byte
	copy(tag[:], rest[len(rest)-AuthTagSize:])

	return Frame{
		Header:     header,
		Extensions: extensions,
		Payload:    append([]byte(nil), payload...),
		AuthTag:    tag,
	}, nil
}

// Builder fluently constructs a Frame.
type Builder struct {
	frame Frame
}

// NewBuilder starts a Builder from a header.
func NewBuilder(header Header) *Builder {
	return &Builder{frame: Frame{Header: header}}
}

// WithExtensions sets the frame's extensions.
func (b *Builder) WithExtensions(ext Extensions) *Builder {
	b.frame.Extensions = ext
	return b
}

// WithPayload sets the frame's ciphertext payload.
func (b *Builder) WithPayload(payload []byte) *Builder {
	b.frame.Payload = payload
	return b
}

// WithAuthTag sets the frame's auth tag.
func (b *Builder) WithAuthTag(tag [AuthTagSize]byte) *Builder {
	b.frame.AuthTag = tag
	return b
}

// Build returns the constructed Frame.
func (b *Builder) Build() Frame {
	return b.frame
}
