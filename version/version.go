// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package version carries the protocol version and crypto suite identifiers
// negotiated between nodes, independent of any single wire frame.
package version

import "fmt"

// Application identifies a node's build by name and major/minor/patch
// version and compares builds for compatibility. It is not carried in
// any frame, and joining a session does not exchange it.
type Application struct {
	Name  string
	Major int
	Minor int
	Patch int
}

// String returns "name-major.minor.patch".
func (a *Application) String() string {
	return fmt.Sprintf("%s-%d.%d.%d", a.Name, a.Major, a.Minor, a.Patch)
}

// Before returns true if a is strictly older than other.
func (a *Application) Before(other *Application) bool {
	return a.Compare(other) < 0
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than other.
func (a *Application) Compare(other *Application) int {
	if a.Major != other.Major {
		if a.Major < other.Major {
			return -1
		}
		return 1
	}
	if a.Minor != other.Minor {
		if a.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if a.Patch != other.Patch {
		if a.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

// Compatible returns true if the two versions share a major version.
// Name does not affect compatibility.
func (a *Application) Compatible(other *Application) bool {
	return a.Major == other.Major
}

// Current returns the running application's version.
func Current() *Application {
	return &Application{
		Name:  "elara",
		Major: 0,
		Minor: 1,
		Patch: 0,
	}
}

// CryptoSuite identifies the AEAD/KDF/signature combination a node speaks.
// It travels in the low nibble of a frame's version byte alongside the wire
// format version in the high nibble, per the wire header layout.
type CryptoSuite uint8

const (
	// CryptoSuiteChaCha20Poly1305Ed25519 is the only suite implemented:
	// ChaCha20-Poly1305 AEAD, HKDF-SHA256 ratchets, Ed25519 signatures.
	CryptoSuiteChaCha20Poly1305Ed25519 CryptoSuite = 0
)

// WireVersion is the current wire format version, carried in the high
// nibble of the header's version/suite byte.
const WireVersion uint8 = 0

// VersionByte packs wire version and crypto suite into a single byte as
// (version<<4)|suite.
func VersionByte(wireVersion uint8, suite CryptoSuite) byte {
	return (wireVersion << 4) | byte(suite)
}

// SplitVersionByte unpacks a version byte into wire version and crypto suite.
func SplitVersionByte(b byte) (wireVersion uint8, suite CryptoSuite) {
	return b >> 4, CryptoSuite(b & 0x0F)
}
