package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionVectorLessEq(t *testing.T) {
	a := VersionVector{1: 1, 2: 2}
	b := VersionVector{1: 2, 2: 2}
	require.True(t, a.LessEq(b))
	require.False(t, b.LessEq(a))
	require.True(t, a.HappensBefore(b))
}

func TestVersionVectorConcurrent(t *testing.T) {
	a := VersionVector{1: 1, 2: 0}
	b := VersionVector{1: 0, 2: 1}
	require.True(t, a.Concurrent(b))
	require.False(t, a.LessEq(b))
	require.False(t, b.LessEq(a))
}

func TestMergeIdempotentCommutativeAssociative(t *testing.T) {
	a := VersionVector{1: 3, 2: 1}
	b := VersionVector{1: 1, 2: 5, 3: 2}
	c := VersionVector{3: 1, 4: 7}

	require.True(t, Merge(a, a).Equal(a), "idempotent")

	ab := Merge(a, b)
	ba := Merge(b, a)
	require.True(t, ab.Equal(ba), "commutative")

	abc1 := Merge(Merge(a, b), c)
	abc2 := Merge(a, Merge(b, c))
	require.True(t, abc1.Equal(abc2), "associative")
}

func TestVersionVectorEncodeDecodeRoundTrip(t *testing.T) {
	v := VersionVector{1: 10, 5: 20, 3: 30}
	encoded := v.Encode()
	require.Len(t, encoded, 16*3)

	decoded, err := DecodeVersionVector(encoded)
	require.NoError(t, err)
	require.True(t, v.Equal(decoded))
}

func TestDecodeVersionVectorRejectsMisalignedLength(t *testing.T) {
	_, err := DecodeVersionVector(make([]byte, 17))
	require.Error(t, err)
}

func TestStateIDPrefixInstance(t *testing.T) {
	id := NewStateID(StateTypePrefixText, 1)
	require.Equal(t, StateTypePrefixText, id.Prefix())
	require.Equal(t, uint64(1), id.Instance())
}

func TestDeriveMessageIDDeterministic(t *testing.T) {
	id := EventID{Source: 42, Seq: 7}
	m1 := DeriveMessageID(id)
	m2 := DeriveMessageID(id)
	require.Equal(t, m1, m2)

	other := DeriveMessageID(EventID{Source: 42, Seq: 8})
	require.NotEqual(t, m1, other)
}
