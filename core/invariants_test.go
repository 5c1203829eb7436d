// Copyright (C) 2020-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllInvariantsCoversEveryTag(t *testing.T) {
	all := AllInvariants()
	require.Len(t, all, 5)
	seen := map[string]struct{}{}
	for _, inv := range all {
		require.NotEqual(t, "Unknown", inv.String())
		seen[inv.Code()] = struct{}{}
	}
	require.Len(t, seen, 5)
}

func TestInvariantViolationMessage(t *testing.T) {
	var err error = &InvariantViolation{Invariant: RealityNeverWaits, Context: "tick blocked on socket read"}
	require.ErrorContains(t, err, "INV-1")
	require.ErrorContains(t, err, "RealityNeverWaits")
	require.ErrorContains(t, err, "tick blocked on socket read")

	var violation *InvariantViolation
	require.True(t, errors.As(err, &violation))
	require.Equal(t, RealityNeverWaits, violation.Invariant)
}
