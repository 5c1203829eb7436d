package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultParametersValid(t *testing.T) {
	p := DefaultParameters()
	require.True(t, p.Valid())
	require.NoError(t, p.Validate())
}

func TestPresetsValid(t *testing.T) {
	for name, p := range map[string]Parameters{
		"default":      DefaultParameters(),
		"low-bandwidth": LowBandwidthParameters(),
		"local":        LocalParameters(),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoErrorf(t, p.Validate(), "preset %s", name)
		})
	}
}

func TestWithTickInterval(t *testing.T) {
	p := DefaultParameters().WithTickInterval(5 * time.Millisecond)
	require.Equal(t, 5*time.Millisecond, p.TickInterval)
	require.True(t, p.Valid())
}

func TestInvalidHorizonBounds(t *testing.T) {
	p := DefaultParameters()
	p.HpMin = p.HpMax + time.Millisecond
	require.ErrorIs(t, p.Validate(), ErrInvalidHorizonBounds)
}

func TestInvalidTickInterval(t *testing.T) {
	p := DefaultParameters()
	p.TickInterval = 0
	require.ErrorIs(t, p.Validate(), ErrInvalidTickInterval)
}

func TestInvalidQueueBound(t *testing.T) {
	p := DefaultParameters()
	p.MaxLocalEvents = 0
	require.ErrorIs(t, p.Validate(), ErrInvalidQueueBound)
}

func TestInvalidDivergence(t *testing.T) {
	p := DefaultParameters()
	p.DivergenceThreshold = 0
	require.ErrorIs(t, p.Validate(), ErrInvalidDivergence)

	p.DivergenceThreshold = 1.5
	require.ErrorIs(t, p.Validate(), ErrInvalidDivergence)
}

func TestValidateReportsAllViolationsAtOnce(t *testing.T) {
	p := DefaultParameters()
	p.TickInterval = 0
	p.MaxLocalEvents = 0
	p.DivergenceThreshold = 2

	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidTickInterval)
	require.ErrorIs(t, err, ErrInvalidQueueBound)
	require.ErrorIs(t, err, ErrInvalidDivergence)
	require.NotErrorIs(t, err, ErrInvalidHorizonBounds)
}

func TestDefaultClassProfilesCoverage(t *testing.T) {
	profiles := DefaultClassProfiles()
	for _, class := range []PacketClass{ClassCore, ClassPerceptual, ClassEnhancement, ClassCosmetic, ClassRepair} {
		_, ok := profiles[class]
		require.Truef(t, ok, "missing profile for %s", class)
	}

	require.Equal(t, 64, profiles[ClassCore].ReplayWindow)
	require.Equal(t, 256, profiles[ClassPerceptual].ReplayWindow)
	require.False(t, profiles[ClassCore].Droppable)
	require.True(t, profiles[ClassCosmetic].Droppable)
}
