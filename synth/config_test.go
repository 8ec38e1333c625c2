package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandScalarBroadcastsToEveryTemplate(t *testing.T) {
	out, err := expand([]int{2}, 3, ErrBoundShapeMismatch)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, out)
}

func TestExpandFullLengthPassesThrough(t *testing.T) {
	out, err := expand([]int{1, 2, 3}, 3, ErrBoundShapeMismatch)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, out)
}

func TestExpandRejectsOtherLengths(t *testing.T) {
	_, err := expand([]int{1, 2}, 3, ErrBoundShapeMismatch)
	assert.ErrorIs(t, err, ErrBoundShapeMismatch)
}

func TestConfigResolveDefaultsMaxIncrements(t *testing.T) {
	cfg := validConfig(1)
	r, err := cfg.resolve()
	require.NoError(t, err)
	assert.Equal(t, defaultMaxIncrements, r.maxIncrements)
	assert.Equal(t, []int{1}, r.minBound)
	assert.Equal(t, []int{1}, r.instanceCount)
}

func TestConfigResolveRejectsMissingFields(t *testing.T) {
	cfg := validConfig(1)
	cfg.NewSolver = nil
	_, err := cfg.resolve()
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestConfigResolveRejectsShapeMismatch(t *testing.T) {
	cfg := validConfig(2)
	cfg.MinBound = []int{1, 1, 1}
	cfg.InstanceCount = []int{1, 1}
	_, err := cfg.resolve()
	assert.ErrorIs(t, err, ErrBoundShapeMismatch)
}
