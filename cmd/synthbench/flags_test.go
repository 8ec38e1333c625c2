package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeoutParsesDurationStrings(t *testing.T) {
	got, err := parseTimeout("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, got)

	got, err = parseTimeout("5m")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, got)
}

func TestParseTimeoutEmptyMeansUnbounded(t *testing.T) {
	got, err := parseTimeout("")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestParseTimeoutRejectsMalformedDuration(t *testing.T) {
	_, err := parseTimeout("not-a-duration")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimeout)
	var ae *ArgumentError
	assert.ErrorAs(t, err, &ae)
}
