package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/architecture"
	"github.com/paramsynth/guardsynth/smt"
)

func TestParseIntCSVParsesCommaSeparatedValues(t *testing.T) {
	got, err := parseIntCSV("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestParseIntCSVTrimsWhitespaceAndSkipsEmptyFields(t *testing.T) {
	got, err := parseIntCSV(" 4 , , 5")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, got)
}

func TestParseIntCSVSingleValue(t *testing.T) {
	got, err := parseIntCSV("7")
	require.NoError(t, err)
	assert.Equal(t, []int{7}, got)
}

func TestParseIntCSVRejectsNonInteger(t *testing.T) {
	_, err := parseIntCSV("1,x,3")
	require.Error(t, err)
	var ae *ArgumentError
	assert.ErrorAs(t, err, &ae)
}

func TestParseIntCSVRejectsEmptyList(t *testing.T) {
	_, err := parseIntCSV("")
	assert.ErrorIs(t, err, ErrEmptyIntList)
}

func TestParseIntCSVRejectsOnlyCommas(t *testing.T) {
	_, err := parseIntCSV(",,")
	assert.ErrorIs(t, err, ErrEmptyIntList)
}

func TestParseSystemTypeAcceptsShortSpelling(t *testing.T) {
	got, err := parseSystemType("conjunctive")
	require.NoError(t, err)
	assert.Equal(t, architecture.Conjunctive, got)

	got, err = parseSystemType("disjunctive")
	require.NoError(t, err)
	assert.Equal(t, architecture.Disjunctive, got)
}

func TestParseSystemTypeDefaultsToConjunctive(t *testing.T) {
	got, err := parseSystemType("")
	require.NoError(t, err)
	assert.Equal(t, architecture.Conjunctive, got)
}

func TestParseSystemTypeAcceptsCanonicalSpelling(t *testing.T) {
	got, err := parseSystemType(architecture.Conjunctive.String())
	require.NoError(t, err)
	assert.Equal(t, architecture.Conjunctive, got)

	got, err = parseSystemType(architecture.Disjunctive.String())
	require.NoError(t, err)
	assert.Equal(t, architecture.Disjunctive, got)
}

func TestParseSystemTypeRejectsUnknownValue(t *testing.T) {
	_, err := parseSystemType("nonsense")
	require.Error(t, err)
	var ae *ArgumentError
	assert.ErrorAs(t, err, &ae)
}

func TestParseOptimizationDefaultsToNone(t *testing.T) {
	got, err := parseOptimization("")
	require.NoError(t, err)
	assert.Equal(t, smt.OptimizationNone, got)
}

func TestParseOptimizationAcceptsLambdaSCC(t *testing.T) {
	got, err := parseOptimization("lambda-scc")
	require.NoError(t, err)
	assert.Equal(t, smt.OptimizationSCCRank, got)
}

func TestParseOptimizationRejectsUnknownValue(t *testing.T) {
	_, err := parseOptimization("bogus")
	assert.ErrorIs(t, err, ErrUnknownOptimization)
}
