package dotvis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/model"
)

func sampleSystem() *model.SystemModel {
	return &model.SystemModel{
		Templates: []*model.TemplateModel{
			{
				Index:        0,
				States:       []string{"q0", "q1"},
				InputSignals: []string{"req"},
				Outputs: map[string]map[string]bool{
					"grant": {"q0": false, "q1": true},
				},
				Transitions: []model.Transition{
					{From: "q0", Inputs: []model.InputValue{{Name: "req", Value: true}}, To: "q1", Guard: []string{"q0"}},
					{From: "q1", Inputs: []model.InputValue{{Name: "req", Value: false}}, To: "q0", Guard: []string{"q1"}},
				},
			},
		},
	}
}

func TestGraphContainsOneClusterPerTemplate(t *testing.T) {
	out := Graph(sampleSystem()).String()
	assert.Contains(t, out, "clusterTemplate_0")
	assert.Contains(t, out, "T0")
}

func TestGraphNodeLabelMarksActiveAndInactiveOutputs(t *testing.T) {
	out := Graph(sampleSystem()).String()
	assert.Contains(t, out, "!grant")
	assert.Contains(t, out, "q0")
	assert.Contains(t, out, "grant")
}

func TestGraphEdgeLabelCarriesInputsAndGuardSet(t *testing.T) {
	out := Graph(sampleSystem()).String()
	assert.Contains(t, out, "req")
	assert.Contains(t, out, "!req")
	assert.Contains(t, out, "{q0}")
	assert.Contains(t, out, "{q1}")
}

func TestFormatNodeLabelOrdersOutputsAlphabetically(t *testing.T) {
	outputs := map[string]map[string]bool{
		"z": {"s0": true},
		"a": {"s0": false},
	}
	label := formatNodeLabel("s0", outputs)
	assert.Equal(t, "s0\n!a,z", label)
}

func TestFormatTransitionLabelNegatesFalseInputs(t *testing.T) {
	label := formatTransitionLabel([]model.InputValue{
		{Name: "x", Value: true},
		{Name: "y", Value: false},
	}, []string{"s0", "s1"})
	assert.Equal(t, "x,!y\n{s0,s1}", label)
}

func TestWriteFileCreatesMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "solution.dot")

	require.NoError(t, WriteFile(sampleSystem(), path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "clusterTemplate_0")
}

func TestWriteFileOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solution.dot")

	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	require.NoError(t, WriteFile(sampleSystem(), path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(contents), "stale")
}
