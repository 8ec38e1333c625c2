package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/model"
)

func TestPrintResultReportsUnsatisfiableForNilModel(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, nil)
	assert.Equal(t, "UNSATISFIABLE\n", buf.String())
}

func TestPrintResultReportsSatisfiableAndTemplates(t *testing.T) {
	sys := &model.SystemModel{Templates: []*model.TemplateModel{
		{Index: 0, States: []string{"s0", "s1"}, Outputs: map[string]map[string]bool{}},
	}}

	var buf bytes.Buffer
	printResult(&buf, sys)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "SATISFIABLE\n"))
	assert.Contains(t, out, "Template 0")
}

func TestBoundsOfReportsPerTemplateStateCounts(t *testing.T) {
	sys := &model.SystemModel{Templates: []*model.TemplateModel{
		{Index: 0, States: []string{"s0", "s1"}},
		{Index: 1, States: []string{"t0", "t1", "t2"}},
	}}
	assert.Equal(t, []int{2, 3}, boundsOf(sys))
}

func TestPrintBenchReportUnsatisfiable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printBenchReport(&buf, nil, 1500*time.Millisecond))

	var got benchReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.False(t, got.Satisfiable)
	assert.Nil(t, got.Bound)
	assert.InDelta(t, 1.5, got.RuntimeSeconds, 0.001)
}

func TestPrintBenchReportSatisfiable(t *testing.T) {
	sys := &model.SystemModel{Templates: []*model.TemplateModel{
		{Index: 0, States: []string{"s0"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, printBenchReport(&buf, sys, 250*time.Millisecond))

	var got benchReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.True(t, got.Satisfiable)
	assert.Equal(t, []int{1}, got.Bound)
}

// TestRunSynthRejectsMissingInstances exercises the command through
// cobra's own flag parsing and RunE dispatch (rather than calling
// runSynth directly) to pin down that a required flag left empty surfaces
// as an *ArgumentError, the condition main.exitCode maps to exit status 2.
func TestRunSynthRejectsMissingInstances(t *testing.T) {
	dir := t.TempDir()
	specPath := dir + "/spec.txt"
	require.NoError(t, os.WriteFile(specPath, []byte(minimalSpecText), 0o644))

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{specPath})

	err := cmd.Execute()
	require.Error(t, err)
	var ae *ArgumentError
	assert.ErrorAs(t, err, &ae)
}

// TestRunSynthRejectsUnparseableSpecFile checks that a specification file
// failing to parse (here, simply absent) is reported as an
// *ArgumentError rather than bubbling up a bare os.PathError.
func TestRunSynthRejectsUnparseableSpecFile(t *testing.T) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"/nonexistent/path/to/spec.txt", "--instances", "1"})

	err := cmd.Execute()
	require.Error(t, err)
	var ae *ArgumentError
	assert.ErrorAs(t, err, &ae)
}

// TestRunSynthRejectsUnknownSystemType checks --system-type validation
// happens before any file I/O or translator construction.
func TestRunSynthRejectsUnknownSystemType(t *testing.T) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"/nonexistent/path/to/spec.txt", "--instances", "1", "--system-type", "bogus"})

	err := cmd.Execute()
	require.Error(t, err)
	var ae *ArgumentError
	assert.ErrorAs(t, err, &ae)
}

const minimalSpecText = `[GENERAL]
templates: 1;

[INPUT_VARIABLES]

[OUTPUT_VARIABLES]
a_0;

[ASSUMPTIONS]

[GUARANTEES]
Forall (i) G(a_0=1);
`
