package model_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/model"
	"github.com/paramsynth/guardsynth/signal"
	"github.com/paramsynth/guardsynth/smt"
	"github.com/paramsynth/guardsynth/specification"
)

// toggleTemplate builds a two-state, one-input, one-output template by
// hand (bypassing Encoder.Encode, which would declare the heavy
// quantified eval_guard/is_scheduled functions MemSolver cannot ground
// cheaply) and pins every (state, input, state) guard value and every
// state's output/state_guard value directly, so the resulting model is
// fully determined.
func toggleTemplate(t *testing.T, solver *smt.MemSolver) (*specification.Specification, *smt.TemplateFunction) {
	t.Helper()

	spec := specification.New(1)
	require.NoError(t, spec.SetBound([]int{2}))
	require.NoError(t, spec.SetCutoff([]int{2}))
	spec.Template(0).AddInput(signal.New("a"))
	spec.Template(0).AddOutput(signal.New("o"))

	tmpl := spec.Template(0)
	sort := solver.DeclareEnumSort("T0", []string{"t0_0", "t0_1"})

	oFn, err := solver.DeclareFunction("o_0", []smt.Sort{sort}, smt.BoolSort)
	require.NoError(t, err)

	guardFn, err := solver.DeclareFunction("guard_0", []smt.Sort{sort, smt.BoolSort, sort}, smt.BitVec(2))
	require.NoError(t, err)

	stateGuardFn, err := solver.DeclareFunction("state_guard_0", []smt.Sort{sort}, smt.BitVec(2))
	require.NoError(t, err)

	tf := &smt.TemplateFunction{
		Template:        tmpl,
		StateSort:       sort,
		OutputFunctions: map[string]smt.FunctionHandle{"o": oFn},
		GuardFunction:   guardFn,
		StateGuard:      stateGuardFn,
	}

	state0 := tf.State(0)
	state1 := tf.State(1)

	solver.Assert(smt.Eq(smt.Apply(oFn, state0), smt.BoolLit(false)))
	solver.Assert(smt.Eq(smt.Apply(oFn, state1), smt.BoolLit(true)))

	solver.Assert(smt.Eq(smt.Apply(stateGuardFn, state0), smt.BitVecLit(1, 2)))
	solver.Assert(smt.Eq(smt.Apply(stateGuardFn, state1), smt.BitVecLit(2, 2)))

	states := []smt.Term{state0, state1}
	for i, s := range states {
		for _, in := range []bool{false, true} {
			for j, s2 := range states {
				want := uint64(0)
				if i == 0 && in && j == 1 {
					want = 1 // toggles on, guarded by state0's own bit
				}
				if i == 1 && !in && j == 0 {
					want = 2 // toggles off, guarded by state1's own bit
				}
				solver.Assert(smt.Eq(smt.Apply(guardFn, s, smt.BoolLit(in), s2), smt.BitVecLit(want, 2)))
			}
		}
	}

	return spec, tf
}

func TestExtractReadsStatesOutputsAndTransitions(t *testing.T) {
	solver := smt.NewMemSolver()
	solver.SearchCap = 1 << 22 // 2·2·4·4·4^8 ground assignments
	_, tf := toggleTemplate(t, solver)

	res, err := solver.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, smt.Sat, res)

	mdl, err := solver.Model()
	require.NoError(t, err)

	sys, err := model.Extract([]*smt.TemplateFunction{tf}, mdl)
	require.NoError(t, err)
	require.Len(t, sys.Templates, 1)

	tm := sys.Templates[0]
	assert.Equal(t, 0, tm.Index)
	assert.Equal(t, []string{"t0_0", "t0_1"}, tm.States)
	assert.Equal(t, []string{"a"}, tm.InputSignals)

	assert.Equal(t, map[string]bool{"t0_0": false, "t0_1": true}, tm.Outputs["o"])

	require.Len(t, tm.Transitions, 2)

	on := tm.Transitions[0]
	assert.Equal(t, "t0_0", on.From)
	assert.Equal(t, "t0_1", on.To)
	assert.Equal(t, []model.InputValue{{Name: "a", Value: true}}, on.Inputs)
	assert.Equal(t, []string{"t0_0"}, on.Guard)

	off := tm.Transitions[1]
	assert.Equal(t, "t0_1", off.From)
	assert.Equal(t, "t0_0", off.To)
	assert.Equal(t, []model.InputValue{{Name: "a", Value: false}}, off.Inputs)
	assert.Equal(t, []string{"t0_1"}, off.Guard)
}

func TestExtractHandlesTemplateWithNoInputs(t *testing.T) {
	solver := smt.NewMemSolver()
	spec := specification.New(1)
	require.NoError(t, spec.SetBound([]int{1}))
	require.NoError(t, spec.SetCutoff([]int{1}))

	sort := solver.DeclareEnumSort("T0", []string{"t0_0"})
	guardFn, err := solver.DeclareFunction("guard_0", []smt.Sort{sort, sort}, smt.BitVec(1))
	require.NoError(t, err)
	stateGuardFn, err := solver.DeclareFunction("state_guard_0", []smt.Sort{sort}, smt.BitVec(1))
	require.NoError(t, err)

	tf := &smt.TemplateFunction{
		Template:        spec.Template(0),
		StateSort:       sort,
		OutputFunctions: map[string]smt.FunctionHandle{},
		GuardFunction:   guardFn,
		StateGuard:      stateGuardFn,
	}

	state0 := tf.State(0)
	solver.Assert(smt.Eq(smt.Apply(stateGuardFn, state0), smt.BitVecLit(1, 1)))
	solver.Assert(smt.Eq(smt.Apply(guardFn, state0, state0), smt.BitVecLit(1, 1)))

	res, err := solver.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, smt.Sat, res)

	mdl, err := solver.Model()
	require.NoError(t, err)

	sys, err := model.Extract([]*smt.TemplateFunction{tf}, mdl)
	require.NoError(t, err)
	tm := sys.Templates[0]
	require.Len(t, tm.Transitions, 1)
	assert.Equal(t, "t0_0", tm.Transitions[0].From)
	assert.Equal(t, "t0_0", tm.Transitions[0].To)
	assert.Empty(t, tm.Transitions[0].Inputs)
	assert.Equal(t, []string{"t0_0"}, tm.Transitions[0].Guard)

	assert.Contains(t, fmt.Sprint(tm), "Template 0")
}
