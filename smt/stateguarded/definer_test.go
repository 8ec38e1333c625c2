package stateguarded_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/architecture"
	"github.com/paramsynth/guardsynth/smt"
	"github.com/paramsynth/guardsynth/smt/stateguarded"
	"github.com/paramsynth/guardsynth/specification"
)

func twoTemplateSpec(t *testing.T, bounds []int) *specification.Specification {
	t.Helper()
	spec := specification.New(len(bounds))
	require.NoError(t, spec.SetBound(bounds))
	require.NoError(t, spec.SetCutoff(bounds))
	return spec
}

func TestGuardSizeSumsBounds(t *testing.T) {
	spec := twoTemplateSpec(t, []int{2, 3})
	assert.Equal(t, 5, stateguarded.Definer{}.GuardSize(spec))
}

// templateFunction builds the minimal *smt.TemplateFunction
// stateguarded.Definer.DefineStateGuard needs: a declared state sort
// and nothing else, since the state-guarded representation never
// looks at a template's outputs or inputs.
func templateFunction(solver *smt.MemSolver, spec *specification.Specification, k int) *smt.TemplateFunction {
	tmpl := spec.Template(k)
	constructors := make([]string, tmpl.Bound())
	for i := range constructors {
		constructors[i] = fmt.Sprintf("t%d_%d", k, i)
	}
	sort := solver.DeclareEnumSort(fmt.Sprintf("T%d", k), constructors)
	return &smt.TemplateFunction{Template: tmpl, StateSort: sort}
}

func TestDefineStateGuardIsOneHotPerGlobalState(t *testing.T) {
	spec := twoTemplateSpec(t, []int{2, 2})
	solver := smt.NewMemSolver()
	def := stateguarded.Definer{}
	enc := smt.NewEncoder(solver, spec, architecture.NewDisjunctive(2), def, smt.OptimizationNone)
	enc.GuardSize = def.GuardSize(spec)

	tf0 := templateFunction(solver, spec, 0)
	tf1 := templateFunction(solver, spec, 1)
	require.NoError(t, def.DefineStateGuard(enc, tf0))
	require.NoError(t, def.DefineStateGuard(enc, tf1))

	res, err := solver.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, smt.Sat, res)

	model, err := solver.Model()
	require.NoError(t, err)

	v00, err := model.EvalBitVec(smt.Apply(tf0.StateGuard, tf0.State(0)))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v00)

	v01, err := model.EvalBitVec(smt.Apply(tf0.StateGuard, tf0.State(1)))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v01)

	v10, err := model.EvalBitVec(smt.Apply(tf1.StateGuard, tf1.State(0)))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), v10)

	v11, err := model.EvalBitVec(smt.Apply(tf1.StateGuard, tf1.State(1)))
	require.NoError(t, err)
	assert.Equal(t, uint64(8), v11)
}
