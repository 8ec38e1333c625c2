package instantiate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/instantiate"
	"github.com/paramsynth/guardsynth/signal"
	"github.com/paramsynth/guardsynth/specification"
)

func newSpec(t *testing.T, cutoff []int) *specification.Specification {
	t.Helper()
	spec := specification.New(len(cutoff))
	require.NoError(t, spec.SetCutoff(cutoff))
	return spec
}

func TestInstantiateSingleIndexKeepsEveryInstance(t *testing.T) {
	spec := newSpec(t, []int{2})
	formula, err := specification.NewFormula(ast.NewForall(
		ast.G(ast.NewSignal(signal.NewQuantifiedTemplate("p", 0, "i"))),
		"i",
	))
	require.NoError(t, err)

	instances, err := instantiate.New(spec).Instantiate(formula, map[int][]int{0: {0, 1}})
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "G(p_0_0)", instances[0].String())
	assert.Equal(t, "G(p_0_1)", instances[1].String())
}

func TestInstantiateSingleTemplateTwoIndicesDropsDiagonalAndPermutations(t *testing.T) {
	spec := newSpec(t, []int{2})
	formula, err := specification.NewFormula(ast.NewForall(
		ast.And(
			ast.NewSignal(signal.NewQuantifiedTemplate("p", 0, "i")),
			ast.NewSignal(signal.NewQuantifiedTemplate("p", 0, "j")),
		),
		"i", "j",
	))
	require.NoError(t, err)

	instances, err := instantiate.New(spec).Instantiate(formula, map[int][]int{0: {0, 1}})
	require.NoError(t, err)
	// (0,0) dropped (diagonal), (1,0) dropped (not non-decreasing),
	// (0,1) kept, (1,1) dropped (diagonal).
	require.Len(t, instances, 1)
	assert.Equal(t, "p_0_0 * p_0_1", instances[0].String())
}

func TestInstantiateSchedulerPlaceholderExpandsToConjunction(t *testing.T) {
	spec := newSpec(t, []int{3})
	formula, err := specification.NewFormula(ast.NewForall(
		ast.NewSignal(signal.NewSchedulerPlaceholder(0, "i")),
		"i",
	))
	require.NoError(t, err)

	instances, err := instantiate.New(spec).Instantiate(formula, map[int][]int{0: {0, 1, 2}})
	require.NoError(t, err)
	require.Len(t, instances, 3)

	// cutoff sum 3 => scheduling width 2; instance 2 => sched_1=1, sched_0=0.
	assert.Equal(t, "sched_1 * !sched_0", instances[2].String())
}

func TestInstantiateMultiTemplateKeepsDiagonal(t *testing.T) {
	spec := newSpec(t, []int{2, 2})
	formula, err := specification.NewFormula(ast.NewForall(
		ast.And(
			ast.NewSignal(signal.NewQuantifiedTemplate("p", 0, "i")),
			ast.NewSignal(signal.NewQuantifiedTemplate("q", 1, "j")),
		),
		"i", "j",
	))
	require.NoError(t, err)

	instances, err := instantiate.New(spec).Instantiate(formula, map[int][]int{0: {0, 1}, 1: {0, 1}})
	require.NoError(t, err)
	// non-decreasing only filters (1,0); (0,0),(0,1),(1,1) survive, unlike
	// the single-template case the diagonal is not additionally dropped.
	require.Len(t, instances, 3)
}
