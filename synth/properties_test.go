package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/architecture"
	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/instantiate"
	"github.com/paramsynth/guardsynth/signal"
	"github.com/paramsynth/guardsynth/specification"
)

func singleIndexGuarantee(t *testing.T, k int) specification.Formula {
	t.Helper()
	f, err := specification.NewFormula(ast.NewForall(
		ast.G(ast.NewSignal(signal.NewQuantifiedTemplate("p", k, "i"))),
		"i",
	))
	require.NoError(t, err)
	return f
}

func TestBuildPropertiesOrdersArchitectureThenDeadlockThenUser(t *testing.T) {
	arch := architecture.NewConjunctive(1)
	g := singleIndexGuarantee(t, 0)

	cutoff, guaranteeCutoffs, err := arch.DetermineCutoffs([]int{1}, []specification.Formula{g})
	require.NoError(t, err)

	props, err := buildProperties(1, arch, cutoff, guaranteeCutoffs)
	require.NoError(t, err)
	require.Len(t, props, 3)

	// architecture property first: its guarantee is the "enabled" one.
	assert.Contains(t, props[0].Guarantee.Expr().String(), "enabled")
	assert.False(t, props[0].ArchitectureSpecific)

	// deadlock-freedom guarantee next: its guarantee is the "init" one.
	assert.Contains(t, props[1].Guarantee.Expr().String(), "init")
	assert.False(t, props[1].ArchitectureSpecific)

	// user guarantee last, carrying its own cut-off.
	assert.Equal(t, g, props[2].Guarantee)
	assert.Equal(t, guaranteeCutoffs[0].Cutoff, props[2].Cutoff)
}

func TestBuildPropertiesFlagsArchitectureSpecificWhenGuaranteeCutoffExceedsGlobal(t *testing.T) {
	arch := architecture.NewConjunctive(1)
	g := singleIndexGuarantee(t, 0)

	props, err := buildProperties(1, arch, []int{1}, []architecture.GuaranteeCutoff{
		{Guarantee: g, Cutoff: []int{5}},
	})
	require.NoError(t, err)
	require.Len(t, props, 3)
	assert.True(t, props[2].ArchitectureSpecific)
	assert.Equal(t, []int{1}, props[2].effectiveCutoff([]int{1}))
}

func TestEffectiveCutoffFallsBackToGlobalWhenArchitectureSpecific(t *testing.T) {
	p := roundProperty{Cutoff: []int{9}, ArchitectureSpecific: true}
	assert.Equal(t, []int{2}, p.effectiveCutoff([]int{2}))

	p2 := roundProperty{Cutoff: []int{9}, ArchitectureSpecific: false}
	assert.Equal(t, []int{9}, p2.effectiveCutoff([]int{2}))
}

func TestTemplateValuesForBuildsZeroToCutoffRange(t *testing.T) {
	g := singleIndexGuarantee(t, 0)
	values := templateValuesFor(g, []int{3})
	assert.Equal(t, map[int][]int{0: {0, 1, 2}}, values)
}

func TestInstantiateAndJoinAndsAcrossFormulas(t *testing.T) {
	spec := specification.New(1)
	require.NoError(t, spec.SetCutoff([]int{2}))
	ins := instantiate.New(spec)

	g := singleIndexGuarantee(t, 0)
	expr, err := instantiateAndJoin(ins, []int{2}, []specification.Formula{g})
	require.NoError(t, err)
	assert.Equal(t, "G(p_0_0) * G(p_0_1)", expr.String())
}

func TestInstantiateAndJoinEmptyFormulasYieldsTrue(t *testing.T) {
	spec := specification.New(1)
	require.NoError(t, spec.SetCutoff([]int{1}))
	ins := instantiate.New(spec)

	expr, err := instantiateAndJoin(ins, []int{1}, nil)
	require.NoError(t, err)
	assert.Equal(t, ast.True, expr)
}

func TestInstantiatedExprSafetyGuaranteeIgnoresAssumptions(t *testing.T) {
	spec := specification.New(1)
	require.NoError(t, spec.SetCutoff([]int{1}))
	ins := instantiate.New(spec)

	g := singleIndexGuarantee(t, 0)
	p := roundProperty{Assumptions: []specification.Formula{g}, Guarantee: g, Cutoff: []int{1}}

	expr, err := instantiatedExpr(ins, []int{1}, p, false)
	require.NoError(t, err)
	assert.Equal(t, "G(p_0_0)", expr.String())
}

func TestInstantiatedExprLivenessGuaranteeCombinesWithAssumptions(t *testing.T) {
	spec := specification.New(1)
	require.NoError(t, spec.SetCutoff([]int{1}))
	ins := instantiate.New(spec)

	g := singleIndexGuarantee(t, 0)
	p := roundProperty{Assumptions: []specification.Formula{g}, Guarantee: g, Cutoff: []int{1}}

	expr, err := instantiatedExpr(ins, []int{1}, p, true)
	require.NoError(t, err)
	assert.Equal(t, ast.Implies(mustInstantiate(t, ins, g), mustInstantiate(t, ins, g)), expr)
}

func mustInstantiate(t *testing.T, ins *instantiate.Instantiator, f specification.Formula) ast.Expr {
	t.Helper()
	expr, err := instantiateAndJoin(ins, []int{1}, []specification.Formula{f})
	require.NoError(t, err)
	return expr
}
