package specification_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/signal"
	"github.com/paramsynth/guardsynth/specification"
)

func TestSetBoundValidatesLengthAndPositivity(t *testing.T) {
	spec := specification.New(2)
	require.NoError(t, spec.SetBound([]int{2, 3}))
	assert.Equal(t, []int{2, 3}, spec.Bound())

	err := spec.SetBound([]int{2})
	assert.ErrorIs(t, err, specification.ErrTemplateCountMismatch)

	err = spec.SetBound([]int{0, 1})
	assert.ErrorIs(t, err, specification.ErrNonPositiveBound)
}

func TestCutoffSumAndSchedulingSize(t *testing.T) {
	spec := specification.New(1)
	require.NoError(t, spec.SetCutoff([]int{1}))
	assert.Equal(t, 1, spec.SchedulingSize(), "degenerate sum==1 case still yields width 1")

	require.NoError(t, spec.SetCutoff([]int{3}))
	assert.Equal(t, 3, spec.CutoffSum())
	assert.Equal(t, 2, spec.SchedulingSize())
}

func TestSchedulingValuesFlattenedEnumeration(t *testing.T) {
	// S6: cutoff sum 3 => width 2; flattened position 2 => (sched_1=1, sched_0=0).
	spec := specification.New(1)
	require.NoError(t, spec.SetCutoff([]int{3}))

	values := spec.SchedulingValues()
	got := values[specification.Instance{Template: 0, Index: 2}]
	require.Len(t, got, 2)
	assert.Equal(t, []bool{true, false}, got)
}

func TestSchedulingSignalsOrderMostSignificantFirst(t *testing.T) {
	spec := specification.New(1)
	require.NoError(t, spec.SetCutoff([]int{3}))
	sigs := spec.SchedulingSignals()
	require.Len(t, sigs, 2)
	assert.Equal(t, "sched_1", sigs[0].String())
	assert.Equal(t, "sched_0", sigs[1].String())
}

func TestValidateSignalDisjointnessCatchesOverlap(t *testing.T) {
	spec := specification.New(1)
	tmpl := spec.Template(0)
	tmpl.AddInput(signal.NewTemplate("r", 0))
	tmpl.AddOutput(signal.NewTemplate("r", 0))

	err := spec.ValidateSignalDisjointness()
	assert.ErrorIs(t, err, specification.ErrSignalsNotDisjoint)
}

func TestNewFormulaRejectsNonForallRoot(t *testing.T) {
	_, err := specification.NewFormula(ast.NewSignal(signal.New("r")))
	assert.True(t, errors.Is(err, specification.ErrNotFullyQuantified))
}

func TestNewFormulaDerivesTemplateAndIndexShape(t *testing.T) {
	expr := ast.NewForall(
		ast.G(ast.NewSignal(signal.NewQuantifiedTemplate("g", 0, "i"))),
		"i",
	)
	f, err := specification.NewFormula(expr)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, f.TemplateIndices())
	assert.Equal(t, []string{"i"}, f.Indices())
	assert.False(t, f.IsMultiTemplateIndexed())
	assert.False(t, f.IsMultiIndexed())
}

func TestNewFormulaRejectsTooManyTemplates(t *testing.T) {
	expr := ast.NewForall(
		ast.And(
			ast.NewSignal(signal.NewQuantifiedTemplate("g", 0, "i")),
			ast.NewSignal(signal.NewQuantifiedTemplate("g", 1, "j")),
			ast.NewSignal(signal.NewQuantifiedTemplate("g", 2, "k")),
		),
		"i", "j", "k",
	)
	_, err := specification.NewFormula(expr)
	assert.ErrorIs(t, err, specification.ErrTooManyTemplates)
}
