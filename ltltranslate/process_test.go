package ltltranslate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/automaton"
	"github.com/paramsynth/guardsynth/signal"
)

func TestFormatLTL3BARendersConnectives(t *testing.T) {
	e := ast.Implies(
		ast.NewSignal(signal.New("a")),
		ast.And(ast.NewSignal(signal.New("b")), ast.NewSignal(signal.New("c"))),
	)
	assert.Equal(t, "(a -> (b && c))", formatLTL3BA(e))
}

func TestFormatLTL3BARendersTemporalOperators(t *testing.T) {
	e := ast.GF(ast.NewSignal(signal.New("p")))
	assert.Equal(t, "G(F(p))", formatLTL3BA(e))
}

func TestParseAutomatonBuildsNodesAndTransitions(t *testing.T) {
	out := "state T0_init initial\n" +
		"  a !b -> T0_init\n" +
		"  true -> accept_S1\n" +
		"\n" +
		"state accept_S1 rejecting\n" +
		"  true -> accept_S1\n"

	a, err := parseAutomaton(out)
	require.NoError(t, err)

	require.Len(t, a.Initial(), 1)
	require.Len(t, a.RejectingNodes(), 1)
	assert.True(t, automaton.IsSafety(a))
}

func TestParseAutomatonRejectsMissingInitial(t *testing.T) {
	out := "state S0\n  true -> S0\n"
	_, err := parseAutomaton(out)
	assert.ErrorIs(t, err, automaton.ErrNoInitialNodes)
}
