package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/signal"
)

func TestAndElidesTrueAndCollapses(t *testing.T) {
	r := ast.NewSignal(signal.New("r"))
	assert.Equal(t, r, ast.And(r, ast.True))
	assert.Equal(t, ast.True, ast.And())
	assert.Equal(t, ast.True, ast.And(ast.True, ast.True))
}

func TestOrElidesFalseAndCollapses(t *testing.T) {
	r := ast.NewSignal(signal.New("r"))
	assert.Equal(t, r, ast.Or(r, ast.False))
	assert.Equal(t, ast.False, ast.Or())
}

func TestNotCollapsesDoubleNegationAndLiterals(t *testing.T) {
	r := ast.NewSignal(signal.New("r"))
	assert.Equal(t, r, ast.Not(ast.Not(r)))
	assert.Equal(t, ast.False, ast.Not(ast.True))
}

func TestStringFormMatchesCanonicalGrammar(t *testing.T) {
	e := ast.G(ast.F(ast.NewSignal(signal.NewInstance("g", 0, 1))))
	assert.Equal(t, "G(F(g_0_1))", e.String())

	bin := ast.BinOp{Op: ast.OpEq, Arg1: ast.NewSignal(signal.New("g_0_1")), Arg2: ast.Number{Value: 0}}
	assert.Equal(t, "g_0_1=0", bin.String())
}

func TestCollectSignalsWalksWholeTree(t *testing.T) {
	e := ast.NewForall(
		ast.BinOp{
			Op:   ast.OpAnd,
			Arg1: ast.NewSignal(signal.NewQuantifiedTemplate("r", 0, "i")),
			Arg2: ast.NewSignal(signal.NewQuantifiedTemplate("g", 0, "i")),
		},
		"i",
	)
	got := ast.CollectSignals(e)
	assert.Equal(t, 2, got.Len())
}
