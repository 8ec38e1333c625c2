package ltltranslate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/automaton"
	"github.com/paramsynth/guardsynth/ltltranslate"
	"github.com/paramsynth/guardsynth/signal"
)

func TestNewProcessTranslatorRejectsEmptyPath(t *testing.T) {
	_, err := ltltranslate.NewProcessTranslator("")
	assert.ErrorIs(t, err, ltltranslate.ErrEmptyBinaryPath)
}

func TestFakeTranslatorReturnsRegisteredFixture(t *testing.T) {
	e := ast.G(ast.NewSignal(signal.New("p")))
	expected := automaton.New()
	expected.AddNode(0, false)
	expected.SetInitial(0)

	fake := ltltranslate.NewFakeTranslator()
	fake.Register(e, expected)

	got, err := fake.ToUCW(context.Background(), e)
	require.NoError(t, err)
	assert.Same(t, expected, got)
}

func TestFakeTranslatorRejectsUnregisteredFormula(t *testing.T) {
	fake := ltltranslate.NewFakeTranslator()
	_, err := fake.ToUCW(context.Background(), ast.NewSignal(signal.New("q")))
	assert.ErrorIs(t, err, ltltranslate.ErrNoFixture)
}

func TestCachingTranslatorMemoizesSuccessfulTranslation(t *testing.T) {
	e := ast.NewSignal(signal.New("p"))
	expected := automaton.New()
	expected.AddNode(0, false)
	expected.SetInitial(0)

	fake := ltltranslate.NewFakeTranslator()
	fake.Register(e, expected)
	counting := &countingTranslator{inner: fake}
	cached := ltltranslate.NewCachingTranslator(counting)

	_, err := cached.ToUCW(context.Background(), e)
	require.NoError(t, err)
	_, err = cached.ToUCW(context.Background(), e)
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls)
}

type countingTranslator struct {
	inner ltltranslate.Translator
	calls int
}

func (c *countingTranslator) ToUCW(ctx context.Context, e ast.Expr) (*automaton.Automaton, error) {
	c.calls++
	return c.inner.ToUCW(ctx, e)
}
