package ltltranslate

import (
	"context"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/automaton"
)

// FakeTranslator is an in-memory Translator fixture table, used by this
// module's tests, since this module's own CI
// cannot depend on an external LTL-to-Büchi binary being installed.
type FakeTranslator struct {
	fixtures map[string]*automaton.Automaton
}

// NewFakeTranslator returns an empty FakeTranslator; register fixtures
// with Register before use.
func NewFakeTranslator() *FakeTranslator {
	return &FakeTranslator{fixtures: make(map[string]*automaton.Automaton)}
}

// Register associates e's canonical string form with a. A later ToUCW(e)
// call (for any structurally-equal expression) returns a.
func (f *FakeTranslator) Register(e ast.Expr, a *automaton.Automaton) {
	f.fixtures[e.String()] = a
}

// ToUCW returns the fixture registered for e, or a *TranslateError
// wrapping ErrNoFixture if none was registered.
func (f *FakeTranslator) ToUCW(_ context.Context, e ast.Expr) (*automaton.Automaton, error) {
	a, ok := f.fixtures[e.String()]
	if !ok {
		return nil, wrap("ToUCW", ErrNoFixture)
	}
	return a, nil
}
