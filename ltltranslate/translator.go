package ltltranslate

import (
	"context"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/automaton"
)

// Translator converts an LTL expression into the UCW that accepts exactly
// its negation's language, the first step of encoding a guarantee or
// assumption into the SMT problem.
//
// Implementations must be safe for concurrent use; the outer synthesis
// loop translates every round's property list, potentially concurrently.
type Translator interface {
	// ToUCW returns the automaton for e. Implementations negate e
	// themselves — callers always pass the formula as written.
	ToUCW(ctx context.Context, e ast.Expr) (*automaton.Automaton, error)
}
