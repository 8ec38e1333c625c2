// Package specification holds the Specification model: templates, the
// current bound/cut-off tuples, and the scheduling-signal derivation that
// both the architecture and the encoder depend on.
package specification

import (
	"errors"
	"fmt"
)

// Sentinel errors for the specification package. Callers branch with
// errors.Is against these; SpecificationError (below) wraps one of them
// with positional context.
var (
	// ErrTemplateCountMismatch indicates a bound/cutoff tuple whose length
	// does not equal the template count.
	ErrTemplateCountMismatch = errors.New("specification: tuple length does not match template count")

	// ErrNonPositiveBound indicates a template bound that is not > 0.
	ErrNonPositiveBound = errors.New("specification: template bound must be positive")

	// ErrSignalsNotDisjoint indicates a template whose input and output
	// signal sets overlap.
	ErrSignalsNotDisjoint = errors.New("specification: template inputs and outputs are not disjoint")

	// ErrTooManyTemplates indicates a formula referencing more than two
	// distinct template indices.
	ErrTooManyTemplates = errors.New("specification: formula references more than two templates")

	// ErrTooManyIndices indicates a formula quantifying more than two
	// index variables.
	ErrTooManyIndices = errors.New("specification: formula quantifies more than two indices")

	// ErrNotFullyQuantified indicates a formula whose root is not a
	// ForallExpr: every quantifier in this module is outermost.
	ErrNotFullyQuantified = errors.New("specification: formula root is not a Forall")

	// ErrAssumptionsNotSupported indicates a specification-level assumption
	// beyond architecture-induced fairness.
	ErrAssumptionsNotSupported = errors.New("specification: only architecture-induced fairness assumptions are supported")
)

// SpecificationError wraps one of the sentinels above with positional
// context (which template, which guarantee index, ...). errors.Is(err,
// ErrX) works regardless of this wrapping, the same two-tier convention
// used throughout this module.
type SpecificationError struct {
	Context string
	Err     error
}

func (e *SpecificationError) Error() string {
	return fmt.Sprintf("specification: %s: %s", e.Context, e.Err)
}

func (e *SpecificationError) Unwrap() error { return e.Err }

func wrap(context string, err error) error {
	return &SpecificationError{Context: context, Err: err}
}
