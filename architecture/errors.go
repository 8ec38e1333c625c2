// Package architecture computes architecture-induced fairness
// assumptions/guarantees and cut-offs for guarded distributed systems.
// Two guard regimes are supported: conjunctive (guards additionally
// require every template's initial state) and disjunctive (no such
// requirement).
package architecture

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers branch with errors.Is; ArchitectureError (below)
// wraps one of these with positional context, mirroring the two-tier
// convention used throughout this module.
var (
	// ErrUnsupportedGuarantee indicates a guarantee shape the cut-off
	// computation cannot handle: neither single-template (1 or 2 indices)
	// nor exactly two-template/two-index multi-template.
	ErrUnsupportedGuarantee = errors.New("architecture: unsupported guarantee shape")

	// ErrTemplateCountMismatch indicates a bound tuple whose length does
	// not match the architecture's template count.
	ErrTemplateCountMismatch = errors.New("architecture: bound length does not match template count")

	// ErrUnknownGuardType indicates a guard-type string other than
	// "conjunctive_guards"/"disjunctive_guards".
	ErrUnknownGuardType = errors.New("architecture: unknown guard type")
)

// ArchitectureError wraps one of the sentinels above with positional
// context.
type ArchitectureError struct {
	Context string
	Err     error
}

func (e *ArchitectureError) Error() string {
	return fmt.Sprintf("architecture: %s: %s", e.Context, e.Err)
}

func (e *ArchitectureError) Unwrap() error { return e.Err }

func wrap(context string, err error) error {
	return &ArchitectureError{Context: context, Err: err}
}
