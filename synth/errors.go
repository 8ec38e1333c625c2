package synth

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedAssumptions is returned when cfg.Spec carries
	// specification-level assumptions beyond the architecture-induced
	// fairness one this scope supports.
	ErrUnsupportedAssumptions = errors.New("synth: specification-level assumptions beyond architecture-induced fairness are not supported")

	// ErrBoundShapeMismatch is returned when Config.MinBound is neither a
	// single scalar nor one entry per template.
	ErrBoundShapeMismatch = errors.New("synth: min bound must have length 1 or template count")

	// ErrInstanceCountShapeMismatch is returned when Config.InstanceCount
	// is neither a single scalar nor one entry per template.
	ErrInstanceCountShapeMismatch = errors.New("synth: instance count must have length 1 or template count")

	// ErrMissingConfig is returned when a required Config field is unset.
	ErrMissingConfig = errors.New("synth: missing required configuration")

	// ErrUnknownResult is returned when a solver's Check call returns
	// smt.Unknown, a result the outer loop has no handling for.
	ErrUnknownResult = errors.New("synth: solver returned an unknown result")
)

// RunError wraps the operation that failed with its underlying cause.
type RunError struct {
	Op  string
	Err error
}

func (e *RunError) Error() string { return fmt.Sprintf("synth: %s: %v", e.Op, e.Err) }
func (e *RunError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RunError{Op: op, Err: err}
}
