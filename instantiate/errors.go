// Package instantiate expands a quantified specification.Formula into the
// finite conjunction of per-instance LTL expressions a bounded encoding can
// reason about.
package instantiate

import (
	"errors"
	"fmt"
)

// ErrNoInstanceValues indicates a formula references a template index for
// which the caller supplied no instance-value slice.
var ErrNoInstanceValues = errors.New("instantiate: no instance values supplied for a quantified template")

// InstantiateError wraps ErrNoInstanceValues (or a propagated
// specification-layer error) with positional context.
type InstantiateError struct {
	Context string
	Err     error
}

func (e *InstantiateError) Error() string {
	return fmt.Sprintf("instantiate: %s: %s", e.Context, e.Err)
}

func (e *InstantiateError) Unwrap() error { return e.Err }

func wrap(context string, err error) error {
	return &InstantiateError{Context: context, Err: err}
}
