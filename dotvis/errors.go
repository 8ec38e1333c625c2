package dotvis

import "fmt"

// RunError wraps a failure from a dotvis operation with the operation
// name that produced it, mirroring synth.RunError.
type RunError struct {
	Op  string
	Err error
}

func (e *RunError) Error() string { return fmt.Sprintf("dotvis: %s: %v", e.Op, e.Err) }
func (e *RunError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RunError{Op: op, Err: err}
}
