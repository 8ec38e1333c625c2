package model

import "fmt"

// ExtractError wraps the operation that failed with its underlying
// cause, following this module's two-tier sentinel/wrap error shape
// (smt.SolverError, labelguarded.CheckError).
type ExtractError struct {
	Op  string
	Err error
}

func (e *ExtractError) Error() string { return fmt.Sprintf("model: %s: %v", e.Op, e.Err) }
func (e *ExtractError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExtractError{Op: op, Err: err}
}
