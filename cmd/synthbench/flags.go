package main

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeout indicates --timeout failed to parse as a Go
// duration string.
var ErrInvalidTimeout = errors.New("synthbench: --timeout is not a valid duration")

// ArgumentError marks a failure in the user-supplied arguments or flags
// as distinct from a failure executing the benchmark sweep itself, the
// same split cmd/synth's ArgumentError draws for its own exit-code
// mapping.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string { return e.Err.Error() }
func (e *ArgumentError) Unwrap() error { return e.Err }

func argErr(err error) error {
	if err == nil {
		return nil
	}
	return &ArgumentError{Err: err}
}

// parseTimeout parses s as a Go duration string. An empty or "0"
// duration disables the per-run timeout (bench.Runner.Timeout's
// documented zero-value meaning).
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, argErr(fmt.Errorf("%s: %w", err, ErrInvalidTimeout))
	}
	return d, nil
}
