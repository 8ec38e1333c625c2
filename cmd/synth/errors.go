package main

import "errors"

var (
	// ErrEmptyIntList indicates --min-bound/--instances parsed to zero
	// values.
	ErrEmptyIntList = errors.New("synth: expected at least one integer")

	// ErrUnknownOptimization indicates an --optimization value other than
	// "" or "lambda-scc".
	ErrUnknownOptimization = errors.New("synth: unknown --optimization value")
)
