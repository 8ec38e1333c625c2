package main

import (
	"strconv"
	"strings"

	"github.com/paramsynth/guardsynth/architecture"
	"github.com/paramsynth/guardsynth/smt"
)

// ArgumentError marks a failure in the user-supplied arguments or flags
// (a malformed int list, an unknown --system-type, a spec file that
// doesn't parse) as distinct from a failure inside the synthesis
// pipeline itself, so main can map it to exit code 2.
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

// parseIntCSV parses a comma-separated list of integers (negative values
// are not rejected), the scalar-or-per-template shape --min-bound/--instances take;
// bench.intsCSV on the producing side uses the same comma-joined format.
func parseIntCSV(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, argErr(err)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, argErr(ErrEmptyIntList)
	}
	return out, nil
}

// parseSystemType accepts both the short CLI spelling
// ("conjunctive"/"disjunctive") and architecture.GuardType's canonical
// String() form ("conjunctive_guards"/"disjunctive_guards", the shape
// bench.SynthCommand emits), so the same binary serves a human typing
// --system-type at a shell and the benchmark harness re-exec'ing it.
func parseSystemType(s string) (architecture.GuardType, error) {
	switch s {
	case "conjunctive", "":
		return architecture.Conjunctive, nil
	case "disjunctive":
		return architecture.Disjunctive, nil
	}
	t, err := architecture.ParseGuardType(s)
	if err != nil {
		return 0, argErr(err)
	}
	return t, nil
}

// parseOptimization maps the --optimization flag's value to an
// smt.EncodingOptimization: empty disables it, "lambda-scc" (the value
// bench.SynthCommand emits for a --optimization/--optimization flag
// line marked "scc") enables the SCC-ranked λ^S variant.
func parseOptimization(s string) (smt.EncodingOptimization, error) {
	switch s {
	case "":
		return smt.OptimizationNone, nil
	case "lambda-scc":
		return smt.OptimizationSCCRank, nil
	default:
		return 0, argErr(ErrUnknownOptimization)
	}
}
