package smt

import "context"

// FunctionHandle is an opaque, sort-tagged reference to a function
// declared on a Solver — the Go counterpart of a bound Z3 FuncDecl.
// Components pass FunctionHandle values (guard, state_guard, is_enabled,
// lambda_b_a, …) through the encoder without ever re-declaring or
// re-resolving them by name.
type FunctionHandle struct {
	Name      string
	Domain    []Sort
	Codomain  Sort
}

// Result is the outcome of a Solver.Check call.
type Result int

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Model evaluates ground terms against a satisfying assignment. It is
// only valid for the Solver state at the moment Check returned Sat;
// calling Push, Pop or Assert afterwards may invalidate it.
type Model interface {
	// EvalBool evaluates a Bool-sorted ground term.
	EvalBool(t Term) (bool, error)
	// EvalInt evaluates an Int-sorted ground term.
	EvalInt(t Term) (int64, error)
	// EvalBitVec evaluates a BitVec-sorted ground term.
	EvalBitVec(t Term) (uint64, error)
}

// Solver is the opaque SMT back-end this module encodes a bounded
// synthesis instance against. No concrete binding lives in this module;
// a backend (an SMT-LIB subprocess, a cgo binding) implements Solver
// without the encoder package ever changing — the same "external
// collaborator, interface only" treatment this module gives LTL-to-
// automaton translation (see ltltranslate.Translator).
type Solver interface {
	// DeclareEnumSort declares (or returns the existing declaration of)
	// an enumerated sort with one nullary constructor per name in
	// constructors.
	DeclareEnumSort(name string, constructors []string) Sort
	// DeclareFunction declares an uninterpreted function of the given
	// signature and returns a handle to it. Declaring the same name
	// twice with a different signature is an error.
	DeclareFunction(name string, domain []Sort, codomain Sort) (FunctionHandle, error)
	// Assert adds a constraint to the current solver frame.
	Assert(t Term)
	// Push opens a new solver frame; constraints asserted after Push are
	// discarded by the matching Pop.
	Push()
	// Pop discards the most recently opened solver frame.
	Pop()
	// Check decides satisfiability of the conjunction of all asserted
	// constraints across all open frames.
	Check(ctx context.Context) (Result, error)
	// Model returns the satisfying assignment of the most recent Check
	// that returned Sat. It returns ErrNoModel otherwise.
	Model() (Model, error)
}
