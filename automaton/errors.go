// Package automaton defines the universal co-Büchi word automaton (UCW)
// value type shared by the translation and encoding layers, plus the
// structural safety/liveness oracle and the Tarjan SCC routine both the
// oracle and the optional ranking optimization in package smt depend on.
package automaton

import (
	"errors"
	"fmt"
)

// ErrUnknownNode indicates a reference to a node ID never registered with
// AddNode.
var ErrUnknownNode = errors.New("automaton: unknown node")

// ErrNoInitialNodes indicates an Automaton with an empty initial set —
// every UCW produced by translation must designate at least one initial
// node.
var ErrNoInitialNodes = errors.New("automaton: no initial nodes set")

// AutomatonError wraps one of the sentinels above with positional context.
type AutomatonError struct {
	Context string
	Err     error
}

func (e *AutomatonError) Error() string {
	return fmt.Sprintf("automaton: %s: %s", e.Context, e.Err)
}

func (e *AutomatonError) Unwrap() error { return e.Err }

func wrap(context string, err error) error {
	return &AutomatonError{Context: context, Err: err}
}
