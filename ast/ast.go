// Package ast defines the immutable LTL expression tree shared by the
// architecture, instantiation, and translation layers. Nodes are built once
// by the specification parser and never mutated afterwards — every
// transform in this module (instantiation, negation, rewriting) produces a
// new tree rather than editing in place.
package ast

import (
	"fmt"
	"strings"

	"github.com/paramsynth/guardsynth/signal"
)

// Temporal and boolean operator names, used by UnaryOp/BinOp. These are the
// LTL and propositional connectives this tree supports: G, F, X, U
// (temporal), *, +, ! (boolean), -> (implication), = (arithmetic-like
// equality).
const (
	OpG   = "G"
	OpF   = "F"
	OpX   = "X"
	OpNot = "!"
	OpU   = "U"

	OpAnd = "*"
	OpOr  = "+"
	OpImp = "->"
	OpEq  = "="
)

// Expr is any node of the LTL expression tree. Every variant's String
// reproduces the canonical textual form used for structural equality and
// hashing (via the string), matching signal.Signal's convention.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Number is an integer literal, e.g. a state index in an equality atom.
type Number struct{ Value int }

func (Number) isExpr()        {}
func (n Number) String() string { return fmt.Sprintf("%d", n.Value) }

// Bool is a Boolean literal.
type Bool struct{ Value bool }

func (Bool) isExpr()        {}
func (b Bool) String() string { return fmt.Sprintf("%t", b.Value) }

// True and False are the canonical Bool singletons; prefer them to
// allocating Bool{...} ad hoc so And/Or's Bool(true)-elision stays cheap
// to compare against.
var (
	True  = Bool{Value: true}
	False = Bool{Value: false}
)

// Sig wraps a signal.Signal as a leaf expression.
type Sig struct{ Signal signal.Signal }

func (Sig) isExpr()        {}
func (s Sig) String() string { return s.Signal.String() }

// NewSignal returns a Sig wrapping s.
func NewSignal(s signal.Signal) Sig { return Sig{Signal: s} }

// UnaryOp applies a prefix operator (G, F, X, !) to a single sub-expression.
type UnaryOp struct {
	Op  string
	Arg Expr
}

func (UnaryOp) isExpr() {}
func (u UnaryOp) String() string {
	return fmt.Sprintf("%s(%s)", u.Op, u.Arg)
}

// BinOp applies an infix operator (*, +, ->, U, =) to two sub-expressions.
type BinOp struct {
	Op   string
	Arg1 Expr
	Arg2 Expr
}

func (BinOp) isExpr() {}
func (b BinOp) String() string {
	if b.Op == OpEq {
		return fmt.Sprintf("%s%s%s", b.Arg1, b.Op, b.Arg2)
	}
	return fmt.Sprintf("%s %s %s", b.Arg1, b.Op, b.Arg2)
}

// ForallExpr binds a tuple of index-variable names over an inner
// expression. Nesting is never required: every quantifier is outermost, so
// Arg is never itself (nor contains) a ForallExpr produced by the parser.
type ForallExpr struct {
	Binding []string
	Arg     Expr
}

func (ForallExpr) isExpr() {}
func (f ForallExpr) String() string {
	return fmt.Sprintf("Forall(%s) %s", strings.Join(f.Binding, ","), f.Arg)
}

// NewForall returns a ForallExpr binding the given index-variable names
// (order preserved — callers needing the canonical index-name-sorted order
// should sort before calling) over inner.
func NewForall(inner Expr, binding ...string) ForallExpr {
	return ForallExpr{Binding: append([]string(nil), binding...), Arg: inner}
}

// And conjoins conjuncts left to right, eliding Bool(true) terms and
// collapsing an empty result to True or a singleton result to that one
// conjunct.
func And(conjuncts ...Expr) Expr {
	filtered := make([]Expr, 0, len(conjuncts))
	for _, c := range conjuncts {
		if b, ok := c.(Bool); ok && b.Value {
			continue
		}
		filtered = append(filtered, c)
	}
	if len(filtered) == 0 {
		return True
	}
	res := filtered[0]
	for _, c := range filtered[1:] {
		res = BinOp{Op: OpAnd, Arg1: res, Arg2: c}
	}
	return res
}

// Or disjoins disjuncts the same way And conjoins them, eliding Bool(false).
func Or(disjuncts ...Expr) Expr {
	filtered := make([]Expr, 0, len(disjuncts))
	for _, d := range disjuncts {
		if b, ok := d.(Bool); ok && !b.Value {
			continue
		}
		filtered = append(filtered, d)
	}
	if len(filtered) == 0 {
		return False
	}
	res := filtered[0]
	for _, d := range filtered[1:] {
		res = BinOp{Op: OpOr, Arg1: res, Arg2: d}
	}
	return res
}

// Not negates e, collapsing double negation and Bool literals so repeated
// negation (e.g. ltltranslate's ltl_to_ucw which always negates its input)
// does not accumulate needless "!(!(...))" wrapping.
func Not(e Expr) Expr {
	switch v := e.(type) {
	case Bool:
		return Bool{Value: !v.Value}
	case UnaryOp:
		if v.Op == OpNot {
			return v.Arg
		}
	}
	return UnaryOp{Op: OpNot, Arg: e}
}

// Implies returns antecedent -> consequent.
func Implies(antecedent, consequent Expr) Expr {
	return BinOp{Op: OpImp, Arg1: antecedent, Arg2: consequent}
}

// G wraps e in the LTL "always" operator.
func G(e Expr) Expr { return UnaryOp{Op: OpG, Arg: e} }

// F wraps e in the LTL "eventually" operator.
func F(e Expr) Expr { return UnaryOp{Op: OpF, Arg: e} }

// GF is shorthand for G(F(e)), the recurring "infinitely often" shape used
// throughout the architecture fairness/liveness formulas.
func GF(e Expr) Expr { return G(F(e)) }

// CollectSignals performs a pure traversal of e, accumulating every
// signal.Signal leaf into the returned Set — a read-only walk, never a
// rewrite.
func CollectSignals(e Expr) *signal.Set {
	set := signal.NewSet()
	collect(e, set)
	return set
}

func collect(e Expr, set *signal.Set) {
	switch v := e.(type) {
	case Sig:
		set.Add(v.Signal)
	case UnaryOp:
		collect(v.Arg, set)
	case BinOp:
		collect(v.Arg1, set)
		collect(v.Arg2, set)
	case ForallExpr:
		collect(v.Arg, set)
	}
}
