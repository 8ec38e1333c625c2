package smt

import (
	"fmt"
	"strings"
)

// Term is an immutable SMT expression tree: constants, applications of a
// declared FunctionHandle, Boolean/bit-vector/integer connectives, and
// quantifiers over Var terms. Every Term constructor in this file returns
// a value, never a pointer, mirroring ast.Expr's immutable-tree idiom.
type Term interface {
	fmt.Stringer
	isTerm()
}

type constTerm struct {
	sort Sort
	kind string // "bool", "int", "bitvec", "var", "enum"
	// exactly one of the following is meaningful, selected by kind
	boolValue bool
	intValue  int64
	bvValue   uint64
	name      string
}

func (constTerm) isTerm() {}

func (c constTerm) String() string {
	switch c.kind {
	case "bool":
		return fmt.Sprintf("%t", c.boolValue)
	case "int":
		return fmt.Sprintf("%d", c.intValue)
	case "bitvec":
		return fmt.Sprintf("#x%x", c.bvValue)
	default:
		return c.name
	}
}

// BoolLit returns a literal Boolean term.
func BoolLit(v bool) Term { return constTerm{sort: BoolSort, kind: "bool", boolValue: v} }

// IntLit returns a literal integer term.
func IntLit(v int64) Term { return constTerm{sort: IntSortValue, kind: "int", intValue: v} }

// BitVecLit returns a literal bit-vector term of the given width. Only
// the low width bits of v are meaningful.
func BitVecLit(v uint64, width int) Term {
	if width < 64 {
		v &= (1 << uint(width)) - 1
	}
	return constTerm{sort: BitVec(width), kind: "bitvec", bvValue: v}
}

// Var returns a free variable of the given sort, suitable as a quantifier
// bound variable or as a fresh argument constant.
func Var(name string, sort Sort) Term {
	return constTerm{sort: sort, kind: "var", name: name}
}

// TermSort reports the sort of a Term built by this package's constructors.
// ApplyTerm and quantifier terms report the codomain/BoolSort
// respectively.
func TermSort(t Term) Sort {
	switch v := t.(type) {
	case constTerm:
		return v.sort
	case applyTerm:
		return v.fn.Codomain
	case notTerm, andTerm, orTerm, impliesTerm, eqTerm, forallTerm, existsTerm, bvCompareTerm:
		return BoolSort
	case bvOpTerm:
		return v.width()
	case iteTerm:
		return TermSort(v.then)
	case rotl1Term:
		return BitVec(v.width)
	default:
		return Sort{}
	}
}

type applyTerm struct {
	fn   FunctionHandle
	args []Term
}

func (applyTerm) isTerm() {}

func (a applyTerm) String() string {
	parts := make([]string, len(a.args))
	for i, arg := range a.args {
		parts[i] = arg.String()
	}
	if len(parts) == 0 {
		return a.fn.Name
	}
	return fmt.Sprintf("%s(%s)", a.fn.Name, strings.Join(parts, ", "))
}

// Apply returns the term fn(args...).
func Apply(fn FunctionHandle, args ...Term) Term {
	return applyTerm{fn: fn, args: args}
}

type notTerm struct{ operand Term }

func (notTerm) isTerm() {}
func (n notTerm) String() string {
	return fmt.Sprintf("!%s", n.operand)
}

// Not returns ¬t.
func Not(t Term) Term { return notTerm{operand: t} }

type andTerm struct{ operands []Term }

func (andTerm) isTerm() {}
func (a andTerm) String() string {
	if len(a.operands) == 0 {
		return "true"
	}
	parts := make([]string, len(a.operands))
	for i, o := range a.operands {
		parts[i] = o.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " && "))
}

// And returns the conjunction of operands (true if operands is empty).
func And(operands ...Term) Term { return andTerm{operands: operands} }

type orTerm struct{ operands []Term }

func (orTerm) isTerm() {}
func (o orTerm) String() string {
	if len(o.operands) == 0 {
		return "false"
	}
	parts := make([]string, len(o.operands))
	for i, op := range o.operands {
		parts[i] = op.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " || "))
}

// Or returns the disjunction of operands (false if operands is empty).
func Or(operands ...Term) Term { return orTerm{operands: operands} }

type impliesTerm struct{ lhs, rhs Term }

func (impliesTerm) isTerm() {}
func (i impliesTerm) String() string {
	return fmt.Sprintf("(%s -> %s)", i.lhs, i.rhs)
}

// Implies returns lhs ⇒ rhs.
func Implies(lhs, rhs Term) Term { return impliesTerm{lhs: lhs, rhs: rhs} }

type eqTerm struct {
	lhs, rhs Term
	negate   bool
}

func (eqTerm) isTerm() {}
func (e eqTerm) String() string {
	op := "="
	if e.negate {
		op = "!="
	}
	return fmt.Sprintf("(%s %s %s)", e.lhs, op, e.rhs)
}

// Eq returns lhs = rhs.
func Eq(lhs, rhs Term) Term { return eqTerm{lhs: lhs, rhs: rhs} }

// Neq returns lhs ≠ rhs.
func Neq(lhs, rhs Term) Term { return eqTerm{lhs: lhs, rhs: rhs, negate: true} }

type forallTerm struct {
	vars []Term
	body Term
}

func (forallTerm) isTerm() {}
func (f forallTerm) String() string {
	return fmt.Sprintf("forall %v. %s", f.vars, f.body)
}

// ForAll returns the universally-quantified term over vars (each of
// which must be a Var term).
func ForAll(vars []Term, body Term) Term { return forallTerm{vars: vars, body: body} }

type existsTerm struct {
	vars []Term
	body Term
}

func (existsTerm) isTerm() {}
func (e existsTerm) String() string {
	return fmt.Sprintf("exists %v. %s", e.vars, e.body)
}

// Exists returns the existentially-quantified term over vars.
func Exists(vars []Term, body Term) Term { return existsTerm{vars: vars, body: body} }

type bvOp int

const (
	bvAnd bvOp = iota
	bvOr
	bvXor
)

type bvOpTerm struct {
	op       bvOp
	lhs, rhs Term
}

func (bvOpTerm) isTerm() {}
func (b bvOpTerm) String() string {
	sym := map[bvOp]string{bvAnd: "&", bvOr: "|", bvXor: "^"}[b.op]
	return fmt.Sprintf("(%s %s %s)", b.lhs, sym, b.rhs)
}

func (b bvOpTerm) width() Sort { return TermSort(b.lhs) }

// BVAnd, BVOr and BVXor return the corresponding bitwise bit-vector
// operations, used throughout the encoder for guard-set unions (guard_set
// is a bitwise-OR reduction) and bit masking in eval_guard and the
// conjunctive initial-state inclusion.
func BVAnd(lhs, rhs Term) Term { return bvOpTerm{op: bvAnd, lhs: lhs, rhs: rhs} }
func BVOr(lhs, rhs Term) Term  { return bvOpTerm{op: bvOr, lhs: lhs, rhs: rhs} }
func BVXor(lhs, rhs Term) Term { return bvOpTerm{op: bvXor, lhs: lhs, rhs: rhs} }

// BVOrAll reduces terms by BVOr, left to right; it panics if terms is
// empty, since a guard_set with zero operands is a caller error (the
// "other processes" slice is never empty once blow-up padding runs).
func BVOrAll(terms ...Term) Term {
	if len(terms) == 0 {
		panic("smt: BVOrAll called with no operands")
	}
	acc := terms[0]
	for _, t := range terms[1:] {
		acc = BVOr(acc, t)
	}
	return acc
}

type bvCompareOp int

const (
	bvUGT bvCompareOp = iota
	bvUGE
)

type bvCompareTerm struct {
	op       bvCompareOp
	lhs, rhs Term
}

func (bvCompareTerm) isTerm() {}
func (b bvCompareTerm) String() string {
	sym := map[bvCompareOp]string{bvUGT: ">u", bvUGE: ">=u"}[b.op]
	return fmt.Sprintf("(%s %s %s)", b.lhs, sym, b.rhs)
}

// BVUGT and BVUGE compare two same-width bit-vectors as unsigned
// integers, used by the SCC-ranked λ^S rank condition (comparison is
// always unsigned > or ≥).
func BVUGT(lhs, rhs Term) Term { return bvCompareTerm{op: bvUGT, lhs: lhs, rhs: rhs} }
func BVUGE(lhs, rhs Term) Term { return bvCompareTerm{op: bvUGE, lhs: lhs, rhs: rhs} }

// IntGT and IntGE are the integer-sorted counterparts of BVUGT/BVUGE,
// used for the plain (non-SCC-ranked) λ^S rank condition.
func IntGT(lhs, rhs Term) Term { return bvCompareTerm{op: bvUGT, lhs: lhs, rhs: rhs} }
func IntGE(lhs, rhs Term) Term { return bvCompareTerm{op: bvUGE, lhs: lhs, rhs: rhs} }

type iteTerm struct {
	cond, then, els Term
}

func (iteTerm) isTerm() {}
func (i iteTerm) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", i.cond, i.then, i.els)
}

// Ite returns the if-then-else term, used by the label-guarded
// state_guard definition: one term per output bit, each either its
// weight or zero.
func Ite(cond, then, els Term) Term { return iteTerm{cond: cond, then: then, els: els} }

type rotl1Term struct {
	amount Term
	width  int
}

func (rotl1Term) isTerm() {}
func (r rotl1Term) String() string {
	return fmt.Sprintf("rotate_left(1, %s)", r.amount)
}

// RotateLeft1 returns the width-bit term for "1 rotated left by amount
// positions" (amount taken modulo width), as used by smt/labelguarded's
// state_guard definition. Since the left operand is always the single bit
// 1, this is exactly a one-hot bit-vector with the set bit at position
// (amount mod width) — rotation and left-shift coincide for a one-bit
// operand.
func RotateLeft1(amount Term, width int) Term { return rotl1Term{amount: amount, width: width} }
