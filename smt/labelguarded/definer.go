// Package labelguarded implements the label-guarded representation: a
// template's state_guard packs its current output valuation into a
// single one-hot bit, placed within a per-template slice of the shared
// guard bit-vector, plus a configurable number of "auxiliary" label bits
// the outer loop's iterative-deepening search can turn on one at a time.
package labelguarded

import (
	"fmt"

	"github.com/paramsynth/guardsynth/smt"
	"github.com/paramsynth/guardsynth/specification"
)

// Definer implements smt.StateGuardDefiner for the label-guarded
// representation. AuxBits[k] is the number of extra, unwired auxiliary
// label bits reserved in template k's slice of the guard bit-vector; a
// nil or short AuxBits means zero auxiliary bits for every template not
// named in it, i.e. no room for aux bits unless the caller asks for it.
//
// A Definer accumulates per-template aux function/switch handles as
// DefineStateGuard runs against each template in turn; construct one
// with New and pass the same value to every DefineStateGuard call made
// through one Encoder.
type Definer struct {
	AuxBits []int

	auxFns    [][]smt.FunctionHandle // per template, per aux index: aux_k_i : T_k -> Bool
	switchFns [][]smt.FunctionHandle // per template, per aux index: use_aux_k_i : () -> Bool
}

// New returns a Definer with the given per-template auxiliary bit
// counts (see Definer.AuxBits).
func New(auxBits []int) *Definer {
	return &Definer{AuxBits: append([]int(nil), auxBits...)}
}

func (d *Definer) auxBitsFor(k int) int {
	if k < len(d.AuxBits) {
		return d.AuxBits[k]
	}
	return 0
}

// sliceSize returns the width of template k's slice of the guard
// bit-vector: one label-index bit per combination of its output values
// (2**|outputs|), plus its configured auxiliary bits.
func (d *Definer) sliceSize(spec *specification.Specification, k int) int {
	outputs := len(spec.Template(k).Outputs())
	return (1 << uint(outputs)) + d.auxBitsFor(k)
}

// GuardSize returns the sum of every template's slice size.
func (d *Definer) GuardSize(spec *specification.Specification) int {
	total := 0
	for k := range spec.Templates() {
		total += d.sliceSize(spec, k)
	}
	return total
}

// offset returns the sum of the slice sizes of every template strictly
// before k, the bit position at which k's own slice begins.
func (d *Definer) offset(spec *specification.Specification, k int) int {
	offset := 0
	for j := 0; j < k; j++ {
		offset += d.sliceSize(spec, j)
	}
	return offset
}

// DefineStateGuard declares tf.StateGuard, tf's auxiliary label
// functions and their use-switches, and asserts state_guard(t) :=
// rotate_left(1, function_body(t)), where function_body ORs in, for
// every output bit i currently true at t, the weight 1 <<
// (offset+i) — offset being this template's slice start within the
// shared guard bit-vector.
//
// The auxiliary label functions and their use-switches are declared here
// (so later rounds can reference them through AuxSwitches) but are never
// folded into the state_guard formula itself: they exist purely for
// Check's iterative-deepening search over which labels the current round
// is allowed to distinguish on, not for the guard value each state
// produces. Consequently that search currently explores a family of
// aux-switch configurations that all compile down to the identical
// state_guard/eval_guard semantics — the search can rule nothing in or
// out until function_body actually consumes an aux bit.
func (d *Definer) DefineStateGuard(e *smt.Encoder, tf *smt.TemplateFunction) error {
	k := tf.Template.Index()
	width := e.GuardSize
	offset := d.offset(e.Spec, k)
	outputs := tf.Template.Outputs()

	if err := d.declareAuxLabels(e, tf, k); err != nil {
		return err
	}

	fn, err := e.Solver.DeclareFunction(fmt.Sprintf("state_guard_%d", k), []smt.Sort{tf.StateSort}, smt.BitVec(width))
	if err != nil {
		return err
	}
	tf.StateGuard = fn

	t := smt.Var("sg_t", tf.StateSort)
	var body smt.Term = smt.BitVecLit(0, width)
	if len(outputs) > 0 {
		terms := make([]smt.Term, len(outputs))
		for i, out := range outputs {
			outFn := tf.OutputFunctions[out.String()]
			weight := smt.BitVecLit(uint64(1)<<uint(offset+i), width)
			terms[i] = smt.Ite(smt.Apply(outFn, t), weight, smt.BitVecLit(0, width))
		}
		body = smt.BVOrAll(terms...)
	}

	e.Solver.Assert(smt.ForAll([]smt.Term{t}, smt.Eq(smt.Apply(fn, t), smt.RotateLeft1(body, width))))
	return nil
}

// declareAuxLabels declares the auxBitsFor(k) aux_k_i : T_k -> Bool
// functions and their use_aux_k_i : () -> Bool switches, growing
// d.auxFns/d.switchFns to cover template k.
func (d *Definer) declareAuxLabels(e *smt.Encoder, tf *smt.TemplateFunction, k int) error {
	for len(d.auxFns) <= k {
		d.auxFns = append(d.auxFns, nil)
		d.switchFns = append(d.switchFns, nil)
	}

	n := d.auxBitsFor(k)
	for i := 0; i < n; i++ {
		auxFn, err := e.Solver.DeclareFunction(fmt.Sprintf("aux_%d_%d", k, i), []smt.Sort{tf.StateSort}, smt.BoolSort)
		if err != nil {
			return err
		}
		switchFn, err := e.Solver.DeclareFunction(fmt.Sprintf("use_aux_%d_%d", k, i), nil, smt.BoolSort)
		if err != nil {
			return err
		}
		d.auxFns[k] = append(d.auxFns[k], auxFn)
		d.switchFns[k] = append(d.switchFns[k], switchFn)
	}
	return nil
}

// AuxSwitches returns every declared use_aux_k_i term, in template
// then aux-index order, for Check's iterative-deepening search. It is
// valid only after DefineStateGuard has run for every template (i.e.
// after Encoder.Encode has returned).
func (d *Definer) AuxSwitches() []smt.Term {
	var out []smt.Term
	for _, perTemplate := range d.switchFns {
		for _, fn := range perTemplate {
			out = append(out, smt.Apply(fn))
		}
	}
	return out
}
