// Package stateguarded implements the state-guarded representation: the
// shared guard bit-vector has one bit per global state (summed across
// every template's bound), and a template's state_guard function maps
// each of its own states to the single bit reserved for it.
package stateguarded

import (
	"fmt"

	"github.com/paramsynth/guardsynth/smt"
	"github.com/paramsynth/guardsynth/specification"
)

// Definer implements smt.StateGuardDefiner for the state-guarded
// representation. Its zero value is ready to use.
type Definer struct{}

// GuardSize returns the sum of every template's bound: the global state
// space width, one bit per state.
func (Definer) GuardSize(spec *specification.Specification) int {
	total := 0
	for _, t := range spec.Templates() {
		total += t.Bound()
	}
	return total
}

// DefineStateGuard declares tf.StateGuard and pins its value at every one
// of tf.Template's concrete states to the single global bit reserved for
// that state: bit_offset(k) + i, where bit_offset(k) is the sum of the
// bounds of every template before k.
//
// Because a template's state sort is a finite enumeration, every state's
// guard value is asserted directly by its concrete constructor rather
// than through a quantified body; the one-hot, offset-disjoint bit
// layout this produces already guarantees the representation's two
// invariants without a separate assertion: two states are guaranteed
// never to share a bit (disjointness), and every state's guard is
// guaranteed non-zero.
func (d Definer) DefineStateGuard(e *smt.Encoder, tf *smt.TemplateFunction) error {
	width := e.GuardSize
	offset := bitOffset(e.Spec, tf.Template.Index())

	fn, err := e.Solver.DeclareFunction(fmt.Sprintf("state_guard_%d", tf.Template.Index()), []smt.Sort{tf.StateSort}, smt.BitVec(width))
	if err != nil {
		return err
	}
	tf.StateGuard = fn

	for i := 0; i < tf.Template.Bound(); i++ {
		bit := uint64(1) << uint(offset+i)
		e.Solver.Assert(smt.Eq(smt.Apply(fn, tf.State(i)), smt.BitVecLit(bit, width)))
	}
	return nil
}

// bitOffset returns the sum of the bounds of every template strictly
// before k, the slice start this template's states occupy within the
// shared guard bit-vector.
func bitOffset(spec *specification.Specification, k int) int {
	offset := 0
	for j := 0; j < k; j++ {
		offset += spec.Template(j).Bound()
	}
	return offset
}
