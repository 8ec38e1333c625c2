package labelguarded

import (
	"context"

	"github.com/paramsynth/guardsynth/smt"
)

// Check runs the label-guarded encoding's satisfiability search against
// solver: every other encoding produced by a single smt.Encoder.Encode
// call just delegates straight to solver.Check, but the label-guarded
// representation additionally searches over how many of its declared
// auxiliary labels the current round is allowed to use, from none up to
// all of them, accepting the first count that yields a satisfying
// assignment.
//
// If def declared no auxiliary labels at all, Check is exactly
// solver.Check: no aux-count search runs.
//
// Check captures the model via solver.Model() immediately after a Sat
// Check, before popping the frame that pinned the aux-switch values —
// Solver.Model's contract only guarantees validity up to the next
// Push/Pop/Assert.
func Check(ctx context.Context, solver smt.Solver, def *Definer) (smt.Result, smt.Model, error) {
	switches := def.AuxSwitches()
	if len(switches) == 0 {
		res, err := solver.Check(ctx)
		if err != nil {
			return smt.Unknown, nil, wrap("Check", err)
		}
		if res != smt.Sat {
			return res, nil, nil
		}
		model, err := solver.Model()
		if err != nil {
			return smt.Unknown, nil, wrap("Check", err)
		}
		return smt.Sat, model, nil
	}

	for n := 0; n <= len(switches); n++ {
		solver.Push()
		for i := 0; i < n; i++ {
			solver.Assert(switches[i])
		}
		for i := n; i < len(switches); i++ {
			solver.Assert(smt.Not(switches[i]))
		}

		res, err := solver.Check(ctx)
		if err != nil {
			solver.Pop()
			return smt.Unknown, nil, wrap("Check", err)
		}
		if res == smt.Sat {
			model, err := solver.Model()
			if err != nil {
				solver.Pop()
				return smt.Unknown, nil, wrap("Check", err)
			}
			solver.Pop()
			return smt.Sat, model, nil
		}
		solver.Pop()
	}
	return smt.Unsat, nil, wrap("Check", ErrNoSatisfyingAuxConfiguration)
}
