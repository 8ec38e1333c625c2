// Package synth implements the outer bounded-synthesis loop: round by
// round it grows the per-template state bound, recomputes the
// architecture cut-off, builds the round's property list, instantiates
// and translates each property to a UCW, encodes the whole round
// against a fresh solver, and returns the first satisfying model — or
// nil once max_increments rounds are exhausted.
package synth

import (
	"context"
	"errors"

	"github.com/paramsynth/guardsynth/automaton"
	"github.com/paramsynth/guardsynth/instantiate"
	"github.com/paramsynth/guardsynth/ltltranslate"
	"github.com/paramsynth/guardsynth/model"
	"github.com/paramsynth/guardsynth/smt"
	"github.com/paramsynth/guardsynth/smt/labelguarded"
	"github.com/paramsynth/guardsynth/smt/stateguarded"
	"github.com/paramsynth/guardsynth/specification"
)

// Run searches for a synthesized system satisfying cfg.Spec under
// cfg.Architecture, returning the first model found, or (nil, nil) if
// no round up to cfg.MaxIncrements (default 1024) satisfies.
//
// cfg.Spec must carry no assumptions beyond the architecture-induced
// fairness ones synthesis adds on its own; any other specification-level
// assumption is rejected.
func Run(ctx context.Context, cfg Config) (*model.SystemModel, error) {
	if len(cfg.Spec.Assumptions()) > 0 {
		return nil, wrap("Run", ErrUnsupportedAssumptions)
	}

	r, err := cfg.resolve()
	if err != nil {
		return nil, wrap("Run", err)
	}

	logger := cfg.Logger

	for round := 0; round < r.maxIncrements; round++ {
		bound := make([]int, len(r.minBound))
		for i, b := range r.minBound {
			bound[i] = b + round
		}
		if err := cfg.Spec.SetBound(bound); err != nil {
			return nil, wrap("Run", err)
		}
		logger.Debug().Ints("bound", bound).Int("round", round).Msg("set bound")

		cutoff, guaranteeCutoffs, err := cfg.Architecture.DetermineCutoffs(bound, cfg.Spec.Guarantees())
		if err != nil {
			return nil, wrap("Run", err)
		}

		if cfg.TestMode {
			cutoff = append([]int(nil), r.instanceCount...)
			for i := range guaranteeCutoffs {
				guaranteeCutoffs[i].Cutoff = cutoff
			}
		} else {
			cutoff = truncate(cutoff, r.instanceCount)
			for i := range guaranteeCutoffs {
				guaranteeCutoffs[i].Cutoff = truncate(guaranteeCutoffs[i].Cutoff, r.instanceCount)
			}
		}

		if err := cfg.Spec.SetCutoff(cutoff); err != nil {
			return nil, wrap("Run", err)
		}
		logger.Info().Ints("cutoff", cutoff).Int("round", round).Msg("cut-off determined")

		props, err := buildProperties(cfg.Spec.TemplatesCount(), cfg.Architecture, cutoff, guaranteeCutoffs)
		if err != nil {
			return nil, wrap("Run", err)
		}

		infos, err := translateProperties(ctx, cfg.Translator, instantiate.New(cfg.Spec), cutoff, props)
		if err != nil {
			return nil, wrap("Run", err)
		}

		sys, err := encodeAndCheck(ctx, cfg, infos)
		if err != nil {
			return nil, wrap("Run", err)
		}
		if sys != nil {
			return sys, nil
		}
		logger.Info().Int("round", round).Msg("round unsat, growing bound")
	}

	return nil, nil
}

// truncate caps cutoff elementwise so it never exceeds instanceCount.
func truncate(cutoff, instanceCount []int) []int {
	out := make([]int, len(cutoff))
	for i := range cutoff {
		out[i] = cutoff[i]
		if out[i] > instanceCount[i] {
			out[i] = instanceCount[i]
		}
	}
	return out
}

// translateProperties instantiates every round property and converts
// its resulting expression to a UCW, pairing each with the
// smt.AutomatonInfo the encoder needs.
func translateProperties(ctx context.Context, tr ltltranslate.Translator, ins *instantiate.Instantiator, cutoff []int, props []roundProperty) ([]smt.AutomatonInfo, error) {
	infos := make([]smt.AutomatonInfo, 0, len(props))
	for i, p := range props {
		liveness, err := isLiveness(ctx, tr, p.Guarantee)
		if err != nil {
			return nil, wrap("translateProperties", err)
		}

		eff := p.effectiveCutoff(cutoff)
		expr, err := instantiatedExpr(ins, eff, p, liveness)
		if err != nil {
			return nil, wrap("translateProperties", err)
		}

		a, err := tr.ToUCW(ctx, expr)
		if err != nil {
			return nil, wrap("translateProperties", err)
		}

		infos = append(infos, smt.AutomatonInfo{
			Automaton:            a,
			Index:                i,
			ArchitectureSpecific: p.ArchitectureSpecific,
			Cutoff:               eff,
		})
	}
	return infos, nil
}

// isLiveness classifies a guarantee by translating its raw,
// uninstantiated inner expression and checking whether the resulting
// UCW is a safety automaton. Quantification and binding-variable
// identity never affect an automaton's structure, only each atom's
// string identity does, so the classification is valid before
// instantiation and is independent of the later instantiate-and-translate
// pass over the guarantee itself.
func isLiveness(ctx context.Context, tr ltltranslate.Translator, g specification.Formula) (bool, error) {
	a, err := tr.ToUCW(ctx, g.Expr().Arg)
	if err != nil {
		return false, err
	}
	return !automaton.IsSafety(a), nil
}

// encodeAndCheck builds a fresh encoder and solver for this round,
// encodes the template skeleton and every property's automaton, runs
// the satisfiability check appropriate to the selected guard
// representation, and extracts a SystemModel on Sat. It returns
// (nil, nil) on Unsat or on the label-guarded representation's "no aux
// configuration satisfies" result — both are round-level UNSAT
// outcomes, not errors.
func encodeAndCheck(ctx context.Context, cfg Config, infos []smt.AutomatonInfo) (*model.SystemModel, error) {
	solver := cfg.NewSolver()

	var definer smt.StateGuardDefiner
	var labelDefiner *labelguarded.Definer
	if cfg.LabelGuards {
		labelDefiner = labelguarded.New(cfg.AuxBits)
		definer = labelDefiner
	} else {
		definer = stateguarded.Definer{}
	}

	enc := smt.NewEncoder(solver, cfg.Spec, cfg.Architecture, definer, cfg.Optimization)
	if err := enc.Encode(); err != nil {
		return nil, wrap("encodeAndCheck", err)
	}
	if err := enc.EncodeAutomata(infos); err != nil {
		return nil, wrap("encodeAndCheck", err)
	}

	var res smt.Result
	var mdl smt.Model
	var err error
	if labelDefiner != nil {
		res, mdl, err = labelguarded.Check(ctx, solver, labelDefiner)
		if err != nil {
			if errors.Is(err, labelguarded.ErrNoSatisfyingAuxConfiguration) {
				return nil, nil
			}
			return nil, wrap("encodeAndCheck", err)
		}
	} else {
		res, err = solver.Check(ctx)
		if err != nil {
			return nil, wrap("encodeAndCheck", err)
		}
		if res == smt.Sat {
			mdl, err = solver.Model()
			if err != nil {
				return nil, wrap("encodeAndCheck", err)
			}
		}
	}

	switch res {
	case smt.Sat:
		sys, err := model.Extract(enc.TemplateFunctions(), mdl)
		if err != nil {
			return nil, wrap("encodeAndCheck", err)
		}
		return sys, nil
	case smt.Unsat:
		return nil, nil
	default:
		return nil, wrap("encodeAndCheck", ErrUnknownResult)
	}
}
