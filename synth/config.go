package synth

import (
	"github.com/rs/zerolog"

	"github.com/paramsynth/guardsynth/architecture"
	"github.com/paramsynth/guardsynth/ltltranslate"
	"github.com/paramsynth/guardsynth/smt"
	"github.com/paramsynth/guardsynth/specification"
)

// defaultMaxIncrements mirrors the CLI's --max-increments default.
const defaultMaxIncrements = 1024

// SolverFactory builds a fresh Solver for one outer-loop round. The
// outer loop never reuses a Solver across rounds: solver handle and
// encoder state are owned exclusively by the outer-loop round.
type SolverFactory func() smt.Solver

// Config holds everything one call to Run needs: the specification and
// architecture to synthesize against, the LTL-to-UCW translator and
// solver backend, the outer loop's search parameters, and the guard
// representation to encode with.
type Config struct {
	Spec         *specification.Specification
	Architecture *architecture.Architecture
	Translator   ltltranslate.Translator
	NewSolver    SolverFactory

	// MinBound is the starting per-template state bound. A single-element
	// slice applies to every template; otherwise its length must equal
	// Spec.TemplatesCount().
	MinBound []int
	// MaxIncrements caps the number of rounds attempted before Run gives
	// up; <= 0 defaults to 1024.
	MaxIncrements int
	// InstanceCount is the user-specified upper bound on per-template
	// instance count every round's cut-off is truncated against. Same
	// scalar-or-full-length shape rule as MinBound.
	InstanceCount []int
	// TestMode sets every round's cut-off directly to InstanceCount,
	// disabling symmetry-reduction gains.
	TestMode bool

	Optimization smt.EncodingOptimization
	// LabelGuards selects the label-guarded encoding; false selects the
	// state-guarded one.
	LabelGuards bool
	// AuxBits is passed to smt/labelguarded.New when LabelGuards is set;
	// ignored otherwise.
	AuxBits []int

	Logger zerolog.Logger
}

// expand resolves a scalar-or-full-length slice against templateCount,
// returning ErrBoundShapeMismatch/ErrInstanceCountShapeMismatch-wrapped
// errors via the caller-supplied mismatch error for any other length.
func expand(vals []int, templateCount int, mismatch error) ([]int, error) {
	switch len(vals) {
	case templateCount:
		return append([]int(nil), vals...), nil
	case 1:
		out := make([]int, templateCount)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	default:
		return nil, mismatch
	}
}

// resolved is Config after scalar expansion and default-filling, the
// shape Run's loop actually iterates over.
type resolved struct {
	minBound      []int
	instanceCount []int
	maxIncrements int
}

func (cfg Config) resolve() (resolved, error) {
	if cfg.Spec == nil || cfg.Architecture == nil || cfg.Translator == nil || cfg.NewSolver == nil {
		return resolved{}, ErrMissingConfig
	}

	n := cfg.Spec.TemplatesCount()

	minBound, err := expand(cfg.MinBound, n, ErrBoundShapeMismatch)
	if err != nil {
		return resolved{}, err
	}
	instanceCount, err := expand(cfg.InstanceCount, n, ErrInstanceCountShapeMismatch)
	if err != nil {
		return resolved{}, err
	}

	maxIncrements := cfg.MaxIncrements
	if maxIncrements <= 0 {
		maxIncrements = defaultMaxIncrements
	}

	return resolved{minBound: minBound, instanceCount: instanceCount, maxIncrements: maxIncrements}, nil
}
