package architecture

import (
	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/signal"
	"github.com/paramsynth/guardsynth/specification"
)

// cutoffStrategy isolates the two numbers that differ between guard
// regimes: the architecture-wide deadlock cut-off and the per-guarantee
// cut-off. Everything else (assumption/guarantee formula shapes,
// guarantee-instance dictionaries) is common to both regimes and lives on
// Architecture itself.
type cutoffStrategy interface {
	architectureCutoff(bound []int) []int
	guaranteeCutoff(guarantee specification.Formula, bound []int) ([]int, error)
}

// Architecture computes fairness assumptions/guarantees and cut-offs for a
// guarded system of templateCount templates under one of the two guard
// regimes. Construct one with NewConjunctive or NewDisjunctive.
type Architecture struct {
	templateCount int
	strategy      cutoffStrategy
}

// NewConjunctive returns an Architecture under the conjunctive-guard
// regime: guards require every template's initial state, so at most
// 2|T_l|-1 instances detect a deadlock.
func NewConjunctive(templateCount int) *Architecture {
	return &Architecture{templateCount: templateCount, strategy: conjunctiveStrategy{}}
}

// NewDisjunctive returns an Architecture under the disjunctive-guard
// regime: its deadlock cut-off is max(2|T_k|+1, 1) per template, and each
// guarantee gets its own property cut-off.
func NewDisjunctive(templateCount int) *Architecture {
	return &Architecture{templateCount: templateCount, strategy: disjunctiveStrategy{}}
}

// IsConjunctive reports whether a uses the conjunctive guard regime, for
// callers (the smt encoder) that must pick between the disjunctive and
// conjunctive eval_guard definitions and decide whether the
// conjunctive-only initial-state guard constraint applies.
func (a *Architecture) IsConjunctive() bool {
	_, ok := a.strategy.(conjunctiveStrategy)
	return ok
}

// ArchitectureAssumptions returns, for each template index in
// templateIndices, the fair-scheduling assumption
// Forall(j) G F (enabled_k_j * is_scheduled_k_j) — the deadlock-avoidance
// assumption every architecture contributes regardless of guard regime.
func (a *Architecture) ArchitectureAssumptions(templateIndices []int) ([]specification.Formula, error) {
	out := make([]specification.Formula, 0, len(templateIndices))
	for _, k := range templateIndices {
		conjunct := ast.And(
			ast.NewSignal(signal.NewQuantifiedTemplate("enabled", k, "j")),
			ast.NewSignal(signal.NewSchedulerPlaceholder(k, "j")),
		)
		f, err := specification.NewFormula(ast.NewForall(ast.GF(conjunct), "j"))
		if err != nil {
			return nil, wrap("ArchitectureAssumptions", err)
		}
		out = append(out, f)
	}
	return out, nil
}

// ArchitectureGuarantees returns, for each template index, the
// liveness guarantee Forall(j) G F init_k_j that the outer loop's
// deadlock-freedom check is built from.
func (a *Architecture) ArchitectureGuarantees(templateIndices []int) ([]specification.Formula, error) {
	out := make([]specification.Formula, 0, len(templateIndices))
	for _, k := range templateIndices {
		f, err := specification.NewFormula(ast.NewForall(
			ast.GF(ast.NewSignal(signal.NewQuantifiedTemplate("init", k, "j"))),
			"j",
		))
		if err != nil {
			return nil, wrap("ArchitectureGuarantees", err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Property pairs the architecture-level fairness assumptions a property
// cut-off computation needs with the guarantee those assumptions support,
// mirroring get_architecture_properties's list of (assumptions, guarantee)
// tuples.
type Property struct {
	Assumptions []specification.Formula
	Guarantee   specification.Formula
}

// ArchitectureProperties returns, for each template index, the property
// Forall(j) G F enabled_k_j, paired with the assumption set
// Forall(j) G F is_scheduled_k_j needed to prove it.
func (a *Architecture) ArchitectureProperties(templateIndices []int) ([]Property, error) {
	out := make([]Property, 0, len(templateIndices))
	for _, k := range templateIndices {
		assumption, err := specification.NewFormula(ast.NewForall(
			ast.GF(ast.NewSignal(signal.NewSchedulerPlaceholder(k, "j"))),
			"j",
		))
		if err != nil {
			return nil, wrap("ArchitectureProperties", err)
		}
		guarantee, err := specification.NewFormula(ast.NewForall(
			ast.GF(ast.NewSignal(signal.NewQuantifiedTemplate("enabled", k, "j"))),
			"j",
		))
		if err != nil {
			return nil, wrap("ArchitectureProperties", err)
		}
		out = append(out, Property{Assumptions: []specification.Formula{assumption}, Guarantee: guarantee})
	}
	return out, nil
}

// GuaranteeCutoff pairs a user guarantee with the cut-off tuple it forces.
type GuaranteeCutoff struct {
	Guarantee specification.Formula
	Cutoff    []int
}

// DetermineCutoffs computes the architecture-wide cut-off for bound and,
// for every guarantee in guarantees, its individual cut-off — raising the
// architecture-wide cut-off element-wise wherever a guarantee needs more
// instances than the deadlock cut-off alone provides (determine_cutoffs).
func (a *Architecture) DetermineCutoffs(bound []int, guarantees []specification.Formula) ([]int, []GuaranteeCutoff, error) {
	if len(bound) != a.templateCount {
		return nil, nil, wrap("DetermineCutoffs", ErrTemplateCountMismatch)
	}

	cutoff := a.strategy.architectureCutoff(bound)

	pairs := make([]GuaranteeCutoff, 0, len(guarantees))
	for _, g := range guarantees {
		gc, err := a.strategy.guaranteeCutoff(g, bound)
		if err != nil {
			return nil, nil, wrap("DetermineCutoffs", err)
		}
		for i := range cutoff {
			if gc[i] > cutoff[i] {
				cutoff[i] = gc[i]
			}
		}
		pairs = append(pairs, GuaranteeCutoff{Guarantee: g, Cutoff: gc})
	}

	return cutoff, pairs, nil
}

// GuaranteeInstanceDict returns, for each template guarantee touches, the
// set of local instance positions (0-based, relative to the guarantee's own
// bound index variables) the guarantee's cut-off computation expects.
// Multi-template guarantees always map each of their two templates to the
// single position {0}; single-template
// guarantees map their one template to {0} (one index variable) or
// {0,1} (two index variables).
func GuaranteeInstanceDict(guarantee specification.Formula) (map[int][]int, error) {
	indices := guarantee.TemplateIndices()

	if guarantee.IsMultiTemplateIndexed() {
		if len(indices) != 2 || len(guarantee.Indices()) != 2 {
			return nil, wrap("GuaranteeInstanceDict", ErrUnsupportedGuarantee)
		}
		out := make(map[int][]int, 2)
		for _, k := range indices {
			out[k] = []int{0}
		}
		return out, nil
	}

	if len(indices) != 1 {
		return nil, wrap("GuaranteeInstanceDict", ErrUnsupportedGuarantee)
	}
	n := len(guarantee.Indices())
	if n < 1 || n > 2 {
		return nil, wrap("GuaranteeInstanceDict", ErrUnsupportedGuarantee)
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return map[int][]int{indices[0]: positions}, nil
}
