package synth

import (
	"github.com/paramsynth/guardsynth/architecture"
	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/instantiate"
	"github.com/paramsynth/guardsynth/specification"
)

// roundProperty is one (assumption-set, guarantee, cutoff, is
// architecture-specific) entry of a round's property list: architecture
// properties first, then the per-template deadlock-freedom guarantees,
// then the user-supplied guarantees, in that order.
type roundProperty struct {
	Assumptions          []specification.Formula
	Guarantee            specification.Formula
	Cutoff               []int
	ArchitectureSpecific bool
}

// effectiveCutoff is the cut-off tuple this property is actually
// instantiated and encoded against. A property whose own cut-off
// exceeds the round's global cut-off cannot be instantiated over that
// many instances — the encoder only ever declares globalCutoff many
// process slots per template — so it falls back to globalCutoff instead.
func (p roundProperty) effectiveCutoff(globalCutoff []int) []int {
	if p.ArchitectureSpecific {
		return globalCutoff
	}
	return p.Cutoff
}

func allTemplateIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// buildProperties assembles the round's full property list from the
// architecture's own properties and guarantees plus the specification's
// user guarantees: architecture properties, then architecture deadlock
// guarantees, then user guarantees, before instantiation.
func buildProperties(templateCount int, arch *architecture.Architecture, cutoff []int, guaranteeCutoffs []architecture.GuaranteeCutoff) ([]roundProperty, error) {
	indices := allTemplateIndices(templateCount)

	archProperties, err := arch.ArchitectureProperties(indices)
	if err != nil {
		return nil, wrap("buildProperties", err)
	}

	var out []roundProperty
	for _, p := range archProperties {
		out = append(out, roundProperty{
			Assumptions: p.Assumptions,
			Guarantee:   p.Guarantee,
			Cutoff:      cutoff,
		})
	}

	archAssumptions, err := arch.ArchitectureAssumptions(indices)
	if err != nil {
		return nil, wrap("buildProperties", err)
	}
	archGuarantees, err := arch.ArchitectureGuarantees(indices)
	if err != nil {
		return nil, wrap("buildProperties", err)
	}

	for _, g := range archGuarantees {
		out = append(out, roundProperty{
			Assumptions: archAssumptions,
			Guarantee:   g,
			Cutoff:      cutoff,
		})
	}

	for _, gc := range guaranteeCutoffs {
		archSpecific := false
		for i := range cutoff {
			if gc.Cutoff[i] > cutoff[i] {
				archSpecific = true
				break
			}
		}
		out = append(out, roundProperty{
			Assumptions:          archAssumptions,
			Guarantee:            gc.Guarantee,
			Cutoff:               gc.Cutoff,
			ArchitectureSpecific: archSpecific,
		})
	}

	return out, nil
}

// templateValuesFor builds the concrete 0..cutoff[k]-1 instance-value
// range for every template f quantifies over, the templateValues
// argument instantiate.Instantiator.Instantiate expects.
func templateValuesFor(f specification.Formula, cutoff []int) map[int][]int {
	out := make(map[int][]int, len(f.TemplateIndices()))
	for _, k := range f.TemplateIndices() {
		values := make([]int, cutoff[k])
		for i := range values {
			values[i] = i
		}
		out[k] = values
	}
	return out
}

// instantiateAndJoin instantiates every formula in formulas against
// cutoff and and-joins every surviving instance across every formula
// into one expression. An empty formulas list correctly yields ast.True
// via ast.And's own elision.
func instantiateAndJoin(ins *instantiate.Instantiator, cutoff []int, formulas []specification.Formula) (ast.Expr, error) {
	var conjuncts []ast.Expr
	for _, f := range formulas {
		instances, err := ins.Instantiate(f, templateValuesFor(f, cutoff))
		if err != nil {
			return nil, wrap("instantiateAndJoin", err)
		}
		conjuncts = append(conjuncts, instances...)
	}
	return ast.And(conjuncts...), nil
}

// instantiatedExpr builds the single Boolean expression a property
// contributes to the round's SMT encoding: its instantiated guarantee
// alone if the guarantee is a safety property, or its instantiated
// assumptions implying its instantiated guarantee (via Implies) if the
// guarantee is a liveness property and carries assumptions.
func instantiatedExpr(ins *instantiate.Instantiator, cutoff []int, p roundProperty, isLiveness bool) (ast.Expr, error) {
	guarantee, err := instantiateAndJoin(ins, cutoff, []specification.Formula{p.Guarantee})
	if err != nil {
		return nil, err
	}
	if !isLiveness || len(p.Assumptions) == 0 {
		return guarantee, nil
	}
	assumption, err := instantiateAndJoin(ins, cutoff, p.Assumptions)
	if err != nil {
		return nil, err
	}
	return ast.Implies(assumption, guarantee), nil
}
