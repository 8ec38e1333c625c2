package architecture

import "github.com/paramsynth/guardsynth/specification"

// conjunctiveStrategy implements cutoffStrategy for the conjunctive-guard
// regime. Guards additionally require every template's initial state, so
// at most 2|T_l|-1 instances are needed to force a deadlock into view; the
// property cut-offs are correspondingly smaller than the disjunctive case.
type conjunctiveStrategy struct{}

func (conjunctiveStrategy) architectureCutoff(bound []int) []int {
	out := make([]int, len(bound))
	for i, b := range bound {
		out[i] = max2(2*b-1, 1)
	}
	return out
}

func (conjunctiveStrategy) guaranteeCutoff(guarantee specification.Formula, bound []int) ([]int, error) {
	indices := guarantee.TemplateIndices()
	out := make([]int, len(bound))

	if guarantee.IsMultiTemplateIndexed() {
		if len(indices) != 2 || len(guarantee.Indices()) != 2 {
			return nil, wrap("guaranteeCutoff", ErrUnsupportedGuarantee)
		}
		for i := range bound {
			out[i] = 1 + boolToInt(containsInt(indices, i), 1)
		}
		return out, nil
	}

	if len(indices) != 1 {
		return nil, wrap("guaranteeCutoff", ErrUnsupportedGuarantee)
	}
	n := len(guarantee.Indices())
	if n < 1 || n > 2 {
		return nil, wrap("guaranteeCutoff", ErrUnsupportedGuarantee)
	}
	for i := range bound {
		out[i] = 1 + boolToInt(containsInt(indices, i), n)
	}
	return out, nil
}
