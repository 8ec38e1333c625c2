package architecture

import "github.com/paramsynth/guardsynth/specification"

// disjunctiveStrategy implements cutoffStrategy for the disjunctive-guard
// regime: a deadlock cut-off of max(2|T_k|+1, 1) per template, plus the
// property cut-offs below.
type disjunctiveStrategy struct{}

func (disjunctiveStrategy) architectureCutoff(bound []int) []int {
	out := make([]int, len(bound))
	for i, b := range bound {
		out[i] = max2(2*b+1, 1)
	}
	return out
}

func (disjunctiveStrategy) guaranteeCutoff(guarantee specification.Formula, bound []int) ([]int, error) {
	indices := guarantee.TemplateIndices()
	out := make([]int, len(bound))

	if guarantee.IsMultiTemplateIndexed() {
		if len(indices) != 2 || len(guarantee.Indices()) != 2 {
			return nil, wrap("guaranteeCutoff", ErrUnsupportedGuarantee)
		}
		for i := range bound {
			out[i] = 2*bound[i] + boolToInt(containsInt(indices, i), 1)
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
		out[i] = 2*bound[i] + boolToInt(containsInt(indices, i), n)
	}
	return out, nil
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func boolToInt(cond bool, v int) int {
	if cond {
		return v
	}
	return 0
}
