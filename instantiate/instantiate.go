package instantiate

import (
	"sort"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/signal"
	"github.com/paramsynth/guardsynth/specification"
)

// Instantiator expands quantified formulas against a fixed Specification,
// resolving is_scheduled_k_j placeholders against the specification's
// current scheduling-signal assignment (spec.Specification.SchedulingValues).
//
// An Instantiator is cheap to construct and holds no mutable state of its
// own; build one per outer-loop round, after the round's bound/cut-off has
// been installed on spec via SetBound/SetCutoff.
type Instantiator struct {
	spec *specification.Specification
}

// New returns an Instantiator reading scheduling data from spec.
func New(spec *specification.Specification) *Instantiator {
	return &Instantiator{spec: spec}
}

// Instantiate expands formula into the conjunction-ready list of concrete
// per-instance expressions, one per surviving index-value combination.
// templateValues maps each template index the formula quantifies over to
// the concrete instance positions (typically 0..cutoff[k]-1) to range over.
//
// Redundant combinations are dropped: a combination is skipped unless its
// values are non-decreasing in index-name order, and — for a formula that
// is multi-indexed but single-template — unless its two values also differ
// (i,j and j,i, and i,i are all symmetric/degenerate re-derivations of the
// same constraint).
func (ins *Instantiator) Instantiate(formula specification.Formula, templateValues map[int][]int) ([]ast.Expr, error) {
	indexTemplate := make(map[string]int)
	for k, names := range formula.TemplateInstanceIndexDict() {
		for _, name := range names {
			indexTemplate[name] = k
		}
	}

	indexNames := formula.Indices()
	valuesTuple := make([][]int, len(indexNames))
	for i, name := range indexNames {
		k, ok := indexTemplate[name]
		if !ok {
			return nil, wrap("Instantiate", ErrNoInstanceValues)
		}
		values, ok := templateValues[k]
		if !ok {
			return nil, wrap("Instantiate", ErrNoInstanceValues)
		}
		valuesTuple[i] = values
	}

	singleTemplateMultiIndexed := !formula.IsMultiTemplateIndexed() && formula.IsMultiIndexed()
	inner := formula.Expr().Arg

	var instances []ast.Expr
	for _, combo := range cartesianProduct(valuesTuple) {
		if !nonDecreasing(combo) {
			continue
		}
		if singleTemplateMultiIndexed && combo[0] == combo[1] {
			continue
		}

		valueDict := make(map[string]int, len(indexNames))
		for i, name := range indexNames {
			valueDict[name] = combo[i]
		}
		instances = append(instances, ins.substitute(inner, valueDict))
	}

	return instances, nil
}

// substitute rewrites expr's quantified-template and scheduler-placeholder
// signals according to valueDict, leaving every other node shape
// structurally intact.
func (ins *Instantiator) substitute(expr ast.Expr, valueDict map[string]int) ast.Expr {
	switch v := expr.(type) {
	case ast.UnaryOp:
		return ast.UnaryOp{Op: v.Op, Arg: ins.substitute(v.Arg, valueDict)}
	case ast.BinOp:
		return ast.BinOp{
			Op:   v.Op,
			Arg1: ins.substitute(v.Arg1, valueDict),
			Arg2: ins.substitute(v.Arg2, valueDict),
		}
	case ast.Sig:
		return ins.substituteSignal(v.Signal, valueDict)
	default:
		return expr
	}
}

// substituteSignal resolves a single signal leaf. SchedulerPlaceholder
// expands into the conjunction over Boolean scheduling signals that
// encodes "this instance is currently scheduled"; QuantifiedTemplate
// resolves its one binding index into a concrete Instance signal; every
// other signal variant (Plain, Template, already-resolved Instance) passes
// through unchanged.
func (ins *Instantiator) substituteSignal(sig signal.Signal, valueDict map[string]int) ast.Expr {
	switch s := sig.(type) {
	case signal.SchedulerPlaceholder:
		index := valueDict[s.Binding[0]]
		assignment := ins.spec.SchedulingValues()[specification.Instance{Template: s.Template, Index: index}]
		signals := ins.spec.SchedulingSignals()

		conjuncts := make([]ast.Expr, len(signals))
		for i, bit := range assignment {
			if bit {
				conjuncts[i] = ast.NewSignal(signals[i])
			} else {
				conjuncts[i] = ast.Not(ast.NewSignal(signals[i]))
			}
		}
		return ast.And(conjuncts...)

	case signal.QuantifiedTemplate:
		index := valueDict[s.Binding[0]]
		return ast.NewSignal(signal.NewInstance(s.Name, s.Template, index))

	default:
		return ast.NewSignal(sig)
	}
}

// cartesianProduct returns every combination formed by taking one element
// from each slice in dims, in dims order. An empty dims yields a single
// empty combination; any empty dimension yields no combinations at all.
func cartesianProduct(dims [][]int) [][]int {
	combos := [][]int{{}}
	for _, dim := range dims {
		next := make([][]int, 0, len(combos)*len(dim))
		for _, combo := range combos {
			for _, v := range dim {
				extended := append(append([]int(nil), combo...), v)
				next = append(next, extended)
			}
		}
		combos = next
	}
	return combos
}

// nonDecreasing reports whether values is sorted in non-decreasing order,
// vacuously true for 0- or 1-length slices.
func nonDecreasing(values []int) bool {
	return sort.IntsAreSorted(values)
}
