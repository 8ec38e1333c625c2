package specification

import (
	"sort"

	"github.com/paramsynth/guardsynth/ast"
	"github.com/paramsynth/guardsynth/signal"
)

// Formula wraps a ForallExpr from the specification file (an assumption or
// a guarantee) together with the template/index bookkeeping the
// architecture and instantiator need: which templates it touches, which
// index variables bind them, and whether it is single- or multi-template
// indexed.
type Formula struct {
	expr            ast.ForallExpr
	templateIndices []int
	indices         []string
	perTemplate     map[int][]string
}

// NewFormula validates and wraps expr. It returns *SpecificationError
// wrapping ErrNotFullyQuantified, ErrTooManyTemplates, or ErrTooManyIndices
// when expr does not meet this module's shape invariants: the root must be
// a Forall, touch at most two templates, and bind at most two indices.
func NewFormula(expr ast.Expr) (Formula, error) {
	forall, ok := expr.(ast.ForallExpr)
	if !ok {
		return Formula{}, wrap("NewFormula", ErrNotFullyQuantified)
	}

	signals := ast.CollectSignals(forall)
	perTemplate := make(map[int][]string)
	for _, s := range signals.Slice() {
		k, binding, ok := templateAndBinding(s)
		if !ok {
			continue
		}
		perTemplate[k] = mergeBinding(perTemplate[k], binding)
	}

	templateIndices := make([]int, 0, len(perTemplate))
	for k := range perTemplate {
		templateIndices = append(templateIndices, k)
	}
	sort.Ints(templateIndices)

	if len(templateIndices) == 0 {
		return Formula{}, wrap("NewFormula", ErrTooManyIndices)
	}
	if len(templateIndices) > 2 {
		return Formula{}, wrap("NewFormula", ErrTooManyTemplates)
	}

	f := Formula{expr: forall, templateIndices: templateIndices, perTemplate: perTemplate}
	f.indices = append([]string(nil), forall.Binding...)
	sort.Strings(f.indices)

	if len(f.indices) > 2 {
		return Formula{}, wrap("NewFormula", ErrTooManyIndices)
	}
	if len(templateIndices) == 2 && len(f.indices) != 2 {
		return Formula{}, wrap("NewFormula", ErrTooManyIndices)
	}

	return f, nil
}

// templateAndBinding extracts the owning template index and the binding
// index-variable names from a quantified signal, returning ok=false for
// plain/instance/resolved signals that carry no template-quantifier
// information.
func templateAndBinding(s signal.Signal) (int, []string, bool) {
	switch v := s.(type) {
	case signal.QuantifiedTemplate:
		return v.Template, v.Binding, true
	case signal.SchedulerPlaceholder:
		return v.Template, v.Binding, true
	default:
		return 0, nil, false
	}
}

// mergeBinding returns the union of existing and next, preserving existing
// order and appending any genuinely new names.
func mergeBinding(existing, next []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e] = struct{}{}
	}
	out := append([]string(nil), existing...)
	for _, n := range next {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// Expr returns the underlying Forall expression.
func (f Formula) Expr() ast.ForallExpr { return f.expr }

// TemplateIndices returns the (sorted, deduplicated) template indices this
// formula quantifies over.
func (f Formula) TemplateIndices() []int {
	return append([]int(nil), f.templateIndices...)
}

// Indices returns the (sorted) index-variable names bound by the formula's
// Forall.
func (f Formula) Indices() []string {
	return append([]string(nil), f.indices...)
}

// IsMultiTemplateIndexed reports whether the formula references exactly two
// distinct templates.
func (f Formula) IsMultiTemplateIndexed() bool { return len(f.templateIndices) == 2 }

// IsMultiIndexed reports whether the formula binds exactly two index
// variables.
func (f Formula) IsMultiIndexed() bool { return len(f.indices) == 2 }

// TemplateInstanceIndexDict returns, for each template this formula
// touches, the set of index-variable names binding it, used by the
// instantiator to build the Cartesian-product value tuple in canonical
// (sorted) index-name order.
func (f Formula) TemplateInstanceIndexDict() map[int][]string {
	out := make(map[int][]string, len(f.perTemplate))
	for k, v := range f.perTemplate {
		sorted := append([]string(nil), v...)
		sort.Strings(sorted)
		out[k] = sorted
	}
	return out
}
