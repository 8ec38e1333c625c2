package specification

import (
	"fmt"
	"math"

	"github.com/paramsynth/guardsynth/signal"
)

// Specification holds the parsed shape of the input LTL file: the
// templates, the assumption/guarantee formulas, and the current
// bound/cut-off tuples the outer loop mutates round by round.
//
// Specification is built once (from the specification parser's AST) and
// is mutated only through SetBound/SetCutoff, both of which the outer loop
// calls exclusively — no other component writes to a Specification.
type Specification struct {
	templates   []*Template
	assumptions []Formula
	guarantees  []Formula
}

// New returns a Specification with templateCount templates (indices
// 0..templateCount-1), no assumptions or guarantees, and a zeroed
// bound/cutoff. Populate templates via Template() and AddAssumption /
// AddGuarantee before use.
func New(templateCount int) *Specification {
	templates := make([]*Template, templateCount)
	for i := range templates {
		templates[i] = NewTemplate(i)
	}
	return &Specification{templates: templates}
}

// TemplatesCount returns K, the number of process templates.
func (s *Specification) TemplatesCount() int { return len(s.templates) }

// Template returns the template at index k. It panics on an out-of-range
// index, since template indices are a closed, contiguous prefix fixed at
// construction (programmer error to index outside it).
func (s *Specification) Template(k int) *Template { return s.templates[k] }

// Templates returns all templates in index order.
func (s *Specification) Templates() []*Template {
	out := make([]*Template, len(s.templates))
	copy(out, s.templates)
	return out
}

// AddAssumption appends a Formula to the assumption list without
// validating it.
// Only architecture-induced fairness assumptions are supported; a
// Specification built directly from
// a parsed file with its own [ASSUMPTIONS] section should route through
// architecture.Architecture's generated assumptions instead — AddAssumption
// exists for constructing test fixtures and for the rare case a single
// fairness-shaped assumption is supplied verbatim.
func (s *Specification) AddAssumption(f Formula) { s.assumptions = append(s.assumptions, f) }

// AddGuarantee validates and appends a Formula to the guarantee list,
// checking that every template index it references is within range.
func (s *Specification) AddGuarantee(f Formula) error {
	for _, k := range f.TemplateIndices() {
		if k < 0 || k >= len(s.templates) {
			return wrap("AddGuarantee", fmt.Errorf("template index %d out of range [0,%d)", k, len(s.templates)))
		}
	}
	s.guarantees = append(s.guarantees, f)
	return nil
}

// Assumptions returns the specification-level assumption formulas.
func (s *Specification) Assumptions() []Formula { return append([]Formula(nil), s.assumptions...) }

// Guarantees returns the guarantee formulas.
func (s *Specification) Guarantees() []Formula { return append([]Formula(nil), s.guarantees...) }

// SetBound installs a new per-template bound tuple. len(bound) must equal
// TemplatesCount() and every element must be positive: a template's bound
// must be set before any encoding. Violations return a *SpecificationError
// wrapping ErrTemplateCountMismatch or ErrNonPositiveBound and leave the
// Specification unchanged.
func (s *Specification) SetBound(bound []int) error {
	if len(bound) != len(s.templates) {
		return wrap("SetBound", ErrTemplateCountMismatch)
	}
	for _, b := range bound {
		if b <= 0 {
			return wrap("SetBound", ErrNonPositiveBound)
		}
	}
	for i, t := range s.templates {
		t.bound = bound[i]
	}
	return nil
}

// Bound returns the current per-template bound tuple.
func (s *Specification) Bound() []int {
	out := make([]int, len(s.templates))
	for i, t := range s.templates {
		out[i] = t.bound
	}
	return out
}

// SetCutoff installs a new per-template cut-off tuple, with the same
// shape validation as SetBound (cut-offs must be positive instance counts).
func (s *Specification) SetCutoff(cutoff []int) error {
	if len(cutoff) != len(s.templates) {
		return wrap("SetCutoff", ErrTemplateCountMismatch)
	}
	for _, c := range cutoff {
		if c <= 0 {
			return wrap("SetCutoff", ErrNonPositiveBound)
		}
	}
	for i, t := range s.templates {
		t.cutoff = cutoff[i]
	}
	return nil
}

// Cutoff returns the current per-template cut-off tuple.
func (s *Specification) Cutoff() []int {
	out := make([]int, len(s.templates))
	for i, t := range s.templates {
		out[i] = t.cutoff
	}
	return out
}

// CutoffSum returns the total number of process instances across all
// templates under the current cut-off.
func (s *Specification) CutoffSum() int {
	sum := 0
	for _, t := range s.templates {
		sum += t.cutoff
	}
	return sum
}

// ValidateSignalDisjointness returns an error if any template's input and
// output signal lists overlap.
func (s *Specification) ValidateSignalDisjointness() error {
	for _, t := range s.templates {
		for _, in := range t.inputs {
			for _, out := range t.outputs {
				if signal.Equal(in, out) {
					return wrap("ValidateSignalDisjointness",
						fmt.Errorf("template %d: signal %s: %w", t.index, in, ErrSignalsNotDisjoint))
				}
			}
		}
	}
	return nil
}

// SchedulingSize returns the number of Boolean scheduling variables needed
// for the current cut-off: max(ceil(log2(CutoffSum())), 1).
//
// The degenerate CutoffSum()==1 case still yields width 1 (not 0): a
// single process still needs exactly one scheduling bit to be talked
// about uniformly by the is_scheduled placeholder rewrite, even though
// that bit is always true in any model.
func (s *Specification) SchedulingSize() int {
	sum := s.CutoffSum()
	if sum <= 1 {
		return 1
	}
	size := int(math.Ceil(math.Log2(float64(sum))))
	if size < 1 {
		size = 1
	}
	return size
}

// SchedulingSignals returns the ordered Boolean scheduling signals
// sched_{n-1},...,sched_0 (most significant bit first).
func (s *Specification) SchedulingSignals() []signal.Signal {
	n := s.SchedulingSize()
	out := make([]signal.Signal, n)
	for i := 0; i < n; i++ {
		out[i] = signal.New(fmt.Sprintf("sched_%d", n-1-i))
	}
	return out
}

// Instance identifies one concrete process by (template, instance) index.
type Instance struct {
	Template int
	Index    int
}

// SchedulingValues returns, for every (template, instance) pair under the
// current cut-off, the little-endian Boolean assignment of the scheduling
// signals that encodes its position in the flattened (k,i) enumeration.
//
// The enumeration order is: template 0's instances 0..cutoff[0]-1, then
// template 1's, and so on; position p's bit pattern is p written in binary,
// left-padded with false to SchedulingSize() bits.
func (s *Specification) SchedulingValues() map[Instance][]bool {
	width := s.SchedulingSize()
	out := make(map[Instance][]bool)

	position := 0
	for k, t := range s.templates {
		for i := 0; i < t.cutoff; i++ {
			out[Instance{Template: k, Index: i}] = boolAssignment(position, width)
			position++
		}
	}
	return out
}

// boolAssignment returns position written in binary as a width-long,
// little-endian-value / most-significant-first slice: out[0] is the
// highest-order bit, matching the SchedulingSignals order (sched_{n-1}
// first).
func boolAssignment(position, width int) []bool {
	out := make([]bool, width)
	for i := 0; i < width; i++ {
		shift := width - 1 - i
		out[i] = (position>>shift)&1 == 1
	}
	return out
}
