package specification

import "github.com/paramsynth/guardsynth/signal"

// Template encapsulates the specification-side information about one
// process template: its index, its ordered input/output signal lists, and
// the current bound (number of LTS states) and cut-off (instance count)
// chosen for it in the current outer-loop round.
//
// A Template's zero value is not usable; construct one with NewTemplate.
type Template struct {
	index   int
	inputs  []signal.Signal
	outputs []signal.Signal
	bound   int
	cutoff  int
}

// NewTemplate returns a Template at the given index with no inputs/outputs,
// bound 0, and cut-off 0. Use AddInput/AddOutput to populate its interface
// before it participates in encoding.
func NewTemplate(index int) *Template {
	return &Template{index: index}
}

// Index returns the template's position in the contiguous 0..K-1 prefix.
func (t *Template) Index() int { return t.index }

// Inputs returns the template's ordered input signal list. The returned
// slice is owned by the caller (a defensive copy).
func (t *Template) Inputs() []signal.Signal {
	out := make([]signal.Signal, len(t.inputs))
	copy(out, t.inputs)
	return out
}

// Outputs returns the template's ordered output signal list (defensive
// copy), mirroring Inputs.
func (t *Template) Outputs() []signal.Signal {
	out := make([]signal.Signal, len(t.outputs))
	copy(out, t.outputs)
	return out
}

// AddInput appends sig to the template's input list. Callers are
// responsible for keeping inputs and outputs disjoint;
// Specification.ValidateSignalDisjointness checks this.
func (t *Template) AddInput(sig signal.Signal) { t.inputs = append(t.inputs, sig) }

// AddOutput appends sig to the template's output list.
func (t *Template) AddOutput(sig signal.Signal) { t.outputs = append(t.outputs, sig) }

// Bound returns the number of LTS states currently chosen for this
// template in the active outer-loop round.
func (t *Template) Bound() int { return t.bound }

// Cutoff returns the instance count currently computed for this template.
func (t *Template) Cutoff() int { return t.cutoff }

// InitialStates returns the template's initial-state set. Only a single
// initial state (state 0) is supported.
//
// InitialStates panics if Bound() <= 0: callers must set a positive bound
// before querying initial states.
func (t *Template) InitialStates() map[int]struct{} {
	if t.bound <= 0 {
		panic("specification: InitialStates called before a positive bound was set")
	}
	return map[int]struct{}{0: {}}
}

// hasSignal reports whether sig's canonical string form appears in either
// the input or output list.
func (t *Template) hasSignal(sig signal.Signal) bool {
	for _, s := range t.inputs {
		if signal.Equal(s, sig) {
			return true
		}
	}
	for _, s := range t.outputs {
		if signal.Equal(s, sig) {
			return true
		}
	}
	return false
}
