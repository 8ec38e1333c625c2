// Package model holds the immutable snapshot extracted from a satisfying
// SMT model: per-template state names, per-state output assignment, and
// the transition table a synthesis round produces.
package model

import (
	"fmt"
	"sort"

	"github.com/paramsynth/guardsynth/smt"
)

// InputValue pairs one input signal name with the Boolean value a
// transition requires it to hold.
type InputValue struct {
	Name  string
	Value bool
}

// Transition is one row of a template's transition table: the state it
// fires from, the input assignment enabling it, the state it leads to,
// and the decoded guard — the state names (across every template, since a
// guard draws on other templates' state_guard contributions through
// guard_set) whose presence in the evaluated guard bit-vector makes this
// transition fire.
type Transition struct {
	From   string
	Inputs []InputValue
	To     string
	Guard  []string
}

// TemplateModel is the post-SAT snapshot of one template: its fixed
// state names, its per-output per-state assignment, and its transition
// table.
type TemplateModel struct {
	Index        int
	States       []string
	InputSignals []string
	Outputs      map[string]map[string]bool // output name -> state name -> value
	Transitions  []Transition
}

// String renders tm as a compact, human-readable block listing states,
// outputs and transitions.
func (tm *TemplateModel) String() string {
	s := fmt.Sprintf("Template %d\n\tStates: %v\n\tOutputs:\n", tm.Index, tm.States)
	names := make([]string, 0, len(tm.Outputs))
	for name := range tm.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s += fmt.Sprintf("\t  %s: %v\n", name, tm.Outputs[name])
	}
	s += "\tTransitions:\n"
	for _, tr := range tm.Transitions {
		s += fmt.Sprintf("\t  %s --%v--> %s  guard=%v\n", tr.From, tr.Inputs, tr.To, tr.Guard)
	}
	return s
}

// SystemModel is the full synthesized system: one TemplateModel per
// process template, in template-index order.
type SystemModel struct {
	Templates []*TemplateModel
}

// rawTransition holds a transition's raw guard bit-vector value before
// the cross-template bit-to-state-name decode pass runs.
type rawTransition struct {
	from   string
	inputs []InputValue
	to     string
	guard  uint64
}

// Extract reads a TemplateModel per entry of tfs out of mdl, the
// satisfying model of the round's Check, and decodes every transition's
// guard bit-vector into the set of state names it denotes.
//
// Decoding works uniformly for both guard representations: regardless of
// how state_guard is defined (one bit per state for the state-guarded
// representation, rotate_left(1, ...) of an output-valuation weight for
// the label-guarded one), it is, by both representations' own invariant,
// a function from states to bit-vector values; Extract evaluates it for
// every state of every template once, builds the resulting value-to-
// state-names map, and looks up each transition's guard value against
// that map. Two or more states sharing a state_guard value (the
// label-guarded representation's whole point: states agreeing on their
// output valuation collapse to the same guard label) simply decode to a
// multi-name guard set.
func Extract(tfs []*smt.TemplateFunction, mdl smt.Model) (*SystemModel, error) {
	templates := make([]*TemplateModel, len(tfs))
	raws := make([][]rawTransition, len(tfs))

	for idx, tf := range tfs {
		tm, raw, err := extractTemplate(mdl, tf)
		if err != nil {
			return nil, wrap("Extract", err)
		}
		templates[idx] = tm
		raws[idx] = raw
	}

	bitLabels, err := stateGuardBitLabels(mdl, tfs)
	if err != nil {
		return nil, wrap("Extract", err)
	}

	for idx, tm := range templates {
		for _, r := range raws[idx] {
			tm.Transitions = append(tm.Transitions, Transition{
				From:   r.from,
				Inputs: r.inputs,
				To:     r.to,
				Guard:  decodeGuard(r.guard, bitLabels),
			})
		}
		sort.Slice(tm.Transitions, func(i, j int) bool { return transitionLess(tm.Transitions[i], tm.Transitions[j]) })
	}

	return &SystemModel{Templates: templates}, nil
}

func transitionLess(a, b Transition) bool {
	if a.From != b.From {
		return a.From < b.From
	}
	if a.To != b.To {
		return a.To < b.To
	}
	for i := 0; i < len(a.Inputs) && i < len(b.Inputs); i++ {
		if a.Inputs[i].Value != b.Inputs[i].Value {
			return !a.Inputs[i].Value
		}
	}
	return false
}

// extractTemplate reads tf's fixed state list, its per-state output
// assignment, and every (state, input assignment, state) combination
// whose guard function evaluates nonzero.
func extractTemplate(mdl smt.Model, tf *smt.TemplateFunction) (*TemplateModel, []rawTransition, error) {
	n := tf.Template.Bound()
	states := make([]string, n)
	for i := range states {
		states[i] = tf.State(i).String()
	}

	inputNames := tf.InputNames()
	outputs := make(map[string]map[string]bool, len(tf.OutputFunctions))
	for name, fn := range tf.OutputFunctions {
		assignment := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			v, err := mdl.EvalBool(smt.Apply(fn, tf.State(i)))
			if err != nil {
				return nil, nil, fmt.Errorf("template %d output %s at %s: %w", tf.Template.Index(), name, states[i], err)
			}
			assignment[states[i]] = v
		}
		outputs[name] = assignment
	}

	tm := &TemplateModel{
		Index:        tf.Template.Index(),
		States:       states,
		InputSignals: inputNames,
		Outputs:      outputs,
	}

	var raw []rawTransition
	combos := 1 << uint(len(inputNames))
	for i := 0; i < n; i++ {
		for combo := 0; combo < combos; combo++ {
			inputs := make([]InputValue, len(inputNames))
			args := make([]smt.Term, len(inputNames))
			for b, name := range inputNames {
				val := (combo>>uint(b))&1 == 1
				inputs[b] = InputValue{Name: name, Value: val}
				args[b] = smt.BoolLit(val)
			}

			for j := 0; j < n; j++ {
				guardArgs := append(append([]smt.Term{tf.State(i)}, args...), tf.State(j))
				guardVal, err := mdl.EvalBitVec(smt.Apply(tf.GuardFunction, guardArgs...))
				if err != nil {
					return nil, nil, fmt.Errorf("template %d guard %s->%s: %w", tf.Template.Index(), states[i], states[j], err)
				}
				if guardVal == 0 {
					continue
				}
				raw = append(raw, rawTransition{from: states[i], inputs: inputs, to: states[j], guard: guardVal})
			}
		}
	}

	return tm, raw, nil
}

// stateGuardBitLabels evaluates state_guard(t) for every state of every
// template and inverts the result into a bit-vector-value-to-state-names
// map, merged across all templates since a transition's guard draws on
// every other process's state_guard contribution through guard_set.
func stateGuardBitLabels(mdl smt.Model, tfs []*smt.TemplateFunction) (map[uint64][]string, error) {
	out := make(map[uint64][]string)
	for _, tf := range tfs {
		n := tf.Template.Bound()
		for i := 0; i < n; i++ {
			val, err := mdl.EvalBitVec(smt.Apply(tf.StateGuard, tf.State(i)))
			if err != nil {
				return nil, fmt.Errorf("template %d state_guard(%s): %w", tf.Template.Index(), tf.State(i), err)
			}
			out[val] = append(out[val], tf.State(i).String())
		}
	}
	return out, nil
}

// decodeGuard turns a raw guard bit-vector value into the sorted,
// deduplicated list of state names whose state_guard bit(s) it contains.
func decodeGuard(value uint64, bitLabels map[uint64][]string) []string {
	var out []string
	for pos := 0; pos < 64; pos++ {
		bit := uint64(1) << uint(pos)
		if value&bit == 0 {
			continue
		}
		out = append(out, bitLabels[bit]...)
	}
	sort.Strings(out)
	return out
}
