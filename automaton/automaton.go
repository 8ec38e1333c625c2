package automaton

import (
	"sort"
	"strings"

	"github.com/paramsynth/guardsynth/signal"
)

// NodeID identifies a UCW node. IDs are assigned by the translator and are
// only meaningful within a single Automaton value.
type NodeID int

// Node is one state of the automaton: its ID and whether it is a rejecting
// (co-Büchi) state.
type Node struct {
	ID        NodeID
	Rejecting bool
}

// Label is a partial Boolean assignment over signals: a signal absent from
// the assignment is a "don't care" for this transition. Label's zero value
// is the true/always label (no constraints asserted).
//
// Two Labels are equal iff their canonical Key() strings match; Key is
// computed once at construction so Label can be used as a map key.
type Label struct {
	key        string
	assignment map[string]bool
}

// NewLabel returns the Label asserting exactly the given signal
// assignment.
func NewLabel(assignment map[signal.Signal]bool) Label {
	plain := make(map[string]bool, len(assignment))
	for s, v := range assignment {
		plain[s.String()] = v
	}
	return Label{key: labelKey(plain), assignment: plain}
}

// TrueLabel is the always-true label: an empty assignment, used by
// IsAbsorbing to probe a node's unconditional self-loop.
var TrueLabel = Label{key: "", assignment: map[string]bool{}}

func labelKey(assignment map[string]bool) string {
	names := make([]string, 0, len(assignment))
	for name := range assignment {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		if assignment[name] {
			parts[i] = name
		} else {
			parts[i] = "!" + name
		}
	}
	return strings.Join(parts, ",")
}

// Key returns the Label's canonical string form.
func (l Label) Key() string { return l.key }

// Assignment returns the signal names this label constrains, by canonical
// signal string, to their asserted Boolean value.
func (l Label) Assignment() map[string]bool {
	out := make(map[string]bool, len(l.assignment))
	for k, v := range l.assignment {
		out[k] = v
	}
	return out
}

// Transition is one outgoing edge of a node under Label: a disjunction of
// conjunctive successor sets (DNF over the target states) — a universal
// automaton transitions to every node in a chosen set simultaneously, and
// may offer several alternative sets under the same label.
type Transition struct {
	Label      Label
	Successors [][]NodeID
}

// Automaton is a universal co-Büchi word automaton: a node set, an initial
// node set, and per-node transition lists.
//
// Automaton is built once by a Translator and never mutated afterwards by
// downstream consumers (the safety oracle and the SMT encoder both only
// read it), matching the "built once" convention of ast.Expr.
type Automaton struct {
	nodes       map[NodeID]Node
	initial     []NodeID
	transitions map[NodeID][]Transition
}

// New returns an empty Automaton. Populate it with AddNode/SetInitial/
// AddTransition before use.
func New() *Automaton {
	return &Automaton{
		nodes:       make(map[NodeID]Node),
		transitions: make(map[NodeID][]Transition),
	}
}

// AddNode registers a node with the given ID and rejecting flag. Re-adding
// an existing ID overwrites its rejecting flag.
func (a *Automaton) AddNode(id NodeID, rejecting bool) {
	a.nodes[id] = Node{ID: id, Rejecting: rejecting}
}

// SetInitial replaces the automaton's initial node set.
func (a *Automaton) SetInitial(ids ...NodeID) {
	a.initial = append([]NodeID(nil), ids...)
}

// Initial returns the automaton's initial node set.
func (a *Automaton) Initial() []NodeID {
	return append([]NodeID(nil), a.initial...)
}

// AddTransition appends a transition from "from" under label to t. Both
// "from" and every successor node must already be registered with AddNode.
func (a *Automaton) AddTransition(from NodeID, label Label, successors [][]NodeID) error {
	if _, ok := a.nodes[from]; !ok {
		return wrap("AddTransition", ErrUnknownNode)
	}
	for _, set := range successors {
		for _, n := range set {
			if _, ok := a.nodes[n]; !ok {
				return wrap("AddTransition", ErrUnknownNode)
			}
		}
	}
	a.transitions[from] = append(a.transitions[from], Transition{Label: label, Successors: successors})
	return nil
}

// Nodes returns every registered node, ordered by ID.
func (a *Automaton) Nodes() []Node {
	out := make([]Node, 0, len(a.nodes))
	for _, n := range a.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RejectingNodes returns every node with Rejecting set, ordered by ID.
func (a *Automaton) RejectingNodes() []NodeID {
	var out []NodeID
	for _, n := range a.Nodes() {
		if n.Rejecting {
			out = append(out, n.ID)
		}
	}
	return out
}

// Transitions returns node's outgoing transitions in insertion order.
func (a *Automaton) Transitions(node NodeID) []Transition {
	return append([]Transition(nil), a.transitions[node]...)
}

// TransitionUnder returns the transition from node whose Label.Key matches
// label's, and whether one was found.
func (a *Automaton) TransitionUnder(node NodeID, label Label) (Transition, bool) {
	for _, t := range a.transitions[node] {
		if t.Label.Key() == label.Key() {
			return t, true
		}
	}
	return Transition{}, false
}

// FlattenSuccessors returns the deduplicated set of nodes node can reach
// under any label and any successor set, projecting away both the label
// and the DNF structure — the safety oracle and SCC computation both only
// need plain graph adjacency.
func (a *Automaton) FlattenSuccessors(node NodeID) []NodeID {
	seen := make(map[NodeID]struct{})
	var out []NodeID
	for _, t := range a.transitions[node] {
		for _, set := range t.Successors {
			for _, n := range set {
				if _, ok := seen[n]; !ok {
					seen[n] = struct{}{}
					out = append(out, n)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SelfLooped reports whether node appears among its own flattened
// successors.
func (a *Automaton) SelfLooped(node NodeID) bool {
	for _, n := range a.FlattenSuccessors(node) {
		if n == node {
			return true
		}
	}
	return false
}

// IsAbsorbing reports whether node transitions to itself under TrueLabel,
// consulting only the unconditional transition rather than every label.
func (a *Automaton) IsAbsorbing(node NodeID) bool {
	t, ok := a.TransitionUnder(node, TrueLabel)
	if !ok {
		return false
	}
	for _, set := range t.Successors {
		for _, n := range set {
			if n == node {
				return true
			}
		}
	}
	return false
}
