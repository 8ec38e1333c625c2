// Package signal defines the symbolic identifiers shared by the LTL AST and
// the SMT encoder. A Signal names a single Boolean (or, for the scheduler
// placeholder, a small family of Boolean) wire in the synthesized system.
//
// Every variant is a value type: equality and hashing are defined over the
// canonical string form, never over identity, so a Signal can be used as a
// map key and compared across independently-constructed trees.
package signal

import (
	"fmt"
	"sort"
	"strings"
)

// Signal is any symbolic identifier usable inside an LTL formula or as an
// SMT variable name. All concrete variants implement it; the canonical
// string form returned by String is what equality, hashing, and SMT
// name-mangling are defined over.
type Signal interface {
	fmt.Stringer

	// isSignal is unexported so Signal cannot be implemented outside this
	// package; every variant below is the only closed set of shapes the
	// rest of the module needs to switch on.
	isSignal()
}

// Plain is a bare signal name, not associated with any template.
type Plain struct{ Name string }

func (Plain) isSignal()       {}
func (p Plain) String() string { return p.Name }

// New returns a Plain signal named name.
func New(name string) Plain { return Plain{Name: name} }

// Template is a signal that belongs to template index K (an input or
// output wire of the template before any instance has been chosen).
type Template struct {
	Name  string
	Index int
}

func (Template) isSignal() {}
func (t Template) String() string {
	return fmt.Sprintf("%s_%d", t.Name, t.Index)
}

// NewTemplate returns the Template signal named name belonging to template
// index k.
func NewTemplate(name string, k int) Template { return Template{Name: name, Index: k} }

// Instance is a Template signal resolved to one concrete process copy: the
// i-th instance of template k.
type Instance struct {
	Name     string
	Template int
	Index    int
}

func (Instance) isSignal() {}
func (s Instance) String() string {
	return fmt.Sprintf("%s_%d_%d", s.Name, s.Template, s.Index)
}

// NewInstance returns the Instance signal named name for the i-th copy of
// template k.
func NewInstance(name string, k, i int) Instance { return Instance{Name: name, Template: k, Index: i} }

// QuantifiedTemplate is a Template signal with one or more unresolved index
// variables (e.g. r_0_j before j is bound to a concrete process index).
// Only a single binding index is currently supported for template signals.
type QuantifiedTemplate struct {
	Name     string
	Template int
	Binding  []string
}

func (QuantifiedTemplate) isSignal() {}
func (s QuantifiedTemplate) String() string {
	return fmt.Sprintf("%s_%d_%s", s.Name, s.Template, strings.Join(s.Binding, "_"))
}

// NewQuantifiedTemplate returns a quantified-template signal named name on
// template k, binding the index variables in binding (order preserved).
func NewQuantifiedTemplate(name string, k int, binding ...string) QuantifiedTemplate {
	return QuantifiedTemplate{Name: name, Template: k, Binding: append([]string(nil), binding...)}
}

// SchedulerPlaceholder is the special is_scheduled_k_j fairness placeholder:
// it does not correspond to a declared SMT function on its own, and is
// rewritten by the instantiator into a conjunction over the Boolean
// scheduling signals (specification.Specification.SchedulingValues).
type SchedulerPlaceholder struct {
	Template int
	Binding  []string
}

func (SchedulerPlaceholder) isSignal() {}
func (s SchedulerPlaceholder) String() string {
	return fmt.Sprintf("is_scheduled_%d_%s", s.Template, strings.Join(s.Binding, "_"))
}

// NewSchedulerPlaceholder returns the is_scheduled placeholder for template
// k, binding the (single) index variable in binding.
func NewSchedulerPlaceholder(k int, binding ...string) SchedulerPlaceholder {
	return SchedulerPlaceholder{Template: k, Binding: append([]string(nil), binding...)}
}

// Equal reports whether a and b have identical canonical string form.
func Equal(a, b Signal) bool { return a.String() == b.String() }

// Set is a deterministically-iterable collection of signals, keyed by their
// canonical string form. The zero value is not usable; use NewSet.
type Set struct {
	byKey map[string]Signal
}

// NewSet returns an empty Set.
func NewSet() *Set { return &Set{byKey: make(map[string]Signal)} }

// Add inserts s into the set; re-adding an equal signal is a no-op.
func (s *Set) Add(sig Signal) { s.byKey[sig.String()] = sig }

// Contains reports whether an equal signal is already present.
func (s *Set) Contains(sig Signal) bool {
	_, ok := s.byKey[sig.String()]
	return ok
}

// Len reports the number of distinct signals in the set.
func (s *Set) Len() int { return len(s.byKey) }

// Slice returns the set's members in a stable, lexicographic order by
// canonical string form, so callers get deterministic iteration without
// holding their own sort logic.
func (s *Set) Slice() []Signal {
	out := make([]Signal, 0, len(s.byKey))
	for _, v := range s.byKey {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
