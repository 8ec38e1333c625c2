// Package guardsynth is a bounded synthesizer for parameterized guarded
// distributed systems: given an LTL specification over an arbitrary
// number of symmetric process templates, it searches for a finite
// transition-system implementation of each template such that the
// composition of any number of instances, under a computed cut-off
// bound, satisfies the specification.
//
// The pipeline, package by package:
//
//	signal/         - variable names parameterized by template and instance
//	ast/            - the LTL expression tree
//	specification/  - templates, formulas, and the per-round bound/cut-off state
//	architecture/   - conjunctive/disjunctive guard regimes and cut-off formulas
//	instantiate/    - quantifier elaboration with symmetry-reduction filtering
//	automaton/      - universal co-Büchi automata and the safety/liveness oracle
//	ltltranslate/   - the external LTL-to-automaton translation backend
//	smt/            - the SMT encoding shared by both guard representations
//	model/          - the synthesized TemplateModel artifact
//	synth/          - the outer iterative-deepening search loop
//
// cmd/synth is the command-line entry point; cmd/synthbench drives the
// benchmark harness (bench/) across a sweep of problems; dotvis renders a
// synthesized solution as a graph.
package guardsynth
