package smt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paramsynth/guardsynth/automaton"
	"github.com/paramsynth/guardsynth/specification"
)

// AutomatonInfo pairs a translated UCW with the cut-off it should be
// encoded against and whether it is the architecture-wide deadlock
// automaton. One AutomatonInfo is produced per outer-loop property.
type AutomatonInfo struct {
	Automaton            *automaton.Automaton
	Index                int
	ArchitectureSpecific bool
	Cutoff               []int
}

// automatonFunctions holds one automaton's declared Q_a/λ^B_a/λ^S_a
// functions and (for the SCC-ranked optimization) its per-rejecting-SCC
// rank functions.
type automatonFunctions struct {
	automaton *automaton.Automaton
	sort      Sort
	nodeName  map[automaton.NodeID]string
	lambdaB   FunctionHandle
	lambdaS   FunctionHandle

	sccOf   map[automaton.NodeID]int
	sccRank map[int]FunctionHandle
}

// EncodeAutomata encodes every automaton in infos against the already
// Encode-d template skeleton, in order.
func (e *Encoder) EncodeAutomata(infos []AutomatonInfo) error {
	for _, info := range infos {
		if err := e.encodeAutomaton(info); err != nil {
			return wrap("EncodeAutomata", err)
		}
	}
	return nil
}

func (e *Encoder) encodeAutomaton(info AutomatonInfo) error {
	af, err := e.declareAutomatonFunctions(info)
	if err != nil {
		return err
	}
	if err := e.assertInitialStates(af, info.Cutoff); err != nil {
		return err
	}
	for _, node := range info.Automaton.Nodes() {
		for _, tr := range info.Automaton.Transitions(node.ID) {
			if err := e.encodeTransition(af, node.ID, tr, info.Cutoff); err != nil {
				return err
			}
		}
	}
	if info.ArchitectureSpecific {
		e.assertAvoidDeadlocks(af, info.Cutoff)
	}
	return nil
}

func nodeIDs(nodes []automaton.Node) []automaton.NodeID {
	out := make([]automaton.NodeID, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func nodeIsRejecting(a *automaton.Automaton, id automaton.NodeID) bool {
	for _, r := range a.RejectingNodes() {
		if r == id {
			return true
		}
	}
	return false
}

// isRejectingSCC reports whether scc needs its own rank function: it must
// contain a rejecting node and be a genuine cycle (size > 1 or
// self-looped), mirroring the safety oracle's own rejecting-SCC test
// (automaton.IsSafety) since an isolated rejecting node outside any cycle
// can never be visited infinitely and needs no rank.
func isRejectingSCC(a *automaton.Automaton, scc automaton.SCC) bool {
	hasRejecting := false
	for _, n := range scc.Members {
		if nodeIsRejecting(a, n) {
			hasRejecting = true
			break
		}
	}
	if !hasRejecting {
		return false
	}
	return !scc.Trivial(func(n automaton.NodeID) []automaton.NodeID { return a.FlattenSuccessors(n) })
}

// rankWidth returns the bit-vector width needed to represent ranks 0..n
// without overflow within the SCC.
func rankWidth(n int) int {
	width := 1
	for (1 << uint(width)) <= n {
		width++
	}
	return width
}

func (e *Encoder) globalStateDomain(cutoff []int) []Sort {
	var domain []Sort
	for k, c := range cutoff {
		for i := 0; i < c; i++ {
			domain = append(domain, e.templateFunctions[k].StateSort)
			_ = i
		}
	}
	return domain
}

func (e *Encoder) declareAutomatonFunctions(info AutomatonInfo) (*automatonFunctions, error) {
	a := info.Automaton
	nodes := a.Nodes()
	constructors := make([]string, len(nodes))
	nodeName := make(map[automaton.NodeID]string, len(nodes))
	for i, n := range nodes {
		name := fmt.Sprintf("qa%d_%d", info.Index, n.ID)
		constructors[i] = name
		nodeName[n.ID] = name
	}
	qSort := e.Solver.DeclareEnumSort(fmt.Sprintf("Qa%d", info.Index), constructors)

	domain := append([]Sort{qSort}, e.globalStateDomain(info.Cutoff)...)

	lambdaB, err := e.Solver.DeclareFunction(fmt.Sprintf("lambda_b_%d", info.Index), domain, BoolSort)
	if err != nil {
		return nil, err
	}

	af := &automatonFunctions{automaton: a, sort: qSort, nodeName: nodeName, lambdaB: lambdaB}

	if e.Optimization == OptimizationSCCRank {
		sccs := automaton.TarjanSCC(nodeIDs(nodes), func(n automaton.NodeID) []automaton.NodeID { return a.FlattenSuccessors(n) })
		af.sccOf = make(map[automaton.NodeID]int)
		af.sccRank = make(map[int]FunctionHandle)
		for ci, scc := range sccs {
			for _, n := range scc.Members {
				af.sccOf[n] = ci
			}
			if !isRejectingSCC(a, scc) {
				continue
			}
			fn, err := e.Solver.DeclareFunction(fmt.Sprintf("lambda_s_%d_%d", info.Index, ci), domain, BitVec(rankWidth(len(scc.Members))))
			if err != nil {
				return nil, err
			}
			af.sccRank[ci] = fn
		}
	} else {
		lambdaS, err := e.Solver.DeclareFunction(fmt.Sprintf("lambda_s_%d", info.Index), domain, IntSortValue)
		if err != nil {
			return nil, err
		}
		af.lambdaS = lambdaS
	}

	return af, nil
}

func (e *Encoder) assertInitialStates(af *automatonFunctions, cutoff []int) error {
	var initialArgs []Term
	for k, c := range cutoff {
		tf := e.templateFunctions[k]
		for i := 0; i < c; i++ {
			initialArgs = append(initialArgs, tf.representativeState())
			_ = i
		}
	}

	for _, q0 := range af.automaton.Initial() {
		args := append([]Term{EnumValue(af.sort, af.nodeName[q0])}, initialArgs...)
		e.Solver.Assert(Apply(af.lambdaB, args...))

		if e.Optimization == OptimizationSCCRank {
			if fn, ok := af.sccRank[af.sccOf[q0]]; ok {
				e.Solver.Assert(Eq(Apply(fn, args...), BitVecLit(0, fn.Codomain.Width)))
			}
			continue
		}
		e.Solver.Assert(Eq(Apply(af.lambdaS, args...), IntLit(0)))
	}
	return nil
}

// globalStateVars returns fresh state variables for every process instance
// under cutoff, both as a (template,instance) -> Term map and in flattened
// template-major order (matching globalStateDomain/globalSlots), plus the
// parallel slot list so callers can locate a particular instance's
// position for next-state substitution.
func (e *Encoder) globalStateVars(cutoff []int, prefix string) (map[[2]int]Term, []Term, [][2]int) {
	vars := make(map[[2]int]Term)
	var flat []Term
	var slots [][2]int
	for k, c := range cutoff {
		tf := e.templateFunctions[k]
		for i := 0; i < c; i++ {
			v := Var(fmt.Sprintf("%s_t%d_%d", prefix, k, i), tf.StateSort)
			vars[[2]int{k, i}] = v
			flat = append(flat, v)
			slots = append(slots, [2]int{k, i})
		}
	}
	return vars, flat, slots
}

type signalOwner struct {
	k, i int
	name string
}

// buildSignalOwners maps every plain input/output atom's canonical string
// form (an Instance signal, e.g. "a_0_1") to the process and signal name
// it belongs to, for the given cut-off — used to translate ordinary
// (non-placeholder) label atoms during automaton encoding.
func (e *Encoder) buildSignalOwners(cutoff []int) (inputs, outputs map[string]signalOwner) {
	inputs = make(map[string]signalOwner)
	outputs = make(map[string]signalOwner)
	for k, c := range cutoff {
		tf := e.templateFunctions[k]
		for i := 0; i < c; i++ {
			for _, name := range tf.inputNames {
				inputs[fmt.Sprintf("%s_%d_%d", name, k, i)] = signalOwner{k: k, i: i, name: name}
			}
			for name := range tf.OutputFunctions {
				outputs[fmt.Sprintf("%s_%d_%d", stripInstanceSuffix(name), k, i)] = signalOwner{k: k, i: i, name: name}
			}
		}
	}
	return inputs, outputs
}

// stripInstanceSuffix is a no-op placeholder kept distinct from the raw
// output-function key so buildSignalOwners reads clearly; output function
// keys are stored under the signal's own String() form already, which for
// a template-level output is just its bare name (outputs are declared
// once per template, not per instance, so tf.OutputFunctions is keyed by
// the template-level signal name).
func stripInstanceSuffix(name string) string { return name }

// parsePlaceholder reports whether key has the shape "<prefix>_<k>_<i>"
// and, if so, returns the parsed indices.
func parsePlaceholder(key, prefix string) (k, i int, ok bool) {
	rest := strings.TrimPrefix(key, prefix+"_")
	if rest == key {
		return 0, 0, false
	}
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	k, err1 := strconv.Atoi(parts[0])
	i, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return k, i, true
}

func (e *Encoder) isSchedulingSignal(key string) bool {
	for _, sig := range e.Spec.SchedulingSignals() {
		if sig.String() == key {
			return true
		}
	}
	return false
}

// schedulingCompatible reports whether the scheduling portion of a
// transition label (any literal sched_N entries in assignment) permits
// (k,i) to be the scheduled process for this transition instance. A label
// with no scheduling atoms at all is compatible with every (k,i).
func (e *Encoder) schedulingCompatible(assignment map[string]bool, k, i int) (bool, error) {
	pattern, ok := e.Spec.SchedulingValues()[specification.Instance{Template: k, Index: i}]
	if !ok {
		return false, fmt.Errorf("smt: no scheduling pattern for instance (%d,%d)", k, i)
	}
	for idx, sig := range e.Spec.SchedulingSignals() {
		val, has := assignment[sig.String()]
		if !has {
			continue
		}
		if val != pattern[idx] {
			return false, nil
		}
	}
	return true, nil
}

// translateAtom turns one label atom into an equality/iff condition over
// the current encoding's state/input variables. The active_{k',i'}
// placeholder case is not reachable here: signal.SchedulerPlaceholder is
// rewritten into literal sched_N atoms at instantiation time (see
// signal.SchedulerPlaceholder's doc comment), so by automaton-encoding
// time "is currently scheduled" is already captured by
// schedulingCompatible's filter over literal scheduling atoms rather than
// a separate is_scheduled lookup here.
func (e *Encoder) translateAtom(key string, val bool, stateVars map[[2]int]Term, inputVars map[[2]int]map[string]Term, cutoff []int, inputOwners, outputOwners map[string]signalOwner) (Term, error) {
	if k, i, ok := parsePlaceholder(key, "enabled"); ok && k < len(cutoff) && i < cutoff[k] {
		tf := e.templateFunctions[k]
		inputs := make([]Term, len(tf.inputNames))
		for idx, name := range tf.inputNames {
			inputs[idx] = inputVars[[2]int{k, i}][name]
		}
		guardSetCall := Apply(tf.GuardSetFn, e.blowupGuardSetArgs(tf, i, cutoff, func(kk, ii int) Term { return stateVars[[2]int{kk, ii}] })...)
		args := append(append([]Term{stateVars[[2]int{k, i}]}, inputs...), guardSetCall)
		return Eq(Apply(tf.IsAnyEnabled, args...), BoolLit(val)), nil
	}
	if k, i, ok := parsePlaceholder(key, "init"); ok && k < len(cutoff) && i < cutoff[k] {
		tf := e.templateFunctions[k]
		isInitial := Eq(stateVars[[2]int{k, i}], tf.representativeState())
		return Eq(isInitial, BoolLit(val)), nil
	}
	if owner, ok := outputOwners[key]; ok {
		tf := e.templateFunctions[owner.k]
		fn := tf.OutputFunctions[owner.name]
		return Eq(Apply(fn, stateVars[[2]int{owner.k, owner.i}]), BoolLit(val)), nil
	}
	if owner, ok := inputOwners[key]; ok {
		return Eq(inputVars[[2]int{owner.k, owner.i}][owner.name], BoolLit(val)), nil
	}
	return nil, fmt.Errorf("%w: unrecognized label atom %s", ErrUnknownFunction, key)
}

func (e *Encoder) encodeTransition(af *automatonFunctions, from automaton.NodeID, tr automaton.Transition, cutoff []int) error {
	assignment := tr.Label.Assignment()
	for k, c := range cutoff {
		for i := 0; i < c; i++ {
			compatible, err := e.schedulingCompatible(assignment, k, i)
			if err != nil {
				return err
			}
			if !compatible {
				continue
			}
			if err := e.assertTransitionConstraint(af, from, tr, assignment, cutoff, k, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Encoder) assertTransitionConstraint(af *automatonFunctions, from automaton.NodeID, tr automaton.Transition, assignment map[string]bool, cutoff []int, k, i int) error {
	stateVars, flatStates, slots := e.globalStateVars(cutoff, "tr")
	inputOwners, outputOwners := e.buildSignalOwners(cutoff)

	inputVars := make(map[[2]int]map[string]Term)
	var flatInputs []Term
	for kk, c := range cutoff {
		tfK := e.templateFunctions[kk]
		for ii := 0; ii < c; ii++ {
			m := make(map[string]Term, len(tfK.inputNames))
			for _, name := range tfK.inputNames {
				v := Var(fmt.Sprintf("tr_in_%s_%d_%d", name, kk, ii), BoolSort)
				m[name] = v
				flatInputs = append(flatInputs, v)
			}
			inputVars[[2]int{kk, ii}] = m
		}
	}

	var conditions []Term
	for key, val := range assignment {
		if e.isSchedulingSignal(key) {
			continue
		}
		cond, err := e.translateAtom(key, val, stateVars, inputVars, cutoff, inputOwners, outputOwners)
		if err != nil {
			return err
		}
		conditions = append(conditions, cond)
	}

	tf := e.templateFunctions[k]
	tNext := Var(fmt.Sprintf("tr_next_%d_%d", k, i), tf.StateSort)
	guardSetArgs := e.blowupGuardSetArgs(tf, i, cutoff, func(kk, ii int) Term { return stateVars[[2]int{kk, ii}] })
	guardSetCall := Apply(tf.GuardSetFn, guardSetArgs...)

	inputs := make([]Term, len(tf.inputNames))
	for idx, name := range tf.inputNames {
		inputs[idx] = inputVars[[2]int{k, i}][name]
	}
	enabledArgs := append(append([]Term{stateVars[[2]int{k, i}]}, inputs...), tNext, guardSetCall)
	anyEnabledArgs := append(append([]Term{stateVars[[2]int{k, i}]}, inputs...), guardSetCall)
	stepOrStall := Or(
		Apply(tf.IsEnabled, enabledArgs...),
		And(Eq(tNext, stateVars[[2]int{k, i}]), Not(Apply(tf.IsAnyEnabled, anyEnabledArgs...))),
	)

	fromArgs := append([]Term{EnumValue(af.sort, af.nodeName[from])}, flatStates...)
	antecedentParts := append([]Term{Apply(af.lambdaB, fromArgs...)}, conditions...)
	antecedentParts = append(antecedentParts, stepOrStall)
	antecedent := And(antecedentParts...)

	var consequents []Term
	for _, successorSet := range tr.Successors {
		var parts []Term
		nextStates := make([]Term, len(flatStates))
		for idx, slot := range slots {
			if slot[0] == k && slot[1] == i {
				nextStates[idx] = tNext
			} else {
				nextStates[idx] = flatStates[idx]
			}
		}
		for _, q2 := range successorSet {
			toArgs := append([]Term{EnumValue(af.sort, af.nodeName[q2])}, nextStates...)
			parts = append(parts, Apply(af.lambdaB, toArgs...))
			parts = append(parts, e.rankCondition(af, from, q2, fromArgs, toArgs))
		}
		consequents = append(consequents, And(parts...))
	}
	consequent := Or(consequents...)

	allVars := append(append(append([]Term{}, flatStates...), flatInputs...), tNext)
	e.Solver.Assert(ForAll(allVars, Implies(antecedent, consequent)))
	return nil
}

func (e *Encoder) rankCondition(af *automatonFunctions, from, to automaton.NodeID, fromArgs, toArgs []Term) Term {
	rejecting := nodeIsRejecting(af.automaton, to)

	if e.Optimization == OptimizationSCCRank {
		fromSCC, fOk := af.sccOf[from]
		toSCC, tOk := af.sccOf[to]
		if !fOk || !tOk || fromSCC != toSCC {
			return BoolLit(true)
		}
		fn, ok := af.sccRank[fromSCC]
		if !ok {
			return BoolLit(true)
		}
		fromRank := Apply(fn, fromArgs...)
		toRank := Apply(fn, toArgs...)
		if rejecting {
			return BVUGT(toRank, fromRank)
		}
		return BVUGE(toRank, fromRank)
	}

	fromRank := Apply(af.lambdaS, fromArgs...)
	toRank := Apply(af.lambdaS, toArgs...)
	if rejecting {
		return IntGT(toRank, fromRank)
	}
	return IntGE(toRank, fromRank)
}

func (e *Encoder) assertAvoidDeadlocks(af *automatonFunctions, cutoff []int) {
	stateVars, flatStates, slots := e.globalStateVars(cutoff, "dl")
	qVar := Var("dl_q", af.sort)

	var anyEnabled []Term
	var allVars []Term
	allVars = append(allVars, qVar)
	allVars = append(allVars, flatStates...)

	for _, slot := range slots {
		k, i := slot[0], slot[1]
		tf := e.templateFunctions[k]
		inputs := make([]Term, len(tf.inputNames))
		for idx, name := range tf.inputNames {
			inputs[idx] = Var(fmt.Sprintf("dl_in_%s_%d_%d", name, k, i), BoolSort)
		}
		guardSetCall := Apply(tf.GuardSetFn, e.blowupGuardSetArgs(tf, i, cutoff, func(kk, ii int) Term { return stateVars[[2]int{kk, ii}] })...)
		args := append(append([]Term{stateVars[[2]int{k, i}]}, inputs...), guardSetCall)
		anyEnabled = append(anyEnabled, Exists(inputs, Apply(tf.IsAnyEnabled, args...)))
	}

	args := append([]Term{qVar}, flatStates...)
	e.Solver.Assert(ForAll(allVars, Implies(Apply(af.lambdaB, args...), Or(anyEnabled...))))
}
