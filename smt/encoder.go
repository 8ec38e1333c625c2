package smt

import (
	"fmt"

	"github.com/paramsynth/guardsynth/architecture"
	"github.com/paramsynth/guardsynth/specification"
)

// EncodingOptimization selects between the plain integer λ^S ranking
// function and the per-rejecting-SCC bit-vector ranking optimization.
type EncodingOptimization int

const (
	OptimizationNone EncodingOptimization = iota
	OptimizationSCCRank
)

// StateGuardDefiner supplies the one thing that differs between the
// state-guarded and label-guarded representations: the width of the
// guard bit-vector and the definition of state_guard itself. Go has no
// subclassing, so the guard-specific packages (smt/stateguarded,
// smt/labelguarded) implement this interface and hand it to NewEncoder
// instead of inheriting from a shared base type.
type StateGuardDefiner interface {
	// GuardSize returns the width of the shared guard bit-vector sort for
	// spec.
	GuardSize(spec *specification.Specification) int
	// DefineStateGuard declares tf.StateGuard and asserts whatever
	// invariants its representation requires (state-guarded:
	// disjointness/nonzero/in-slice; label-guarded: the aux-label
	// bookkeeping and the rotate-left label-value equation).
	DefineStateGuard(e *Encoder, tf *TemplateFunction) error
}

// TemplateFunction mirrors one template's slice of the SMT problem: its
// state sort, its declared output/guard/enabled functions, and (once
// StateGuardDefiner.DefineStateGuard has run) its state_guard function
// and guard_set call scaffolding.
type TemplateFunction struct {
	Template  *specification.Template
	StateSort Sort

	OutputFunctions map[string]FunctionHandle // signal name -> T_k -> Bool
	GuardFunction   FunctionHandle             // T_k x I_k x T_k -> BitVec
	StateGuard      FunctionHandle             // T_k -> BitVec, set by StateGuardDefiner
	IsEnabled       FunctionHandle             // T_k x I_k x T_k x BitVec -> Bool
	IsAnyEnabled    FunctionHandle             // T_k x I_k x BitVec -> Bool
	GuardSetFn      FunctionHandle             // (other T_k' vars...) -> BitVec

	inputNames  []string
	inputVars   []Sort // one SortBool per input, parallel to inputNames
	otherSlots  []globalSlot
}

// stateName returns the declared constructor name of the i-th state of
// this template.
func (tf *TemplateFunction) stateName(i int) string {
	return fmt.Sprintf("t%d_%d", tf.Template.Index(), i)
}

// State returns the concrete state value for local state index i.
func (tf *TemplateFunction) State(i int) Term {
	return EnumValue(tf.StateSort, tf.stateName(i))
}

// representativeState returns the canonical "any existing state will
// do" value used to pad guard_set arguments when the current round's
// cut-off is smaller than the global one.
func (tf *TemplateFunction) representativeState() Term { return tf.State(0) }

// InputNames returns the template's input signal names in declaration
// order.
func (tf *TemplateFunction) InputNames() []string {
	inputs := tf.Template.Inputs()
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		names = append(names, in.String())
	}
	return names
}

// globalSlot identifies one process across all templates in the
// system-wide cut-off, used to build the fixed domain shape of guard_set
// independent of which concrete instance calls it.
type globalSlot struct {
	Template int
	Instance int
}

func globalSlots(cutoff []int) []globalSlot {
	var out []globalSlot
	for k, c := range cutoff {
		for i := 0; i < c; i++ {
			out = append(out, globalSlot{Template: k, Instance: i})
		}
	}
	return out
}

// Encoder holds the per-round, per-SAT-attempt encoding state: one
// TemplateFunction per template plus the common is_scheduled/eval_guard
// functions, asserted against Solver. This module has exactly two guard
// representations, both handled via StateGuardDefiner injection rather
// than subclassing.
type Encoder struct {
	Solver       Solver
	Spec         *specification.Specification
	Architecture *architecture.Architecture
	Definer      StateGuardDefiner
	Optimization EncodingOptimization

	GuardSize int
	SchedSize int
	EvalGuard FunctionHandle

	templateFunctions []*TemplateFunction
	isScheduledFns    map[specification.Instance]FunctionHandle
}

// IsScheduledFunction returns the is_scheduled function declared for
// process (k,i).
func (e *Encoder) IsScheduledFunction(k, i int) (FunctionHandle, bool) {
	fn, ok := e.isScheduledFns[specification.Instance{Template: k, Index: i}]
	return fn, ok
}

// NewEncoder returns an Encoder ready for Encode. solver must be a fresh
// Solver: the outer synthesis loop builds a fresh encoder and re-encodes
// the template skeleton every round.
func NewEncoder(solver Solver, spec *specification.Specification, arch *architecture.Architecture, definer StateGuardDefiner, opt EncodingOptimization) *Encoder {
	return &Encoder{Solver: solver, Spec: spec, Architecture: arch, Definer: definer, Optimization: opt}
}

// TemplateFunctions returns the per-template encoding state, in template
// index order. Valid only after Encode.
func (e *Encoder) TemplateFunctions() []*TemplateFunction {
	return append([]*TemplateFunction(nil), e.templateFunctions...)
}

// TemplateFunction returns the k-th template's encoding state.
func (e *Encoder) TemplateFunction(k int) *TemplateFunction { return e.templateFunctions[k] }

// Encode declares every template's state/guard/enabled functions, the
// shared eval_guard/is_scheduled functions, and asserts the
// architecture-wide constraints. It must run exactly once per Encoder,
// before EncodeAutomata.
func (e *Encoder) Encode() error {
	e.GuardSize = e.Definer.GuardSize(e.Spec)
	e.SchedSize = e.Spec.SchedulingSize()

	if err := e.defineEvalGuard(); err != nil {
		return wrap("Encode", err)
	}
	if err := e.defineIsScheduled(); err != nil {
		return wrap("Encode", err)
	}
	if err := e.declareTemplateFunctions(); err != nil {
		return wrap("Encode", err)
	}
	for _, tf := range e.templateFunctions {
		if err := e.Definer.DefineStateGuard(e, tf); err != nil {
			return wrap("Encode", err)
		}
	}
	if err := e.declareGuardSets(); err != nil {
		return wrap("Encode", err)
	}
	if err := e.addArchitecturalConstraints(); err != nil {
		return wrap("Encode", err)
	}
	return nil
}

// defineEvalGuard declares eval_guard: BitVec x BitVec -> Bool with the
// architecture-specific body.
func (e *Encoder) defineEvalGuard() error {
	fn, err := e.Solver.DeclareFunction("eval_guard", []Sort{BitVec(e.GuardSize), BitVec(e.GuardSize)}, BoolSort)
	if err != nil {
		return err
	}
	e.EvalGuard = fn

	stateSet := Var("eg_state_set", BitVec(e.GuardSize))
	guard := Var("eg_guard", BitVec(e.GuardSize))

	var body Term
	if e.Architecture.IsConjunctive() {
		body = And(
			Neq(guard, BitVecLit(0, e.GuardSize)),
			Eq(BVOr(stateSet, guard), guard),
		)
	} else {
		body = Neq(BVAnd(stateSet, guard), BitVecLit(0, e.GuardSize))
	}

	e.Solver.Assert(ForAll([]Term{stateSet, guard}, Eq(Apply(fn, stateSet, guard), body)))
	return nil
}

// defineIsScheduled declares is_scheduled(k, i, sched_bits...) -> Bool
// with one defining equation per (template, instance) pair. Since this
// module has no Int-sorted function
// parameters for (k, i) — every instance of is_scheduled used by the
// encoder is fully applied to a literal (k, i) pair — is_scheduled is
// declared once per (template, instance) pair as
// is_scheduled_k_i(sched_bits...) -> Bool rather than threading (k, i)
// through an Int-sorted argument pair, a finer form of the
// simplification IsEnabled/IsAnyEnabled make by being declared
// per-template.
func (e *Encoder) defineIsScheduled() error {
	domain := make([]Sort, e.SchedSize)
	for i := range domain {
		domain[i] = BoolSort
	}

	e.isScheduledFns = make(map[specification.Instance]FunctionHandle)
	values := e.Spec.SchedulingValues()
	for instance, binval := range values {
		name := fmt.Sprintf("is_scheduled_%d_%d", instance.Template, instance.Index)
		fn, err := e.Solver.DeclareFunction(name, domain, BoolSort)
		if err != nil {
			return err
		}
		e.isScheduledFns[instance] = fn

		vars := make([]Term, e.SchedSize)
		for i := range vars {
			vars[i] = Var(fmt.Sprintf("sched_%d", e.SchedSize-1-i), BoolSort)
		}

		conjuncts := make([]Term, e.SchedSize)
		for i, bit := range binval {
			if bit {
				conjuncts[i] = vars[i]
			} else {
				conjuncts[i] = Not(vars[i])
			}
		}

		e.Solver.Assert(ForAll(vars, Eq(Apply(fn, vars...), And(conjuncts...))))
	}
	return nil
}

// schedulingVars returns fresh Bool vars sched_{n-1}..sched_0, in the
// fixed bit order every scheduling function call site expects.
func (e *Encoder) schedulingVars() []Term {
	vars := make([]Term, e.SchedSize)
	for i := range vars {
		vars[i] = Var(fmt.Sprintf("sched_%d", e.SchedSize-1-i), BoolSort)
	}
	return vars
}

func (e *Encoder) declareTemplateFunctions() error {
	e.templateFunctions = make([]*TemplateFunction, e.Spec.TemplatesCount())
	for k, template := range e.Spec.Templates() {
		tf := &TemplateFunction{Template: template, OutputFunctions: make(map[string]FunctionHandle)}

		constructors := make([]string, template.Bound())
		for i := range constructors {
			constructors[i] = tf.stateName(i)
		}
		tf.StateSort = e.Solver.DeclareEnumSort(fmt.Sprintf("T%d", k), constructors)

		for _, out := range template.Outputs() {
			fn, err := e.Solver.DeclareFunction(fmt.Sprintf("o_%s", out), []Sort{tf.StateSort}, BoolSort)
			if err != nil {
				return err
			}
			tf.OutputFunctions[out.String()] = fn
		}

		for _, in := range template.Inputs() {
			tf.inputNames = append(tf.inputNames, in.String())
			tf.inputVars = append(tf.inputVars, BoolSort)
		}

		guardDomain := append([]Sort{tf.StateSort}, tf.inputVars...)
		guardDomain = append(guardDomain, tf.StateSort)
		guardFn, err := e.Solver.DeclareFunction(fmt.Sprintf("guard_%d", k), guardDomain, BitVec(e.GuardSize))
		if err != nil {
			return err
		}
		tf.GuardFunction = guardFn

		enabledDomain := append(append([]Sort{tf.StateSort}, tf.inputVars...), tf.StateSort, BitVec(e.GuardSize))
		isEnabled, err := e.Solver.DeclareFunction(fmt.Sprintf("is_enabled_%d", k), enabledDomain, BoolSort)
		if err != nil {
			return err
		}
		tf.IsEnabled = isEnabled

		anyEnabledDomain := append(append([]Sort{tf.StateSort}, tf.inputVars...), BitVec(e.GuardSize))
		isAnyEnabled, err := e.Solver.DeclareFunction(fmt.Sprintf("is_any_enabled_%d", k), anyEnabledDomain, BoolSort)
		if err != nil {
			return err
		}
		tf.IsAnyEnabled = isAnyEnabled

		if err := e.defineIsEnabled(tf); err != nil {
			return err
		}

		e.templateFunctions[k] = tf
	}
	return nil
}

// freshInputVars returns fresh Bool vars for this template's inputs,
// suffixed uniquely by prefix to avoid name collisions across the
// several ForAll bodies that each need their own copy.
func (tf *TemplateFunction) freshInputVars(prefix string) []Term {
	vars := make([]Term, len(tf.inputNames))
	for i, name := range tf.inputNames {
		vars[i] = Var(fmt.Sprintf("%s_in_%s", prefix, name), BoolSort)
	}
	return vars
}

// defineIsEnabled asserts is_enabled(t,i,t',s) := eval_guard(s,
// guard(t,i,t')) and is_any_enabled(t,i,s) := ∃t'. eval_guard(s,
// guard(t,i,t')).
func (e *Encoder) defineIsEnabled(tf *TemplateFunction) error {
	t := Var("ie_t", tf.StateSort)
	tNext := Var("ie_tnext", tf.StateSort)
	s := Var("ie_s", BitVec(e.GuardSize))
	inputs := tf.freshInputVars("ie")

	guardArgs := append(append([]Term{t}, inputs...), tNext)
	guardCall := Apply(tf.GuardFunction, guardArgs...)

	isEnabledArgs := append(append([]Term{t}, inputs...), tNext, s)
	isEnabledVars := append(append([]Term{t}, inputs...), tNext, s)
	e.Solver.Assert(ForAll(isEnabledVars,
		Eq(Apply(tf.IsEnabled, isEnabledArgs...), Apply(e.EvalGuard, s, guardCall))))

	anyEnabledVars := append(append([]Term{t}, inputs...), s)
	anyEnabledArgs := append(append([]Term{t}, inputs...), s)
	existsBody := Apply(e.EvalGuard, s, Apply(tf.GuardFunction, append(append([]Term{t}, inputs...), tNext)...))
	e.Solver.Assert(ForAll(anyEnabledVars,
		Eq(Apply(tf.IsAnyEnabled, anyEnabledArgs...), Exists([]Term{tNext}, existsBody))))
	return nil
}

func (e *Encoder) declareGuardSets() error {
	globalCutoff := e.Spec.Cutoff()
	slots := globalSlots(globalCutoff)

	for _, tf := range e.templateFunctions {
		k := tf.Template.Index()
		var others []globalSlot
		var domain []Sort
		for _, s := range slots {
			if s.Template == k && s.Instance == 0 {
				continue
			}
			others = append(others, s)
			domain = append(domain, e.templateFunctions[s.Template].StateSort)
		}
		tf.otherSlots = others

		fn, err := e.Solver.DeclareFunction(fmt.Sprintf("guard_set_%d", k), domain, BitVec(e.GuardSize))
		if err != nil {
			return err
		}
		tf.GuardSetFn = fn

		if len(others) == 0 {
			e.Solver.Assert(Eq(Apply(fn), BitVecLit(0, e.GuardSize)))
			continue
		}

		args := make([]Term, len(others))
		for i, slot := range others {
			args[i] = Var(fmt.Sprintf("gs_%d_%d_%d", k, slot.Template, slot.Instance), e.templateFunctions[slot.Template].StateSort)
		}
		terms := make([]Term, len(others))
		for i, slot := range others {
			terms[i] = Apply(e.templateFunctions[slot.Template].StateGuard, args[i])
		}
		e.Solver.Assert(ForAll(args, Eq(Apply(fn, args...), BVOrAll(terms...))))
	}
	return nil
}

// blowupGuardSetArgs builds the call arguments for tf's guard_set
// function as seen by process (tf.Template.Index(), i) under the
// current round's automaton cut-off, applying the representative-state
// padding rule whenever the current cut-off is smaller than the
// system-wide one. stateVar(k, idx)
// must return the state variable currently in scope for process
// (k, idx); it is called only for idx < cutoff[k].
func (e *Encoder) blowupGuardSetArgs(tf *TemplateFunction, i int, cutoff []int, stateVar func(k, idx int) Term) []Term {
	k := tf.Template.Index()
	seen := make(map[int]int)

	args := make([]Term, len(tf.otherSlots))
	for idx, slot := range tf.otherSlots {
		count := seen[slot.Template]
		seen[slot.Template] = count + 1

		if slot.Template != k {
			if count < cutoff[slot.Template] {
				args[idx] = stateVar(slot.Template, count)
			} else {
				args[idx] = e.templateFunctions[slot.Template].representativeState()
			}
			continue
		}

		realIdx := count
		if realIdx >= i {
			realIdx++
		}
		if realIdx < cutoff[k] {
			args[idx] = stateVar(k, realIdx)
		} else {
			args[idx] = tf.representativeState()
		}
	}
	return args
}

// addArchitecturalConstraints asserts determinism, non-input-blocking,
// and (conjunctive only) the initial-state-inclusion guard invariant.
func (e *Encoder) addArchitecturalConstraints() error {
	for _, tf := range e.templateFunctions {
		e.assertDeterminism(tf)
		e.assertNonInputBlocking(tf)
	}
	if e.Architecture.IsConjunctive() {
		if err := e.assertConjunctiveInitialInclusion(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) assertDeterminism(tf *TemplateFunction) {
	t := Var("det_t", tf.StateSort)
	t1 := Var("det_t1", tf.StateSort)
	t2 := Var("det_t2", tf.StateSort)
	s := Var("det_s", BitVec(e.GuardSize))
	inputs := tf.freshInputVars("det")

	args1 := append(append([]Term{t}, inputs...), t1, s)
	args2 := append(append([]Term{t}, inputs...), t2, s)

	vars := append(append([]Term{t}, inputs...), t1, t2, s)
	e.Solver.Assert(ForAll(vars,
		Implies(
			And(Apply(tf.IsEnabled, args1...), Neq(t1, t2)),
			Not(Apply(tf.IsEnabled, args2...)),
		)))
}

// assertNonInputBlocking asserts: if a guarded transition exists from t
// for some input, a transition with the same guard exists for every
// other input assignment too.
func (e *Encoder) assertNonInputBlocking(tf *TemplateFunction) {
	if len(tf.inputNames) == 0 {
		return
	}
	t := Var("nib_t", tf.StateSort)
	tNext := Var("nib_tnext", tf.StateSort)
	tOther := Var("nib_tother", tf.StateSort)
	inputs := tf.freshInputVars("nib")
	otherInputs := tf.freshInputVars("nib_other")

	guardCall := Apply(tf.GuardFunction, append(append([]Term{t}, inputs...), tNext)...)
	otherGuardCall := Apply(tf.GuardFunction, append(append([]Term{t}, otherInputs...), tOther)...)

	body := Implies(
		Neq(guardCall, BitVecLit(0, e.GuardSize)),
		Exists([]Term{tOther}, Eq(otherGuardCall, guardCall)),
	)

	outerVars := append(append([]Term{t}, inputs...), tNext)
	innerVars := otherInputs
	e.Solver.Assert(ForAll(outerVars, ForAll(innerVars, body)))
}

func (e *Encoder) assertConjunctiveInitialInclusion() error {
	var initialBits Term
	for _, tf := range e.templateFunctions {
		bit := Apply(tf.StateGuard, tf.representativeState())
		if initialBits == nil {
			initialBits = bit
		} else {
			initialBits = BVOr(initialBits, bit)
		}
	}
	if initialBits == nil {
		return nil
	}

	for _, tf := range e.templateFunctions {
		t := Var("init_incl_t", tf.StateSort)
		tNext := Var("init_incl_tnext", tf.StateSort)
		inputs := tf.freshInputVars("init_incl")
		guardCall := Apply(tf.GuardFunction, append(append([]Term{t}, inputs...), tNext)...)

		vars := append(append([]Term{t}, inputs...), tNext)
		e.Solver.Assert(ForAll(vars,
			Implies(
				Neq(guardCall, BitVecLit(0, e.GuardSize)),
				Eq(BVAnd(guardCall, initialBits), initialBits),
			)))
	}
	return nil
}
