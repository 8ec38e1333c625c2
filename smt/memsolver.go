package smt

import (
	"context"
	"fmt"
	"sort"
)

// MemSolver is a brute-force, in-memory reference Solver. It grounds
// every quantifier by enumerating the finite domain of each bound
// variable (every sort this module declares — Bool, a fixed-width
// BitVec, or an enumerated template/automaton-state sort — is finite),
// collects the resulting ground function applications as unknowns, and
// searches their joint assignment space exhaustively.
//
// This is deliberately not a real SMT solver: it exists so synth_test.go
// and the bundled example tests can run the full encode-then-check path
// against small instances without an external dependency. SearchCap
// bounds the assignment space it is willing to explore; Check returns
// Unknown rather than looping forever on a larger instance.
type MemSolver struct {
	enumSorts map[string]Sort
	functions map[string]FunctionHandle
	frames    [][]Term

	// SearchCap bounds the number of leaf assignments MemSolver is
	// willing to enumerate before giving up with Unknown. Zero means the
	// default of 200000.
	SearchCap int
	// IntDomainCap bounds the values considered for an Int-sorted atom
	// (the non-SCC-ranked λ^S rank), since Int itself is unbounded. Zero
	// means the default of 8.
	IntDomainCap int

	lastModel *memModel
}

// NewMemSolver returns an empty MemSolver.
func NewMemSolver() *MemSolver {
	return &MemSolver{
		enumSorts: make(map[string]Sort),
		functions: make(map[string]FunctionHandle),
		frames:    [][]Term{nil},
	}
}

func (s *MemSolver) DeclareEnumSort(name string, constructors []string) Sort {
	if existing, ok := s.enumSorts[name]; ok {
		return existing
	}
	sort := Enum(name, constructors)
	s.enumSorts[name] = sort
	return sort
}

func (s *MemSolver) DeclareFunction(name string, domain []Sort, codomain Sort) (FunctionHandle, error) {
	fn := FunctionHandle{Name: name, Domain: domain, Codomain: codomain}
	if existing, ok := s.functions[name]; ok {
		if !sameSignature(existing, fn) {
			return FunctionHandle{}, wrap("DeclareFunction", fmt.Errorf("%s redeclared with a different signature", name))
		}
		return existing, nil
	}
	s.functions[name] = fn
	return fn, nil
}

func sameSignature(a, b FunctionHandle) bool {
	if a.Codomain != b.Codomain || len(a.Domain) != len(b.Domain) {
		return false
	}
	for i := range a.Domain {
		if a.Domain[i] != b.Domain[i] {
			return false
		}
	}
	return true
}

func (s *MemSolver) Assert(t Term) {
	last := len(s.frames) - 1
	s.frames[last] = append(s.frames[last], t)
}

func (s *MemSolver) Push() { s.frames = append(s.frames, nil) }

func (s *MemSolver) Pop() {
	if len(s.frames) == 1 {
		s.frames[0] = nil
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *MemSolver) allAssertions() []Term {
	var all []Term
	for _, frame := range s.frames {
		all = append(all, frame...)
	}
	return all
}

func (s *MemSolver) searchCap() int {
	if s.SearchCap > 0 {
		return s.SearchCap
	}
	return 200000
}

func (s *MemSolver) intDomainCap() int {
	if s.IntDomainCap > 0 {
		return s.IntDomainCap
	}
	return 8
}

// Check grounds every asserted constraint and searches for a joint
// assignment of the ground atoms that satisfies all of them.
func (s *MemSolver) Check(ctx context.Context) (Result, error) {
	s.lastModel = nil
	grounded := make([]Term, 0, len(s.allAssertions()))
	for _, t := range s.allAssertions() {
		g, err := s.ground(t)
		if err != nil {
			return Unknown, wrap("Check", err)
		}
		grounded = append(grounded, g)
	}
	whole := And(grounded...)

	atomKeys := collectAtoms(whole)
	sort.Strings(atomKeys)

	domains := make([][]Term, len(atomKeys))
	fnOf := make(map[string]FunctionHandle)
	for i, key := range atomKeys {
		fn, ok := s.functionOfAtom(key)
		if !ok {
			return Unknown, wrap("Check", fmt.Errorf("%w: %s", ErrUnknownFunction, key))
		}
		fnOf[key] = fn
		domain, err := s.domainOf(fn.Codomain)
		if err != nil {
			return Unknown, wrap("Check", err)
		}
		domains[i] = domain
	}

	space := 1
	for _, d := range domains {
		space *= len(d)
		if space > s.searchCap() {
			return Unknown, nil
		}
	}

	valuation := make(map[string]Term, len(atomKeys))
	ok, err := backtrack(ctx, whole, atomKeys, domains, 0, valuation)
	if err != nil {
		return Unknown, wrap("Check", err)
	}
	if !ok {
		s.lastModel = nil
		return Unsat, nil
	}
	s.lastModel = &memModel{valuation: cloneValuation(valuation)}
	return Sat, nil
}

func (s *MemSolver) Model() (Model, error) {
	if s.lastModel == nil {
		return nil, wrap("Model", ErrNoModel)
	}
	return s.lastModel, nil
}

func (s *MemSolver) functionOfAtom(key string) (FunctionHandle, bool) {
	for name, fn := range s.functions {
		if key == name || (len(key) > len(name) && key[:len(name)+1] == name+"(") {
			return fn, true
		}
	}
	return FunctionHandle{}, false
}

func (s *MemSolver) domainOf(sort Sort) ([]Term, error) {
	switch sort.Kind {
	case SortBool:
		return []Term{BoolLit(false), BoolLit(true)}, nil
	case SortBitVec:
		if sort.Width > 20 {
			return nil, wrap("domainOf", fmt.Errorf("%w: bit-vector width %d too wide to enumerate", ErrUnsupported, sort.Width))
		}
		n := 1 << uint(sort.Width)
		values := make([]Term, n)
		for i := 0; i < n; i++ {
			values[i] = BitVecLit(uint64(i), sort.Width)
		}
		return values, nil
	case SortEnum:
		values := make([]Term, len(sort.Constructors))
		for i, c := range sort.Constructors {
			values[i] = EnumValue(sort, c)
		}
		return values, nil
	case SortInt:
		n := s.intDomainCap()
		values := make([]Term, n)
		for i := 0; i < n; i++ {
			values[i] = IntLit(int64(i))
		}
		return values, nil
	default:
		return nil, wrap("domainOf", fmt.Errorf("%w: %v", ErrUnsupported, sort))
	}
}

// ground eliminates every quantifier in t by enumerating the domain of
// each bound variable and substituting it in, returning a term with no
// remaining ForAll/Exists nodes.
func (s *MemSolver) ground(t Term) (Term, error) {
	switch v := t.(type) {
	case constTerm:
		if v.kind == "var" {
			return nil, fmt.Errorf("free variable %s outside any quantifier", v.name)
		}
		return v, nil
	case applyTerm:
		args := make([]Term, len(v.args))
		for i, a := range v.args {
			g, err := s.ground(a)
			if err != nil {
				return nil, err
			}
			args[i] = g
		}
		return applyTerm{fn: v.fn, args: args}, nil
	case notTerm:
		o, err := s.ground(v.operand)
		if err != nil {
			return nil, err
		}
		return notTerm{operand: o}, nil
	case andTerm:
		return s.groundAll(v.operands, func(ops []Term) Term { return andTerm{operands: ops} })
	case orTerm:
		return s.groundAll(v.operands, func(ops []Term) Term { return orTerm{operands: ops} })
	case impliesTerm:
		l, err := s.ground(v.lhs)
		if err != nil {
			return nil, err
		}
		r, err := s.ground(v.rhs)
		if err != nil {
			return nil, err
		}
		return impliesTerm{lhs: l, rhs: r}, nil
	case eqTerm:
		l, err := s.ground(v.lhs)
		if err != nil {
			return nil, err
		}
		r, err := s.ground(v.rhs)
		if err != nil {
			return nil, err
		}
		return eqTerm{lhs: l, rhs: r, negate: v.negate}, nil
	case bvOpTerm:
		l, err := s.ground(v.lhs)
		if err != nil {
			return nil, err
		}
		r, err := s.ground(v.rhs)
		if err != nil {
			return nil, err
		}
		return bvOpTerm{op: v.op, lhs: l, rhs: r}, nil
	case bvCompareTerm:
		l, err := s.ground(v.lhs)
		if err != nil {
			return nil, err
		}
		r, err := s.ground(v.rhs)
		if err != nil {
			return nil, err
		}
		return bvCompareTerm{op: v.op, lhs: l, rhs: r}, nil
	case iteTerm:
		c, err := s.ground(v.cond)
		if err != nil {
			return nil, err
		}
		th, err := s.ground(v.then)
		if err != nil {
			return nil, err
		}
		el, err := s.ground(v.els)
		if err != nil {
			return nil, err
		}
		return iteTerm{cond: c, then: th, els: el}, nil
	case rotl1Term:
		amt, err := s.ground(v.amount)
		if err != nil {
			return nil, err
		}
		return rotl1Term{amount: amt, width: v.width}, nil
	case forallTerm:
		return s.expand(v.vars, v.body, true)
	case existsTerm:
		return s.expand(v.vars, v.body, false)
	default:
		return nil, fmt.Errorf("%w: unrecognized term type", ErrUnsupported)
	}
}

func (s *MemSolver) groundAll(operands []Term, rebuild func([]Term) Term) (Term, error) {
	out := make([]Term, len(operands))
	for i, o := range operands {
		g, err := s.ground(o)
		if err != nil {
			return nil, err
		}
		out[i] = g
	}
	return rebuild(out), nil
}

func (s *MemSolver) expand(vars []Term, body Term, isForall bool) (Term, error) {
	if len(vars) == 0 {
		return s.ground(body)
	}
	head, ok := vars[0].(constTerm)
	if !ok || head.kind != "var" {
		return nil, fmt.Errorf("%w: quantifier bound to a non-variable term", ErrUnsupported)
	}
	domain, err := s.domainOf(head.sort)
	if err != nil {
		return nil, err
	}
	parts := make([]Term, 0, len(domain))
	for _, value := range domain {
		substituted := substitute(body, head.name, value)
		rest, err := s.expand(vars[1:], substituted, isForall)
		if err != nil {
			return nil, err
		}
		parts = append(parts, rest)
	}
	if isForall {
		return andTerm{operands: parts}, nil
	}
	return orTerm{operands: parts}, nil
}

// substitute replaces every free occurrence of the variable named name
// with value throughout t.
func substitute(t Term, name string, value Term) Term {
	switch v := t.(type) {
	case constTerm:
		if v.kind == "var" && v.name == name {
			return value
		}
		return v
	case applyTerm:
		args := make([]Term, len(v.args))
		for i, a := range v.args {
			args[i] = substitute(a, name, value)
		}
		return applyTerm{fn: v.fn, args: args}
	case notTerm:
		return notTerm{operand: substitute(v.operand, name, value)}
	case andTerm:
		return andTerm{operands: substituteAll(v.operands, name, value)}
	case orTerm:
		return orTerm{operands: substituteAll(v.operands, name, value)}
	case impliesTerm:
		return impliesTerm{lhs: substitute(v.lhs, name, value), rhs: substitute(v.rhs, name, value)}
	case eqTerm:
		return eqTerm{lhs: substitute(v.lhs, name, value), rhs: substitute(v.rhs, name, value), negate: v.negate}
	case bvOpTerm:
		return bvOpTerm{op: v.op, lhs: substitute(v.lhs, name, value), rhs: substitute(v.rhs, name, value)}
	case bvCompareTerm:
		return bvCompareTerm{op: v.op, lhs: substitute(v.lhs, name, value), rhs: substitute(v.rhs, name, value)}
	case iteTerm:
		return iteTerm{cond: substitute(v.cond, name, value), then: substitute(v.then, name, value), els: substitute(v.els, name, value)}
	case rotl1Term:
		return rotl1Term{amount: substitute(v.amount, name, value), width: v.width}
	case forallTerm:
		return forallTerm{vars: v.vars, body: substitute(v.body, name, value)}
	case existsTerm:
		return existsTerm{vars: v.vars, body: substitute(v.body, name, value)}
	default:
		return t
	}
}

func substituteAll(terms []Term, name string, value Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = substitute(t, name, value)
	}
	return out
}

// collectAtoms returns the sorted, deduplicated set of ground applyTerm
// string forms appearing in t.
func collectAtoms(t Term) []string {
	seen := make(map[string]bool)
	var walk func(Term)
	walk = func(t Term) {
		switch v := t.(type) {
		case applyTerm:
			seen[v.String()] = true
			for _, a := range v.args {
				walk(a)
			}
		case notTerm:
			walk(v.operand)
		case andTerm:
			for _, o := range v.operands {
				walk(o)
			}
		case orTerm:
			for _, o := range v.operands {
				walk(o)
			}
		case impliesTerm:
			walk(v.lhs)
			walk(v.rhs)
		case eqTerm:
			walk(v.lhs)
			walk(v.rhs)
		case bvOpTerm:
			walk(v.lhs)
			walk(v.rhs)
		case bvCompareTerm:
			walk(v.lhs)
			walk(v.rhs)
		case iteTerm:
			walk(v.cond)
			walk(v.then)
			walk(v.els)
		case rotl1Term:
			walk(v.amount)
		}
	}
	walk(t)
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	return keys
}

func backtrack(ctx context.Context, whole Term, keys []string, domains [][]Term, idx int, valuation map[string]Term) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if idx == len(keys) {
		result, err := reduceGround(whole, valuation)
		if err != nil {
			return false, err
		}
		b, ok := result.(constTerm)
		if !ok || b.kind != "bool" {
			return false, fmt.Errorf("%w: top-level formula did not reduce to a boolean", ErrUnsupported)
		}
		return b.boolValue, nil
	}
	for _, value := range domains[idx] {
		valuation[keys[idx]] = value
		ok, err := backtrack(ctx, whole, keys, domains, idx+1, valuation)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	delete(valuation, keys[idx])
	return false, nil
}

// reduceGround evaluates a quantifier-free ground term to a literal,
// looking up applyTerm atoms in valuation.
func reduceGround(t Term, valuation map[string]Term) (Term, error) {
	switch v := t.(type) {
	case constTerm:
		return v, nil
	case applyTerm:
		val, ok := valuation[v.String()]
		if !ok {
			return nil, fmt.Errorf("unassigned atom %s", v.String())
		}
		return val, nil
	case notTerm:
		o, err := reduceBool(v.operand, valuation)
		if err != nil {
			return nil, err
		}
		return BoolLit(!o), nil
	case andTerm:
		for _, o := range v.operands {
			b, err := reduceBool(o, valuation)
			if err != nil {
				return nil, err
			}
			if !b {
				return BoolLit(false), nil
			}
		}
		return BoolLit(true), nil
	case orTerm:
		for _, o := range v.operands {
			b, err := reduceBool(o, valuation)
			if err != nil {
				return nil, err
			}
			if b {
				return BoolLit(true), nil
			}
		}
		return BoolLit(false), nil
	case impliesTerm:
		l, err := reduceBool(v.lhs, valuation)
		if err != nil {
			return nil, err
		}
		if !l {
			return BoolLit(true), nil
		}
		r, err := reduceBool(v.rhs, valuation)
		if err != nil {
			return nil, err
		}
		return BoolLit(r), nil
	case eqTerm:
		l, err := reduceGround(v.lhs, valuation)
		if err != nil {
			return nil, err
		}
		r, err := reduceGround(v.rhs, valuation)
		if err != nil {
			return nil, err
		}
		eq := literalEqual(l.(constTerm), r.(constTerm))
		if v.negate {
			eq = !eq
		}
		return BoolLit(eq), nil
	case bvOpTerm:
		l, err := reduceNumeric(v.lhs, valuation)
		if err != nil {
			return nil, err
		}
		r, err := reduceNumeric(v.rhs, valuation)
		if err != nil {
			return nil, err
		}
		var res uint64
		switch v.op {
		case bvAnd:
			res = l & r
		case bvOr:
			res = l | r
		case bvXor:
			res = l ^ r
		}
		return BitVecLit(res, TermSort(v).Width), nil
	case bvCompareTerm:
		l, err := reduceNumeric(v.lhs, valuation)
		if err != nil {
			return nil, err
		}
		r, err := reduceNumeric(v.rhs, valuation)
		if err != nil {
			return nil, err
		}
		switch v.op {
		case bvUGT:
			return BoolLit(l > r), nil
		default:
			return BoolLit(l >= r), nil
		}
	case iteTerm:
		c, err := reduceBool(v.cond, valuation)
		if err != nil {
			return nil, err
		}
		if c {
			return reduceGround(v.then, valuation)
		}
		return reduceGround(v.els, valuation)
	case rotl1Term:
		amt, err := reduceNumeric(v.amount, valuation)
		if err != nil {
			return nil, err
		}
		pos := amt % uint64(v.width)
		return BitVecLit(1<<pos, v.width), nil
	default:
		return nil, fmt.Errorf("%w: cannot reduce term", ErrUnsupported)
	}
}

func reduceBool(t Term, valuation map[string]Term) (bool, error) {
	r, err := reduceGround(t, valuation)
	if err != nil {
		return false, err
	}
	c, ok := r.(constTerm)
	if !ok || c.kind != "bool" {
		return false, fmt.Errorf("%w: expected a boolean term", ErrUnsupported)
	}
	return c.boolValue, nil
}

func reduceNumeric(t Term, valuation map[string]Term) (uint64, error) {
	r, err := reduceGround(t, valuation)
	if err != nil {
		return 0, err
	}
	c, ok := r.(constTerm)
	if !ok {
		return 0, fmt.Errorf("%w: expected a numeric term", ErrUnsupported)
	}
	switch c.kind {
	case "bitvec":
		return c.bvValue, nil
	case "int":
		return uint64(c.intValue), nil
	default:
		return 0, fmt.Errorf("%w: expected a numeric term", ErrUnsupported)
	}
}

func literalEqual(a, b constTerm) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case "bool":
		return a.boolValue == b.boolValue
	case "int":
		return a.intValue == b.intValue
	case "bitvec":
		return a.bvValue == b.bvValue
	case "enum":
		return a.sort.Name == b.sort.Name && a.name == b.name
	default:
		return a.name == b.name
	}
}

func cloneValuation(v map[string]Term) map[string]Term {
	out := make(map[string]Term, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// EnumValue returns the concrete value of sort identified by
// constructor.
func EnumValue(sort Sort, constructor string) Term {
	return constTerm{sort: sort, kind: "enum", name: constructor}
}

type memModel struct {
	valuation map[string]Term
}

func (m *memModel) EvalBool(t Term) (bool, error) {
	r, err := reduceGround(t, m.valuation)
	if err != nil {
		return false, wrap("EvalBool", err)
	}
	c, ok := r.(constTerm)
	if !ok || c.kind != "bool" {
		return false, wrap("EvalBool", ErrUnsupported)
	}
	return c.boolValue, nil
}

func (m *memModel) EvalInt(t Term) (int64, error) {
	r, err := reduceGround(t, m.valuation)
	if err != nil {
		return 0, wrap("EvalInt", err)
	}
	c, ok := r.(constTerm)
	if !ok || c.kind != "int" {
		return 0, wrap("EvalInt", ErrUnsupported)
	}
	return c.intValue, nil
}

func (m *memModel) EvalBitVec(t Term) (uint64, error) {
	r, err := reduceGround(t, m.valuation)
	if err != nil {
		return 0, wrap("EvalBitVec", err)
	}
	c, ok := r.(constTerm)
	if !ok || c.kind != "bitvec" {
		return 0, wrap("EvalBitVec", ErrUnsupported)
	}
	return c.bvValue, nil
}
