package synth

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramsynth/guardsynth/architecture"
	"github.com/paramsynth/guardsynth/automaton"
	"github.com/paramsynth/guardsynth/instantiate"
	"github.com/paramsynth/guardsynth/ltltranslate"
	"github.com/paramsynth/guardsynth/smt"
	"github.com/paramsynth/guardsynth/specification"
)

// validConfig returns a minimally well-formed Config for n templates,
// suitable for exercising resolve()'s bookkeeping without driving an
// actual solver.
func validConfig(n int) Config {
	return Config{
		Spec:          specification.New(n),
		Architecture:  architecture.NewConjunctive(n),
		Translator:    ltltranslate.NewFakeTranslator(),
		NewSolver:     func() smt.Solver { return smt.NewMemSolver() },
		MinBound:      []int{1},
		InstanceCount: []int{1},
		Logger:        zerolog.Nop(),
	}
}

func TestRunRejectsSpecificationLevelAssumptions(t *testing.T) {
	cfg := validConfig(1)
	cfg.Spec.AddAssumption(singleIndexGuarantee(t, 0))

	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnsupportedAssumptions)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := validConfig(1)
	cfg.NewSolver = nil

	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestRunPropagatesTranslatorError(t *testing.T) {
	cfg := validConfig(1)
	// No fixtures registered on the FakeTranslator: the very first
	// isLiveness classification call fails.
	cfg.MaxIncrements = 1

	_, err := Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ltltranslate.ErrNoFixture)
}

// stubSolver is a minimal smt.Solver whose Check always returns a fixed
// result, used to exercise Run's result-handling branches without
// depending on real constraint-solving semantics.
type stubSolver struct {
	checkResult smt.Result
	checkErr    error
}

func (s *stubSolver) DeclareEnumSort(name string, constructors []string) smt.Sort {
	return smt.Enum(name, constructors)
}

func (s *stubSolver) DeclareFunction(name string, domain []smt.Sort, codomain smt.Sort) (smt.FunctionHandle, error) {
	return smt.FunctionHandle{Name: name, Domain: domain, Codomain: codomain}, nil
}

func (s *stubSolver) Assert(t smt.Term) {}
func (s *stubSolver) Push()             {}
func (s *stubSolver) Pop()              {}
func (s *stubSolver) Check(ctx context.Context) (smt.Result, error) {
	return s.checkResult, s.checkErr
}
func (s *stubSolver) Model() (smt.Model, error) { return nil, nil }

// newTrivialAutomaton returns a one-node, non-rejecting universal
// co-Büchi automaton that self-loops unconditionally: a safety
// automaton accepting every word, used as a stand-in UCW fixture for
// tests that only exercise Run's control flow, not genuine automaton
// semantics.
func newTrivialAutomaton() *automaton.Automaton {
	a := automaton.New()
	a.AddNode(0, false)
	a.SetInitial(0)
	_ = a.AddTransition(0, automaton.TrueLabel, [][]automaton.NodeID{{0}})
	return a
}

// registerTrivialSafetyFixtures pre-registers, on tr, a trivial
// always-accepting safety automaton for every raw and instantiated
// expression the rounds up to maxRounds will request, by independently
// replaying buildProperties/instantiatedExpr against a scratch copy of
// spec's bound/cutoff bookkeeping.
func registerTrivialSafetyFixtures(t *testing.T, tr *ltltranslate.FakeTranslator, spec *specification.Specification, arch *architecture.Architecture, minBound, instanceCount []int, maxRounds int) {
	t.Helper()

	for round := 0; round < maxRounds; round++ {
		bound := make([]int, len(minBound))
		for i, b := range minBound {
			bound[i] = b + round
		}
		require.NoError(t, spec.SetBound(bound))

		cutoff, guaranteeCutoffs, err := arch.DetermineCutoffs(bound, spec.Guarantees())
		require.NoError(t, err)
		cutoff = truncate(cutoff, instanceCount)
		for i := range guaranteeCutoffs {
			guaranteeCutoffs[i].Cutoff = truncate(guaranteeCutoffs[i].Cutoff, instanceCount)
		}
		require.NoError(t, spec.SetCutoff(cutoff))

		props, err := buildProperties(spec.TemplatesCount(), arch, cutoff, guaranteeCutoffs)
		require.NoError(t, err)

		ins := instantiate.New(spec)
		for _, p := range props {
			tr.Register(p.Guarantee.Expr().Arg, newTrivialAutomaton())
			eff := p.effectiveCutoff(cutoff)
			expr, err := instantiatedExpr(ins, eff, p, false)
			require.NoError(t, err)
			tr.Register(expr, newTrivialAutomaton())
		}
	}
}

func TestRunReturnsErrorOnUnknownSolverResult(t *testing.T) {
	cfg := validConfig(1)
	cfg.NewSolver = func() smt.Solver { return &stubSolver{checkResult: smt.Unknown} }
	cfg.MaxIncrements = 1

	registerTrivialSafetyFixtures(t, cfg.Translator.(*ltltranslate.FakeTranslator), cfg.Spec, cfg.Architecture, cfg.MinBound, cfg.InstanceCount, cfg.MaxIncrements)

	_, err := Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownResult)
}

func TestRunReturnsNilOnUnsatExhaustion(t *testing.T) {
	cfg := validConfig(1)
	cfg.NewSolver = func() smt.Solver { return &stubSolver{checkResult: smt.Unsat} }
	cfg.MaxIncrements = 2

	registerTrivialSafetyFixtures(t, cfg.Translator.(*ltltranslate.FakeTranslator), cfg.Spec, cfg.Architecture, cfg.MinBound, cfg.InstanceCount, cfg.MaxIncrements)

	sys, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, sys)
}
