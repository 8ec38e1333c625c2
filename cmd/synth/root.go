package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/paramsynth/guardsynth/architecture"
	"github.com/paramsynth/guardsynth/dotvis"
	"github.com/paramsynth/guardsynth/ltltranslate"
	"github.com/paramsynth/guardsynth/model"
	"github.com/paramsynth/guardsynth/smt"
	"github.com/paramsynth/guardsynth/specparse"
	"github.com/paramsynth/guardsynth/synth"
	"github.com/paramsynth/guardsynth/telemetry"
)

// synthOptions collects every flag of the "synth" CLI. The zero value
// is never used directly; newRootCmd wires each field to a flag with the
// documented default.
type synthOptions struct {
	systemType    string
	minBound      string
	maxIncrements int
	instances     string
	test          bool
	optimization  string
	labelGuards   bool
	dotPath       string
	benchReport   bool
	verbosity     int
}

// newRootCmd builds the "synth" command: a single positional
// ltl_filepath argument and its flag set, following cue's
// newTrimCmd/RunE shape (flag fields collected in a struct rather than
// package globals, cmd.OutOrStdout()/OutOrStderr() for redirectable I/O
// so tests can capture output).
func newRootCmd() *cobra.Command {
	opts := &synthOptions{}

	cmd := &cobra.Command{
		Use:   "synth ltl_filepath",
		Short: "Synthesize a guarded distributed system from a parameterized LTL specification",
		Long: `synth reads a sectioned LTL specification file, searches for a finite
transition-system implementation of each process template such that the
composition of any number of copies under the architecture's cut-off
satisfies the specification, and prints the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(cmd, args[0], opts)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.systemType, "system-type", "conjunctive", "guard regime: conjunctive or disjunctive")
	flags.StringVar(&opts.minBound, "min-bound", "1", "starting per-template state bound (scalar or comma-separated per template)")
	flags.IntVar(&opts.maxIncrements, "max-increments", 0, "round budget before giving up (0 = default 1024)")
	flags.StringVar(&opts.instances, "instances", "", "per-template instance count upper bound, comma-separated (required)")
	flags.BoolVar(&opts.test, "test", false, "test mode: cut-off = instance count, disables symmetry reduction gains")
	flags.StringVar(&opts.optimization, "optimization", "", "encoder optimization: \"\" or lambda-scc")
	flags.BoolVar(&opts.labelGuards, "label-guards", false, "select the label-guarded encoder instead of state-guarded")
	flags.StringVar(&opts.dotPath, "dot-path", "", "write the synthesized solution as a dot graph to this path")
	flags.BoolVar(&opts.benchReport, "bench-report", false, "print a trailing JSON completion line for the benchmark harness")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "increase logging verbosity (repeatable)")

	return cmd
}

// newTranslator builds the backend that turns a parsed guarantee into a
// UCW. It is a package variable rather than a direct call so the
// backend can be swapped without changing runSynth.
var newTranslator = func(path string) (ltltranslate.Translator, error) {
	return ltltranslate.NewProcessTranslator(path)
}

func runSynth(cmd *cobra.Command, ltlFilepath string, opts *synthOptions) error {
	logger := telemetry.New(opts.verbosity, telemetry.WithWriter(cmd.OutOrStderr()))

	systemType, err := parseSystemType(opts.systemType)
	if err != nil {
		return err
	}
	minBound, err := parseIntCSV(opts.minBound)
	if err != nil {
		return err
	}
	if opts.instances == "" {
		return argErr(ErrEmptyIntList)
	}
	instances, err := parseIntCSV(opts.instances)
	if err != nil {
		return err
	}
	optimization, err := parseOptimization(opts.optimization)
	if err != nil {
		return err
	}

	spec, err := specparse.ParseFile(ltlFilepath)
	if err != nil {
		return argErr(err)
	}
	arch := architecture.New(systemType, spec.TemplatesCount())

	translator, err := newTranslator("ltl3ba")
	if err != nil {
		return argErr(err)
	}

	auxBits := make([]int, spec.TemplatesCount())
	for i := range auxBits {
		auxBits[i] = 1
	}

	cfg := synth.Config{
		Spec:          spec,
		Architecture:  arch,
		Translator:    ltltranslate.NewCachingTranslator(translator),
		NewSolver:     func() smt.Solver { return smt.NewMemSolver() },
		MinBound:      minBound,
		MaxIncrements: opts.maxIncrements,
		InstanceCount: instances,
		TestMode:      opts.test,
		Optimization:  optimization,
		LabelGuards:   opts.labelGuards,
		AuxBits:       auxBits,
		Logger:        logger,
	}

	start := time.Now()
	sys, err := synth.Run(cmd.Context(), cfg)
	runtime := time.Since(start)
	if err != nil {
		return fmt.Errorf("synth: %w", err)
	}

	if sys != nil && opts.dotPath != "" {
		if err := dotvis.WriteFile(sys, opts.dotPath); err != nil {
			return fmt.Errorf("synth: %w", err)
		}
	}

	printResult(cmd.OutOrStdout(), sys)

	if opts.benchReport {
		if err := printBenchReport(cmd.OutOrStdout(), sys, runtime); err != nil {
			return fmt.Errorf("synth: %w", err)
		}
	}

	return nil
}

func printResult(w io.Writer, sys *model.SystemModel) {
	if sys == nil {
		fmt.Fprintln(w, "UNSATISFIABLE")
		return
	}
	fmt.Fprintln(w, "SATISFIABLE")
	for _, tm := range sys.Templates {
		fmt.Fprint(w, tm.String())
	}
}

// benchReport is the JSON completion line bench.parseReport expects as
// the last line of stdout (bench/runner.go's report type, mirrored
// field-for-field since the two packages are independent binaries
// communicating only over this wire shape).
type benchReport struct {
	Satisfiable    bool    `json:"satisfiable"`
	Bound          []int   `json:"bound"`
	RuntimeSeconds float64 `json:"runtime_seconds"`
}

func printBenchReport(w io.Writer, sys *model.SystemModel, runtime time.Duration) error {
	report := benchReport{RuntimeSeconds: runtime.Seconds()}
	if sys != nil {
		report.Satisfiable = true
		report.Bound = boundsOf(sys)
	}
	enc := json.NewEncoder(w)
	return enc.Encode(report)
}

// boundsOf reports the per-template state count a satisfying model
// actually used, the value bench's Result.FinalBound column records.
func boundsOf(sys *model.SystemModel) []int {
	bounds := make([]int, len(sys.Templates))
	for i, tm := range sys.Templates {
		bounds[i] = len(tm.States)
	}
	return bounds
}
