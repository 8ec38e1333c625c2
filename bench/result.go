package bench

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Outcome classifies how a run ended: it completed the synthesis
// pipeline (whether sat or unsat), the child process exceeded its
// timeout and was killed, or the child process exited on its own
// without producing a usable report (BenchmarkTestResult vs.
// BenchmarkTestTimeoutResult vs. BenchmarkTestInvalidExitResult — unified
// here as one tagged struct instead of a subclass hierarchy, since Go
// has no inheritance to mirror it with).
type Outcome int

const (
	Completed Outcome = iota
	Timeout
	InvalidExit
)

// Result is one run's outcome, ready to render as a CSV row
// (_report_benchmark_result's column assembly).
type Result struct {
	Request     Request
	Outcome     Outcome
	Runtime     time.Duration
	Satisfiable bool
	FinalBound  []int
	ExitCode    int
	Description string
}

func flagWord(active bool, name string) string {
	if active {
		return name
	}
	return NegatedFlag(name)
}

func satisfiability(sat bool) string {
	if sat {
		return "sat"
	}
	return "unsat"
}

func intsString(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func sum(vals []int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}

// CSVRow renders r as a 15-column row: benchmark_index; run_index; spec;
// instances; sum; min_bound; sum; {labels/no-labels}; {scc/no-scc};
// {test/no-test}; final_bound; sum; sat/unsat; runtime; description.
// Timeout/InvalidExit outcomes carry "N/A" in the four solve-dependent
// columns.
func (r Result) CSVRow() []string {
	req := r.Request
	cols := make([]string, 15)
	cols[0] = strconv.Itoa(req.BenchmarkIndex)
	cols[1] = strconv.Itoa(req.RunIndex)
	cols[2] = filepath.Base(req.SpecFilepath)
	cols[3] = intsString(req.InstanceCount)
	cols[4] = strconv.Itoa(sum(req.InstanceCount))
	cols[5] = intsString(req.MinBound)
	cols[6] = strconv.Itoa(sum(req.MinBound))
	cols[7] = flagWord(req.LabelGuards, LabelFlag)
	cols[8] = flagWord(req.SCC, SCCFlag)
	cols[9] = flagWord(req.TestMode, TestFlag)

	switch r.Outcome {
	case Completed:
		cols[10] = intsString(r.FinalBound)
		cols[11] = strconv.Itoa(sum(r.FinalBound))
		cols[12] = satisfiability(r.Satisfiable)
		cols[13] = r.Runtime.String()
		cols[14] = r.Description
	case Timeout:
		cols[10], cols[11], cols[12], cols[13] = "N/A", "N/A", "N/A", "N/A"
		cols[14] = "TIMEOUT"
	default: // InvalidExit
		cols[10], cols[11], cols[12], cols[13] = "N/A", "N/A", "N/A", "N/A"
		if r.Description != "" {
			cols[14] = r.Description
		} else {
			cols[14] = "exit code: " + strconv.Itoa(r.ExitCode)
		}
	}
	return cols
}

