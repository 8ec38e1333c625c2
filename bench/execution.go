package bench

import (
	"context"
	"encoding/csv"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Execution runs every series of requests a set of ConfigItems
// describes, writing one CSV row per run to CSVPath (BenchmarkExecution).
// Unlike the original, which runs one child process at a time and
// blocks on it, Execution fans independent (config item, instance-count
// combination) series out across Concurrency goroutines via errgroup;
// the runs within one series still execute strictly in order, since a
// later run's eligibility depends on the previous run's outcome
// (_execute_benchmark's "while not invalid_run" loop).
type Execution struct {
	Items        []ConfigItem
	Runner       Runner
	CSVPath      string
	DotDirectory string
	Concurrency  int
	Logger       zerolog.Logger
}

// Execute runs every series to completion or first failure and returns
// the first error encountered building or running a series; individual
// run outcomes are never errors, they are rows in the CSV output.
func (e Execution) Execute(ctx context.Context) error {
	f, err := os.Create(e.CSVPath)
	if err != nil {
		return wrap("Execute", err)
	}
	defer f.Close()

	writer := &csvWriter{w: csv.NewWriter(f)}

	var allSeries []requestSeries
	nextIndex := 1
	for _, item := range e.Items {
		series, err := requestsFor(item, nextIndex, e.DotDirectory)
		if err != nil {
			return wrap("Execute", err)
		}
		allSeries = append(allSeries, series...)
		nextIndex += len(series)
	}

	g, gctx := errgroup.WithContext(ctx)
	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}

	for _, series := range allSeries {
		series := series
		g.Go(func() error {
			return e.runSeries(gctx, series, writer)
		})
	}

	if err := g.Wait(); err != nil {
		return wrap("Execute", err)
	}
	return writer.flush()
}

// runSeries runs series.runCount runs in order, stopping at the first
// Timeout or InvalidExit outcome (an "invalid run" in the original's
// terms), reporting every run it does execute.
func (e Execution) runSeries(ctx context.Context, series requestSeries, writer *csvWriter) error {
	for runIndex := 0; runIndex < series.runCount; runIndex++ {
		req := series.request(runIndex)
		result := e.Runner.Run(ctx, req)

		e.Logger.Debug().
			Int("benchmark_index", req.BenchmarkIndex).
			Int("run_index", req.RunIndex).
			Str("spec", req.SpecFilepath).
			Msg("benchmark run finished")

		if err := writer.writeRow(result.CSVRow()); err != nil {
			return err
		}

		if result.Outcome != Completed {
			break
		}
	}
	return nil
}

// csvWriter serializes concurrent row writes from runSeries's
// goroutines onto the single underlying csv.Writer.
type csvWriter struct {
	mu sync.Mutex
	w  *csv.Writer
}

func (w *csvWriter) writeRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.w.Write(row); err != nil {
		return wrap("writeRow", err)
	}
	w.w.Flush()
	return w.w.Error()
}

func (w *csvWriter) flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return wrap("flush", err)
	}
	return nil
}
