package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paramsynth/guardsynth/bench"
	"github.com/paramsynth/guardsynth/telemetry"
)

type benchOptions struct {
	synthPath    string
	csvPath      string
	dotDirectory string
	timeout      string
	concurrency  int
	verbosity    int
}

// newRootCmd builds the "synthbench" command: one or more benchmark
// configuration file paths, executed against a synth binary
// (bench.SynthCommand), writing one CSV row per run (bench.Execution),
// following the same cobra constructor-function shape as cmd/synth's
// newRootCmd.
func newRootCmd() *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "synthbench config_file...",
		Short: "Run a benchmark configuration file's sweep of synthesis problems",
		Long: `synthbench reads one or more whitespace-separated benchmark
configuration files, expands each configured line into the series of
synthesis runs its instance-count and bound sweep describes, executes
every run as a timed-out synth child process, and writes one CSV row
per run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, args, opts)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.synthPath, "synth-path", "synth", "path to the synth binary to execute for each run")
	flags.StringVar(&opts.csvPath, "csv-path", "benchmark_results.csv", "path to write the result CSV to")
	flags.StringVar(&opts.dotDirectory, "dot-dir", ".", "directory to write --dot-path solution graphs into, for runs whose configuration enables it")
	flags.StringVar(&opts.timeout, "timeout", "5m", "per-run timeout, as a Go duration string (e.g. \"90s\", \"5m\")")
	flags.IntVar(&opts.concurrency, "concurrency", 1, "maximum number of benchmark series to run concurrently (0 = unlimited)")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "increase logging verbosity (repeatable)")

	return cmd
}

func runBench(cmd *cobra.Command, configPaths []string, opts *benchOptions) error {
	logger := telemetry.New(opts.verbosity, telemetry.WithWriter(cmd.OutOrStderr()))

	timeout, err := parseTimeout(opts.timeout)
	if err != nil {
		return err
	}

	var items []bench.ConfigItem
	for _, path := range configPaths {
		parsed, err := bench.ReadConfigFile(path)
		if err != nil {
			return argErr(err)
		}
		items = append(items, parsed...)
	}

	exec := bench.Execution{
		Items:        items,
		Runner:       bench.Runner{Command: bench.SynthCommand(opts.synthPath), Timeout: timeout},
		CSVPath:      opts.csvPath,
		DotDirectory: opts.dotDirectory,
		Concurrency:  opts.concurrency,
		Logger:       logger,
	}

	if err := exec.Execute(cmd.Context()); err != nil {
		return fmt.Errorf("synthbench: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote results to %s\n", opts.csvPath)
	return nil
}
