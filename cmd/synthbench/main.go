// Command synthbench is the benchmark-harness CLI: it expands one or
// more configuration files into a sweep of synthesis runs, executes them
// against a synth binary, and writes a CSV report.
package main

import (
	"errors"
	"fmt"
	"os"
)

const (
	exitSuccess     = 0
	exitArgumentErr = 2
	exitInternalErr = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitSuccess
	}

	fmt.Fprintln(os.Stderr, err)
	return exitCode(err)
}

func exitCode(err error) int {
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return exitArgumentErr
	}
	return exitInternalErr
}
