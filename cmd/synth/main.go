// Command synth is the CLI front-end of the bounded-synthesis pipeline:
// it reads a sectioned LTL specification file, runs the outer loop, and
// prints the result.
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

// exitCode maps a non-nil error returned by the root command to its exit
// status: 0 on success (handled by the caller before exitCode is ever
// reached), 2 for a malformed argument or unparseable specification
// file, and 1 for anything else (a failure inside the synthesis
// pipeline itself).
func exitCode(err error) int {
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return exitArgumentErr
	}
	return exitInternalErr
}
