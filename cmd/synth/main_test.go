package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeMapsArgumentErrorToTwo(t *testing.T) {
	assert.Equal(t, exitArgumentErr, exitCode(argErr(errors.New("bad flag"))))
}

func TestExitCodeMapsOtherErrorsToOne(t *testing.T) {
	assert.Equal(t, exitInternalErr, exitCode(errors.New("solver exploded")))
}

// A synth.Run failure reaches main wrapped in fmt.Errorf("synth: %w", ...);
// exitCode must still classify an ArgumentError found further down that
// chain correctly rather than only matching a bare top-level one.
func TestExitCodeUnwrapsWrappedArgumentError(t *testing.T) {
	err := fmt.Errorf("synth: %w", argErr(errors.New("malformed spec file")))
	assert.Equal(t, exitArgumentErr, exitCode(err))
}
