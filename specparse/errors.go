package specparse

import (
	"errors"
	"fmt"
)

// Sentinel errors for the specparse package, following the two-tier
// convention used throughout this module: a bare sentinel for
// errors.Is, wrapped with positional context by ParseError at the
// call site.
var (
	// ErrMissingSection indicates the input text has no [GENERAL] section,
	// or [GENERAL] has no "templates:" entry.
	ErrMissingSection = errors.New("specparse: missing required section")

	// ErrInvalidTemplateCount indicates a "templates:" value that is not a
	// positive integer.
	ErrInvalidTemplateCount = errors.New("specparse: invalid template count")

	// ErrMalformedVariable indicates an [INPUT_VARIABLES]/[OUTPUT_VARIABLES]
	// token that is not of the form "name_k" with k a valid template index.
	ErrMalformedVariable = errors.New("specparse: malformed variable declaration")

	// ErrMalformedFormula indicates a statement in [ASSUMPTIONS] or
	// [GUARANTEES] that could not be tokenized or parsed.
	ErrMalformedFormula = errors.New("specparse: malformed formula")

	// ErrUnknownSignal indicates an identifier in a formula that does not
	// resolve against any declared input/output variable.
	ErrUnknownSignal = errors.New("specparse: identifier does not resolve to a declared signal")

	// ErrUnexpectedToken indicates a syntax error while parsing a formula's
	// expression grammar.
	ErrUnexpectedToken = errors.New("specparse: unexpected token")
)

// ParseError wraps one of the sentinels above with the section or
// statement it was raised from, mirroring SpecificationError's shape.
type ParseError struct {
	Context string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("specparse: %s: %s", e.Context, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func wrap(context string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Context: context, Err: err}
}
