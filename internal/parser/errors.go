package parser

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedLine        = errors.New("malformed line")
	ErrMissingExtendedBlock = errors.New("missing extended stat block")
	ErrFieldCountMismatch   = errors.New("field count mismatch")
	ErrNumericParse         = errors.New("numeric parse failure")
	ErrEmptyFile            = errors.New("empty stats file")
	ErrFileName             = errors.New("unrecognised stats file name")
)

// FieldCountError reports how many tokens a block needed versus what it had.
type FieldCountError struct {
	Block    string
	Expected int
	Actual   int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("%s block: expected %d fields, got %d", e.Block, e.Expected, e.Actual)
}

func (e *FieldCountError) Unwrap() error { return ErrFieldCountMismatch }

// NumericError reports a token that should have been a number.
type NumericError struct {
	Field string
	Index int
	Value string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("field %s (index %d): not a number: %q", e.Field, e.Index, e.Value)
}

func (e *NumericError) Unwrap() error { return ErrNumericParse }
