package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTable is returned for a source without a header row.
	ErrEmptyTable = errors.New("table has no header row")

	// ErrDuplicateProject is returned when two descriptors share a project name.
	ErrDuplicateProject = errors.New("duplicate project name")

	// ErrMissingThreshold is returned when a descriptor lacks a configured tier.
	ErrMissingThreshold = errors.New("missing tier threshold")
)

// FieldParseError reports a lateness or score cell that is not numeric.
type FieldParseError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("field %q: cannot parse %q as a number: %v", e.Field, e.Value, e.Err)
}

func (e *FieldParseError) Unwrap() error {
	return e.Err
}

// MissingColumnError reports a configured column absent from a table header.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing column %q", e.Table, e.Column)
}
