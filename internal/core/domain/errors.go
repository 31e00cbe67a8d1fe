package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source or record format.
	ErrUnsupportedType = errors.New("unsupported type")

	// Import Errors.

	// ErrMalformedRecord indicates a record could not be decoded into an entity.
	// A single malformed record aborts the whole import.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMissingGUID indicates a decoded record carries no identifier.
	ErrMissingGUID = errors.New("record has no guid")

	// ErrImportStarted indicates Import was called on an importer that already ran.
	ErrImportStarted = errors.New("import already started")

	// ErrDisplayBuild indicates the display consumer failed to build its view.
	// The importer stays in the awaiting-display phase afterwards.
	ErrDisplayBuild = errors.New("display build failed")
)

// RecordError reports the record that stopped a load.
type RecordError struct {
	// Index is the record's position in the source sequence.
	Index int

	// Origin describes where the record came from (file and line, row id).
	Origin string

	// Err is the underlying decode failure.
	Err error
}

// Error implements error.
func (e *RecordError) Error() string {
	if e.Origin == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.Origin, e.Err)
}

// Unwrap returns the decode failure.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// Is reports malformed-record errors so callers can match on the sentinel
// regardless of the decoder's own error.
func (e *RecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
