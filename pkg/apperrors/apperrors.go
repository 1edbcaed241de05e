// Package apperrors defines the error taxonomy for the conversion engine.
//
// Fatal conditions are sentinel errors checked with Is; recoverable
// conditions never surface here, they aggregate into warnings and skipped
// items on the conversion result. Errors are created and wrapped through
// github.com/cockroachdb/errors so callers get stack traces and
// Is/As-compatible chains.
package apperrors

import (
	crdb "github.com/cockroachdb/errors"
)

// Re-exports so callers need a single errors import.
var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Mark   = crdb.Mark
	Unwrap = crdb.Unwrap
	Join   = crdb.Join
)

var (
	// ErrEmptyInput indicates the source document was empty or whitespace.
	ErrEmptyInput = New("empty input")

	// ErrParse indicates the source document could not be parsed at all.
	ErrParse = New("parse error")

	// ErrNoTriples indicates a parse succeeded but produced an empty graph.
	ErrNoTriples = New("no RDF triples found")

	// ErrInvalidTargetType indicates a type mapping names a value type
	// outside the fixed Fabric primitive set.
	ErrInvalidTargetType = New("invalid target type")

	// ErrUnknownFormat indicates a format name with no registered handler.
	ErrUnknownFormat = New("unknown format")

	// ErrCancelled indicates cooperative cancellation; the accompanying
	// conversion result holds everything converted up to that point.
	ErrCancelled = New("conversion cancelled")

	// ErrLimitExceeded indicates the output violates a Fabric API limit.
	ErrLimitExceeded = New("fabric limit exceeded")

	// ErrIDCapacity indicates the ID generator cannot reserve the requested
	// range without leaving the 13-digit budget.
	ErrIDCapacity = New("id capacity exhausted")
)

// IsCancelled reports whether err is or wraps ErrCancelled.
func IsCancelled(err error) bool {
	return Is(err, ErrCancelled)
}
