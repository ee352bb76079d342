// Package errs defines the error kinds shared across the tag database core.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a core error, independent of the
// operation that produced it.
type Kind string

const (
	KindInvalidTag         Kind = "invalid_tag"
	KindNotUnlinkable      Kind = "not_unlinkable"
	KindConfiguration      Kind = "configuration"
	KindUnknownAction      Kind = "unknown_action"
	KindUnknownTemplate    Kind = "unknown_template"
	KindConnectionPool     Kind = "connection_pool"
	KindStoreTransaction   Kind = "store_transaction"
	KindUnknownID          Kind = "unknown_id"
	KindEmptyExpression    Kind = "empty_expression"
	KindUnexpectedEOF      Kind = "unexpected_eof"
	KindInvalidCharacter   Kind = "invalid_character"
	KindUnclosedDelimiter  Kind = "unclosed_delimiter"
	KindUnexpectedChar     Kind = "unexpected_character"
	KindMissingValue       Kind = "missing_value"
	KindUnknownExpansion   Kind = "unknown_expansion"
	KindInvalidIdentifier  Kind = "invalid_identifier"
	KindRecursionLimit     Kind = "recursion_limit"
	KindFailedCapture      Kind = "failed_capture"
	KindUnknownVariable    Kind = "unknown_variable"
	KindUnknownOperator    Kind = "unknown_operator"
	KindInvalidModifier    Kind = "invalid_modifier"
	KindInvalidNamespace   Kind = "invalid_namespace"
	KindWrongPipelineState Kind = "wrong_pipeline_state"
	KindArgument           Kind = "argument"
	KindNotImplemented     Kind = "not_implemented"
)

// Error wraps an underlying error with a stable Kind so callers can
// branch on category via errors.Is/errors.As without parsing messages.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is (or wraps) an *Error with the same Kind,
// so errors.Is matches two *Error values by Kind alone.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// New constructs an *Error for the given operation and kind, optionally
// wrapping a lower-level cause.
func New(op string, kind Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// Of reports the Kind of err if it (or something it wraps) is an *Error.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := Of(err)
	return ok && k == kind
}
