package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so callers can react without parsing messages.
type Kind uint8

// Error kinds used across stores and services.
const (
	KindUnknown Kind = iota

	// KindNotFound means an input document, book, or page does not exist.
	KindNotFound

	// KindCorruptInput means a document cannot be split into pages.
	KindCorruptInput

	// KindExtractionFailure means the OCR service or its task reported an error.
	KindExtractionFailure

	// KindPersistence means a store write failed or did not yield an expected identifier.
	KindPersistence

	// KindInvalidInput means a caller supplied malformed arguments.
	KindInvalidInput

	// KindUnavailable means a required collaborator is not configured.
	KindUnavailable
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindCorruptInput:
		return "corrupt input"
	case KindExtractionFailure:
		return "extraction failure"
	case KindPersistence:
		return "persistence error"
	case KindInvalidInput:
		return "invalid input"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by domain operations.
// Op names the operation that failed, Message adds context and Err is the cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err == nil {
		parts = append(parts, e.Kind.String())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind.
// Sentinels carry no Op, so errors.Is(err, ErrNotFound) matches every
// not-found error regardless of where it was raised.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Kind == e.Kind
}

// Domain errors usable with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}

	// ErrCorruptInput indicates a document could not be parsed.
	ErrCorruptInput = &Error{Kind: KindCorruptInput, Message: "corrupt input"}

	// ErrExtractionFailure indicates the OCR service reported a failure.
	ErrExtractionFailure = &Error{Kind: KindExtractionFailure, Message: "extraction failure"}

	// ErrPersistence indicates a store operation failed.
	ErrPersistence = &Error{Kind: KindPersistence, Message: "persistence error"}

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Message: "invalid input"}

	// ErrLLMUnavailable indicates no LLM profile is configured.
	ErrLLMUnavailable = &Error{Kind: KindUnavailable, Message: "LLM service unavailable"}
)

// E builds an Error of the given kind.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds an Error of the given kind with a formatted message.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
