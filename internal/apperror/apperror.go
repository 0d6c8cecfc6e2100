// Package apperror defines the closed set of error kinds surfaced by the
// snippet and attachment stores.
package apperror

import (
	"errors"
	"fmt"
)

// Kind enumerates the error variants.
type Kind int

const (
	KindUnknown Kind = iota
	KindMalformedIdentifier
	KindNotFound
	KindMultipleMatches
	KindIO
	KindStorage
)

var (
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrNotFound            = errors.New("not found")
	ErrMultipleMatches     = errors.New("multiple matches")
	ErrIO                  = errors.New("io error")
	ErrStorage             = errors.New("storage error")
)

func (k Kind) String() string {
	switch k {
	case KindMalformedIdentifier:
		return "malformed_identifier"
	case KindNotFound:
		return "not_found"
	case KindMultipleMatches:
		return "multiple_matches"
	case KindIO:
		return "io"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindMalformedIdentifier:
		return ErrMalformedIdentifier
	case KindNotFound:
		return ErrNotFound
	case KindMultipleMatches:
		return ErrMultipleMatches
	case KindIO:
		return ErrIO
	case KindStorage:
		return ErrStorage
	default:
		return nil
	}
}

// Error is the structured error returned by core operations. Only the
// fields relevant to Kind are populated.
type Error struct {
	Kind Kind

	// Input is the offending identifier or partial identifier.
	Input string
	// Collection names the entity namespace ("snippet", "attachment").
	Collection string
	// Path is the filesystem path for KindIO.
	Path string
	// Op describes the failed backend operation for KindStorage.
	Op string

	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var msg string
	switch e.Kind {
	case KindMalformedIdentifier:
		msg = fmt.Sprintf("malformed identifier %q", e.Input)
	case KindNotFound:
		msg = fmt.Sprintf("%s not found: %s", e.Collection, e.Input)
	case KindMultipleMatches:
		msg = fmt.Sprintf("partial %q matches multiple %s ids", e.Input, e.Collection)
	case KindIO:
		msg = fmt.Sprintf("read %s", e.Path)
	case KindStorage:
		msg = fmt.Sprintf("storage: %s", e.Op)
	default:
		msg = "unknown error"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// MalformedIdentifier reports an unparseable identifier string.
func MalformedIdentifier(input string, cause error) *Error {
	return &Error{Kind: KindMalformedIdentifier, Input: input, Err: cause}
}

// NotFound reports that no entity in collection matches input.
func NotFound(collection, input string) *Error {
	return &Error{Kind: KindNotFound, Collection: collection, Input: input}
}

// MultipleMatches reports an ambiguous partial identifier.
func MultipleMatches(collection, partial string) *Error {
	return &Error{Kind: KindMultipleMatches, Collection: collection, Input: partial}
}

// IO reports a filesystem failure while reading path.
func IO(path string, cause error) *Error {
	return &Error{Kind: KindIO, Path: path, Err: cause}
}

// Storage reports a failed or inconsistent backend operation.
func Storage(op string, cause error) *Error {
	return &Error{Kind: KindStorage, Op: op, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
