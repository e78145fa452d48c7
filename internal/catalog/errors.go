package catalog

import (
	"errors"
	"fmt"
)

// Error categorises failures at the CMS boundary so callers can route to the
// right page state without inspecting transport details.
type Error struct {
	op        string
	err       error
	notFound  bool
	fetch     bool
	malformed bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.op != "" {
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
	return e.err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// IsNotFound reports whether no catalog entry matched the request.
func (e *Error) IsNotFound() bool {
	return e != nil && e.notFound
}

// IsFetchFailure reports whether the CMS request itself failed
// (transport error, non-success status, or an undecodable payload).
func (e *Error) IsFetchFailure() bool {
	return e != nil && e.fetch
}

// IsMalformed reports whether a single record lacked the expected shape.
func (e *Error) IsMalformed() bool {
	return e != nil && e.malformed
}

// NewNotFoundError wraps err as a not-found failure of the given operation.
func NewNotFoundError(op string, err error) *Error {
	return &Error{op: op, err: err, notFound: true}
}

// NewFetchError wraps err as an upstream fetch failure of the given operation.
func NewFetchError(op string, err error) *Error {
	return &Error{op: op, err: err, fetch: true}
}

// NewMalformedError wraps err as a malformed-record failure of the given operation.
func NewMalformedError(op string, err error) *Error {
	return &Error{op: op, err: err, malformed: true}
}

// IsNotFound reports whether err carries the not-found category.
func IsNotFound(err error) bool {
	var cErr *Error
	return errors.As(err, &cErr) && cErr.IsNotFound()
}

// IsFetchFailure reports whether err carries the fetch-failure category.
func IsFetchFailure(err error) bool {
	var cErr *Error
	return errors.As(err, &cErr) && cErr.IsFetchFailure()
}

// IsMalformed reports whether err carries the malformed-record category.
func IsMalformed(err error) bool {
	var cErr *Error
	return errors.As(err, &cErr) && cErr.IsMalformed()
}
