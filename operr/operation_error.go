// Package operr provides OperationError, a correlation-tagging wrapper for
// errors that flow out of a connected operation state: which operation
// failed, and within which scope, survive the errors.As boundary.
package operr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ygrebnov/errorc"
)

// OperationError exposes correlation metadata for a failing operation:
// which operation produced the error, and under which scope it was nested.
type OperationError interface {
	error
	Unwrap() error
	OperationID() (uuid.UUID, bool)
	ScopeID() (uuid.UUID, bool)
}

type taggedError struct {
	err        error
	opID       uuid.UUID
	hasOpID    bool
	scopeID    uuid.UUID
	hasScopeID bool
}

// New wraps err with the correlation ID of the operation that produced it.
// New(nil, ...) returns nil, matching errors.Join's "nil in, nil out" shape
// so callers can wrap unconditionally.
func New(err error, opID uuid.UUID) error {
	if err == nil {
		return nil
	}
	return &taggedError{err: errorc.Wrap(err, "operation failed"), opID: opID, hasOpID: true}
}

// NewInScope is New, additionally tagging the scope the operation was
// nested under (see package scope's Nest).
func NewInScope(err error, opID, scopeID uuid.UUID) error {
	if err == nil {
		return nil
	}
	return &taggedError{
		err:        errorc.Wrap(err, "operation failed"),
		opID:       opID,
		hasOpID:    true,
		scopeID:    scopeID,
		hasScopeID: true,
	}
}

func (e *taggedError) Error() string { return e.err.Error() }
func (e *taggedError) Unwrap() error { return e.err }

func (e *taggedError) OperationID() (uuid.UUID, bool) {
	return e.opID, e.hasOpID
}

func (e *taggedError) ScopeID() (uuid.UUID, bool) {
	return e.scopeID, e.hasScopeID
}

func (e *taggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "operation(id=%v,scope=%v): %+v", e.opID, e.scopeID, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractOperationID returns the operation ID tagged onto err, if any.
func ExtractOperationID(err error) (uuid.UUID, bool) {
	var oe OperationError
	if errors.As(err, &oe) {
		return oe.OperationID()
	}
	return uuid.UUID{}, false
}

// ExtractScopeID returns the scope ID tagged onto err, if any.
func ExtractScopeID(err error) (uuid.UUID, bool) {
	var oe OperationError
	if errors.As(err, &oe) {
		return oe.ScopeID()
	}
	return uuid.UUID{}, false
}
