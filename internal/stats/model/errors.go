package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so callers can apply one policy per kind.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindTransientFetch covers unreachable or failing node and price sources.
	KindTransientFetch
	// KindPersistence covers history log write failures.
	KindPersistence
	// KindMalformed covers data with an unexpected shape.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransientFetch:
		return "transient_fetch"
	case KindPersistence:
		return "persistence"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error attaches a kind and operation name to an underlying error.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TransientFetchError wraps err as KindTransientFetch.
func TransientFetchError(op string, err error) error {
	return &Error{Kind: KindTransientFetch, Op: op, Err: err}
}

// PersistenceError wraps err as KindPersistence.
func PersistenceError(op string, err error) error {
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}

// MalformedError wraps err as KindMalformed.
func MalformedError(op string, err error) error {
	return &Error{Kind: KindMalformed, Op: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
