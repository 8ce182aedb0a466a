// Package apperrors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can tell an invalid credential apart from an
// unreachable server or a broken credential store and react accordingly.
//
// The package supports wrapping underlying errors while maintaining error kind
// information, making it easier to handle different classes of failures appropriately.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Auth indicates the server rejected the credentials or the operation
	// (wrong password, duplicate registration, expired token).
	Auth Kind = "auth_failed"
	// Persistence indicates the durable credential store could not be
	// read from or written to.
	Persistence Kind = "persistence_failed"
	// Network indicates the server could not be reached at all
	// (timeout, DNS failure, connection refused) or returned garbage.
	Network Kind = "network_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As chains.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf extracts the category from err, walking the wrap chain.
// It returns the empty Kind for nil or untyped errors.
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsAuth reports whether err is categorized as a credential rejection.
func IsAuth(err error) bool { return KindOf(err) == Auth }

// IsPersistence reports whether err is categorized as a credential-store failure.
func IsPersistence(err error) bool { return KindOf(err) == Persistence }

// IsNetwork reports whether err is categorized as a connectivity failure.
func IsNetwork(err error) bool { return KindOf(err) == Network }
