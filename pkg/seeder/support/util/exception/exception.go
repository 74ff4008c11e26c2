// Package exception provides the custom error type used across tanemaki.
// It classifies seeding failures so callers can distinguish conditions that
// end the run cleanly, conditions that skip a single row, and conditions
// that abort the run outright.
package exception

import (
	"errors"
	"fmt"
	"runtime"
)

// BatchError is the error type produced by the seeding pipeline.
// It carries the module where the failure occurred, a concise message,
// the wrapped original error and flags describing how the failure may
// be handled.
type BatchError struct {
	// Module indicates where the error occurred (e.g. "header", "transform", "loader", "config").
	Module string
	// Message is a concise description of the error.
	Message string
	// OriginalErr is the wrapped original error, if any.
	OriginalErr error
	// isSkippable indicates the offending row may be dropped and the run continued.
	isSkippable bool
	// isConfig indicates a configuration error that ends the run before any data is touched.
	isConfig bool
	// StackTrace captures the stack at construction time, for debugging.
	StackTrace string
}

// NewBatchError creates a new BatchError.
//
// module: The module where the error occurred.
// message: The error message.
// originalErr: The original error to wrap (may be nil).
// isSkippable: Whether the offending row may be skipped.
func NewBatchError(module, message string, originalErr error, isSkippable bool) *BatchError {
	buf := make([]byte, 2048)
	n := runtime.Stack(buf, false)

	return &BatchError{
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
		isSkippable: isSkippable,
		StackTrace:  string(buf[:n]),
	}
}

// NewConfigError creates a BatchError describing a configuration problem.
// Configuration errors are terminal for the run but handled cleanly: they are
// reported once and never skip-processed.
func NewConfigError(module, message string, originalErr error) *BatchError {
	e := NewBatchError(module, message, originalErr, false)
	e.isConfig = true
	return e
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap returns the original error for errors.Unwrap.
func (e *BatchError) Unwrap() error {
	return e.OriginalErr
}

// IsSkippable returns whether the offending row may be skipped.
func (e *BatchError) IsSkippable() bool {
	return e.isSkippable
}

// IsConfig returns whether this is a configuration error.
func (e *BatchError) IsConfig() bool {
	return e.isConfig
}

// IsBatchError reports whether err is, or wraps, a *BatchError.
func IsBatchError(err error) bool {
	var be *BatchError
	return errors.As(err, &be)
}

// IsSkippable reports whether err is, or wraps, a skippable BatchError.
// Non-BatchError values are never skippable.
func IsSkippable(err error) bool {
	var be *BatchError
	if errors.As(err, &be) {
		return be.IsSkippable()
	}
	return false
}

// IsConfigError reports whether err is, or wraps, a configuration BatchError.
func IsConfigError(err error) bool {
	var be *BatchError
	if errors.As(err, &be) {
		return be.IsConfig()
	}
	return false
}
