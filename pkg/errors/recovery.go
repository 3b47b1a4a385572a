// Package errors provides comprehensive error handling utilities for sciforest.
//
// This file contains panic recovery utilities used by the tree-building workers.
// A panic inside a single tree build is converted into a PanicError so the
// ensemble can fail as a whole instead of crashing the process.

package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError represents an error that was created from a recovered panic.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace contains the stack trace at the time of panic
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String provides detailed information including stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a new PanicError with the given operation context and panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover converts a panic into an error assigned to *err.
// It must be deferred directly:
//
//	func buildTree() (err error) {
//	    defer Recover(&err, "buildTree")
//	    ...
//	}
//
// If *err already holds an error the panic is wrapped around it.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		panicErr := NewPanicError(operation, r)

		if *err != nil {
			*err = fmt.Errorf("%s (original error: %w)", panicErr.Error(), *err)
		} else {
			*err = panicErr
		}
	}
}

// SafeExecute executes fn and converts any panic into a PanicError.
//
//	err := SafeExecute("tree build", func() error {
//	    return learner.Learn(x, y, idx)
//	})
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
