// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// Category classifies a startup error.
type Category string

const (
	// CategoryValidation: the operator passed bad flags, a bad config
	// file, or an unreadable menu file. Fix the input and rerun.
	CategoryValidation Category = "validation"

	// CategoryTransient: the renderer could not be reached. Rerunning
	// once the renderer is up may succeed.
	CategoryTransient Category = "transient"

	// CategoryInternal: anything else (terminal setup, I/O).
	CategoryInternal Category = "internal"
)

// Error is a categorized error with an optional operator hint.
type Error struct {
	Category Category
	Err      error
	Hint     string
}

// Error returns the message, followed by the hint on its own line when
// one is set.
func (e *Error) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\nHint: " + e.Hint
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error { return e.Err }

// WithHint attaches operator guidance and returns the receiver.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// Validation creates a validation error.
func Validation(format string, args ...any) *Error {
	return &Error{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *Error {
	return &Error{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *Error {
	return &Error{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// ExitError requests a specific exit code without printing anything
// further; the command has already reported the problem.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int { return e.Code }

// ExitCode maps err to a process exit code: 0 for nil, the requested
// code for an ExitError, 2 for validation errors, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return exitError.Code
	}
	var categorized *Error
	if errors.As(err, &categorized) && categorized.Category == CategoryValidation {
		return 2
	}
	return 1
}
