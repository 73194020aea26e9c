// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory says whose problem a command error is.
type ErrorCategory string

const (
	// CategoryValidation: bad flags or arguments. Exit status 2.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a named file, keyring or kid is missing.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryInternal: an output write or encoding step failed.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError tags a command error with an [ErrorCategory]. Errors from
// the binx libraries are returned uncategorized.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode is 2 for validation errors and 1 for everything else.
func (e *ToolError) ExitCode() int {
	if e.Category == CategoryValidation {
		return 2
	}
	return 1
}

func categorized(category ErrorCategory, format string, args []any) *ToolError {
	return &ToolError{Category: category, Err: fmt.Errorf(format, args...)}
}

// Validation reports unusable input from the caller. The format may
// use %w.
func Validation(format string, args ...any) *ToolError {
	return categorized(CategoryValidation, format, args)
}

// NotFound reports a missing file, keyring entry or identity.
func NotFound(format string, args ...any) *ToolError {
	return categorized(CategoryNotFound, format, args)
}

// Internal reports a failure that is not the caller's fault.
func Internal(format string, args ...any) *ToolError {
	return categorized(CategoryInternal, format, args)
}
