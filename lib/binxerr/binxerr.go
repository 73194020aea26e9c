// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binxerr

import (
	"errors"
	"fmt"
)

// Code identifies the class of a binx failure. The string values are
// stable and appear in CLI output and observability events.
type Code string

const (
	InvalidInput     Code = "BINX_INVALID_INPUT"
	InvalidKID       Code = "BINX_INVALID_KID"
	InvalidVersion   Code = "BINX_INVALID_VERSION"
	NotEncrypted     Code = "BINX_NOT_ENCRYPTED"
	DecryptFailed    Code = "BINX_DECRYPT_FAILED"
	KeyNotFound      Code = "BINX_KEY_NOT_FOUND"
	SchemaMismatch   Code = "BINX_SCHEMA_MISMATCH"
	PayloadTruncated Code = "BINX_PAYLOAD_TRUNCATED"
	LimitExceeded    Code = "BINX_LIMIT_EXCEEDED"
	UnsupportedType  Code = "BINX_UNSUPPORTED_TYPE"
)

// Error is the error type returned by the binx core. Extract it with
// errors.As:
//
//	var binxErr *binxerr.Error
//	if errors.As(err, &binxErr) {
//	    if binxErr.Code == binxerr.LimitExceeded { ... }
//	}
type Error struct {
	// Code is the failure class.
	Code Code

	// Message is the human-readable description.
	Message string

	// Path locates the offending value inside a payload (for example
	// "meta.tags[2]"). Empty when the failure is not tied to a value.
	Path string

	// Err is an optional underlying cause. Never set for DecryptFailed.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AtPath returns an *Error tied to a payload path.
func AtPath(code Code, path string, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Path: path}
}

// Wrap returns an *Error that carries cause as its underlying error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Is reports whether err is, or wraps, an *Error with the given code.
func Is(err error, code Code) bool {
	var binxErr *Error
	if errors.As(err, &binxErr) {
		return binxErr.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "" if
// err is not a binx error.
func CodeOf(err error) Code {
	var binxErr *Error
	if errors.As(err, &binxErr) {
		return binxErr.Code
	}
	return ""
}
