// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"

	"github.com/bureau-foundation/binx/lib/binxerr"
)

// RequireCode fails the test unless err is a binx error with the given
// code. It returns the error so callers can inspect the message.
//
//	err := testutil.RequireCode(t, err, binxerr.LimitExceeded, "deep payload")
func RequireCode(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, err error, code binxerr.Code, context ...any) error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil error: %s", code, formatMessage(context))
		return nil
	}
	if got := binxerr.CodeOf(err); got != code {
		t.Fatalf("error code = %q, want %q (error: %v): %s", got, code, err, formatMessage(context))
	}
	return err
}

// formatMessage renders the optional context of a Require call: a
// plain string, a format string and its arguments, or any values.
func formatMessage(context []any) string {
	switch {
	case len(context) == 0:
		return "(no message)"
	case len(context) == 1:
		return fmt.Sprint(context[0])
	}
	if format, ok := context[0].(string); ok {
		return fmt.Sprintf(format, context[1:]...)
	}
	return fmt.Sprint(context...)
}
