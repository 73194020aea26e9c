// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "strconv"

// ExitError ends the process with Code and no "error:" line. A command
// returns it after printing its own verdict, as "binx keyring verify"
// does on failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return "exit code " + strconv.Itoa(e.Code) }

// ExitCode implements the exit-coder contract used by process.ExitCode.
func (e *ExitError) ExitCode() int { return e.Code }
