// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"os"

	"github.com/bureau-foundation/binx/cmd/binx/cli"
	"github.com/bureau-foundation/binx/lib/process"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own verdict return an ExitError
		// with the desired status. No "error:" line for those.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		process.Fatal(err)
	}
}

func run() error {
	return newApp().rootCommand().Execute(os.Args[1:])
}
