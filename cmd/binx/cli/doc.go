// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework behind the binx binary.
//
// A [Command] tree is built in cmd/binx and run with
// [Command.Execute]: the first positional argument selects a
// subcommand, pflag parses the flags of the selected leaf, and Run
// gets what remains. -h, --help and "help" print generated help with
// usage, the subcommand table, flag defaults and examples. Mistyped
// commands and flags get a "did you mean" hint when a known name is
// within edit distance 3.
//
// Supporting pieces: [NewCommandLogger] for the slog logger handed to
// the binx event hook, [WriteJSON] and [WriteIndented] for JSON
// output, [ToolError] for categorized failures and [ExitError] for a
// silent non-zero exit.
package cli
