// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/binx/cmd/binx/cli"
	"github.com/bureau-foundation/binx/lib/binx"
	"github.com/bureau-foundation/binx/lib/config"
	"github.com/bureau-foundation/binx/lib/version"
)

// app carries the process environment commands read and write. Tests
// build one over buffers.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// random feeds nonces and generated secrets. Nil means crypto/rand.
	random io.Reader

	now func() time.Time

	// readPassword reads a line from the terminal without echo.
	readPassword func(prompt string) ([]byte, error)

	// logger builds the event logger for a command.
	logger func(level slog.Level) *slog.Logger
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
		readPassword: func(prompt string) ([]byte, error) {
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return nil, cli.Validation("--key-prompt requires a terminal on stdin")
			}
			fmt.Fprint(os.Stderr, prompt)
			line, err := term.ReadPassword(fd)
			fmt.Fprintln(os.Stderr)
			return line, err
		},
		logger: cli.NewCommandLogger,
	}
}

func (a *app) rootCommand() *cli.Command {
	return &cli.Command{
		Name: "binx",
		Description: `Binx: versioned binary frames in an authenticated envelope.

A payload is an ordered set of named, typed fields. Binx serializes it
into a frame (header, schema hash, tagged records) and seals the frame
with AES-256-GCM under a key derived from a secret selected by kid.`,
		HelpOutput: a.stderr,
		Subcommands: []*cli.Command{
			a.encodeCommand(),
			a.decodeCommand(),
			a.serializeCommand(),
			a.parseCommand(),
			a.inspectCommand(),
			a.keyringCommand(),
			a.versionCommand(),
		},
	}
}

func (a *app) versionCommand() *cli.Command {
	var short bool
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVar(&short, "short", false, "print only the version")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("version takes no arguments, got %q", args[0])
			}
			if short {
				fmt.Fprintln(a.stdout, version.Short())
				return nil
			}
			fmt.Fprintf(a.stdout, "binx %s\n", version.Full())
			return nil
		},
	}
}

// eventLogger returns the binx event hook for a command. Start and
// success events are only visible with --verbose.
func (a *app) eventLogger(command string, verbose bool) binx.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return binx.SlogLogger(a.logger(level).With("command", command))
}

// loadConfig reads the file named by path or BINX_CONFIG, falling back
// to built-in defaults when neither is set.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv("BINX_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
