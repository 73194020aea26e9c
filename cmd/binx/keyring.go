// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/binx/cmd/binx/cli"
	"github.com/bureau-foundation/binx/lib/keyring"
	"github.com/bureau-foundation/binx/lib/sealed"
	"github.com/bureau-foundation/binx/lib/secret"
)

func (a *app) keyringCommand() *cli.Command {
	return &cli.Command{
		Name:    "keyring",
		Summary: "Manage kid-to-secret keyrings",
		Description: `A keyring is a YAML file mapping kids (0-255) to secrets, with an
optional active kid used for encryption:

  active: 2
  keys:
    1: q6urq6urq6urq6urq6urq6urq6urq6urq6urq6urq6s
    2: ...

Keyrings can be sealed to one or more age recipients so they are safe
to commit; "binx decode --keyring keys.age --identity id.txt" opens
them in memory.`,
		Subcommands: []*cli.Command{
			a.keyringAddCommand(),
			a.keyringListCommand(),
			a.keyringVerifyCommand(),
			a.keyringKeygenCommand(),
			a.keyringSealCommand(),
		},
	}
}

func (a *app) keyringAddCommand() *cli.Command {
	var kid kidFlag

	return &cli.Command{
		Name:    "add",
		Summary: "Add a generated secret to a plaintext keyring",
		Description: `Generate a 32-byte secret, file it under --kid (default: one above the
highest kid present, or 0), and make it the active kid. The keyring
file is created if it does not exist.`,
		Usage: "binx keyring add [--kid N] <keyring.yaml>",
		Examples: []cli.Example{
			{
				Description: "Start a keyring and rotate to kid 2",
				Command:     "binx keyring add --kid 1 keys.yaml && binx keyring add keys.yaml",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
			kid = kidFlag{}
			flagSet.Var(&kid, "kid", "kid for the new secret")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: binx keyring add [--kid N] <keyring.yaml>")
			}
			path := args[0]

			ring := &keyring.Keyring{}
			data, err := os.ReadFile(path)
			switch {
			case errors.Is(err, fs.ErrNotExist):
			case err != nil:
				return fmt.Errorf("reading keyring: %w", err)
			default:
				if ring, err = keyring.Parse(data); err != nil {
					return err
				}
			}

			next := 0
			if kids := ring.KIDs(); len(kids) > 0 {
				next = kids[len(kids)-1] + 1
			}
			if kid.set {
				next = kid.value
			}
			if err := ring.Add(next, a.random); err != nil {
				return cli.Validation("%w", err)
			}

			encoded, err := ring.Marshal()
			if err != nil {
				return cli.Internal("encoding keyring: %w", err)
			}
			if err := os.WriteFile(path, encoded, 0o600); err != nil {
				return cli.Internal("writing keyring: %w", err)
			}
			fmt.Fprintf(a.stdout, "added kid %d to %s (active)\n", next, path)
			return nil
		},
	}
}

func (a *app) keyringListCommand() *cli.Command {
	var (
		identity string
		jsonOut  bool
	)

	return &cli.Command{
		Name:    "list",
		Summary: "List the kids in a keyring",
		Usage:   "binx keyring list [--identity id.txt] <keyring>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&identity, "identity", "", "age identity file for a sealed keyring")
			flagSet.BoolVar(&jsonOut, "json", false, "print as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: binx keyring list [--identity id.txt] <keyring>")
			}
			ring, err := keyring.Load(args[0], identity)
			if err != nil {
				return err
			}

			if jsonOut {
				return cli.WriteJSON(a.stdout, struct {
					KIDs   []int `json:"kids"`
					Active *int  `json:"active,omitempty"`
				}{KIDs: ring.KIDs(), Active: ring.Active})
			}
			for _, kid := range ring.KIDs() {
				marker := ""
				if ring.Active != nil && *ring.Active == kid {
					marker = " (active)"
				}
				fmt.Fprintf(a.stdout, "%d%s\n", kid, marker)
			}
			return nil
		},
	}
}

func (a *app) keyringVerifyCommand() *cli.Command {
	var identity string

	return &cli.Command{
		Name:    "verify",
		Summary: "Check that a keyring opens and can encrypt",
		Description: `Load the keyring (opening it with --identity when sealed), validate
every kid and secret, and check that an encryption key can be chosen.
Prints "ok" or "FAIL: <reason>" and exits 1 on failure.`,
		Usage: "binx keyring verify [--identity id.txt] <keyring>",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flagSet.StringVar(&identity, "identity", "", "age identity file for a sealed keyring")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: binx keyring verify [--identity id.txt] <keyring>")
			}
			ring, err := keyring.Load(args[0], identity)
			if err == nil {
				var kid int
				if kid, _, err = ring.ActiveKey(); err == nil {
					fmt.Fprintf(a.stdout, "ok: %d keys, encrypts with kid %d\n", len(ring.Keys), kid)
					return nil
				}
			}
			fmt.Fprintf(a.stdout, "FAIL: %v\n", err)
			return &cli.ExitError{Code: 1}
		},
	}
}

func (a *app) keyringKeygenCommand() *cli.Command {
	var output string

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age identity for sealing keyrings",
		Description: `Generate an age x25519 identity. The identity file (private key) goes
to --output or stdout; the public key is printed to stderr so it can be
handed to "binx keyring seal --recipient".`,
		Usage: "binx keyring keygen [-o identity.txt]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("keygen", pflag.ContinueOnError)
			flagSet.StringVarP(&output, "output", "o", "", "write the identity file here instead of stdout")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("keygen takes no arguments, got %q", args[0])
			}
			if output != "" {
				if _, err := os.Stat(output); err == nil {
					return cli.Validation("%s already exists; refusing to overwrite an identity", output)
				}
			}

			identity, err := sealed.GenerateIdentity()
			if err != nil {
				return err
			}
			defer identity.Close()

			file := identity.IdentityFile(a.now())
			defer secret.Zero(file)
			if err := a.writeOutput(output, file); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "Public key: %s\n", identity.Recipient)
			return nil
		},
	}
}

func (a *app) keyringSealCommand() *cli.Command {
	var (
		recipients []string
		output     string
	)

	return &cli.Command{
		Name:    "seal",
		Summary: "Seal a plaintext keyring to age recipients",
		Description: `Validate a plaintext YAML keyring and encrypt it to every --recipient
as ASCII-armored age. The plaintext file is left in place.`,
		Usage: "binx keyring seal --recipient age1... [-o keys.age] <keyring.yaml>",
		Examples: []cli.Example{
			{
				Description: "Seal to two operators",
				Command:     "binx keyring seal --recipient age1alice... --recipient age1bob... -o keys.age keys.yaml",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("seal", pflag.ContinueOnError)
			flagSet.StringArrayVarP(&recipients, "recipient", "r", nil, "age recipient (repeatable)")
			flagSet.StringVarP(&output, "output", "o", "", "write the sealed keyring here instead of stdout")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: binx keyring seal --recipient age1... <keyring.yaml>")
			}
			if len(recipients) == 0 {
				return cli.Validation("at least one --recipient is required")
			}
			for _, recipient := range recipients {
				if err := sealed.ParseRecipient(recipient); err != nil {
					return cli.Validation("%w", err)
				}
			}

			plaintext, err := secret.ReadFromPath(args[0])
			if err != nil {
				return err
			}
			defer plaintext.Close()
			if _, err := keyring.Parse(plaintext.Bytes()); err != nil {
				return err
			}

			ciphertext, err := sealed.Seal(plaintext.Bytes(), recipients)
			if err != nil {
				return err
			}
			return a.writeOutput(output, ciphertext)
		},
	}
}
