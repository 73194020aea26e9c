// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/binx/cmd/binx/cli"
	"github.com/bureau-foundation/binx/lib/binx"
	"github.com/bureau-foundation/binx/lib/compress"
	"github.com/bureau-foundation/binx/lib/config"
	"github.com/bureau-foundation/binx/lib/envelope"
)

// envelopeFlags are shared by commands that seal or open envelopes.
type envelopeFlags struct {
	configPath  string
	keys        keyFlags
	compress    bool
	compression string
	format      string
	aad         string
	output      string
	verbose     bool

	flagSet *pflag.FlagSet
}

func (e *envelopeFlags) register(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&e.configPath, "config", "", "binx.yaml config file (default: $BINX_CONFIG)")
	e.keys.register(flagSet)
	flagSet.BoolVar(&e.compress, "compress", false, "the frame is compressed inside the envelope")
	flagSet.StringVar(&e.compression, "compression", "", "compression algorithm: zlib, zstd or lz4 (default from config: zlib)")
	flagSet.StringVar(&e.format, "format", "", "envelope representation: binary or base64 (default from config: base64)")
	flagSet.StringVar(&e.aad, "aad", "", "additional authenticated data bound to the envelope")
	flagSet.StringVarP(&e.output, "output", "o", "", "write to a file instead of stdout")
	flagSet.BoolVarP(&e.verbose, "verbose", "v", false, "log start and success events")
	e.flagSet = flagSet
	return flagSet
}

// resolve merges the flags over the config defaults.
func (e *envelopeFlags) resolve(cfg *config.Config) (resolvedEnvelope, error) {
	resolved := resolvedEnvelope{
		compress:    cfg.Defaults.Compress,
		compression: cfg.Defaults.Compression,
	}
	if e.flagSet != nil && e.flagSet.Changed("compress") {
		resolved.compress = e.compress
	}
	if e.compression != "" {
		algorithm, err := compress.ParseAlgorithm(e.compression)
		if err != nil {
			return resolvedEnvelope{}, cli.Validation("--compression: %w", err)
		}
		resolved.compression = algorithm
	}

	formatName := cfg.Defaults.Format
	if e.format != "" {
		formatName = e.format
	}
	format, err := binx.FormatOf(formatName)
	if err != nil {
		return resolvedEnvelope{}, cli.Validation("--%w", err)
	}
	resolved.format = format

	if e.aad != "" {
		resolved.aad = []byte(e.aad)
	}
	return resolved, nil
}

type resolvedEnvelope struct {
	compress    bool
	compression compress.Algorithm
	format      binx.Format
	aad         []byte
}

func (a *app) encodeCommand() *cli.Command {
	var (
		flags envelopeFlags
		input string
	)

	return &cli.Command{
		Name:    "encode",
		Summary: "Encrypt a JSON or CBOR payload into an envelope",
		Description: `Read a payload and write it sealed in a binx envelope.

The payload is a JSON object (comments and trailing commas allowed) or
a CBOR map. Top-level values map onto field types: integers in the
signed 32-bit range become int32, other integers int64, fractions
float64, strings, booleans and null keep their type, and arrays or
objects are carried as opaque JSON.

The secret comes from --key, --key-file, --key-prompt, or a keyring.
With a keyring the active kid is used unless --kid names another.
Output is base64 text unless --format binary or the config says
otherwise.`,
		Usage: "binx encode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Encrypt a JSON file with kid 1",
				Command:     "binx encode --key-file secret.txt --kid 1 payload.json",
			},
			{
				Description: "Compress, bind to a tenant, and write binary",
				Command:     "binx encode --keyring keys.yaml --compress --aad tenant:acme --format binary -o payload.bin payload.json",
			},
			{
				Description: "Encrypt CBOR from stdin",
				Command:     "binx encode --key-prompt --input cbor < payload.cbor",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := flags.register("encode")
			flagSet.StringVar(&input, "input", "", "payload encoding: json or cbor (default: by file extension)")
			return flagSet
		},
		Run: func(args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			data, name, err := a.readInput(args)
			if err != nil {
				return err
			}
			encoding, err := inputEncoding(input, name)
			if err != nil {
				return err
			}
			p, err := decodePayload(data, encoding)
			if err != nil {
				return err
			}

			resolved, err := flags.resolve(cfg)
			if err != nil {
				return err
			}
			kid, material, err := flags.keys.encryptionKey(a, cfg)
			if err != nil {
				return err
			}

			limits := cfg.Limits
			sealed, err := binx.EncryptPayload(p, binx.EncryptOptions{
				Key:         material,
				KID:         kid,
				Compress:    resolved.compress,
				Compression: resolved.compression,
				Format:      resolved.format,
				AAD:         resolved.aad,
				Logger:      a.eventLogger("encode", flags.verbose),
				Limits:      &limits,
				Rand:        a.random,
			})
			if err != nil {
				return err
			}
			if resolved.format == binx.FormatBase64 {
				sealed = append(sealed, '\n')
			}
			return a.writeOutput(flags.output, sealed)
		},
	}
}

func (a *app) decodeCommand() *cli.Command {
	var (
		flags             envelopeFlags
		strict            bool
		rejectUnknownTags bool
		to                string
	)

	return &cli.Command{
		Name:    "decode",
		Summary: "Decrypt an envelope and print its payload",
		Description: `Read a binx envelope, open it, and print the payload.

With a single secret (--key, --key-file, --key-prompt) the secret is
used for the kid in the envelope header unless --kid says otherwise.
With a keyring every kid in it is available.

Output is indented JSON in field order. int64 values print as JSON
numbers, byte values as base64 strings and datetimes as RFC 3339
strings. Use --to cbor for a CBOR map or --to diag for CBOR diagnostic
notation.`,
		Usage: "binx decode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Decrypt with a keyring",
				Command:     "binx decode --keyring keys.yaml payload.b64",
			},
			{
				Description: "Decrypt with an age-sealed keyring",
				Command:     "binx decode --keyring keys.age --identity ~/.config/binx/identity.txt payload.b64",
			},
			{
				Description: "Decrypt a compressed binary envelope bound to a tenant",
				Command:     "binx decode --key-file secret.txt --compress --format binary --aad tenant:acme payload.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := flags.register("decode")
			flagSet.BoolVar(&strict, "strict", false, "reject frames whose schema hash uses the legacy scheme")
			flagSet.BoolVar(&rejectUnknownTags, "reject-unknown-tags", false, "fail on unrecognised value tags instead of skipping them")
			flagSet.StringVar(&to, "to", outputJSON, "output encoding: json, cbor or diag")
			return flagSet
		},
		Run: func(args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			data, _, err := a.readInput(args)
			if err != nil {
				return err
			}
			resolved, err := flags.resolve(cfg)
			if err != nil {
				return err
			}
			keyMap, err := flags.keys.decryptionKeys(a, cfg, func() int {
				return headerKID(data, resolved.format)
			})
			if err != nil {
				return err
			}

			limits := cfg.Limits
			p, err := binx.DecryptPayload(data, binx.DecryptOptions{
				KeyMap:            keyMap,
				Compress:          resolved.compress,
				Compression:       resolved.compression,
				Format:            resolved.format,
				StrictSchemaHash:  strict || cfg.Defaults.Strict(),
				RejectUnknownTags: rejectUnknownTags || cfg.Defaults.RejectUnknownTags,
				AAD:               resolved.aad,
				Logger:            a.eventLogger("decode", flags.verbose),
				Limits:            &limits,
			})
			if err != nil {
				return err
			}
			output, err := encodePayload(p, to)
			if err != nil {
				return err
			}
			return a.writeOutput(flags.output, output)
		},
	}
}

// headerKID reads the kid from the envelope header, or 0 when data is
// not a readable envelope. Decryption then reports the real problem.
func headerKID(data []byte, format binx.Format) int {
	raw := data
	if format == binx.FormatBase64 {
		decoded, err := binx.DecodeBase64(data)
		if err != nil {
			return 0
		}
		raw = decoded
	}
	header, err := envelope.ParseHeader(raw)
	if err != nil {
		return 0
	}
	return int(header.KID)
}
