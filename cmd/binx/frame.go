// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/binx/cmd/binx/cli"
	"github.com/bureau-foundation/binx/lib/binx"
)

// Frame representations on the command line.
const (
	frameHex    = "hex"
	frameBinary = "binary"
)

func checkFrameFormat(format string) error {
	if format != frameHex && format != frameBinary {
		return cli.Validation("unknown --format %q (want hex or binary)", format)
	}
	return nil
}

// readFrame decodes frame input in the given representation.
func readFrame(data []byte, format string) ([]byte, error) {
	if format == frameHex {
		return decodeHexInput(data)
	}
	return data, nil
}

func (a *app) serializeCommand() *cli.Command {
	var (
		configPath string
		input      string
		format     string
		output     string
	)

	return &cli.Command{
		Name:    "serialize",
		Summary: "Encode a payload as an unencrypted frame",
		Description: `Read a JSON or CBOR payload and write the binx frame for it without
encryption. Useful for checking the wire layout and schema hash of a
payload, or for producing test vectors.

Output is lowercase hex unless --format binary.`,
		Usage: "binx serialize [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Print the frame of a payload as hex",
				Command:     `echo '{"userId": 42, "note": "hello"}' | binx serialize`,
			},
			{
				Description: "Write the raw frame to a file",
				Command:     "binx serialize --format binary -o frame.bin payload.json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("serialize", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "binx.yaml config file (default: $BINX_CONFIG)")
			flagSet.StringVar(&input, "input", "", "payload encoding: json or cbor (default: by file extension)")
			flagSet.StringVar(&format, "format", frameHex, "frame representation: hex or binary")
			flagSet.StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
			return flagSet
		},
		Run: func(args []string) error {
			if err := checkFrameFormat(format); err != nil {
				return err
			}
			cfg, err := loadConfig(configPath)
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

			limits := cfg.Limits
			frameBytes, err := binx.SerializePayload(p, binx.SerializeOptions{Limits: &limits})
			if err != nil {
				return err
			}
			if format == frameHex {
				frameBytes = []byte(hex.EncodeToString(frameBytes) + "\n")
			}
			return a.writeOutput(output, frameBytes)
		},
	}
}

func (a *app) parseCommand() *cli.Command {
	var (
		configPath        string
		format            string
		strict            bool
		rejectUnknownTags bool
		to                string
		output            string
	)

	return &cli.Command{
		Name:    "parse",
		Summary: "Decode an unencrypted frame",
		Description: `Read a binx frame (hex by default) and print its payload. The schema
hash is verified; frames written by older encoders are accepted unless
--strict is given or the config enables strict_schema_hash.`,
		Usage: "binx parse [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Decode a hex frame",
				Command:     "binx parse frame.hex",
			},
			{
				Description: "Show a binary frame as CBOR diagnostic notation",
				Command:     "binx parse --format binary --to diag frame.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("parse", pflag.ContinueOnError)
			flagSet.StringVar(&configPath, "config", "", "binx.yaml config file (default: $BINX_CONFIG)")
			flagSet.StringVar(&format, "format", frameHex, "frame representation: hex or binary")
			flagSet.BoolVar(&strict, "strict", false, "reject frames whose schema hash uses the legacy scheme")
			flagSet.BoolVar(&rejectUnknownTags, "reject-unknown-tags", false, "fail on unrecognised value tags instead of skipping them")
			flagSet.StringVar(&to, "to", outputJSON, "output encoding: json, cbor or diag")
			flagSet.StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
			return flagSet
		},
		Run: func(args []string) error {
			if err := checkFrameFormat(format); err != nil {
				return err
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			data, _, err := a.readInput(args)
			if err != nil {
				return err
			}
			frameBytes, err := readFrame(data, format)
			if err != nil {
				return err
			}

			limits := cfg.Limits
			p, err := binx.ParsePayload(frameBytes, binx.ParseOptions{
				StrictSchemaHash:  strict || cfg.Defaults.Strict(),
				RejectUnknownTags: rejectUnknownTags || cfg.Defaults.RejectUnknownTags,
				Limits:            &limits,
			})
			if err != nil {
				return err
			}
			rendered, err := encodePayload(p, to)
			if err != nil {
				return err
			}
			return a.writeOutput(output, rendered)
		},
	}
}
