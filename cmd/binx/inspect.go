// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/binx/cmd/binx/cli"
	"github.com/bureau-foundation/binx/lib/binx"
	"github.com/bureau-foundation/binx/lib/binxerr"
	"github.com/bureau-foundation/binx/lib/envelope"
	"github.com/bureau-foundation/binx/lib/frame"
	"github.com/bureau-foundation/binx/lib/policy"
	"github.com/bureau-foundation/binx/lib/schemahash"
)

// inspection is the result of "binx inspect".
type inspection struct {
	Envelope *envelopeReport `json:"envelope,omitempty"`
	Frame    *frameReport    `json:"frame,omitempty"`
}

type envelopeReport struct {
	Encrypted       bool   `json:"encrypted"`
	Version         int    `json:"version"`
	KID             int    `json:"kid"`
	Nonce           string `json:"nonce"`
	Tag             string `json:"tag"`
	CiphertextBytes int    `json:"ciphertext_bytes"`
}

type frameReport struct {
	Version    int    `json:"version"`
	FieldCount int    `json:"field_count"`
	SchemaHash string `json:"schema_hash"`

	// Schema is "current" or "legacy" for the scheme the stored hash
	// matches, "mismatch" when it matches neither, or the decode error.
	Schema        string         `json:"schema"`
	Records       []recordReport `json:"records"`
	TrailingBytes int            `json:"trailing_bytes"`
}

type recordReport struct {
	Offset int    `json:"offset"`
	Name   string `json:"name"`
	Tag    string `json:"tag"`
	Bytes  int    `json:"bytes"`
}

func (a *app) inspectCommand() *cli.Command {
	var (
		flags     envelopeFlags
		frameMode bool
		jsonOut   bool
	)

	return &cli.Command{
		Name:    "inspect",
		Summary: "Show the structure of an envelope or frame",
		Description: `Print the envelope header (flag, version, kid, nonce, tag) of an
encrypted payload. When a key is given the envelope is opened and the
frame inside is shown too: field count, schema hash and which scheme
it matches, and the offset, name, tag and size of every record.

With --frame the input is an unencrypted frame (hex unless --format
binary) and only the frame is shown.`,
		Usage: "binx inspect [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Show an envelope header",
				Command:     "binx inspect payload.b64",
			},
			{
				Description: "Show the frame layout inside an envelope",
				Command:     "binx inspect --keyring keys.yaml payload.b64",
			},
			{
				Description: "Inspect a hex frame as JSON",
				Command:     "binx inspect --frame --json frame.hex",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := flags.register("inspect")
			flagSet.BoolVar(&frameMode, "frame", false, "input is an unencrypted frame")
			flagSet.BoolVar(&jsonOut, "json", false, "print the report as JSON")
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

			var report inspection
			if frameMode {
				format := flags.format
				if format == "" {
					format = frameHex
				}
				if err := checkFrameFormat(format); err != nil {
					return err
				}
				frameBytes, err := readFrame(data, format)
				if err != nil {
					return err
				}
				report.Frame, err = inspectFrame(frameBytes, cfg.Limits)
				if err != nil {
					return err
				}
			} else {
				resolved, err := flags.resolve(cfg)
				if err != nil {
					return err
				}
				raw := data
				if resolved.format == binx.FormatBase64 {
					if raw, err = binx.DecodeBase64(data); err != nil {
						return err
					}
				}
				report.Envelope, err = inspectEnvelope(raw)
				if err != nil {
					return err
				}

				if flags.keys.given() || cfg.Keyring.Path != "" {
					keyMap, err := flags.keys.decryptionKeys(a, cfg, func() int { return report.Envelope.KID })
					if err != nil {
						return err
					}
					limits := cfg.Limits
					frameBytes, _, err := binx.OpenFrame(raw, binx.DecryptOptions{
						KeyMap:      keyMap,
						Compress:    resolved.compress,
						Compression: resolved.compression,
						Format:      binx.FormatBinary,
						AAD:         resolved.aad,
						Limits:      &limits,
					})
					if err != nil {
						return err
					}
					report.Frame, err = inspectFrame(frameBytes, limits)
					if err != nil {
						return err
					}
				}
			}

			var buffer bytes.Buffer
			if jsonOut {
				if err := cli.WriteJSON(&buffer, report); err != nil {
					return err
				}
			} else {
				writeInspection(&buffer, report)
			}
			return a.writeOutput(flags.output, buffer.Bytes())
		},
	}
}

func inspectEnvelope(raw []byte) (*envelopeReport, error) {
	header, err := envelope.ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	return &envelopeReport{
		Encrypted:       header.Encrypted,
		Version:         int(header.Version),
		KID:             int(header.KID),
		Nonce:           hex.EncodeToString(header.Nonce[:]),
		Tag:             hex.EncodeToString(header.Tag[:]),
		CiphertextBytes: len(raw) - envelope.HeaderSize,
	}, nil
}

func inspectFrame(data []byte, limits policy.Limits) (*frameReport, error) {
	parsed, err := frame.Parse(data)
	if err != nil {
		return nil, err
	}

	report := &frameReport{
		Version:       int(parsed.Version),
		FieldCount:    int(parsed.FieldCount),
		SchemaHash:    parsed.SchemaHash.String(),
		Records:       make([]recordReport, 0, len(parsed.Records)),
		TrailingBytes: parsed.Trailing,
	}
	for _, record := range parsed.Records {
		report.Records = append(report.Records, recordReport{
			Offset: record.Offset,
			Name:   record.Name,
			Tag:    record.Tag.Name(),
			Bytes:  len(record.Value),
		})
	}

	decoded, err := frame.Decode(data, frame.DecodeOptions{Limits: &limits})
	switch {
	case err == nil && schemahash.Current(decoded) == parsed.SchemaHash:
		report.Schema = "current"
	case err == nil && schemahash.Legacy(decoded) == parsed.SchemaHash:
		report.Schema = "legacy"
	case err == nil, binxerr.Is(err, binxerr.SchemaMismatch):
		report.Schema = "mismatch"
	default:
		report.Schema = err.Error()
	}
	return report, nil
}

func writeInspection(w io.Writer, report inspection) {
	if header := report.Envelope; header != nil {
		fmt.Fprintln(w, "Envelope")
		fmt.Fprintf(w, "  encrypted:   %t\n", header.Encrypted)
		fmt.Fprintf(w, "  version:     %d\n", header.Version)
		fmt.Fprintf(w, "  kid:         %d\n", header.KID)
		fmt.Fprintf(w, "  nonce:       %s\n", header.Nonce)
		fmt.Fprintf(w, "  tag:         %s\n", header.Tag)
		fmt.Fprintf(w, "  ciphertext:  %d bytes\n", header.CiphertextBytes)
	}
	if body := report.Frame; body != nil {
		fmt.Fprintln(w, "Frame")
		fmt.Fprintf(w, "  version:     %d\n", body.Version)
		fmt.Fprintf(w, "  fields:      %d\n", body.FieldCount)
		fmt.Fprintf(w, "  schema hash: %s (%s)\n", body.SchemaHash, body.Schema)
		fmt.Fprintf(w, "  trailing:    %d bytes\n", body.TrailingBytes)
		if len(body.Records) > 0 {
			fmt.Fprintln(w)
			tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "  OFFSET\tNAME\tTAG\tBYTES")
			for _, record := range body.Records {
				fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\n", record.Offset, record.Name, record.Tag, record.Bytes)
			}
			tw.Flush()
		}
	}
}
