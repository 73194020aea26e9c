// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/binx/cmd/binx/cli"
	"github.com/bureau-foundation/binx/lib/codec"
	"github.com/bureau-foundation/binx/lib/payload"
)

// maxInputBytes bounds what a command reads from a file or stdin.
const maxInputBytes = 64 << 20

// readInput reads the file named by the single positional argument, or
// stdin when there is none or it is "-". It returns the data and the
// name used in error messages.
func (a *app) readInput(args []string) ([]byte, string, error) {
	if len(args) > 1 {
		return nil, "", cli.Validation("expected at most one input file, got %d arguments", len(args))
	}

	name := "stdin"
	source := a.stdin
	if len(args) == 1 && args[0] != "-" {
		name = args[0]
		file, err := os.Open(name)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, "", cli.NotFound("input file %s does not exist", name)
			}
			return nil, "", fmt.Errorf("open %s: %w", name, err)
		}
		defer file.Close()
		source = file
	}

	data, err := io.ReadAll(io.LimitReader(source, maxInputBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > maxInputBytes {
		return nil, "", cli.Validation("%s is larger than %d bytes", name, maxInputBytes)
	}
	return data, name, nil
}

// writeOutput writes data to path, or to stdout when path is empty or
// "-". Files are created with mode 0600 since they may hold envelopes
// or decrypted payloads.
func (a *app) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return cli.Internal("write %s: %w", path, err)
	}
	return nil
}

// Payload input encodings.
const (
	inputJSON = "json"
	inputCBOR = "cbor"
)

// inputEncoding resolves --input. An empty value selects CBOR for
// .cbor files and JSON otherwise.
func inputEncoding(flag, name string) (string, error) {
	switch flag {
	case inputJSON, inputCBOR:
		return flag, nil
	case "":
		if strings.EqualFold(filepath.Ext(name), ".cbor") {
			return inputCBOR, nil
		}
		return inputJSON, nil
	default:
		return "", cli.Validation("unknown --input %q (want json or cbor)", flag)
	}
}

// decodePayload reads a payload in the given encoding. JSON input may
// carry comments and trailing commas.
func decodePayload(data []byte, encoding string) (*payload.Payload, error) {
	if encoding == inputCBOR {
		return codec.UnmarshalPayload(data)
	}
	return payload.ParseJSON(jsonc.ToJSON(data))
}

// Payload output encodings.
const (
	outputJSON = "json"
	outputCBOR = "cbor"
	outputDiag = "diag"
)

// encodePayload renders p for output: indented JSON, CBOR, or CBOR
// diagnostic notation.
func encodePayload(p *payload.Payload, encoding string) ([]byte, error) {
	switch encoding {
	case outputJSON, "":
		data, err := p.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var buffer bytes.Buffer
		if err := cli.WriteIndented(&buffer, data); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	case outputCBOR:
		return codec.MarshalPayload(p)
	case outputDiag:
		data, err := codec.MarshalPayload(p)
		if err != nil {
			return nil, err
		}
		text, err := codec.Diagnose(data)
		if err != nil {
			return nil, err
		}
		return []byte(text + "\n"), nil
	default:
		return nil, cli.Validation("unknown --to %q (want json, cbor or diag)", encoding)
	}
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it. Whitespace between digit pairs is allowed.
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, cli.Validation("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, cli.Validation("decode hex: %w", err)
	}
	return decoded[:count], nil
}
