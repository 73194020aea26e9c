// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"strings"
	"testing"

	"github.com/bureau-foundation/binx/cmd/binx/cli"
	"github.com/bureau-foundation/binx/lib/binxerr"
)

const commentedPayload = `{
	// account
	"userId": 42,
	"note": "hello", /* free text */
	"tags": ["a", "b"],
}`

const commentedPayloadJSON = "{\n  \"userId\": 42,\n  \"note\": \"hello\",\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ]\n}\n"

func TestDecodeVector(t *testing.T) {
	ta := newTestApp(t)
	input := ta.file(t, "vector.b64", vectorEnvelopeBase64+"\n")

	got := ta.mustRun(t, "decode", "--key", "secret", "--aad", "tenant:acme", input)
	if got != vectorJSON {
		t.Errorf("decode = %q, want %q", got, vectorJSON)
	}

	diag := ta.mustRun(t, "decode", "--key", "secret", "--aad", "tenant:acme", "--to", "diag", input)
	if diag != `{"userId": 42, "active": true, "note": "hello", "count": 7}`+"\n" {
		t.Errorf("decode --to diag = %q", diag)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ta := newTestApp(t)
	input := ta.file(t, "payload.jsonc", commentedPayload)
	sealed := ta.path("payload.b64")

	ta.mustRun(t, "encode", "--key", "s3cret", "--kid", "3", "--aad", "tenant:acme", "-o", sealed, input)

	// The header kid selects the slot for a single secret.
	got := ta.mustRun(t, "decode", "--key", "s3cret", "--aad", "tenant:acme", sealed)
	if got != commentedPayloadJSON {
		t.Errorf("decode = %q, want %q", got, commentedPayloadJSON)
	}

	err := ta.run("decode", "--key", "s3cret", "--kid", "4", "--aad", "tenant:acme", sealed)
	if binxerr.CodeOf(err) != binxerr.KeyNotFound {
		t.Errorf("decode --kid 4: error = %v, want %s", err, binxerr.KeyNotFound)
	}

	err = ta.run("decode", "--key", "wrong", "--aad", "tenant:acme", sealed)
	if binxerr.CodeOf(err) != binxerr.DecryptFailed {
		t.Errorf("decode with wrong key: error = %v, want %s", err, binxerr.DecryptFailed)
	}
	if !strings.Contains(ta.stderr.String(), "code=BINX_DECRYPT_FAILED") {
		t.Errorf("error event not logged:\n%s", ta.stderr.String())
	}

	err = ta.run("decode", "--key", "s3cret", sealed)
	if binxerr.CodeOf(err) != binxerr.DecryptFailed {
		t.Errorf("decode without AAD: error = %v, want %s", err, binxerr.DecryptFailed)
	}
}

func TestEncodeFromStdin(t *testing.T) {
	ta := newTestApp(t)
	ta.stdin = strings.NewReader(`{"userId": 42}`)

	sealed := ta.mustRun(t, "encode", "--key-prompt")
	if !strings.HasSuffix(sealed, "\n") || strings.Count(sealed, "\n") != 1 {
		t.Errorf("base64 output = %q, want one line", sealed)
	}

	ta.stdin = strings.NewReader(sealed)
	got := ta.mustRun(t, "decode", "--key", "secret", "-")
	if got != "{\n  \"userId\": 42\n}\n" {
		t.Errorf("decode = %q", got)
	}
}

func TestEncodeCompressedBinary(t *testing.T) {
	for _, algorithm := range []string{"zlib", "zstd", "lz4"} {
		t.Run(algorithm, func(t *testing.T) {
			ta := newTestApp(t)
			input := ta.file(t, "payload.json", commentedPayload)
			keyFile := ta.file(t, "secret.txt", "file-secret\n")
			sealed := ta.path("payload.bin")

			ta.mustRun(t, "encode", "--key-file", keyFile, "--compress", "--compression", algorithm,
				"--format", "binary", "-o", sealed, input)

			data, err := os.ReadFile(sealed)
			if err != nil {
				t.Fatal(err)
			}
			if data[0] != 0x81 {
				t.Errorf("first byte = %#x, want 0x81", data[0])
			}

			got := ta.mustRun(t, "decode", "--key-file", keyFile, "--compress", "--compression", algorithm,
				"--format", "binary", sealed)
			if got != commentedPayloadJSON {
				t.Errorf("decode = %q, want %q", got, commentedPayloadJSON)
			}

			if err := ta.run("decode", "--key-file", keyFile, "--format", "binary", sealed); err == nil {
				t.Error("decode without --compress succeeded on a compressed envelope")
			}
		})
	}
}

func TestEncodeCBORInput(t *testing.T) {
	ta := newTestApp(t)
	// {"userId": 42, "note": "hello"}
	input := ta.file(t, "payload.cbor", "\xa2\x66userId\x18\x2a\x64note\x65hello")

	sealed := ta.path("payload.b64")
	ta.mustRun(t, "encode", "--key", "k", "-o", sealed, input)

	got := ta.mustRun(t, "decode", "--key", "k", sealed)
	if got != "{\n  \"userId\": 42,\n  \"note\": \"hello\"\n}\n" {
		t.Errorf("decode = %q", got)
	}

	cborOut := ta.mustRun(t, "decode", "--key", "k", "--to", "cbor", sealed)
	if cborOut != "\xa2\x66userId\x18\x2a\x64note\x65hello" {
		t.Errorf("decode --to cbor = %x", cborOut)
	}
}

func TestEncodeUsesConfigDefaults(t *testing.T) {
	ta := newTestApp(t)
	configPath := ta.file(t, "binx.yaml", `defaults:
  kid: 5
  format: binary
  compress: true
  compression: lz4
`)
	input := ta.file(t, "payload.json", `{"n": 1}`)
	sealed := ta.path("payload.bin")

	ta.mustRun(t, "encode", "--config", configPath, "--key", "k", "-o", sealed, input)

	data, err := os.ReadFile(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if data[0] != 0x81 || data[1] != 5 {
		t.Errorf("header = %x, want 81 05", data[:2])
	}

	got := ta.mustRun(t, "decode", "--config", configPath, "--key", "k", sealed)
	if got != "{\n  \"n\": 1\n}\n" {
		t.Errorf("decode = %q", got)
	}

	// Flags override the config.
	ta.mustRun(t, "encode", "--config", configPath, "--key", "k", "--kid", "6",
		"--compress=false", "--format", "base64", "-o", sealed, input)
	got = ta.mustRun(t, "decode", "--key", "k", sealed)
	if got != "{\n  \"n\": 1\n}\n" {
		t.Errorf("decode after override = %q", got)
	}
}

func TestEncodeVerboseEvents(t *testing.T) {
	ta := newTestApp(t)
	input := ta.file(t, "payload.json", `{"n": 1}`)

	ta.mustRun(t, "encode", "--key", "k", input)
	if ta.stderr.Len() != 0 {
		t.Errorf("quiet encode logged:\n%s", ta.stderr.String())
	}

	ta.mustRun(t, "encode", "--key", "k", "--kid", "2", "--verbose", input)
	log := ta.stderr.String()
	for _, want := range []string{`msg="binx encrypt:start"`, `msg="binx encrypt:success"`, "command=encode", "kid=2"} {
		if !strings.Contains(log, want) {
			t.Errorf("verbose log missing %q:\n%s", want, log)
		}
	}
}

func TestEncodeKeyErrors(t *testing.T) {
	ta := newTestApp(t)
	input := ta.file(t, "payload.json", `{"n": 1}`)

	requireCategory(t, ta.run("encode", input), cli.CategoryValidation)
	requireCategory(t, ta.run("encode", "--key", "a", "--key-prompt", input), cli.CategoryValidation)
	requireCategory(t, ta.run("encode", "--key", "a", "--format", "hex", input), cli.CategoryValidation)
	requireCategory(t, ta.run("encode", "--key", "a", "--compression", "brotli", input), cli.CategoryValidation)
	requireCategory(t, ta.run("encode", "--key", "a", "--input", "xml", input), cli.CategoryValidation)
	requireCategory(t, ta.run("encode", "--key", "a", ta.path("missing.json")), cli.CategoryNotFound)

	err := ta.run("encode", "--key", "a", "--kid", "300", input)
	if err == nil || !strings.Contains(err.Error(), "kid must be an integer in range 0-255") {
		t.Errorf("--kid 300: error = %v", err)
	}

	err = ta.run("encode", "--key", "a", ta.file(t, "list.json", `[1, 2]`))
	if binxerr.CodeOf(err) != binxerr.InvalidInput {
		t.Errorf("array payload: error = %v, want %s", err, binxerr.InvalidInput)
	}
}

func TestHeaderKID(t *testing.T) {
	if got := headerKID([]byte(vectorEnvelopeBase64), "base64"); got != 1 {
		t.Errorf("headerKID(vector) = %d, want 1", got)
	}
	if got := headerKID([]byte("not base64!"), "base64"); got != 0 {
		t.Errorf("headerKID(invalid) = %d, want 0", got)
	}
	if got := headerKID([]byte{0x81, 0x07}, "binary"); got != 0 {
		t.Errorf("headerKID(short) = %d, want 0", got)
	}
}
