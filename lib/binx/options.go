// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binx

import (
	"io"

	"github.com/bureau-foundation/binx/lib/compress"
	"github.com/bureau-foundation/binx/lib/keyderive"
	"github.com/bureau-foundation/binx/lib/policy"
)

// Format is the external representation of an envelope.
type Format string

const (
	// FormatBinary is the raw envelope bytes. The empty Format means
	// FormatBinary.
	FormatBinary Format = "binary"

	// FormatBase64 is the envelope as standard base64 text.
	FormatBase64 Format = "base64"
)

// SerializeOptions configures [SerializePayload].
type SerializeOptions struct {
	// Limits overrides the default policy.
	Limits *policy.Limits
}

// ParseOptions configures [ParsePayload].
type ParseOptions struct {
	// StrictSchemaHash rejects frames whose schema hash matches only
	// the legacy runtime-type scheme.
	StrictSchemaHash bool

	// RejectUnknownTags fails on unrecognised value tags instead of
	// decoding them as Null.
	RejectUnknownTags bool

	// Limits overrides the default policy.
	Limits *policy.Limits
}

// EncryptOptions configures [EncryptPayload].
type EncryptOptions struct {
	// Key is the secret the AES key is derived from.
	Key string

	// KID identifies Key to the receiver. It must be in 0-255.
	KID int

	// Compress compresses the frame before sealing.
	Compress bool

	// Compression selects the algorithm when Compress is set. The zero
	// value means zlib, the interoperable choice.
	Compression compress.Algorithm

	// Format selects the output representation.
	Format Format

	// AAD is authenticated alongside the ciphertext.
	AAD []byte

	// Logger receives progress events.
	Logger Logger

	// Limits overrides the default policy.
	Limits *policy.Limits

	// Rand supplies nonces. Nil means crypto/rand.
	Rand io.Reader

	// KeyCache derives AES keys. Nil derives a fresh key per call;
	// pass a *keyderive.Cache to reuse derived keys.
	KeyCache keyderive.Deriver
}

// DecryptOptions configures [DecryptPayload].
type DecryptOptions struct {
	// KeyMap maps each kid (0-255) to its secret.
	KeyMap map[int]string

	// Compress decompresses the plaintext after opening.
	Compress bool

	// Compression selects the algorithm when Compress is set. The zero
	// value means zlib.
	Compression compress.Algorithm

	// Format is the representation of the input.
	Format Format

	// StrictSchemaHash rejects frames whose schema hash matches only
	// the legacy runtime-type scheme.
	StrictSchemaHash bool

	// RejectUnknownTags fails on unrecognised value tags.
	RejectUnknownTags bool

	// AAD must equal the AAD used to encrypt.
	AAD []byte

	// Logger receives progress events.
	Logger Logger

	// Limits overrides the default policy.
	Limits *policy.Limits

	// KeyCache derives AES keys. Nil derives a fresh key per call.
	KeyCache keyderive.Deriver
}

func algorithmOrDefault(algorithm compress.Algorithm) compress.Algorithm {
	if algorithm == 0 {
		return compress.Zlib
	}
	return algorithm
}

func formatOrDefault(format Format) Format {
	if format == "" {
		return FormatBinary
	}
	return format
}
