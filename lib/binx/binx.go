// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binx

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/bureau-foundation/binx/lib/binxerr"
	"github.com/bureau-foundation/binx/lib/compress"
	"github.com/bureau-foundation/binx/lib/envelope"
	"github.com/bureau-foundation/binx/lib/frame"
	"github.com/bureau-foundation/binx/lib/payload"
	"github.com/bureau-foundation/binx/lib/policy"
)

// SerializePayload validates p and encodes it as a frame.
func SerializePayload(p *payload.Payload, options SerializeOptions) ([]byte, error) {
	limits, err := resolveLimits(options.Limits)
	if err != nil {
		return nil, err
	}
	return frame.Encode(p, limits)
}

// ParsePayload decodes a frame, verifying its schema hash.
func ParsePayload(data []byte, options ParseOptions) (*payload.Payload, error) {
	limits, err := resolveLimits(options.Limits)
	if err != nil {
		return nil, err
	}
	return frame.Decode(data, frame.DecodeOptions{
		StrictSchemaHash:  options.StrictSchemaHash,
		RejectUnknownTags: options.RejectUnknownTags,
		Limits:            &limits,
	})
}

// EncryptPayload serializes p and seals it in an envelope under the key
// derived from options.Key. With FormatBase64 the result is base64
// text.
func EncryptPayload(p *payload.Payload, options EncryptOptions) ([]byte, error) {
	kid, err := checkKID(options.KID, "encrypt options")
	if err != nil {
		return nil, err
	}
	format := formatOrDefault(options.Format)

	emit(options.Logger, Event{
		Op:       OpEncryptStart,
		KID:      options.KID,
		Compress: options.Compress,
		Format:   format,
	})

	sealed, err := encrypt(p, kid, format, options)
	if err != nil {
		emit(options.Logger, errorEvent(OpEncryptError, err))
		return nil, err
	}
	emit(options.Logger, Event{Op: OpEncryptSuccess, Bytes: len(sealed)})

	if format == FormatBase64 {
		encoded := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)))
		base64.StdEncoding.Encode(encoded, sealed)
		return encoded, nil
	}
	return sealed, nil
}

func encrypt(p *payload.Payload, kid uint8, format Format, options EncryptOptions) ([]byte, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	limits, err := resolveLimits(options.Limits)
	if err != nil {
		return nil, err
	}
	if len(options.AAD) > limits.MaxAADBytes {
		return nil, binxerr.New(binxerr.LimitExceeded, "AAD exceeds %d bytes", limits.MaxAADBytes)
	}

	plaintext, err := frame.Encode(p, limits)
	if err != nil {
		return nil, err
	}
	if options.Compress {
		plaintext, err = compress.Compress(algorithmOrDefault(options.Compression), plaintext)
		if err != nil {
			return nil, binxerr.Wrap(binxerr.InvalidInput, err, "Compression failed")
		}
	}

	return envelope.Seal(plaintext, envelope.SealParams{
		KID:         kid,
		Material:    []byte(options.Key),
		AAD:         options.AAD,
		MaxAADBytes: limits.MaxAADBytes,
		Rand:        options.Rand,
		Deriver:     options.KeyCache,
	})
}

// DecryptPayload opens an envelope produced by [EncryptPayload] and
// decodes the frame inside it. The kid in the envelope header selects
// the secret from options.KeyMap.
func DecryptPayload(input []byte, options DecryptOptions) (*payload.Payload, error) {
	emit(options.Logger, Event{Op: OpDecryptStart, Compress: options.Compress})

	decoded, kid, err := decrypt(input, options)
	if err != nil {
		emit(options.Logger, errorEvent(OpDecryptError, err))
		return nil, err
	}
	emit(options.Logger, Event{Op: OpDecryptSuccess, KID: int(kid), Bytes: decoded.size})
	return decoded.payload, nil
}

type decrypted struct {
	payload *payload.Payload
	size    int
}

func decrypt(input []byte, options DecryptOptions) (decrypted, uint8, error) {
	plaintext, kid, limits, err := openFrame(input, options)
	if err != nil {
		return decrypted{}, 0, err
	}
	p, err := frame.Decode(plaintext, frame.DecodeOptions{
		StrictSchemaHash:  options.StrictSchemaHash,
		RejectUnknownTags: options.RejectUnknownTags,
		Limits:            &limits,
	})
	if err != nil {
		return decrypted{}, 0, err
	}
	return decrypted{payload: p, size: len(plaintext)}, kid, nil
}

// OpenFrame opens an envelope and returns the frame inside it without
// decoding it, together with the kid from the header. It applies the
// same checks as [DecryptPayload] up to the frame and emits no events.
func OpenFrame(input []byte, options DecryptOptions) ([]byte, int, error) {
	plaintext, kid, _, err := openFrame(input, options)
	if err != nil {
		return nil, 0, err
	}
	return plaintext, int(kid), nil
}

func openFrame(input []byte, options DecryptOptions) ([]byte, uint8, policy.Limits, error) {
	keys := make(map[uint8][]byte, len(options.KeyMap))
	for kid, material := range options.KeyMap {
		checked, err := checkKID(kid, "keyMap")
		if err != nil {
			return nil, 0, policy.Limits{}, err
		}
		keys[checked] = []byte(material)
	}

	format := formatOrDefault(options.Format)
	if err := checkFormat(format); err != nil {
		return nil, 0, policy.Limits{}, err
	}
	limits, err := resolveLimits(options.Limits)
	if err != nil {
		return nil, 0, policy.Limits{}, err
	}

	data := input
	if format == FormatBase64 {
		data, err = DecodeBase64(input)
		if err != nil {
			return nil, 0, limits, err
		}
	}

	plaintext, kid, err := envelope.Open(data, envelope.OpenParams{
		Lookup: func(kid uint8) ([]byte, bool) {
			material, ok := keys[kid]
			return material, ok
		},
		AAD:         options.AAD,
		MaxAADBytes: limits.MaxAADBytes,
		Deriver:     options.KeyCache,
	})
	if err != nil {
		return nil, 0, limits, err
	}

	if options.Compress {
		plaintext, err = compress.Decompress(algorithmOrDefault(options.Compression), plaintext, limits.MaxDecryptedBytes)
		switch {
		case errors.Is(err, compress.ErrLimit):
			return nil, 0, limits, binxerr.New(binxerr.LimitExceeded, "Decrypted payload exceeds %d bytes", limits.MaxDecryptedBytes)
		case err != nil:
			return nil, 0, limits, binxerr.Wrap(binxerr.InvalidInput, err, "Decompression failed")
		}
	} else if len(plaintext) > limits.MaxDecryptedBytes {
		return nil, 0, limits, binxerr.New(binxerr.LimitExceeded, "Decrypted payload exceeds %d bytes", limits.MaxDecryptedBytes)
	}
	return plaintext, kid, limits, nil
}

func checkKID(kid int, context string) (uint8, error) {
	if kid < 0 || kid > 255 {
		return 0, binxerr.New(binxerr.InvalidKID, "Invalid KID in %s: must be an integer in range 0-255", context)
	}
	return uint8(kid), nil
}

func checkFormat(format Format) error {
	switch format {
	case FormatBinary, FormatBase64:
		return nil
	default:
		return binxerr.New(binxerr.InvalidInput, "Unsupported format %q", string(format))
	}
}

func resolveLimits(limits *policy.Limits) (policy.Limits, error) {
	resolved := policy.OrDefault(limits)
	if err := resolved.Validate(); err != nil {
		return policy.Limits{}, binxerr.Wrap(binxerr.InvalidInput, err, "Invalid limits: %v", err)
	}
	return resolved, nil
}

// DecodeBase64 decodes base64 envelope text. It accepts padded or
// unpadded standard base64 and ignores surrounding whitespace.
func DecodeBase64(input []byte) ([]byte, error) {
	text := bytes.TrimSpace(input)
	decoded := make([]byte, base64.RawStdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(decoded, text)
	if err == nil {
		return decoded[:n], nil
	}
	n, rawErr := base64.RawStdEncoding.Decode(decoded, text)
	if rawErr == nil {
		return decoded[:n], nil
	}
	return nil, binxerr.Wrap(binxerr.InvalidInput, err, "Invalid base64 input: %v", err)
}

// FormatOf reports the Format named by name, which may be empty.
func FormatOf(name string) (Format, error) {
	format := formatOrDefault(Format(name))
	if err := checkFormat(format); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return format, nil
}
