// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyderive

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/bureau-foundation/binx/lib/secret"
)

// KeySize is the AES-256 key length.
const KeySize = 32

// Info is the HKDF info string of the envelope key.
const Info = "binx-aes-key"

// salt is 32 zero bytes, the HKDF-SHA256 hash length.
var salt [sha256.Size]byte

// HKDF runs RFC 5869 extract-then-expand with HMAC-SHA256.
func HKDF(material, salt, info []byte, length int) ([]byte, error) {
	if length <= 0 || length > 255*sha256.Size {
		return nil, fmt.Errorf("HKDF output length %d out of range", length)
	}
	reader := hkdf.New(sha256.New, material, salt, info)
	derived := make([]byte, length)
	if _, err := io.ReadFull(reader, derived); err != nil {
		secret.Zero(derived)
		return nil, fmt.Errorf("HKDF key derivation failed: %w", err)
	}
	return derived, nil
}

// DeriveKey derives the envelope key for material. The caller must
// Close the returned buffer.
func DeriveKey(material []byte) (*secret.Buffer, error) {
	derived, err := HKDF(material, salt[:], []byte(Info), KeySize)
	if err != nil {
		return nil, err
	}
	// NewFromBytes copies into the mapped region and zeroes derived.
	return secret.NewFromBytes(derived)
}

// Key is a derived envelope key. Release it when the operation that
// needed it is done.
type Key struct {
	buffer *secret.Buffer
	owned  bool
}

// Bytes returns the 32 key bytes. The slice is invalid after Release.
func (k *Key) Bytes() []byte {
	return k.buffer.Bytes()
}

// Release zeroes a freshly derived key. Keys held by a [Cache] stay
// alive until the cache is closed.
func (k *Key) Release() {
	if k.owned {
		k.buffer.Close()
	}
}

// Deriver produces envelope keys. kid scopes the derivation: two kids
// sharing a secret derive the same key but are tracked separately.
type Deriver interface {
	Derive(kid uint8, material []byte) (*Key, error)
}

// Fresh derives a new key on every call.
type Fresh struct{}

// Derive implements [Deriver].
func (Fresh) Derive(kid uint8, material []byte) (*Key, error) {
	buffer, err := DeriveKey(material)
	if err != nil {
		return nil, err
	}
	return &Key{buffer: buffer, owned: true}, nil
}
