// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/bureau-foundation/binx/lib/binxerr"
	"github.com/bureau-foundation/binx/lib/keyderive"
	"github.com/bureau-foundation/binx/lib/policy"
)

const (
	// Version is the envelope version in the low bits of the first byte.
	Version = 1

	// EncryptedFlag marks an envelope as encrypted.
	EncryptedFlag = 0x80

	// NonceSize is the GCM nonce length.
	NonceSize = 12

	// TagSize is the GCM authentication tag length.
	TagSize = 16

	// HeaderSize is flagVersion + kid + nonce + tag.
	HeaderSize = 2 + NonceSize + TagSize
)

const decryptFailedMessage = "Decryption failed: Invalid key or corrupted data"

// Header is the fixed prefix of an envelope.
type Header struct {
	Encrypted bool
	Version   uint8
	KID       uint8
	Nonce     [NonceSize]byte
	Tag       [TagSize]byte
}

// ParseHeader reads the header of data without checking the flag, the
// version or the tag. It fails only when data is shorter than a header.
func ParseHeader(data []byte) (Header, error) {
	var header Header
	if len(data) < HeaderSize {
		return header, binxerr.New(binxerr.PayloadTruncated, "Invalid encrypted payload: too short")
	}
	header.Encrypted = data[0]&EncryptedFlag == EncryptedFlag
	header.Version = data[0] &^ EncryptedFlag
	header.KID = data[1]
	copy(header.Nonce[:], data[2:2+NonceSize])
	copy(header.Tag[:], data[2+NonceSize:HeaderSize])
	return header, nil
}

// SealParams configures [Seal].
type SealParams struct {
	// KID is written into the header.
	KID uint8

	// Material is the secret the AES key is derived from.
	Material []byte

	// AAD is authenticated but not encrypted. Open must supply the
	// same bytes.
	AAD []byte

	// MaxAADBytes bounds AAD. Zero means the default policy.
	MaxAADBytes int

	// Rand supplies the nonce. Nil means crypto/rand.
	Rand io.Reader

	// Deriver derives the AES key. Nil means keyderive.Fresh.
	Deriver keyderive.Deriver
}

// Seal encrypts plaintext into an envelope.
func Seal(plaintext []byte, params SealParams) ([]byte, error) {
	if err := checkAAD(params.AAD, params.MaxAADBytes); err != nil {
		return nil, err
	}

	key, err := deriver(params.Deriver).Derive(params.KID, params.Material)
	if err != nil {
		return nil, typed(err, "deriving envelope key")
	}
	defer key.Release()

	aead, err := newGCM(key.Bytes())
	if err != nil {
		return nil, err
	}

	random := params.Rand
	if random == nil {
		random = rand.Reader
	}
	var nonce [NonceSize]byte
	if _, err := io.ReadFull(random, nonce[:]); err != nil {
		return nil, typed(err, "generating random nonce")
	}

	// GCM appends ciphertext || tag after the reserved header; move the
	// trailing tag into its header slot.
	output := make([]byte, HeaderSize, HeaderSize+len(plaintext)+TagSize)
	output[0] = EncryptedFlag | Version
	output[1] = params.KID
	copy(output[2:], nonce[:])
	output = aead.Seal(output, nonce[:], plaintext, params.AAD)

	end := HeaderSize + len(plaintext)
	copy(output[2+NonceSize:HeaderSize], output[end:])
	return output[:end], nil
}

// KeyLookup returns the secret for kid, or false when none is known.
type KeyLookup func(kid uint8) ([]byte, bool)

// OpenParams configures [Open].
type OpenParams struct {
	// Lookup resolves the kid in the header to a secret.
	Lookup KeyLookup

	// AAD must equal the AAD given to Seal.
	AAD []byte

	// MaxAADBytes bounds AAD. Zero means the default policy.
	MaxAADBytes int

	// Deriver derives the AES key. Nil means keyderive.Fresh.
	Deriver keyderive.Deriver
}

// Open authenticates and decrypts an envelope, returning the plaintext
// and the kid it was sealed under.
func Open(data []byte, params OpenParams) ([]byte, uint8, error) {
	if err := checkAAD(params.AAD, params.MaxAADBytes); err != nil {
		return nil, 0, err
	}

	header, err := ParseHeader(data)
	if err != nil {
		return nil, 0, err
	}
	if !header.Encrypted {
		return nil, 0, binxerr.New(binxerr.NotEncrypted, "Payload is not encrypted.")
	}
	if header.Version != Version {
		return nil, 0, binxerr.New(binxerr.InvalidVersion, "Unsupported Binx version: %d", header.Version)
	}

	var material []byte
	var found bool
	if params.Lookup != nil {
		material, found = params.Lookup(header.KID)
	}
	if !found || len(material) == 0 {
		return nil, 0, binxerr.New(binxerr.KeyNotFound, "No key found for KID %d", header.KID)
	}

	key, err := deriver(params.Deriver).Derive(header.KID, material)
	if err != nil {
		return nil, 0, typed(err, "deriving envelope key")
	}
	defer key.Release()

	aead, err := newGCM(key.Bytes())
	if err != nil {
		return nil, 0, err
	}

	// Reassemble ciphertext || tag as GCM expects it.
	ciphertext := data[HeaderSize:]
	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, header.Tag[:]...)

	plaintext, err := aead.Open(sealed[:0], header.Nonce[:], sealed, params.AAD)
	if err != nil {
		return nil, 0, binxerr.New(binxerr.DecryptFailed, decryptFailedMessage)
	}
	return plaintext, header.KID, nil
}

func checkAAD(aad []byte, limit int) error {
	if limit == 0 {
		limit = policy.Default().MaxAADBytes
	}
	if len(aad) > limit {
		return binxerr.New(binxerr.LimitExceeded, "AAD exceeds %d bytes", limit)
	}
	return nil
}

func deriver(configured keyderive.Deriver) keyderive.Deriver {
	if configured == nil {
		return keyderive.Fresh{}
	}
	return configured
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, typed(err, "creating AES cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, typed(err, "creating GCM")
	}
	return aead, nil
}

// typed keeps a binx error as it is and gives any other failure the
// InvalidInput code, so callers always see a *binxerr.Error.
func typed(err error, action string) error {
	if binxerr.CodeOf(err) != "" {
		return err
	}
	return binxerr.Wrap(binxerr.InvalidInput, err, "%s: %v", action, err)
}
