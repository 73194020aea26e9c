// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/bureau-foundation/binx/lib/secret"
)

// maxOpenedBytes bounds the plaintext of a sealed keyring.
const maxOpenedBytes = 1 << 20

// Identity holds an age x25519 identity. The private key is stored in
// a secret.Buffer; the recipient string is safe to publish.
//
// The caller must call Close when the identity is no longer needed.
type Identity struct {
	// PrivateKey is the secret key in AGE-SECRET-KEY-1... format.
	PrivateKey *secret.Buffer

	// Recipient is the corresponding public key in age1... format.
	Recipient string
}

// Close releases the private key memory. Idempotent.
func (i *Identity) Close() error {
	if i.PrivateKey != nil {
		return i.PrivateKey.Close()
	}
	return nil
}

// GenerateIdentity generates a new age x25519 identity.
func GenerateIdentity() (*Identity, error) {
	generated, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age identity: %w", err)
	}

	// The string returned by age lives on the heap until collected;
	// the buffer is the durable copy.
	privateKey, err := secret.NewFromBytes([]byte(generated.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return &Identity{
		PrivateKey: privateKey,
		Recipient:  generated.Recipient().String(),
	}, nil
}

// IdentityFile renders the identity in the age-keygen file layout:
// comment lines with the creation time and public key, then the
// private key.
func (i *Identity) IdentityFile(created time.Time) []byte {
	var buffer bytes.Buffer
	fmt.Fprintf(&buffer, "# created: %s\n", created.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buffer, "# public key: %s\n", i.Recipient)
	buffer.Write(i.PrivateKey.Bytes())
	buffer.WriteByte('\n')
	return buffer.Bytes()
}

// Seal encrypts plaintext to one or more recipients (age1... strings)
// and returns ASCII-armored ciphertext.
func Seal(plaintext []byte, recipientKeys []string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := parseRecipient(key)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}

	var ciphertext bytes.Buffer
	armored := armor.NewWriter(&ciphertext)
	writer, err := age.Encrypt(armored, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	if err := armored.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Open decrypts an age file, armored or binary, with the identities in
// identityFile (the contents of an age identity file). The identity
// buffer is borrowed and not closed.
//
// The caller must call Close on the returned buffer.
func Open(ciphertext []byte, identityFile *secret.Buffer) (*secret.Buffer, error) {
	identities, err := age.ParseIdentities(bytes.NewReader(identityFile.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("parsing identity file: %w", err)
	}

	var source io.Reader = bytes.NewReader(ciphertext)
	if bytes.HasPrefix(bytes.TrimSpace(ciphertext), []byte(armor.Header)) {
		source = armor.NewReader(bytes.NewReader(bytes.TrimSpace(ciphertext)))
	}

	reader, err := age.Decrypt(source, identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	plaintext, err := io.ReadAll(io.LimitReader(reader, maxOpenedBytes+1))
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	if len(plaintext) > maxOpenedBytes {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("decrypted plaintext exceeds %d bytes", maxOpenedBytes)
	}
	if len(plaintext) == 0 {
		// An empty file still needs a valid buffer.
		return secret.New(1)
	}

	// NewFromBytes zeroes the heap copy.
	buffer, err := secret.NewFromBytes(plaintext)
	if err != nil {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("protecting decrypted plaintext: %w", err)
	}
	return buffer, nil
}

// ParseRecipient validates an age recipient string.
func ParseRecipient(key string) error {
	_, err := parseRecipient(key)
	return err
}

func parseRecipient(key string) (age.Recipient, error) {
	recipients, err := age.ParseRecipients(strings.NewReader(key))
	if err != nil {
		return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
	}
	if len(recipients) != 1 {
		return nil, fmt.Errorf("parsing recipient key %q: expected one recipient, found %d", key, len(recipients))
	}
	return recipients[0], nil
}

// ParseIdentity validates the contents of an age identity file and
// returns the number of identities in it.
func ParseIdentity(identityFile *secret.Buffer) (int, error) {
	identities, err := age.ParseIdentities(bytes.NewReader(identityFile.Bytes()))
	if err != nil {
		return 0, fmt.Errorf("invalid age identity file: %w", err)
	}
	return len(identities), nil
}
