// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schemahash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/bureau-foundation/binx/lib/payload"
)

// Size is the length of a digest in bytes.
const Size = sha256.Size

// Digest is a schema hash.
type Digest [Size]byte

// String returns the hex form of the digest.
func (d Digest) String() string {
	return Format(d)
}

// Builder hashes a field layout under both schemes as fields are added.
// The zero value is not usable; call [NewBuilder].
type Builder struct {
	current hash.Hash
	legacy  hash.Hash
	count   int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{current: sha256.New(), legacy: sha256.New()}
}

// Add appends one field. tag is the tag read from or written to the
// wire; legacyType is the runtime type name of the decoded value.
func (b *Builder) Add(name string, tag payload.Tag, legacyType string) {
	if b.count > 0 {
		b.current.Write([]byte{','})
		b.legacy.Write([]byte{','})
	}
	b.count++

	b.current.Write([]byte(name))
	b.current.Write([]byte{':'})
	b.current.Write([]byte(tag.String()))

	b.legacy.Write([]byte(name))
	b.legacy.Write([]byte{':'})
	b.legacy.Write([]byte(legacyType))
}

// Current returns the tag-based digest of the fields added so far.
func (b *Builder) Current() Digest {
	var digest Digest
	b.current.Sum(digest[:0])
	return digest
}

// Legacy returns the runtime-type digest of the fields added so far.
func (b *Builder) Legacy() Digest {
	var digest Digest
	b.legacy.Sum(digest[:0])
	return digest
}

// Current returns the tag-based digest of p.
func Current(p *payload.Payload) Digest {
	return sum(p).Current()
}

// Legacy returns the digest an older encoder would have stored for p.
func Legacy(p *payload.Payload) Digest {
	return sum(p).Legacy()
}

func sum(p *payload.Payload) *Builder {
	builder := NewBuilder()
	for _, field := range p.Fields() {
		builder.Add(field.Name, field.Value.Tag(), field.Value.LegacyType())
	}
	return builder
}

// Schema returns the string the current scheme hashes, for diagnostics.
func Schema(p *payload.Payload) string {
	var parts []string
	for _, field := range p.Fields() {
		parts = append(parts, field.Name+":"+field.Value.Tag().String())
	}
	return strings.Join(parts, ",")
}

// Format returns the lowercase hex form of a digest.
func Format(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// Parse parses a 64-character hex digest.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing schema hash: %w", err)
	}
	if len(decoded) != Size {
		return digest, fmt.Errorf("schema hash is %d bytes, want %d", len(decoded), Size)
	}
	copy(digest[:], decoded)
	return digest, nil
}
