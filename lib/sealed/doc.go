// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts keyring files at rest with age. A sealed
// keyring is an ASCII-armored age file that can be committed or copied
// without exposing the binx secrets inside it; opening it requires an
// age identity file.
//
// Identities and opened plaintext are returned as [secret.Buffer]
// values backed by mmap memory outside the Go heap (locked against
// swap where permitted, zeroed on Close).
//
// Key exports:
//
//   - [GenerateIdentity] -- new age x25519 identity in a secret.Buffer
//   - [Seal] -- encrypt to age recipients, armored
//   - [Open] -- decrypt armored or binary age files with an identity file
//   - [ParseRecipient] / [ParseIdentity] -- key validation
//
// Depends on lib/secret for secure memory allocation.
package sealed
