// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keyderive turns caller-supplied secret material into the
// 256-bit AES key of a binx envelope.
//
// The derivation is HKDF-SHA256 (RFC 5869) with a salt of 32 zero
// bytes, the info string "binx-aes-key" and a 32-byte output. Keys are
// derived into a [secret.Buffer] and released as soon as the envelope
// operation finishes.
//
// [Fresh] derives on every call and is the default. [Cache] remembers
// derived keys across calls for hot paths that reuse a handful of
// secrets. Cache entries are indexed by a BLAKE3 keyed hash of the kid
// and secret, under a random per-cache key, so the secret itself is
// never a map key and the index reveals nothing outside the process.
package keyderive
