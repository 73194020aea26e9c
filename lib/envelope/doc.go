// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package envelope seals a frame with AES-256-GCM and opens it again.
//
// Wire format:
//
//	[flagVersion: 1 byte (0x81)] [kid: 1 byte] [nonce: 12 bytes] [tag: 16 bytes] [ciphertext]
//
// flagVersion is the encrypted bit 0x80 ORed with the envelope version.
// kid names the secret the receiver must use; the AES key is derived
// from that secret with lib/keyderive. Go's GCM appends the tag to the
// ciphertext; [Seal] moves it into the header and [Open] moves it back.
//
// Every authentication failure (wrong key, wrong AAD, flipped bit in
// the nonce, tag or ciphertext) is reported as the same DecryptFailed
// error with no wrapped cause, so callers cannot learn which part was
// wrong.
package envelope
