// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binxerr defines the structured error taxonomy shared by every
// binx package.
//
// Every failure of the frame codec, the validator and the envelope codec
// is an [*Error] carrying one of the ten [Code] values. Callers branch on
// the code, never on the message text:
//
//	if binxerr.Is(err, binxerr.DecryptFailed) { ... }
//
// Cryptographic failures are deliberately coarse: wrong key, tampered
// tag, corrupted ciphertext and mismatched associated data all surface
// as [DecryptFailed] with one fixed message and no wrapped cause.
//
// This package depends on no other binx packages.
package binxerr
