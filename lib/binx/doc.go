// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binx is the public surface of the binx codec: four
// operations that turn an ordered payload into a frame or an encrypted
// envelope and back.
//
//	frame, err := binx.SerializePayload(p, binx.SerializeOptions{})
//	p, err := binx.ParsePayload(frame, binx.ParseOptions{})
//
//	sealed, err := binx.EncryptPayload(p, binx.EncryptOptions{
//	    Key:    secret,
//	    KID:    3,
//	    Format: binx.FormatBase64,
//	    AAD:    []byte("tenant:acme"),
//	})
//	p, err := binx.DecryptPayload(sealed, binx.DecryptOptions{
//	    KeyMap: map[int]string{3: secret},
//	    Format: binx.FormatBase64,
//	    AAD:    []byte("tenant:acme"),
//	})
//
// Every failure is a *binxerr.Error. Validation (kid range, AAD size,
// payload shape and limits) completes before any key is derived.
//
// Encrypt and decrypt report progress to an optional [Logger] callback.
// A panicking logger is recovered and ignored; logging never changes
// the outcome of an operation. [SlogLogger] forwards events to a
// *slog.Logger.
//
// All functions are safe for concurrent use. Nothing is retained
// between calls unless the caller supplies a shared key cache.
package binx
