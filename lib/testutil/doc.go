// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for binx packages.
//
// [RequireCode] asserts that an error carries a given binx error code,
// which is how every core failure is classified.
//
// [PseudoRandomBytes] generates deterministic byte strings from a small
// linear congruential generator. Fuzz-smoke tests use it so that a
// failing input can be reproduced from its seed alone, without a
// corpus directory.
//
// [MustHex] and [WriteFile] cover fixture plumbing: decoding hex test
// vectors and writing input files into a per-test temporary directory.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
