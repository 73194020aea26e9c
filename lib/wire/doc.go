// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire provides the bounds-checked sequential [Reader] and
// fixed-capacity [Writer] used by the frame and envelope codecs. All
// multi-byte integers are big-endian.
//
// A Reader never panics on short input: every read checks the remaining
// length first and returns [ErrTruncated], leaving the offset unchanged.
// Callers attach their own context (which record was short) when they
// translate that into a binx error.
package wire
