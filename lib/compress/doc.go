// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress compresses frames before sealing and decompresses
// them after opening.
//
// [Zlib] (RFC 1950, the format of Node's deflateSync) is the default
// and the only algorithm other binx implementations understand. [Zstd]
// and [LZ4] (frame format) are available for deployments where both
// ends run this library. The envelope does not record the algorithm;
// sender and receiver must agree on it out of band, exactly as they
// agree on whether compression is used at all.
//
// Decompression is always bounded: [Decompress] stops reading at the
// caller's limit and returns [ErrLimit], so a small ciphertext cannot
// expand into an unbounded allocation.
package compress
