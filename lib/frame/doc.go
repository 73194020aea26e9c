// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package frame encodes payloads to and from the versioned binx frame:
//
//	version:u8 | fieldCount:u8 | schemaHash:32 | field*
//	field = keyLen:u8 | key | tag:u8 | valueLen:u32 | value
//
// All integers are big-endian. [Encode] validates the whole payload
// before writing anything and produces a buffer of exactly the computed
// size. [Decode] bounds-checks every length prefix against the bytes
// that remain, so a hostile frame fails with PayloadTruncated instead
// of reading out of range, and verifies the stored schema hash: first
// against the tag-based scheme, then (unless StrictSchemaHash is set)
// against the legacy runtime-type scheme. Bytes after the last field
// are ignored.
//
// [Parse] stops after the structural pass and exposes the raw header
// and records, for tools that inspect frames without interpreting them.
package frame
