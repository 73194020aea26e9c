// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec converts binx payloads to and from CBOR, for tooling
// that exchanges payloads with CBOR-speaking systems.
//
// CBOR is an interchange format only. It never appears inside a frame;
// the frame codec remains the single wire format. The mapping is:
//
//	Null      null
//	Bool      true / false
//	Int32     integer
//	Int64     integer
//	Float64   float
//	String    text string
//	DateTime  tag 0 (RFC 3339 text)
//	Blob      byte string
//	ByteList  byte string (decodes as Blob)
//	Opaque    arrays and maps, recursively
//
// A payload encodes as a definite-length CBOR map whose entries appear
// in field order. Decoding preserves the order of the map entries, so a
// payload survives a round trip with its field order intact. Integers
// decode with [payload.Int], so a small Int64 comes back as Int32.
//
// Nested values use the deterministic encoding mode (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Only the top-level field order is caller-controlled.
//
//	data, err := codec.MarshalPayload(p)
//	p, err := codec.UnmarshalPayload(data)
package codec
