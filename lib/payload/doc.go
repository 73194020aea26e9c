// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package payload defines the binx data model: an ordered set of named
// fields whose values come from a closed variant set, and the per-tag
// byte codec that frames are built from.
//
// Every [Value] carries its wire [Tag]:
//
//	Null      0x01  empty
//	Bool      0x02  one byte, 1 for true
//	Int32     0x03  4-byte big-endian two's complement
//	Float64   0x04  8-byte big-endian IEEE-754
//	String    0x05  UTF-8
//	Opaque    0x06  compact JSON text
//	ByteList  0x07  raw bytes (legacy writers; decode-only in practice)
//	Int64     0x08  8-byte big-endian two's complement
//	DateTime  0x09  ISO-8601 UTC with millisecond precision
//	Blob      0x0a  raw bytes
//
// Int32 and Int64 are one logical integer family; [Int] picks the
// compact width. Arrays and objects travel as Opaque JSON text and are
// not type-checked on decode beyond being well-formed JSON. Within an
// Opaque tree, objects decode to [*Object] so that key order survives a
// round trip.
//
// A [Payload] preserves insertion order, which determines both the wire
// order and the schema hash. Setting an existing name replaces the value
// without moving it.
package payload
