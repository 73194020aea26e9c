// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"fmt"
	"math"
	"time"
)

// Tag is the one-byte wire type of a field value.
type Tag uint8

const (
	TagNull     Tag = 0x01
	TagBool     Tag = 0x02
	TagInt32    Tag = 0x03
	TagFloat64  Tag = 0x04
	TagString   Tag = 0x05
	TagOpaque   Tag = 0x06
	TagByteList Tag = 0x07
	TagInt64    Tag = 0x08
	TagDateTime Tag = 0x09
	TagBlob     Tag = 0x0a
)

// String returns the two-digit lowercase hex form used in schema
// strings ("03", "0a").
func (t Tag) String() string {
	return fmt.Sprintf("%02x", uint8(t))
}

// Known reports whether t is one of the ten defined tags.
func (t Tag) Known() bool {
	return t >= TagNull && t <= TagBlob
}

// Name returns a short human-readable name for the tag, or "unknown".
func (t Tag) Name() string {
	switch t {
	case TagNull:
		return "null"
	case TagBool:
		return "bool"
	case TagInt32:
		return "int32"
	case TagFloat64:
		return "float64"
	case TagString:
		return "string"
	case TagOpaque:
		return "json"
	case TagByteList:
		return "bytelist"
	case TagInt64:
		return "int64"
	case TagDateTime:
		return "datetime"
	case TagBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Value is a field value. The set of implementations is closed:
// [Null], [Bool], [Int32], [Int64], [Float64], [String], [DateTime],
// [Blob], [ByteList] and [Opaque].
type Value interface {
	// Tag returns the wire tag the value encodes under.
	Tag() Tag

	// LegacyType returns the runtime type name older writers hashed
	// into the schema: "object", "boolean", "number", "string" or
	// "bigint".
	LegacyType() string

	binxValue()
}

// Null is the absent value.
type Null struct{}

// Bool is a boolean.
type Bool bool

// Int32 is an integer that fits in 32 bits.
type Int32 int32

// Int64 is a 64-bit integer. It always encodes under tag 0x08, even when
// the value would fit in 32 bits.
type Int64 int64

// Float64 is an IEEE-754 double.
type Float64 float64

// String is UTF-8 text.
type String string

// DateTime is an instant, encoded at millisecond precision in UTC.
type DateTime time.Time

// Blob is an opaque byte sequence.
type Blob []byte

// ByteList is the byte-array representation written under tag 0x07 by
// older encoders. It decodes and re-encodes under that tag; new code
// should use [Blob].
type ByteList []byte

// Opaque carries an arbitrary JSON-like tree: nil, bool, numbers,
// string, time.Time, []byte, []any, map[string]any and *Object. It is
// encoded as JSON text.
type Opaque struct {
	Value any
}

func (Null) Tag() Tag     { return TagNull }
func (Bool) Tag() Tag     { return TagBool }
func (Int32) Tag() Tag    { return TagInt32 }
func (Int64) Tag() Tag    { return TagInt64 }
func (Float64) Tag() Tag  { return TagFloat64 }
func (String) Tag() Tag   { return TagString }
func (DateTime) Tag() Tag { return TagDateTime }
func (Blob) Tag() Tag     { return TagBlob }
func (ByteList) Tag() Tag { return TagByteList }
func (Opaque) Tag() Tag   { return TagOpaque }

func (Null) LegacyType() string     { return "object" }
func (Bool) LegacyType() string     { return "boolean" }
func (Int32) LegacyType() string    { return "number" }
func (Int64) LegacyType() string    { return "bigint" }
func (Float64) LegacyType() string  { return "number" }
func (String) LegacyType() string   { return "string" }
func (DateTime) LegacyType() string { return "object" }
func (Blob) LegacyType() string     { return "object" }
func (ByteList) LegacyType() string { return "object" }

// LegacyType reports the type name of the decoded JSON value: a JSON
// primitive at the top of an opaque value has its own name, everything
// else (including null) is "object".
func (o Opaque) LegacyType() string {
	switch o.Value.(type) {
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return "number"
	default:
		return "object"
	}
}

func (Null) binxValue()     {}
func (Bool) binxValue()     {}
func (Int32) binxValue()    {}
func (Int64) binxValue()    {}
func (Float64) binxValue()  {}
func (String) binxValue()   {}
func (DateTime) binxValue() {}
func (Blob) binxValue()     {}
func (ByteList) binxValue() {}
func (Opaque) binxValue()   {}

// Int returns n as an Int32 when it fits in 32 bits and as an Int64
// otherwise.
func Int(n int64) Value {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return Int32(n)
	}
	return Int64(n)
}

// NewDateTime returns t as a DateTime in UTC.
func NewDateTime(t time.Time) DateTime {
	return DateTime(t.UTC())
}

// Time returns the instant as a time.Time.
func (d DateTime) Time() time.Time {
	return time.Time(d)
}

// ISOLayout is the timestamp layout of tag 0x09.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// String returns the ISO-8601 form written on the wire.
func (d DateTime) String() string {
	return time.Time(d).UTC().Format(ISOLayout)
}
