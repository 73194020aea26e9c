// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"encoding/binary"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bureau-foundation/binx/lib/binxerr"
)

// DecodeOptions controls how tagged bytes become values.
type DecodeOptions struct {
	// RejectUnknownTags makes an unrecognised tag an UnsupportedType
	// error. By default such a value decodes to Null so that frames
	// from newer writers still parse.
	RejectUnknownTags bool

	// MaxArrayLength and MaxObjectKeys bound the composites inside an
	// opaque value. Zero means unbounded.
	MaxArrayLength int
	MaxObjectKeys  int
}

// Encode returns the wire bytes of v. The tag is v.Tag().
func Encode(v Value) ([]byte, error) {
	switch value := v.(type) {
	case nil, Null:
		return nil, nil
	case Bool:
		if value {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case Int32:
		return binary.BigEndian.AppendUint32(nil, uint32(value)), nil
	case Int64:
		return binary.BigEndian.AppendUint64(nil, uint64(value)), nil
	case Float64:
		return binary.BigEndian.AppendUint64(nil, math.Float64bits(float64(value))), nil
	case String:
		return []byte(value), nil
	case DateTime:
		t := time.Time(value).UTC()
		if year := t.Year(); year < 0 || year > 9999 {
			return nil, binxerr.New(binxerr.InvalidInput, "DateTime year %d is outside 0000-9999", year)
		}
		return []byte(t.Format(ISOLayout)), nil
	case Blob:
		return []byte(value), nil
	case ByteList:
		return []byte(value), nil
	case Opaque:
		return MarshalOpaque(value.Value)
	default:
		return nil, binxerr.New(binxerr.UnsupportedType, "Unsupported value type %T", v)
	}
}

// Decode converts the bytes of one field back into a value. Fixed-width
// values shorter than their width fail with PayloadTruncated; longer
// ones, malformed JSON and malformed timestamps fail with InvalidInput.
// Blob and ByteList values alias data.
func Decode(tag Tag, data []byte, options DecodeOptions) (Value, error) {
	switch tag {
	case TagNull:
		return Null{}, nil
	case TagBool:
		if err := fixedWidth(tag, data, 1); err != nil {
			return nil, err
		}
		return Bool(data[0] == 1), nil
	case TagInt32:
		if err := fixedWidth(tag, data, 4); err != nil {
			return nil, err
		}
		return Int32(int32(binary.BigEndian.Uint32(data))), nil
	case TagFloat64:
		if err := fixedWidth(tag, data, 8); err != nil {
			return nil, err
		}
		return Float64(math.Float64frombits(binary.BigEndian.Uint64(data))), nil
	case TagString:
		return String(decodeUTF8(data)), nil
	case TagOpaque:
		value, err := UnmarshalOpaque(data, options)
		if err != nil {
			return nil, err
		}
		return Opaque{Value: value}, nil
	case TagByteList:
		return ByteList(data), nil
	case TagInt64:
		if err := fixedWidth(tag, data, 8); err != nil {
			return nil, err
		}
		return Int64(int64(binary.BigEndian.Uint64(data))), nil
	case TagDateTime:
		t, err := parseDateTime(string(data))
		if err != nil {
			return nil, binxerr.Wrap(binxerr.InvalidInput, err, "Invalid datetime value %q", truncateForMessage(data))
		}
		return NewDateTime(t), nil
	case TagBlob:
		return Blob(data), nil
	}
	if options.RejectUnknownTags {
		return nil, binxerr.New(binxerr.UnsupportedType, "Unsupported type tag 0x%s", tag)
	}
	return Null{}, nil
}

// dateTimeLayouts are the ISO-8601 forms tag 0x09 accepts, from full
// RFC 3339 down to a bare year. Forms without a zone are UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

func parseDateTime(text string) (time.Time, error) {
	var first error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t, nil
		}
		if first == nil {
			first = err
		}
	}
	return time.Time{}, first
}

func fixedWidth(tag Tag, data []byte, width int) error {
	switch {
	case len(data) < width:
		return binxerr.New(binxerr.PayloadTruncated,
			"Invalid %s value: need %d bytes, got %d", tag.Name(), width, len(data))
	case len(data) > width:
		return binxerr.New(binxerr.InvalidInput,
			"Invalid %s value: need %d bytes, got %d", tag.Name(), width, len(data))
	}
	return nil
}

// decodeUTF8 maps invalid sequences to U+FFFD.
func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

func truncateForMessage(data []byte) string {
	const limit = 64
	if len(data) > limit {
		return decodeUTF8(data[:limit]) + "..."
	}
	return decodeUTF8(data)
}

// Equal reports whether a and b are the same value. DateTimes compare by
// their wire form, byte values by content, Opaque values by their JSON
// text.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	if a.Tag() != b.Tag() {
		return false
	}
	switch left := a.(type) {
	case Float64:
		right := b.(Float64)
		if math.IsNaN(float64(left)) {
			return math.IsNaN(float64(right))
		}
		return left == right
	case DateTime:
		return left.String() == b.(DateTime).String()
	case Blob:
		return string(left) == string(b.(Blob))
	case ByteList:
		return string(left) == string(b.(ByteList))
	case Opaque:
		leftText, leftErr := MarshalOpaque(left.Value)
		rightText, rightErr := MarshalOpaque(b.(Opaque).Value)
		if leftErr != nil || rightErr != nil {
			return false
		}
		return string(leftText) == string(rightText)
	default:
		return a == b
	}
}
