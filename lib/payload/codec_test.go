// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"bytes"
	"encoding/hex"
	"math"
	"testing"
	"time"

	"github.com/bureau-foundation/binx/lib/binxerr"
	"github.com/bureau-foundation/binx/lib/testutil"
)

func TestEncodeWireBytes(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		tag   Tag
		want  string
	}{
		{"null", Null{}, TagNull, ""},
		{"true", Bool(true), TagBool, "01"},
		{"false", Bool(false), TagBool, "00"},
		{"int32", Int32(42), TagInt32, "0000002a"},
		{"negative int32", Int32(-1), TagInt32, "ffffffff"},
		{"int64 small", Int64(7), TagInt64, "0000000000000007"},
		{"float64", Float64(1.5), TagFloat64, "3ff8000000000000"},
		{"string", String("hello"), TagString, "68656c6c6f"},
		{"blob", Blob{0xde, 0xad}, TagBlob, "dead"},
		{"bytelist", ByteList{0x01, 0x02}, TagByteList, "0102"},
		{"datetime", NewDateTime(time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)), TagDateTime,
			hex.EncodeToString([]byte("2024-01-02T03:04:05.006Z"))},
		{"opaque", Opaque{Value: []any{1, "a<b"}}, TagOpaque, hex.EncodeToString([]byte(`[1,"a<b"]`))},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.value.Tag() != test.tag {
				t.Errorf("Tag() = %s, want %s", test.value.Tag(), test.tag)
			}
			data, err := Encode(test.value)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got := hex.EncodeToString(data); got != test.want {
				t.Errorf("Encode = %s, want %s", got, test.want)
			}
		})
	}
}

func TestDecodeInverse(t *testing.T) {
	values := []Value{
		Null{},
		Bool(true),
		Bool(false),
		Int32(math.MinInt32),
		Int32(math.MaxInt32),
		Int64(math.MinInt64),
		Int64(math.MaxInt64),
		Float64(-0.25),
		Float64(math.Inf(1)),
		String("héllo, wörld"),
		NewDateTime(time.Date(1999, 12, 31, 23, 59, 59, 999_000_000, time.UTC)),
		Blob{0, 1, 2, 255},
		ByteList{9, 8, 7},
		Opaque{Value: []any{true, nil, "x", 2.5}},
	}
	for _, value := range values {
		data, err := Encode(value)
		if err != nil {
			t.Fatalf("Encode(%#v): %v", value, err)
		}
		decoded, err := Decode(value.Tag(), data, DecodeOptions{})
		if err != nil {
			t.Fatalf("Decode(%s): %v", value.Tag(), err)
		}
		if !Equal(value, decoded) {
			t.Errorf("round trip of %#v = %#v", value, decoded)
		}
	}
}

func TestDecodeDateTimeNormalizesToUTC(t *testing.T) {
	value, err := Decode(TagDateTime, []byte("2024-06-01T12:00:00.250+02:00"), DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := value.(DateTime).String(); got != "2024-06-01T10:00:00.250Z" {
		t.Errorf("DateTime = %s, want 2024-06-01T10:00:00.250Z", got)
	}
}

func TestDecodeDateTimeISOForms(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-01T00:00:00.000Z", "2024-01-01T00:00:00.000Z"},
		{"2024-01-01T08:30:15Z", "2024-01-01T08:30:15.000Z"},
		{"2024-01-01T08:30+01:00", "2024-01-01T07:30:00.000Z"},
		{"2024-01-01T08:30:15.5", "2024-01-01T08:30:15.500Z"},
		{"2024-01-01T08:30", "2024-01-01T08:30:00.000Z"},
		{"2024-01-01", "2024-01-01T00:00:00.000Z"},
		{"2024-07", "2024-07-01T00:00:00.000Z"},
		{"2024", "2024-01-01T00:00:00.000Z"},
	}
	for _, test := range tests {
		value, err := Decode(TagDateTime, []byte(test.input), DecodeOptions{})
		if err != nil {
			t.Errorf("Decode(%q): %v", test.input, err)
			continue
		}
		if got := value.(DateTime).String(); got != test.want {
			t.Errorf("Decode(%q) = %s, want %s", test.input, got, test.want)
		}
	}

	for _, input := range []string{"2024-1-1", "2024-01-01 08:30", "24", "2024-13-01"} {
		_, err := Decode(TagDateTime, []byte(input), DecodeOptions{})
		testutil.RequireCode(t, err, binxerr.InvalidInput, "input %q", input)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		data []byte
		code binxerr.Code
	}{
		{"empty bool", TagBool, nil, binxerr.PayloadTruncated},
		{"short int32", TagInt32, []byte{0, 0}, binxerr.PayloadTruncated},
		{"short float64", TagFloat64, []byte{0, 0, 0, 0}, binxerr.PayloadTruncated},
		{"short int64", TagInt64, []byte{0, 0, 0, 0, 0, 0, 0}, binxerr.PayloadTruncated},
		{"long int32", TagInt32, []byte{0, 0, 0, 0, 0}, binxerr.InvalidInput},
		{"bad json", TagOpaque, []byte(`{"a":`), binxerr.InvalidInput},
		{"trailing json", TagOpaque, []byte(`[1] [2]`), binxerr.InvalidInput},
		{"bad datetime", TagDateTime, []byte("yesterday"), binxerr.InvalidInput},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.tag, test.data, DecodeOptions{})
			testutil.RequireCode(t, err, test.code)
		})
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	value, err := Decode(Tag(0x0b), []byte{1, 2, 3}, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode lenient: %v", err)
	}
	if _, ok := value.(Null); !ok {
		t.Errorf("unknown tag decoded to %#v, want Null", value)
	}

	_, err = Decode(Tag(0x0b), []byte{1, 2, 3}, DecodeOptions{RejectUnknownTags: true})
	testutil.RequireCode(t, err, binxerr.UnsupportedType)
}

func TestDecodeBoolOnlyOneIsTrue(t *testing.T) {
	value, err := Decode(TagBool, []byte{2}, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value != Bool(false) {
		t.Errorf("Decode(0x02) = %v, want false", value)
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	value, err := Decode(TagString, []byte{'a', 0xff, 'b'}, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value != String("a�b") {
		t.Errorf("Decode = %q, want replacement character", value)
	}
}

func TestEncodeDateTimeOutOfRange(t *testing.T) {
	_, err := Encode(NewDateTime(time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)))
	testutil.RequireCode(t, err, binxerr.InvalidInput)
}

func TestIntPicksWidth(t *testing.T) {
	tests := []struct {
		input int64
		want  Value
	}{
		{0, Int32(0)},
		{math.MaxInt32, Int32(math.MaxInt32)},
		{math.MinInt32, Int32(math.MinInt32)},
		{math.MaxInt32 + 1, Int64(math.MaxInt32 + 1)},
		{math.MinInt32 - 1, Int64(math.MinInt32 - 1)},
	}
	for _, test := range tests {
		if got := Int(test.input); got != test.want {
			t.Errorf("Int(%d) = %#v, want %#v", test.input, got, test.want)
		}
	}
}

func TestLegacyTypes(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Null{}, "object"},
		{Bool(true), "boolean"},
		{Int32(1), "number"},
		{Float64(1), "number"},
		{Int64(1), "bigint"},
		{String(""), "string"},
		{NewDateTime(time.Unix(0, 0)), "object"},
		{Blob{}, "object"},
		{ByteList{}, "object"},
		{Opaque{Value: []any{}}, "object"},
		{Opaque{Value: nil}, "object"},
		{Opaque{Value: 3.0}, "number"},
		{Opaque{Value: "s"}, "string"},
		{Opaque{Value: false}, "boolean"},
	}
	for _, test := range tests {
		if got := test.value.LegacyType(); got != test.want {
			t.Errorf("%#v.LegacyType() = %q, want %q", test.value, got, test.want)
		}
	}
}

func TestTagString(t *testing.T) {
	if got := TagBlob.String(); got != "0a" {
		t.Errorf("TagBlob.String() = %q, want %q", got, "0a")
	}
	if !TagBlob.Known() || Tag(0).Known() || Tag(0x0b).Known() {
		t.Error("Known() disagrees with the defined tag range")
	}
}

func TestBlobDecodeAliases(t *testing.T) {
	data := []byte{1, 2, 3}
	value, err := Decode(TagBlob, data, DecodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(value.(Blob), data) {
		t.Errorf("Blob = %x, want %x", value, data)
	}
}
