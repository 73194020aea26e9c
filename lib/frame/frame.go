// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bureau-foundation/binx/lib/binxerr"
	"github.com/bureau-foundation/binx/lib/payload"
	"github.com/bureau-foundation/binx/lib/policy"
	"github.com/bureau-foundation/binx/lib/schemahash"
	"github.com/bureau-foundation/binx/lib/validate"
	"github.com/bureau-foundation/binx/lib/wire"
)

// Version is the only frame version this package reads or writes.
const Version = 1

// HeaderSize is the size of version, field count and schema hash.
const HeaderSize = 2 + schemahash.Size

// recordOverhead is keyLen + tag + valueLen.
const recordOverhead = 1 + 1 + 4

// Header is the fixed prefix of a frame.
type Header struct {
	Version    uint8
	FieldCount uint8
	SchemaHash schemahash.Digest
}

// Record is one field as it appears on the wire. Value aliases the
// parsed buffer.
type Record struct {
	Name   string
	Tag    payload.Tag
	Value  []byte
	Offset int
}

// Frame is the structural view of an encoded frame.
type Frame struct {
	Header
	Records []Record

	// Trailing counts bytes after the last record.
	Trailing int
}

// DecodeOptions controls [Decode].
type DecodeOptions struct {
	// StrictSchemaHash disables the legacy schema hash fallback.
	StrictSchemaHash bool

	// RejectUnknownTags fails on tags outside the defined set instead
	// of decoding them as Null.
	RejectUnknownTags bool

	// Limits bounds the input size and the composites inside opaque
	// values. Nil means policy.Default().
	Limits *policy.Limits
}

type encodedField struct {
	name  []byte
	tag   payload.Tag
	value []byte
}

// Encode validates p against limits and returns its frame.
func Encode(p *payload.Payload, limits policy.Limits) ([]byte, error) {
	if err := validate.Payload(p, limits); err != nil {
		return nil, err
	}
	if p.Len() > limits.MaxFields {
		return nil, binxerr.New(binxerr.LimitExceeded,
			"Payload has too many fields; max supported is %d", limits.MaxFields)
	}

	fields := make([]encodedField, 0, p.Len())
	builder := schemahash.NewBuilder()
	size := HeaderSize
	for _, field := range p.Fields() {
		if len(field.Name) > limits.MaxFieldNameBytes {
			return nil, binxerr.AtPath(binxerr.LimitExceeded, field.Name, "Field name too long: %q", field.Name)
		}
		value, err := payload.Encode(field.Value)
		if err != nil {
			return nil, atField(err, field.Name)
		}
		if int64(len(value)) > policy.WireMaxValueBytes {
			return nil, binxerr.AtPath(binxerr.LimitExceeded, field.Name,
				"Value of %q exceeds the 32-bit length prefix", field.Name)
		}
		tag := field.Value.Tag()
		builder.Add(field.Name, tag, field.Value.LegacyType())
		fields = append(fields, encodedField{name: []byte(field.Name), tag: tag, value: value})

		size += recordOverhead + len(field.Name) + len(value)
		if size > limits.MaxFrameBytes {
			return nil, binxerr.New(binxerr.LimitExceeded,
				"Serialized payload exceeds %d bytes", limits.MaxFrameBytes)
		}
	}

	digest := builder.Current()
	writer := wire.NewWriter(size)
	writer.Uint8(Version)
	writer.Uint8(uint8(len(fields)))
	writer.Write(digest[:])
	for _, field := range fields {
		writer.Uint8(uint8(len(field.name)))
		writer.Write(field.name)
		writer.Uint8(uint8(field.tag))
		writer.Uint32(uint32(len(field.value)))
		writer.Write(field.value)
	}
	return writer.Bytes(), nil
}

// Parse reads the header and records of data without decoding values
// or checking the schema hash.
func Parse(data []byte) (*Frame, error) {
	if len(data) < HeaderSize {
		return nil, binxerr.New(binxerr.PayloadTruncated, "Invalid payload: too short")
	}

	reader := wire.NewReader(data)
	version, _ := reader.Uint8()
	if version != Version {
		return nil, binxerr.New(binxerr.InvalidVersion, "Unsupported Binx version: %d", version)
	}
	count, _ := reader.Uint8()
	stored, _ := reader.Bytes(schemahash.Size)

	result := &Frame{
		Header:  Header{Version: version, FieldCount: count},
		Records: make([]Record, 0, count),
	}
	copy(result.SchemaHash[:], stored)

	for range int(count) {
		offset := reader.Offset()
		keyLength, err := reader.Uint8()
		if err != nil {
			return nil, truncated("truncated key")
		}
		key, err := reader.Bytes(int(keyLength))
		if err != nil {
			return nil, truncated("truncated key bytes")
		}
		if reader.Remaining() < 5 {
			return nil, truncated("truncated value header")
		}
		tag, _ := reader.Uint8()
		valueLength, _ := reader.Uint32()
		if int64(valueLength) > int64(reader.Remaining()) {
			return nil, truncated("truncated value bytes")
		}
		value, _ := reader.Bytes(int(valueLength))

		result.Records = append(result.Records, Record{
			Name:   decodeName(key),
			Tag:    payload.Tag(tag),
			Value:  value,
			Offset: offset,
		})
	}
	result.Trailing = reader.Remaining()
	return result, nil
}

// Decode parses data, decodes every value and verifies the schema hash.
func Decode(data []byte, options DecodeOptions) (*payload.Payload, error) {
	limits := policy.OrDefault(options.Limits)
	if len(data) > limits.MaxFrameBytes {
		return nil, binxerr.New(binxerr.LimitExceeded, "Payload exceeds %d bytes", limits.MaxFrameBytes)
	}

	parsed, err := Parse(data)
	if err != nil {
		return nil, err
	}

	result := &payload.Payload{}
	builder := schemahash.NewBuilder()
	valueOptions := payload.DecodeOptions{
		RejectUnknownTags: options.RejectUnknownTags,
		MaxArrayLength:    limits.MaxArrayLength,
		MaxObjectKeys:     limits.MaxObjectKeys,
	}
	for _, record := range parsed.Records {
		value, err := payload.Decode(record.Tag, record.Value, valueOptions)
		if err != nil {
			return nil, atField(err, record.Name)
		}
		builder.Add(record.Name, record.Tag, value.LegacyType())
		result.Set(record.Name, value)
	}

	if err := verifySchema(parsed.SchemaHash, builder, options.StrictSchemaHash); err != nil {
		return nil, err
	}
	return result, nil
}

// verifySchema accepts the tag-based digest, then the legacy digest
// when allowed.
func verifySchema(stored schemahash.Digest, builder *schemahash.Builder, strict bool) error {
	if builder.Current() == stored {
		return nil
	}
	if !strict && builder.Legacy() == stored {
		return nil
	}
	return binxerr.New(binxerr.SchemaMismatch, "Schema hash mismatch")
}

func truncated(detail string) error {
	return binxerr.New(binxerr.PayloadTruncated, "Invalid payload: %s", detail)
}

// atField attaches a field name to a value error.
func atField(err error, name string) error {
	var binxErr *binxerr.Error
	if errors.As(err, &binxErr) && binxErr.Path == "" {
		return &binxerr.Error{
			Code:    binxErr.Code,
			Message: binxErr.Message + " (field " + strconv.Quote(name) + ")",
			Path:    name,
			Err:     binxErr.Err,
		}
	}
	return err
}

// decodeName maps invalid UTF-8 in a key to U+FFFD.
func decodeName(key []byte) string {
	if utf8.Valid(key) {
		return string(key)
	}
	return strings.ToValidUTF8(string(key), "\uFFFD")
}
