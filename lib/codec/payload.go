// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bureau-foundation/binx/lib/binxerr"
	"github.com/bureau-foundation/binx/lib/payload"
)

const (
	majorTextString = 3
	majorMap        = 5
)

// MarshalPayload encodes p as a CBOR map in field order.
func MarshalPayload(p *payload.Payload) ([]byte, error) {
	fields := p.Fields()
	output := appendHead(nil, majorMap, uint64(len(fields)))
	for _, field := range fields {
		output = appendHead(output, majorTextString, uint64(len(field.Name)))
		output = append(output, field.Name...)

		value, err := encMode.Marshal(cborNative(payload.Native(field.Value)))
		if err != nil {
			return nil, binxerr.AtPath(binxerr.UnsupportedType, field.Name,
				"Field %q is not representable as CBOR: %v", field.Name, err)
		}
		output = append(output, value...)
	}
	return output, nil
}

// UnmarshalPayload decodes a CBOR map into a payload, keeping the order
// of the map entries. Trailing data after the map is an error.
func UnmarshalPayload(data []byte) (*payload.Payload, error) {
	count, rest, err := readMapHead(data)
	if err != nil {
		return nil, err
	}

	result := &payload.Payload{}
	for i := range count {
		var name string
		rest, err = decMode.UnmarshalFirst(rest, &name)
		if err != nil {
			return nil, invalidCBOR(fmt.Errorf("map key %d: %w", i, err))
		}
		if _, exists := result.Get(name); exists {
			return nil, invalidCBOR(fmt.Errorf("duplicate field %q", name))
		}

		var native any
		rest, err = decMode.UnmarshalFirst(rest, &native)
		if err != nil {
			return nil, invalidCBOR(fmt.Errorf("field %q: %w", name, err))
		}
		value, err := payload.FromNative(native)
		if err != nil {
			var binxErr *binxerr.Error
			if errors.As(err, &binxErr) {
				return nil, binxerr.AtPath(binxErr.Code, name, "%s at %s", binxErr.Message, name)
			}
			return nil, err
		}
		result.Set(name, value)
	}
	if len(rest) != 0 {
		return nil, invalidCBOR(fmt.Errorf("%d bytes after payload map", len(rest)))
	}
	return result, nil
}

// cborNative rewrites the parts of an opaque tree the CBOR encoder
// cannot take directly: ordered objects become maps and nested binx
// values become their native form.
func cborNative(v any) any {
	switch value := v.(type) {
	case payload.Value:
		return cborNative(payload.Native(value))
	case *payload.Object:
		out := make(map[string]any, value.Len())
		for i, key := range value.Keys {
			out[key] = cborNative(value.Values[i])
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, element := range value {
			out[i] = cborNative(element)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, element := range value {
			out[key] = cborNative(element)
		}
		return out
	}
	return v
}

// appendHead appends a CBOR initial byte and argument.
func appendHead(dst []byte, major byte, argument uint64) []byte {
	prefix := major << 5
	switch {
	case argument < 24:
		return append(dst, prefix|byte(argument))
	case argument <= 0xff:
		return append(dst, prefix|24, byte(argument))
	case argument <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, prefix|25), uint16(argument))
	case argument <= 0xffffffff:
		return binary.BigEndian.AppendUint32(append(dst, prefix|26), uint32(argument))
	default:
		return binary.BigEndian.AppendUint64(append(dst, prefix|27), argument)
	}
}

// readMapHead reads a definite-length map header.
func readMapHead(data []byte) (int, []byte, error) {
	if len(data) == 0 {
		return 0, nil, invalidCBOR(errors.New("empty input"))
	}
	if data[0]>>5 != majorMap {
		return 0, nil, binxerr.New(binxerr.InvalidInput, "CBOR payload must be a map")
	}

	info := data[0] & 0x1f
	rest := data[1:]
	var width int
	switch {
	case info < 24:
		return int(info), rest, nil
	case info == 24:
		width = 1
	case info == 25:
		width = 2
	case info == 26:
		width = 4
	case info == 27:
		width = 8
	case info == 31:
		return 0, nil, invalidCBOR(errors.New("indefinite-length maps are not supported"))
	default:
		return 0, nil, invalidCBOR(fmt.Errorf("malformed map header 0x%02x", data[0]))
	}
	if len(rest) < width {
		return 0, nil, invalidCBOR(errors.New("truncated map header"))
	}

	var count uint64
	for _, b := range rest[:width] {
		count = count<<8 | uint64(b)
	}
	// Every entry needs at least two bytes.
	if count > uint64(len(rest)-width)/2 {
		return 0, nil, invalidCBOR(fmt.Errorf("map declares %d entries in %d bytes", count, len(rest)-width))
	}
	return int(count), rest[width:], nil
}

func invalidCBOR(err error) error {
	return binxerr.Wrap(binxerr.InvalidInput, err, "Invalid CBOR payload: %v", err)
}
