// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"errors"
	"math"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bureau-foundation/binx/lib/binxerr"
)

// FromNative converts a plain Go value to a Value. Integers pick their
// width with [Int], floats stay Float64, time.Time becomes DateTime,
// []byte becomes Blob, and slices, maps and *Object become Opaque (their
// contents are checked by the validator, not here). Values that are
// already a Value pass through.
func FromNative(v any) (Value, error) {
	switch value := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return value, nil
	case bool:
		return Bool(value), nil
	case int:
		return Int(int64(value)), nil
	case int8:
		return Int32(value), nil
	case int16:
		return Int32(value), nil
	case int32:
		return Int32(value), nil
	case int64:
		return Int(value), nil
	case uint:
		return fromUnsigned(uint64(value))
	case uint8:
		return Int32(value), nil
	case uint16:
		return Int32(value), nil
	case uint32:
		return Int(int64(value)), nil
	case uint64:
		return fromUnsigned(value)
	case float32:
		return Float64(value), nil
	case float64:
		return Float64(value), nil
	case json.Number:
		return numberValue(string(value))
	case string:
		return String(value), nil
	case time.Time:
		return NewDateTime(value), nil
	case []byte:
		return Blob(value), nil
	case []any, map[string]any, *Object:
		return Opaque{Value: value}, nil
	}
	return nil, binxerr.New(binxerr.UnsupportedType, "Non-serializable value: %T", v)
}

func fromUnsigned(n uint64) (Value, error) {
	if n > math.MaxInt64 {
		return nil, binxerr.New(binxerr.InvalidInput, "Integer %d does not fit in 64 bits", n)
	}
	return Int(int64(n)), nil
}

// FromMap converts a Go map to a payload. Go maps are unordered, so the
// fields are added in sorted key order.
func FromMap(values map[string]any) (*Payload, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &Payload{}
	for _, name := range names {
		value, err := FromNative(values[name])
		if err != nil {
			var binxErr *binxerr.Error
			if errors.As(err, &binxErr) {
				return nil, binxerr.AtPath(binxErr.Code, name, "%s at %s", binxErr.Message, name)
			}
			return nil, err
		}
		result.Set(name, value)
	}
	return result, nil
}
