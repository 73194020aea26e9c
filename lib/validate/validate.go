// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"math"
	"sort"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bureau-foundation/binx/lib/binxerr"
	"github.com/bureau-foundation/binx/lib/payload"
	"github.com/bureau-foundation/binx/lib/policy"
)

// Payload validates every field of p.
func Payload(p *payload.Payload, limits policy.Limits) error {
	for _, field := range p.Fields() {
		if err := Value(field.Value, field.Name, 1, limits); err != nil {
			return err
		}
	}
	return nil
}

// Value validates v found at path, where depth is the depth v would
// occupy if it were a composite. v may be a [payload.Value] or any of
// the plain Go values an Opaque tree may hold.
func Value(v any, path string, depth int, limits policy.Limits) error {
	switch value := v.(type) {
	case nil, bool, json.Number, time.Time, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return nil

	case float32:
		return finite(float64(value), path)
	case float64:
		return finite(value, path)

	case string:
		return stringLength(len(value), path, limits)

	case payload.String:
		return stringLength(len(value), path, limits)
	case payload.Opaque:
		return Value(value.Value, path, depth, limits)
	case payload.Value:
		return nil

	case []any:
		if err := enter(path, depth, limits); err != nil {
			return err
		}
		if len(value) > limits.MaxArrayLength {
			return binxerr.AtPath(binxerr.LimitExceeded, path,
				"Array at %s has %d elements; max is %d", displayPath(path), len(value), limits.MaxArrayLength)
		}
		for i, element := range value {
			if err := Value(element, indexPath(path, i), depth+1, limits); err != nil {
				return err
			}
		}
		return nil

	case map[string]any:
		if err := enter(path, depth, limits); err != nil {
			return err
		}
		if err := objectSize(len(value), path, limits); err != nil {
			return err
		}
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := member(key, value[key], path, depth, limits); err != nil {
				return err
			}
		}
		return nil

	case *payload.Object:
		if value == nil {
			return nil
		}
		if err := enter(path, depth, limits); err != nil {
			return err
		}
		if len(value.Keys) != len(value.Values) {
			return binxerr.AtPath(binxerr.InvalidInput, path,
				"Object at %s has %d keys and %d values", displayPath(path), len(value.Keys), len(value.Values))
		}
		if err := objectSize(len(value.Keys), path, limits); err != nil {
			return err
		}
		for i, key := range value.Keys {
			if err := member(key, value.Values[i], path, depth, limits); err != nil {
				return err
			}
		}
		return nil
	}
	return binxerr.AtPath(binxerr.UnsupportedType, path,
		"Non-serializable value at %s: %T", displayPath(path), v)
}

func member(key string, value any, path string, depth int, limits policy.Limits) error {
	childPath := keyPath(path, key)
	if err := stringLength(len(key), childPath, limits); err != nil {
		return err
	}
	return Value(value, childPath, depth+1, limits)
}

func enter(path string, depth int, limits policy.Limits) error {
	if depth >= limits.MaxDepth {
		return binxerr.AtPath(binxerr.LimitExceeded, path, "Max nesting depth exceeded at %s", displayPath(path))
	}
	return nil
}

func objectSize(keys int, path string, limits policy.Limits) error {
	if keys > limits.MaxObjectKeys {
		return binxerr.AtPath(binxerr.LimitExceeded, path,
			"Object at %s has %d keys; max is %d", displayPath(path), keys, limits.MaxObjectKeys)
	}
	return nil
}

func stringLength(length int, path string, limits policy.Limits) error {
	if length > limits.MaxStringBytes {
		return binxerr.AtPath(binxerr.LimitExceeded, path,
			"String too large at %s: %d bytes; max is %d", displayPath(path), length, limits.MaxStringBytes)
	}
	return nil
}

func finite(value float64, path string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return binxerr.AtPath(binxerr.InvalidInput, path,
			"Non-finite number at %s cannot be encoded as JSON", displayPath(path))
	}
	return nil
}

func keyPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, index int) string {
	return parent + "[" + strconv.Itoa(index) + "]"
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
