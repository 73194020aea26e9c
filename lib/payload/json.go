// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/bureau-foundation/binx/lib/binxerr"
)

// maxJSONNesting bounds recursion when parsing JSON text. Encode-side
// nesting is bounded much lower by the validator.
const maxJSONNesting = 10000

// marshalJSON encodes v without HTML escaping, so that "<" and "&"
// survive as written.
func marshalJSON(v any) ([]byte, error) {
	return json.MarshalWithOption(v, json.DisableHTMLEscape())
}

// Native returns the plain Go form of v: nil, bool, int32, int64,
// float64, string, time.Time, []byte, or the tree inside an Opaque.
func Native(v Value) any {
	switch value := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(value)
	case Int32:
		return int32(value)
	case Int64:
		return int64(value)
	case Float64:
		return float64(value)
	case String:
		return string(value)
	case DateTime:
		return value.Time()
	case Blob:
		return []byte(value)
	case ByteList:
		return []byte(value)
	case Opaque:
		return value.Value
	}
	return nil
}

// normalizeOpaque rewrites the parts of an opaque tree that the JSON
// encoder would not render in wire form: timestamps become ISO strings
// and binx values become their native form.
func normalizeOpaque(v any) any {
	switch value := v.(type) {
	case Value:
		return normalizeOpaque(Native(value))
	case time.Time:
		return value.UTC().Format(ISOLayout)
	case []any:
		out := make([]any, len(value))
		for i, element := range value {
			out[i] = normalizeOpaque(element)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, element := range value {
			out[key] = normalizeOpaque(element)
		}
		return out
	}
	return v
}

// MarshalOpaque returns the compact JSON text of an opaque tree.
func MarshalOpaque(v any) ([]byte, error) {
	text, err := marshalJSON(normalizeOpaque(v))
	if err != nil {
		return nil, binxerr.Wrap(binxerr.InvalidInput, err, "Opaque value is not representable as JSON: %v", err)
	}
	return text, nil
}

// UnmarshalOpaque parses JSON text into a tree of nil, bool, float64,
// string, []any and *Object. Arrays longer than
// options.MaxArrayLength and objects with more than
// options.MaxObjectKeys keys fail with LimitExceeded; zero leaves
// either unbounded.
func UnmarshalOpaque(data []byte, options DecodeOptions) (any, error) {
	reader := opaqueReader{decoder: newDecoder(data), options: options}
	token, err := reader.decoder.Token()
	if err != nil {
		return nil, invalidJSON(err)
	}
	value, err := reader.value(token, 0)
	if err != nil {
		return nil, opaqueError(err)
	}
	if err := expectEOF(reader.decoder); err != nil {
		return nil, invalidJSON(err)
	}
	return value, nil
}

// opaqueError keeps limit failures as they are and reports everything
// else as malformed JSON.
func opaqueError(err error) error {
	if binxerr.Is(err, binxerr.LimitExceeded) {
		return err
	}
	return invalidJSON(err)
}

func invalidJSON(err error) error {
	return binxerr.Wrap(binxerr.InvalidInput, err, "Invalid JSON: %v", err)
}

func newDecoder(data []byte) *json.Decoder {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder
}

func expectEOF(decoder *json.Decoder) error {
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

type opaqueReader struct {
	decoder *json.Decoder
	options DecodeOptions
}

// value builds the value that begins with token. Numbers become
// float64, objects become *Object.
func (r *opaqueReader) value(token any, depth int) (any, error) {
	switch value := token.(type) {
	case json.Delim:
		if depth >= maxJSONNesting {
			return nil, errors.New("JSON nesting too deep")
		}
		switch value {
		case '{':
			return r.object(depth)
		case '[':
			return r.array(depth)
		default:
			return nil, fmt.Errorf("unexpected %q", rune(value))
		}
	case json.Number:
		number, err := strconv.ParseFloat(string(value), 64)
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", value, err)
		}
		return number, nil
	case string, bool, nil:
		return value, nil
	case float64:
		return value, nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", token)
}

func (r *opaqueReader) object(depth int) (*Object, error) {
	object := &Object{}
	for r.decoder.More() {
		keyToken, err := r.decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyToken)
		}
		elementToken, err := r.decoder.Token()
		if err != nil {
			return nil, err
		}
		element, err := r.value(elementToken, depth+1)
		if err != nil {
			return nil, err
		}
		object.Set(key, element)
		if limit := r.options.MaxObjectKeys; limit > 0 && object.Len() > limit {
			return nil, binxerr.New(binxerr.LimitExceeded, "Object has more than %d keys", limit)
		}
	}
	if err := expectDelim(r.decoder, '}'); err != nil {
		return nil, err
	}
	return object, nil
}

func (r *opaqueReader) array(depth int) ([]any, error) {
	array := []any{}
	for r.decoder.More() {
		elementToken, err := r.decoder.Token()
		if err != nil {
			return nil, err
		}
		element, err := r.value(elementToken, depth+1)
		if err != nil {
			return nil, err
		}
		array = append(array, element)
		if limit := r.options.MaxArrayLength; limit > 0 && len(array) > limit {
			return nil, binxerr.New(binxerr.LimitExceeded, "Array has more than %d elements", limit)
		}
	}
	if err := expectDelim(r.decoder, ']'); err != nil {
		return nil, err
	}
	return array, nil
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", rune(want), token)
	}
	return nil
}

// ParseJSON builds a payload from a JSON object, keeping key order.
// Top-level numbers with an integral value become integers (Int32 when
// they fit 32 bits, else Int64); everything else becomes Float64.
// Arrays and objects become Opaque.
func ParseJSON(data []byte) (*Payload, error) {
	decoder := newDecoder(data)
	token, err := decoder.Token()
	if err != nil {
		return nil, invalidJSON(err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, binxerr.New(binxerr.InvalidInput, "Payload JSON must be an object")
	}

	result := &Payload{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, invalidJSON(err)
		}
		name, ok := keyToken.(string)
		if !ok {
			return nil, invalidJSON(fmt.Errorf("expected object key, got %v", keyToken))
		}
		valueToken, err := decoder.Token()
		if err != nil {
			return nil, invalidJSON(err)
		}
		value, err := topLevelValue(decoder, valueToken)
		if err != nil {
			return nil, invalidJSON(err)
		}
		result.Set(name, value)
	}
	if err := expectDelim(decoder, '}'); err != nil {
		return nil, invalidJSON(err)
	}
	if err := expectEOF(decoder); err != nil {
		return nil, invalidJSON(err)
	}
	return result, nil
}

func topLevelValue(decoder *json.Decoder, token any) (Value, error) {
	switch value := token.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(value), nil
	case string:
		return String(value), nil
	case json.Number:
		return numberValue(string(value))
	case float64:
		return numberValue(strconv.FormatFloat(value, 'g', -1, 64))
	}
	reader := opaqueReader{decoder: decoder}
	tree, err := reader.value(token, 0)
	if err != nil {
		return nil, err
	}
	return Opaque{Value: tree}, nil
}

func numberValue(text string) (Value, error) {
	if !strings.ContainsAny(text, ".eE") {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(n), nil
		}
	}
	number, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", text, err)
	}
	if number == math.Trunc(number) && math.Abs(number) <= maxExactInteger {
		return Int(int64(number)), nil
	}
	return Float64(number), nil
}

// maxExactInteger is the largest magnitude below which every integer
// has an exact float64 representation.
const maxExactInteger = 1 << 53

// MarshalJSON renders the payload as a JSON object in field order.
// DateTime values become ISO strings, byte values become base64 strings
// and non-finite floats become null.
func (p *Payload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	buffer := []byte{'{'}
	for i, field := range p.fields {
		if i > 0 {
			buffer = append(buffer, ',')
		}
		name, err := marshalJSON(field.Name)
		if err != nil {
			return nil, err
		}
		buffer = append(buffer, name...)
		buffer = append(buffer, ':')
		text, err := valueJSON(field.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		buffer = append(buffer, text...)
	}
	return append(buffer, '}'), nil
}

func valueJSON(v Value) ([]byte, error) {
	switch value := v.(type) {
	case Float64:
		if math.IsNaN(float64(value)) || math.IsInf(float64(value), 0) {
			return []byte("null"), nil
		}
	case Blob:
		return marshalJSON(base64.StdEncoding.EncodeToString(value))
	case ByteList:
		return marshalJSON(base64.StdEncoding.EncodeToString(value))
	case Opaque:
		return MarshalOpaque(value.Value)
	}
	return marshalJSON(normalizeOpaque(Native(v)))
}
