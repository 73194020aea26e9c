// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	// encMode is Core Deterministic Encoding with timestamps written
	// as tag 0 RFC 3339 text at nanosecond precision.
	encMode = mustEncMode()

	// decMode decodes untyped maps as map[string]any and rejects
	// duplicate map keys.
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	options := cbor.CoreDetEncOptions()
	options.Time = cbor.TimeRFC3339Nano
	options.TimeTag = cbor.EncTagRequired
	mode, err := options.EncMode()
	if err != nil {
		panic("codec: building payload encoder: " + err.Error())
	}
	return mode
}

func mustDecMode() cbor.DecMode {
	mode, err := cbor.DecOptions{
		// Field names and opaque object keys are always text; the
		// library default for any-typed targets is map[any]any.
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: 64,
	}.DecMode()
	if err != nil {
		panic("codec: building payload decoder: " + err.Error())
	}
	return mode
}

// Marshal encodes an arbitrary value with the payload encoder. Map keys
// come out in bytewise lexical order.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal is the inverse of [Marshal]. Duplicate keys are an error.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Diagnose renders data in CBOR diagnostic notation, as printed by
// "binx decode --to diag".
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
