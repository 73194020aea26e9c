// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"errors"
	"fmt"
)

// Wire-imposed ceilings.
const (
	// WireMaxFields is the largest field count a one-byte count can hold.
	WireMaxFields = 255

	// WireMaxFieldNameBytes is the largest key a one-byte length can hold.
	WireMaxFieldNameBytes = 255

	// WireMaxValueBytes is the largest value a u32 length prefix can hold.
	WireMaxValueBytes = 1<<32 - 1
)

// Limits bounds the shape and size of payloads, frames and envelopes.
type Limits struct {
	// MaxDepth bounds composite nesting. Entering an array or object at
	// this depth fails; the payload itself is depth 0.
	MaxDepth int `yaml:"max_depth"`

	// MaxStringBytes bounds every string, top-level or nested.
	MaxStringBytes int `yaml:"max_string_bytes"`

	// MaxAADBytes bounds the associated data on seal and open.
	MaxAADBytes int `yaml:"max_aad_bytes"`

	// MaxFields bounds the number of fields in a payload.
	MaxFields int `yaml:"max_fields"`

	// MaxFieldNameBytes bounds the UTF-8 length of a field name.
	MaxFieldNameBytes int `yaml:"max_field_name_bytes"`

	// MaxArrayLength bounds elements of arrays nested in opaque values.
	MaxArrayLength int `yaml:"max_array_length"`

	// MaxObjectKeys bounds keys of objects nested in opaque values.
	MaxObjectKeys int `yaml:"max_object_keys"`

	// MaxFrameBytes bounds the total size of an encoded frame.
	MaxFrameBytes int `yaml:"max_frame_bytes"`

	// MaxDecryptedBytes bounds the plaintext recovered from an envelope,
	// after decompression.
	MaxDecryptedBytes int `yaml:"max_decrypted_bytes"`
}

// Default returns the reference policy.
func Default() Limits {
	return Limits{
		MaxDepth:          32,
		MaxStringBytes:    1 << 20,
		MaxAADBytes:       8 << 10,
		MaxFields:         WireMaxFields,
		MaxFieldNameBytes: WireMaxFieldNameBytes,
		MaxArrayLength:    65_535,
		MaxObjectKeys:     65_535,
		MaxFrameBytes:     16 << 20,
		MaxDecryptedBytes: 16 << 20,
	}
}

// Validate checks that every limit is positive and within what the wire
// format can carry.
func (l Limits) Validate() error {
	var errs []error
	positive := func(name string, value int) {
		if value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, value))
		}
	}
	positive("max_depth", l.MaxDepth)
	positive("max_string_bytes", l.MaxStringBytes)
	positive("max_aad_bytes", l.MaxAADBytes)
	positive("max_fields", l.MaxFields)
	positive("max_field_name_bytes", l.MaxFieldNameBytes)
	positive("max_array_length", l.MaxArrayLength)
	positive("max_object_keys", l.MaxObjectKeys)
	positive("max_frame_bytes", l.MaxFrameBytes)
	positive("max_decrypted_bytes", l.MaxDecryptedBytes)

	if l.MaxFields > WireMaxFields {
		errs = append(errs, fmt.Errorf("max_fields %d exceeds the wire limit of %d", l.MaxFields, WireMaxFields))
	}
	if l.MaxFieldNameBytes > WireMaxFieldNameBytes {
		errs = append(errs, fmt.Errorf("max_field_name_bytes %d exceeds the wire limit of %d",
			l.MaxFieldNameBytes, WireMaxFieldNameBytes))
	}
	if int64(l.MaxStringBytes) > WireMaxValueBytes {
		errs = append(errs, fmt.Errorf("max_string_bytes %d exceeds the wire limit of %d",
			l.MaxStringBytes, int64(WireMaxValueBytes)))
	}
	return errors.Join(errs...)
}

// OrDefault returns *limits, or Default() when limits is nil. Option
// structs carry limits by pointer so that the zero value means "use the
// reference policy".
func OrDefault(limits *Limits) Limits {
	if limits == nil {
		return Default()
	}
	return *limits
}
