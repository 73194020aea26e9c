// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestReaderSequence(t *testing.T) {
	reader := NewReader([]byte{0x01, 0x00, 0x00, 0x01, 0x00, 'a', 'b', 'c'})

	version, err := reader.Uint8()
	if err != nil || version != 1 {
		t.Fatalf("Uint8() = %d, %v; want 1, nil", version, err)
	}
	length, err := reader.Uint32()
	if err != nil || length != 256 {
		t.Fatalf("Uint32() = %d, %v; want 256, nil", length, err)
	}
	data, err := reader.Bytes(3)
	if err != nil || string(data) != "abc" {
		t.Fatalf("Bytes(3) = %q, %v; want abc, nil", data, err)
	}
	if reader.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", reader.Remaining())
	}
	if reader.Offset() != 8 {
		t.Errorf("Offset() = %d, want 8", reader.Offset())
	}
}

func TestReaderTruncation(t *testing.T) {
	tests := []struct {
		name string
		read func(*Reader) error
	}{
		{"uint8 on empty", func(r *Reader) error { _, err := r.Uint8(); return err }},
		{"uint32 on three bytes", func(r *Reader) error { _, err := r.Uint32(); return err }},
		{"bytes past end", func(r *Reader) error { _, err := r.Bytes(4); return err }},
		{"negative length", func(r *Reader) error { _, err := r.Bytes(-1); return err }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var reader *Reader
			if test.name == "uint8 on empty" {
				reader = NewReader(nil)
			} else {
				reader = NewReader([]byte{1, 2, 3})
			}
			if err := test.read(reader); !errors.Is(err, ErrTruncated) {
				t.Errorf("error = %v, want ErrTruncated", err)
			}
			if reader.Offset() != 0 {
				t.Errorf("Offset() = %d after failed read, want 0", reader.Offset())
			}
		})
	}
}

func TestWriterExactSize(t *testing.T) {
	writer := NewWriter(8)
	writer.Uint8(0x81)
	writer.Uint32(0x0102_0304)
	writer.Write([]byte{9, 9, 9})

	want := []byte{0x81, 0x01, 0x02, 0x03, 0x04, 9, 9, 9}
	if got := writer.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %x, want %x", got, want)
	}
}

func TestWriterOverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on overflow")
		}
	}()
	writer := NewWriter(2)
	writer.Uint32(1)
}

func TestWriterUnderfillPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on underfilled Bytes()")
		}
	}()
	writer := NewWriter(4)
	writer.Uint8(1)
	writer.Bytes()
}
