// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncated is returned when a read would run past the end of the
// buffer.
var ErrTruncated = errors.New("wire: read past end of buffer")

// Reader reads sequentially from a byte slice. Slices returned by
// [Reader.Bytes] alias the underlying buffer.
type Reader struct {
	data   []byte
	offset int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrTruncated
	}
	value := r.data[r.offset]
	r.offset++
	return value, nil
}

// Uint32 reads a big-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrTruncated
	}
	value := binary.BigEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return value, nil
}

// Bytes reads the next n bytes. The length is checked against the
// remaining buffer before any slicing, so a hostile length prefix
// cannot cause an allocation or a panic.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, ErrTruncated
	}
	value := r.data[r.offset : r.offset+n]
	r.offset += n
	return value, nil
}

// Writer fills a buffer allocated up front with an exact capacity.
// Writing past the capacity is a programming error in the caller's size
// accounting and panics.
type Writer struct {
	buffer []byte
}

// NewWriter allocates a Writer whose output will be exactly size bytes
// when the caller's accounting is correct.
func NewWriter(size int) *Writer {
	return &Writer{buffer: make([]byte, 0, size)}
}

// Uint8 appends one byte.
func (w *Writer) Uint8(value uint8) {
	w.ensure(1)
	w.buffer = append(w.buffer, value)
}

// Uint32 appends a big-endian uint32.
func (w *Writer) Uint32(value uint32) {
	w.ensure(4)
	w.buffer = binary.BigEndian.AppendUint32(w.buffer, value)
}

// Write appends raw bytes.
func (w *Writer) Write(data []byte) {
	w.ensure(len(data))
	w.buffer = append(w.buffer, data...)
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buffer)
}

// Bytes returns the written bytes. It panics if the buffer was not
// filled to the capacity requested in NewWriter.
func (w *Writer) Bytes() []byte {
	if len(w.buffer) != cap(w.buffer) {
		panic(fmt.Sprintf("wire: writer holds %d bytes, sized for %d", len(w.buffer), cap(w.buffer)))
	}
	return w.buffer
}

func (w *Writer) ensure(n int) {
	if len(w.buffer)+n > cap(w.buffer) {
		panic(fmt.Sprintf("wire: write of %d bytes overflows writer sized for %d (holds %d)",
			n, cap(w.buffer), len(w.buffer)))
	}
}
