// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm identifies a compression format.
type Algorithm uint8

const (
	// Zlib is deflate with the RFC 1950 wrapper.
	Zlib Algorithm = 1

	// Zstd is Zstandard at the default level.
	Zstd Algorithm = 2

	// LZ4 is the LZ4 frame format.
	LZ4 Algorithm = 3
)

// String returns the name of the algorithm.
func (algorithm Algorithm) String() string {
	switch algorithm {
	case Zlib:
		return "zlib"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(algorithm))
	}
}

// ParseAlgorithm parses an algorithm name. The empty string selects
// Zlib.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "zlib":
		return Zlib, nil
	case "zstd":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression algorithm: %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (algorithm Algorithm) MarshalText() ([]byte, error) {
	return []byte(algorithm.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (algorithm *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*algorithm = parsed
	return nil
}

var (
	// ErrLimit is returned when decompressed output would exceed the
	// caller's limit.
	ErrLimit = errors.New("decompressed data exceeds limit")

	// ErrCorrupt is returned for input that is not valid compressed
	// data.
	ErrCorrupt = errors.New("corrupt compressed data")
)

// zstd.Encoder is safe for concurrent EncodeAll calls.
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("compress: zstd encoder initialization failed: " + err.Error())
	}
}

// Compress returns data compressed with algorithm.
func Compress(algorithm Algorithm, data []byte) ([]byte, error) {
	switch algorithm {
	case Zlib:
		var buffer bytes.Buffer
		writer := zlib.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("zlib compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("zlib compress: %w", err)
		}
		return buffer.Bytes(), nil

	case Zstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	case LZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// Decompress returns the decompressed form of data, reading at most
// limit bytes of output. Malformed input wraps [ErrCorrupt]; output
// beyond limit returns [ErrLimit].
func Decompress(algorithm Algorithm, data []byte, limit int) ([]byte, error) {
	source := bytes.NewReader(data)
	var reader io.Reader
	switch algorithm {
	case Zlib:
		zlibReader, err := zlib.NewReader(source)
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", ErrCorrupt, err)
		}
		defer zlibReader.Close()
		reader = zlibReader

	case Zstd:
		zstdReader, err := zstd.NewReader(source, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrCorrupt, err)
		}
		defer zstdReader.Close()
		reader = zstdReader

	case LZ4:
		reader = lz4.NewReader(source)

	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}

	output, err := io.ReadAll(io.LimitReader(reader, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, algorithm, err)
	}
	if len(output) > limit {
		return nil, ErrLimit
	}
	return output, nil
}
