// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// maxSecretFileBytes bounds how much ReadFromPath will read.
const maxSecretFileBytes = 64 << 10

// ReadFromPath reads a secret from a file, or from stdin when path is
// "-". Surrounding whitespace (typically a trailing newline) is trimmed.
// The caller must Close the returned buffer.
func ReadFromPath(path string) (*Buffer, error) {
	var source io.Reader
	if path == "-" {
		source = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening secret file: %w", err)
		}
		defer file.Close()
		source = file
	}
	return ReadFrom(source)
}

// ReadFrom reads a secret from r, trimming surrounding whitespace.
func ReadFrom(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSecretFileBytes+1))
	if err != nil {
		Zero(data)
		return nil, fmt.Errorf("reading secret: %w", err)
	}
	if len(data) > maxSecretFileBytes {
		Zero(data)
		return nil, fmt.Errorf("secret exceeds %d bytes", maxSecretFileBytes)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("secret is empty")
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
