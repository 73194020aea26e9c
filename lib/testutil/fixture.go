// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustHex decodes a hex test vector. Whitespace is ignored so that long
// vectors can be split across lines.
func MustHex(t testing.TB, text string) []byte {
	t.Helper()
	cleaned := strings.Join(strings.Fields(text), "")
	data, err := hex.DecodeString(cleaned)
	if err != nil {
		t.Fatalf("decoding hex fixture: %v", err)
	}
	return data
}

// WriteFile writes data to name inside a per-test temporary directory
// and returns the absolute path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}
