// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"testing"
)

func TestPseudoRandomBytesDeterministic(t *testing.T) {
	first := PseudoRandomBytes(7, 64)
	second := PseudoRandomBytes(7, 64)
	if !bytes.Equal(first, second) {
		t.Error("same seed should produce the same bytes")
	}
	if bytes.Equal(first, PseudoRandomBytes(8, 64)) {
		t.Error("different seeds should produce different bytes")
	}
}

func TestPseudoRandomBytesFirstValues(t *testing.T) {
	// state1 = 1103515245*1 + 12345 = 1103527590 = 0x41c67ea6
	got := PseudoRandomBytes(1, 1)
	if got[0] != 0xa6 {
		t.Errorf("first byte = %#x, want 0xa6", got[0])
	}
}

func TestSequenceIntnRange(t *testing.T) {
	sequence := NewSequence(42)
	for range 1000 {
		if value := sequence.Intn(10); value < 0 || value >= 10 {
			t.Fatalf("Intn(10) = %d, out of range", value)
		}
	}
}
