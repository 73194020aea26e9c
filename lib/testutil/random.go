// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

// PseudoRandomBytes returns length bytes from a linear congruential
// generator seeded with seed. The same seed always yields the same
// bytes. Not for anything but tests.
func PseudoRandomBytes(seed uint32, length int) []byte {
	out := make([]byte, length)
	state := seed
	for i := range out {
		state = 1103515245*state + 12345
		out[i] = byte(state)
	}
	return out
}

// Sequence is a deterministic source of small integers for
// property-style tests.
type Sequence struct {
	state uint32
}

// NewSequence returns a Sequence seeded with seed.
func NewSequence(seed uint32) *Sequence {
	return &Sequence{state: seed}
}

// Next returns the next 32-bit value.
func (s *Sequence) Next() uint32 {
	s.state = 1664525*s.state + 1013904223
	return s.state
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		panic("testutil: Intn argument must be positive")
	}
	return int(s.Next() % uint32(n))
}
