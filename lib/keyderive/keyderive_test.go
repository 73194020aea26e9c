// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyderive

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/bureau-foundation/binx/lib/testutil"
)

// referenceHKDF is a direct transcription of RFC 5869 used to check
// that the library derivation is bit-identical.
func referenceHKDF(material, salt, info []byte, length int) []byte {
	extract := hmac.New(sha256.New, salt)
	extract.Write(material)
	prk := extract.Sum(nil)

	var okm, previous []byte
	for counter := byte(1); len(okm) < length; counter++ {
		expand := hmac.New(sha256.New, prk)
		expand.Write(previous)
		expand.Write(info)
		expand.Write([]byte{counter})
		previous = expand.Sum(nil)
		okm = append(okm, previous...)
	}
	return okm[:length]
}

func TestHKDFMatchesReference(t *testing.T) {
	zeroSalt := make([]byte, 32)
	for _, material := range []string{"secret", "", "k", "a much longer secret with spaces"} {
		for _, length := range []int{16, 32, 64, 100} {
			got, err := HKDF([]byte(material), zeroSalt, []byte(Info), length)
			if err != nil {
				t.Fatalf("HKDF(%q, %d): %v", material, length, err)
			}
			want := referenceHKDF([]byte(material), zeroSalt, []byte(Info), length)
			if !bytes.Equal(got, want) {
				t.Errorf("HKDF(%q, %d) = %x, want %x", material, length, got, want)
			}
		}
	}
}

func TestHKDFRFC5869CaseOne(t *testing.T) {
	material := testutil.MustHex(t, "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
	salt := testutil.MustHex(t, "000102030405060708090a0b0c")
	info := testutil.MustHex(t, "f0f1f2f3f4f5f6f7f8f9")
	got, err := HKDF(material, salt, info, 42)
	if err != nil {
		t.Fatal(err)
	}
	want := "3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf34007208d5b887185865"
	if hex.EncodeToString(got) != want {
		t.Errorf("HKDF = %x, want %s", got, want)
	}
}

func TestHKDFLengthBounds(t *testing.T) {
	for _, length := range []int{0, -1, 255*32 + 1} {
		if _, err := HKDF([]byte("k"), nil, nil, length); err == nil {
			t.Errorf("HKDF length %d should fail", length)
		}
	}
}

func TestDeriveKeyVector(t *testing.T) {
	key, err := DeriveKey([]byte("secret"))
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	defer key.Close()
	want := "934dd137b7a13b660987418acac2c3ad66614d6e1ef6623b19ef08dc8244f923"
	if got := hex.EncodeToString(key.Bytes()); got != want {
		t.Errorf("DeriveKey(secret) = %s, want %s", got, want)
	}
}

func TestFreshReleaseZeroes(t *testing.T) {
	key, err := Fresh{}.Derive(1, []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	buffer := key.buffer
	key.Release()
	defer func() {
		if recover() == nil {
			t.Error("released fresh key should be closed")
		}
	}()
	buffer.Bytes()
}

// --- Cache ---

func TestCacheReusesKeys(t *testing.T) {
	cache, err := NewCache(0)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	first, err := cache.Derive(1, []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Derive(1, []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if first.buffer != second.buffer {
		t.Error("same kid and secret should return the cached key")
	}
	first.Release()
	if got := hex.EncodeToString(second.Bytes()); got[:8] != "934dd137" {
		t.Errorf("cached key = %s, Release on a cached key must not zero it", got)
	}

	other, err := cache.Derive(2, []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if other.buffer == first.buffer {
		t.Error("different kids should not share a cache entry")
	}
	if !other.buffer.Equal(first.buffer) {
		t.Error("same secret should derive the same key under any kid")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestCacheCapacity(t *testing.T) {
	cache, err := NewCache(1)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	if _, err := cache.Derive(0, []byte("a")); err != nil {
		t.Fatal(err)
	}
	overflow, err := cache.Derive(0, []byte("b"))
	if err != nil {
		t.Fatal(err)
	}
	if !overflow.owned {
		t.Error("key derived past capacity should be owned by the caller")
	}
	overflow.Release()
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestCacheClose(t *testing.T) {
	cache, err := NewCache(4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Derive(0, []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := cache.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() after Close = %d", cache.Len())
	}
	if _, err := cache.Derive(0, []byte("a")); err == nil {
		t.Error("Derive after Close should fail")
	}
	if _, err := NewCache(-1); err == nil {
		t.Error("NewCache(-1) should fail")
	}
}

func TestCacheConcurrent(t *testing.T) {
	cache, err := NewCache(8)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	var group sync.WaitGroup
	for worker := range 16 {
		group.Add(1)
		go func() {
			defer group.Done()
			for i := range 50 {
				key, err := cache.Derive(uint8(i%4), []byte{byte(worker % 3)})
				if err != nil {
					t.Error(err)
					return
				}
				if len(key.Bytes()) != KeySize {
					t.Errorf("key length = %d", len(key.Bytes()))
				}
				key.Release()
			}
		}()
	}
	group.Wait()
	if cache.Len() > 8 {
		t.Errorf("Len() = %d exceeds capacity", cache.Len())
	}
}
