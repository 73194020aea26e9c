// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret keeps key material out of the Go heap.
//
// A [Buffer] is an anonymous mmap region. It is locked into RAM and
// excluded from core dumps where the kernel allows it; both are
// attempted on every allocation but neither is required, because
// derived AES keys are short-lived and RLIMIT_MEMLOCK is often small in
// containers. [Buffer.Locked] reports whether the lock took effect.
// Close zeroes the region before unmapping it, and any access after
// Close panics.
//
// lib/keyderive derives every envelope key into a Buffer. Age
// identities and keyring plaintext are read with [ReadFromPath]. The
// secrets handed to the binx API are strings and stay on the heap.
package secret
