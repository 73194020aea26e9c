// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package schemahash computes the 32-byte digest that a frame stores to
// identify its field layout.
//
// The current scheme hashes the comma-joined "name:tag" pairs in field
// order, with each tag as two lowercase hex digits:
//
//	SHA-256("userId:03,active:02,note:05")
//
// The legacy scheme, written by older encoders, hashed the runtime type
// name of each value instead of its tag ("userId:number,active:boolean").
// A decoder computes both in one pass with a [Builder] and decides which
// to accept.
package schemahash
