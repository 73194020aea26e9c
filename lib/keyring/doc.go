// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keyring loads the kid-to-secret mapping that decryption
// needs. A keyring is a YAML document:
//
//	active: 2
//	keys:
//	  1: old-secret
//	  2: current-secret
//
// Kids must be in 0-255 and secrets must be non-empty. The active kid,
// when present, names the key used for encryption; every key is
// offered for decryption, so rotating keys is a matter of adding a new
// entry and moving active to it.
//
// A keyring file may be sealed with age (see lib/sealed); [Load]
// opens it when given an identity file.
package keyring
