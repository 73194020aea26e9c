// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Binx encrypts and decrypts payloads in the binx envelope format and
// inspects the frames inside them.
//
// Subcommands:
//
//	encode     JSON or CBOR payload to an encrypted envelope
//	decode     encrypted envelope to JSON, CBOR or CBOR diagnostic notation
//	serialize  payload to an unencrypted frame
//	parse      unencrypted frame to JSON
//	inspect    envelope header and frame layout
//	keyring    generate, seal and list keyrings
//	version    build information
//
// Keys come from --key, --key-file, --key-prompt or a keyring file
// (--keyring, optionally age-sealed and opened with --identity).
// Defaults for kid, compression, format and limits come from the YAML
// file named by --config or BINX_CONFIG.
package main
