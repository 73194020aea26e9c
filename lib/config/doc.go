// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for binx tooling.
//
// Configuration is loaded from a single file specified by either the
// BINX_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search.
//
// The file has three sections: limits (overrides of the reference
// policy), defaults (kid, compression, output format, schema hash
// strictness) and keyring (where decrypt keys live). Environment
// sections (development, staging, production) override base values
// when [Config].Environment matches. Production is stricter: the
// schema hash is verified strictly unless the file says otherwise.
//
// ${HOME}, ${BINX_CONFIG_DIR} and ${VAR:-default} patterns are
// expanded in keyring paths. BINX_CONFIG_DIR is the directory holding
// the configuration file.
//
// Key exports:
//
//   - [Config] -- master struct with Limits, Defaults, Keyring
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
package config
