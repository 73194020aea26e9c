// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package validate checks a payload against a [policy.Limits] before any
// byte of it is encoded.
//
// The payload itself is depth 0, so a field holding an array or object
// is a composite at depth 1. Entering a composite at a depth of
// MaxDepth or more fails with LimitExceeded. Strings (including object
// keys inside opaque values) are bounded by MaxStringBytes, arrays by
// MaxArrayLength and objects by MaxObjectKeys. Any Go value the codec
// cannot represent fails with UnsupportedType naming its path, rendered
// as "meta.tags[2].name".
//
// Field count and field name length are frame-level limits and are
// enforced by lib/frame, which reports them with frame-specific
// messages.
package validate
