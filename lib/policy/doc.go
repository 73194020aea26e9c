// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package policy holds the structural and size limits enforced by the
// validator, the frame codec and the envelope codec.
//
// [Default] returns the reference policy. Deployments may tighten or
// loosen individual limits (see lib/config), but [Limits.Validate]
// refuses values the wire format cannot represent: a frame carries at
// most 255 fields and field names of at most 255 bytes because both
// counts are single bytes.
package policy
