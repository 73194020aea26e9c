// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports what binx binary is running.
//
// Release builds stamp [Version], [GitCommit], [GitDirty] and
// [BuildTime] with -ldflags -X. A plain "go build" or "go install"
// leaves GitCommit as "unknown", and the revision the Go toolchain
// recorded in the build info is shown instead.
//
// [Full] adds the frame and envelope format versions the binary reads
// and writes, which is what matters when two deployments disagree.
package version
