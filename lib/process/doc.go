// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers. [Fatal] reports
// an error to stderr when the logger may not be initialized and exits
// with the code the error carries, if any.
package process
