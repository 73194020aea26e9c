// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// WriteJSON writes value as two-space indented JSON followed by a
// newline. HTML characters are not escaped.
func WriteJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndentWithOption(value, "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteIndented re-indents already encoded JSON (such as an ordered
// payload) and writes it with a trailing newline.
func WriteIndented(w io.Writer, data []byte) error {
	var buffer bytes.Buffer
	if err := json.Indent(&buffer, data, "", "  "); err != nil {
		return fmt.Errorf("indenting JSON output: %w", err)
	}
	buffer.WriteByte('\n')
	_, err := w.Write(buffer.Bytes())
	return err
}
