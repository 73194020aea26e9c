// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binx

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bureau-foundation/binx/lib/binxerr"
)

// Op names an observability event.
type Op string

const (
	OpEncryptStart   Op = "encrypt:start"
	OpEncryptSuccess Op = "encrypt:success"
	OpEncryptError   Op = "encrypt:error"
	OpDecryptStart   Op = "decrypt:start"
	OpDecryptSuccess Op = "decrypt:success"
	OpDecryptError   Op = "decrypt:error"
)

// Event is delivered to a [Logger]. Which fields are meaningful depends
// on Op:
//
//	encrypt:start    KID, Compress, Format
//	encrypt:success  Bytes (envelope size before any base64 encoding)
//	encrypt:error    Message, Code
//	decrypt:start    Compress
//	decrypt:success  KID, Bytes (frame size after decompression)
//	decrypt:error    Message, Code
type Event struct {
	Op       Op
	KID      int
	Compress bool
	Format   Format
	Bytes    int
	Message  string
	Code     binxerr.Code
}

// Logger receives events from EncryptPayload and DecryptPayload. It is
// called synchronously on the caller's goroutine.
type Logger func(Event)

// emit delivers event, discarding any panic from the logger.
func emit(logger Logger, event Event) {
	if logger == nil {
		return
	}
	defer func() { _ = recover() }()
	logger(event)
}

func errorEvent(op Op, err error) Event {
	message := err.Error()
	var binxErr *binxerr.Error
	if errors.As(err, &binxErr) {
		message = binxErr.Message
	}
	return Event{Op: op, Message: message, Code: binxerr.CodeOf(err)}
}

// SlogLogger returns a Logger that writes events to logger. Start
// events log at debug level, successes at info, and errors at warn.
func SlogLogger(logger *slog.Logger) Logger {
	return func(event Event) {
		var level slog.Level
		var attrs []slog.Attr
		switch event.Op {
		case OpEncryptStart:
			level = slog.LevelDebug
			attrs = append(attrs,
				slog.Int("kid", event.KID),
				slog.Bool("compress", event.Compress),
				slog.String("format", string(event.Format)))
		case OpDecryptStart:
			level = slog.LevelDebug
			attrs = append(attrs, slog.Bool("compress", event.Compress))
		case OpEncryptSuccess:
			level = slog.LevelInfo
			attrs = append(attrs, slog.Int("bytes", event.Bytes))
		case OpDecryptSuccess:
			level = slog.LevelInfo
			attrs = append(attrs, slog.Int("kid", event.KID), slog.Int("bytes", event.Bytes))
		default:
			level = slog.LevelWarn
			attrs = append(attrs, slog.String("error", event.Message), slog.String("code", string(event.Code)))
		}
		logger.LogAttrs(context.Background(), level, "binx "+string(event.Op), attrs...)
	}
}
