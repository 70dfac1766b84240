// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package log configures structured logging for litellmctl using log/slog.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fdaforno/litellmctl/internal/redact"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options select the level and handler.
type Options struct {
	Verbose bool
	Quiet   bool
	Format  string    // "text" (default) or "json"
	Writer  io.Writer // defaults to os.Stderr
}

// ValidFormat reports whether f names a supported log format.
func ValidFormat(f string) bool {
	switch strings.ToLower(f) {
	case "", FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// Setup configures the default slog logger based on verbosity flags.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
//
// Output goes to stderr so stdout stays reserved for command output and
// Ansible module results. String attributes pass through redact.
func Setup(opts Options) error {
	var level slog.Level
	switch {
	case opts.Quiet:
		level = slog.LevelWarn
	case opts.Verbose:
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	hopts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactAttr,
	}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, hopts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, hopts)
	default:
		return fmt.Errorf("unknown log format %q (must be text or json)", opts.Format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		a.Value = slog.StringValue(redact.String(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			a.Value = slog.StringValue(redact.Error(err))
		}
	}
	return a
}
