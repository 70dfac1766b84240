// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"io"
	"testing"

	"github.com/fatih/color"
)

// Compile-time interface check.
var _ Formatter = (*stubFormatter)(nil)

type stubFormatter struct{}

func (s *stubFormatter) Name() string                    { return "stub" }
func (s *stubFormatter) Format(_ any, _ io.Writer) error { return nil }

// restoreFormatters re-registers the built-in formatters after a test
// cleared the registry.
func restoreFormatters() {
	resetFmtForTesting()
	RegisterFormatter(NewTextFormatter())
	RegisterFormatter(NewJSONFormatter())
	RegisterFormatter(NewYAMLFormatter())
}

// noColor disables ANSI colors for the duration of a test.
func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestFormatterInterface(t *testing.T) {
	var f Formatter = &stubFormatter{}
	if f.Name() != "stub" {
		t.Errorf("Name() = %q, want %q", f.Name(), "stub")
	}

	var buf bytes.Buffer
	if err := f.Format(nil, &buf); err != nil {
		t.Errorf("Format() error = %v", err)
	}
}

func TestBuiltinFormattersRegistered(t *testing.T) {
	got := Names()
	want := []string{"json", "text", "yaml"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetFormatter_CaseInsensitive(t *testing.T) {
	f, err := GetFormatter("JSON")
	if err != nil {
		t.Fatalf("GetFormatter: %v", err)
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q", f.Name())
	}
}

func TestGetFormatter_Unknown(t *testing.T) {
	resetFmtForTesting()
	defer restoreFormatters()
	RegisterFormatter(&stubFormatter{})

	_, err := GetFormatter("xml")
	if err == nil {
		t.Fatal("expected error")
	}
	if want := `unknown format: "xml" (available: stub)`; err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
}
