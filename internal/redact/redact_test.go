// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package redact

import (
	"errors"
	"os"
	"testing"
)

func TestString_RedactsKnownEnvVars(t *testing.T) {
	resetCache()
	t.Cleanup(resetCache)
	const secret = "sk-TESTMASTERKEY1234567890" //nolint:gosec // fake test credential
	t.Setenv("LITELLM_MASTER_KEY", secret)

	input := "litellm: GET /team/list: bearer sk-TESTMASTERKEY1234567890 rejected"
	got := String(input)

	if expected := "litellm: GET /team/list: bearer [REDACTED] rejected"; got != expected {
		t.Errorf("got %q, want %q", got, expected)
	}
}

func TestString_NoSecretSetIsNoop(t *testing.T) {
	resetCache()
	t.Cleanup(resetCache)
	os.Unsetenv("LITELLM_MASTER_KEY") //nolint:errcheck // test cleanup

	input := "some normal error message"
	if got := String(input); got != input {
		t.Errorf("expected no change, got %q", got)
	}
}

func TestString_ShortValuesIgnored(t *testing.T) {
	resetCache()
	t.Cleanup(resetCache)
	t.Setenv("OPENAI_API_KEY", "abc")
	Register("xyz")

	input := "abc and xyz stay"
	if got := String(input); got != input {
		t.Errorf("expected no redaction for short values, got %q", got)
	}
}

func TestRegister(t *testing.T) {
	resetCache()
	t.Cleanup(resetCache)

	Register("sk-from-flag-0001")
	Register("sk-from-flag-0001")
	Register("endpoint-secret")

	got := String("keys sk-from-flag-0001 and endpoint-secret")
	if want := "keys [REDACTED] and [REDACTED]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(registered) != 2 {
		t.Errorf("registered %d secrets, want 2", len(registered))
	}
}

func TestError(t *testing.T) {
	resetCache()
	t.Cleanup(resetCache)
	Register("hunter22")

	if got := Error(nil); got != "" {
		t.Errorf("Error(nil) = %q", got)
	}
	if got := Error(errors.New("bad key hunter22")); got != "bad key [REDACTED]" {
		t.Errorf("Error() = %q", got)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "*****"},
		{"sk-1234567890abcd", "sk-...abcd"},
		{"0123456789abcdef", "...cdef"},
	}
	for _, tt := range tests {
		if got := MaskKey(tt.in); got != tt.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
