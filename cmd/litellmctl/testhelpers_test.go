// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/fdaforno/litellmctl/internal/litellm/litellmtest"
	"github.com/fdaforno/litellmctl/internal/redact"
)

// isolate points every directory and environment variable litellmctl reads
// at empty test values and returns the state directory.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)
	for _, name := range []string{
		"LITELLMCTL_API_URL", "LITELLMCTL_API_KEY", "LITELLMCTL_API_KEY_FILE",
		"LITELLMCTL_OUTPUT", "LITELLMCTL_LOG_FORMAT", "LITELLMCTL_STATE_DIR",
		"LITELLM_API_URL", "LITELLM_PROXY_URL", "LITELLM_MASTER_KEY", "LITELLM_API_KEY",
	} {
		t.Setenv(name, "")
	}
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	redact.ResetForTest()
	t.Cleanup(redact.ResetForTest)
	return filepath.Join(stateHome, "litellmctl")
}

// execute runs the CLI with args and returns stdout, stderr and exit code.
func execute(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	code := ExitOK
	if err := root.ExecuteContext(context.Background()); err != nil {
		code = ExitInvalidArgs
		if ece, ok := err.(*exitCodeError); ok {
			code = ece.code
		}
		stderr.WriteString(err.Error())
	}
	return stdout.String(), stderr.String(), code
}

// connFlags returns the flags that point the CLI at the fake proxy.
func connFlags(fake *litellmtest.Server) []string {
	return []string{"--api-url", fake.URL, "--api-key", litellmtest.MasterKey}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
