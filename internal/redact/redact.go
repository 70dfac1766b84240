// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package redact provides utilities to strip sensitive values from strings
// before they appear in output, logs, or error messages.
package redact

import (
	"os"
	"strings"
	"sync"
)

// Placeholder replaces every redacted value.
const Placeholder = "[REDACTED]"

// minSecretLen avoids false positives on very short values.
const minSecretLen = 4

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output.
var sensitiveEnvVars = []string{
	"LITELLMCTL_API_KEY",
	"LITELLM_MASTER_KEY",
	"LITELLM_API_KEY",
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"AZURE_API_KEY",
}

var (
	cachedSecrets []string
	cacheOnce     sync.Once

	mu         sync.RWMutex
	registered []string
)

func loadSecrets() {
	for _, envVar := range sensitiveEnvVars {
		val := os.Getenv(envVar)
		if len(val) >= minSecretLen {
			cachedSecrets = append(cachedSecrets, val)
		}
	}
}

// resetCache resets the cached and registered secrets.
func resetCache() {
	cachedSecrets = nil
	cacheOnce = sync.Once{}
	mu.Lock()
	registered = nil
	mu.Unlock()
}

// ResetForTest resets the cached secrets so tests in other packages can
// verify redaction behavior after setting env vars with t.Setenv.
func ResetForTest() { resetCache() }

// Register adds a secret that is only known at runtime, such as an API key
// read from a flag, a file, or module arguments.
func Register(secret string) {
	if len(secret) < minSecretLen {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	for _, s := range registered {
		if s == secret {
			return
		}
	}
	registered = append(registered, secret)
}

// String replaces any occurrence of a registered secret or a known
// sensitive environment variable value with "[REDACTED]".
func String(s string) string {
	cacheOnce.Do(loadSecrets)
	for _, secret := range cachedSecrets {
		s = strings.ReplaceAll(s, secret, Placeholder)
	}
	mu.RLock()
	defer mu.RUnlock()
	for _, secret := range registered {
		s = strings.ReplaceAll(s, secret, Placeholder)
	}
	return s
}

// Error returns the redacted text of err, or "" for nil.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// MaskKey shortens a key for display, keeping a recognizable prefix and the
// last four characters ("sk-...a1b2").
func MaskKey(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) <= 8:
		return strings.Repeat("*", len(key))
	case strings.HasPrefix(key, "sk-"):
		return "sk-..." + key[len(key)-4:]
	default:
		return "..." + key[len(key)-4:]
	}
}
