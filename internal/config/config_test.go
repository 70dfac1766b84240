// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdaforno/litellmctl/internal/redact"
	"github.com/fdaforno/litellmctl/internal/testable"
)

// isolate clears every environment variable Load reads and points the user
// config directory at an empty temp dir.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for key := range Defaults() {
		t.Setenv(EnvPrefix+"_"+strings.ToUpper(key), "")
	}
	for _, aliases := range envAliases {
		for _, name := range aliases {
			t.Setenv(name, "")
		}
	}
	redact.ResetForTest()
	t.Cleanup(redact.ResetForTest)
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-url", "", "")
	fs.String("api-key", "", "")
	fs.Duration("timeout", litellmDefaultTimeout(), "")
	fs.Int("retries", 2, "")
	fs.StringP("output", "o", "text", "")
	return fs
}

func litellmDefaultTimeout() time.Duration {
	return Defaults()["timeout"].(time.Duration)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "litellmctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.Retries)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, 4, cfg.Parallel)
	assert.Empty(t, cfg.File)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
api_url: http://from-file:4000/
api_key: sk-from-file-0001
timeout: 5s
retries: 5
output: yaml
`)
	t.Setenv("LITELLMCTL_RETRIES", "7")
	t.Setenv("LITELLMCTL_OUTPUT", "json")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--output", "text"}))

	cfg, err := Load(flags, path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "http://from-file:4000", cfg.APIURL, "file value, trailing slash trimmed")
	assert.Equal(t, 5*time.Second, cfg.Timeout, "file beats unchanged flag default")
	assert.Equal(t, 7, cfg.Retries, "env beats file")
	assert.Equal(t, "text", cfg.Output, "changed flag beats env")
}

func TestLoad_EnvAliases(t *testing.T) {
	isolate(t)
	t.Setenv("LITELLM_API_URL", "https://proxy.example.com")
	t.Setenv("LITELLM_MASTER_KEY", "sk-master-alias-01")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.example.com", cfg.APIURL)
	assert.Equal(t, "sk-master-alias-01", cfg.APIKey)

	t.Setenv("LITELLMCTL_API_KEY", "sk-prefixed-key-01")
	cfg, err = Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "sk-prefixed-key-01", cfg.APIKey, "prefixed variable wins over alias")
}

func TestLoad_RegistersKeyForRedaction(t *testing.T) {
	isolate(t)
	t.Setenv("LITELLMCTL_API_KEY", "sk-registered-0001")

	_, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "bad [REDACTED]", redact.String("bad sk-registered-0001"))
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_APIKeyFile(t *testing.T) {
	isolate(t)
	orig := FS
	t.Cleanup(func() { FS = orig })
	FS = &testable.MockFileSystem{
		ReadFileFn: func(name string) ([]byte, error) {
			switch name {
			case "/run/secrets/litellm":
				return []byte("sk-from-secret-file\n"), nil
			case "/run/secrets/empty":
				return []byte("  \n"), nil
			}
			return nil, os.ErrNotExist
		},
	}

	t.Setenv("LITELLMCTL_API_KEY_FILE", "/run/secrets/litellm")
	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "sk-from-secret-file", cfg.APIKey)

	t.Setenv("LITELLMCTL_API_KEY", "sk-direct-key-001")
	cfg, err = Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "sk-direct-key-001", cfg.APIKey, "direct key wins over file")

	t.Setenv("LITELLMCTL_API_KEY", "")
	t.Setenv("LITELLMCTL_API_KEY_FILE", "/run/secrets/empty")
	_, err = Load(nil, "")
	assert.ErrorContains(t, err, "is empty")

	t.Setenv("LITELLMCTL_API_KEY_FILE", "/run/secrets/missing")
	_, err = Load(nil, "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClientConfig(t *testing.T) {
	cfg := &Config{
		APIURL:    "http://proxy:4000",
		APIKey:    "sk-1",
		Timeout:   10 * time.Second,
		Insecure:  true,
		Retries:   0,
		RateLimit: 5,
	}
	lc := cfg.ClientConfig()
	assert.Equal(t, "http://proxy:4000", lc.BaseURL)
	assert.Equal(t, 10*time.Second, lc.Timeout)
	assert.True(t, lc.InsecureSkipVerify)
	assert.Equal(t, 0, lc.MaxRetries)
	assert.Equal(t, 5.0, lc.RateLimit)
}

func TestRedacted(t *testing.T) {
	cfg := Config{APIURL: "http://proxy", APIKey: "sk-1234567890abcd"}
	r := cfg.Redacted()
	assert.Equal(t, "sk-...abcd", r.APIKey)
	assert.Equal(t, "sk-1234567890abcd", cfg.APIKey, "original untouched")
}
