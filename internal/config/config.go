// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package config loads litellmctl connection and runtime settings from
// defaults, litellmctl.yaml, LITELLMCTL_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fdaforno/litellmctl/internal/litellm"
	"github.com/fdaforno/litellmctl/internal/redact"
	"github.com/fdaforno/litellmctl/internal/testable"
)

// FS is the file system used to read api_key_file.
var FS testable.FileSystem = testable.DefaultFS

// FileName is the config file name searched for, without extension.
const FileName = "litellmctl"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LITELLMCTL"

// Config is the effective configuration.
type Config struct {
	APIURL     string        `mapstructure:"api_url" yaml:"api_url"`
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`
	APIKeyFile string        `mapstructure:"api_key_file" yaml:"api_key_file,omitempty"`
	Insecure   bool          `mapstructure:"insecure" yaml:"insecure"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries    int           `mapstructure:"retries" yaml:"retries"`
	RateLimit  float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	Output     string        `mapstructure:"output" yaml:"output"`
	LogFormat  string        `mapstructure:"log_format" yaml:"log_format"`
	Parallel   int           `mapstructure:"parallel" yaml:"parallel"`
	StateDir   string        `mapstructure:"state_dir" yaml:"state_dir,omitempty"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// Defaults returns the built-in values for every key.
func Defaults() map[string]any {
	return map[string]any{
		"api_url":      "",
		"api_key":      "",
		"api_key_file": "",
		"insecure":     false,
		"timeout":      litellm.DefaultTimeout,
		"retries":      litellm.DefaultMaxRetries,
		"rate_limit":   0.0,
		"output":       "text",
		"log_format":   "text",
		"parallel":     4,
		"state_dir":    "",
	}
}

// envAliases are accepted in addition to LITELLMCTL_<KEY>, in order of
// precedence.
var envAliases = map[string][]string{
	"api_url": {"LITELLM_API_URL", "LITELLM_PROXY_URL"},
	"api_key": {"LITELLM_MASTER_KEY", "LITELLM_API_KEY"},
}

// SearchPaths returns the directories searched for litellmctl.yaml.
func SearchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "litellmctl"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "litellmctl"))
	}
	return append(dirs, "/etc/litellmctl", ".")
}

// Load builds the effective configuration. configFile, when set, must exist.
// Flags in flags are bound by name with dashes standing for underscores
// (--api-url sets api_url); only flags the user changed override lower layers.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	defaults := Defaults()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	for _, dir := range SearchPaths() {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{EnvPrefix + "_" + strings.ToUpper(key)}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		for key := range defaults {
			if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")

	if err := cfg.resolveKeyFile(); err != nil {
		return nil, err
	}
	if cfg.APIKey != "" {
		redact.Register(cfg.APIKey)
	}
	slog.Debug("config loaded", "file", cfg.File, "api_url", cfg.APIURL)
	return &cfg, nil
}

// resolveKeyFile reads api_key_file when no key was given directly.
func (c *Config) resolveKeyFile() error {
	if c.APIKeyFile == "" {
		return nil
	}
	if c.APIKey != "" {
		slog.Debug("api_key set, ignoring api_key_file", "file", c.APIKeyFile)
		return nil
	}
	data, err := FS.ReadFile(c.APIKeyFile)
	if err != nil {
		return fmt.Errorf("reading api_key_file: %w", err)
	}
	c.APIKey = strings.TrimSpace(string(data))
	if c.APIKey == "" {
		return fmt.Errorf("api_key_file %s is empty", c.APIKeyFile)
	}
	return nil
}

// ClientConfig converts the connection settings into a client config.
func (c *Config) ClientConfig() litellm.Config {
	lc := litellm.DefaultConfig(c.APIURL, c.APIKey)
	lc.Timeout = c.Timeout
	lc.InsecureSkipVerify = c.Insecure
	lc.MaxRetries = c.Retries
	lc.RateLimit = c.RateLimit
	return lc
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	c.APIKey = redact.MaskKey(c.APIKey)
	return c
}
