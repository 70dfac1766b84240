// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fdaforno/litellmctl/internal/log"
	"github.com/fdaforno/litellmctl/internal/output"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.APIURL != "" {
		if err := checkURL(cfg.APIURL); err != nil {
			errs = append(errs, fmt.Sprintf("api_url: %v", err))
		}
	}

	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("timeout: must be non-negative, got %s", cfg.Timeout))
	}
	if cfg.Retries < 0 {
		errs = append(errs, fmt.Sprintf("retries: must be non-negative, got %d", cfg.Retries))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, fmt.Sprintf("rate_limit: must be non-negative, got %g", cfg.RateLimit))
	}
	if cfg.Parallel < 1 {
		errs = append(errs, fmt.Sprintf("parallel: must be at least 1, got %d", cfg.Parallel))
	}

	if cfg.Output != "" {
		if _, err := output.GetFormatter(cfg.Output); err != nil {
			errs = append(errs, fmt.Sprintf("output: %v", err))
		}
	}
	if !log.ValidFormat(cfg.LogFormat) {
		errs = append(errs, fmt.Sprintf("log_format: invalid value %q (must be text or json)", cfg.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// RequireConnection checks that the proxy URL and key are set. Commands that
// talk to the proxy call it after Validate.
func RequireConnection(cfg *Config) error {
	var missing []string
	if cfg.APIURL == "" {
		missing = append(missing, "api_url (--api-url or LITELLMCTL_API_URL)")
	}
	if cfg.APIKey == "" {
		missing = append(missing, "api_key (--api-key, --api-key-file or LITELLMCTL_API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing connection settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
