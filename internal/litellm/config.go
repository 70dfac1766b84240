// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package litellm

import (
	"net/http"
	"time"
)

// Default transport settings.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 2
	DefaultRetryWaitMin = 500 * time.Millisecond
	DefaultRetryWaitMax = 5 * time.Second
)

// Config holds the settings for a LiteLLM control-plane client.
type Config struct {
	// BaseURL is the LiteLLM proxy URL (e.g., "https://litellm.example.com").
	BaseURL string

	// APIKey is the master key (or an admin-scoped key) sent as a bearer token.
	APIKey string

	// Timeout for individual HTTP requests. Defaults to 30s.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// MaxRetries is the number of retries for GET requests that fail with a
	// network error, 429 or 5xx. Negative disables retries.
	MaxRetries int

	// RetryWaitMin and RetryWaitMax bound the exponential backoff.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// RateLimit caps requests per second. Zero means unlimited.
	RateLimit float64

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// HTTPClient replaces the default client. Timeout and InsecureSkipVerify
	// are ignored when set.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with defaults for the given proxy URL.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Timeout:      DefaultTimeout,
		MaxRetries:   DefaultMaxRetries,
		RetryWaitMin: DefaultRetryWaitMin,
		RetryWaitMax: DefaultRetryWaitMax,
	}
}
