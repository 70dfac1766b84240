// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package litellm is a client for the LiteLLM proxy management API: teams,
// virtual keys, model deployments and the endpoints derived from them.
package litellm

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/fdaforno/litellmctl/internal/metrics"
)

// defaultUserAgent is sent when Config.UserAgent is empty.
const defaultUserAgent = "litellmctl"

// Client performs requests against the LiteLLM management API.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter

	maxRetries   int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// New creates a Client from cfg. BaseURL must be an absolute http(s) URL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("litellm: base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("litellm: parsing base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("litellm: base URL must be http(s)://host, got %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // validate_certs=false
		}
		httpClient = &http.Client{Timeout: timeout, Transport: transport}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), int(math.Max(1, math.Ceil(cfg.RateLimit))))
	}

	waitMin, waitMax := cfg.RetryWaitMin, cfg.RetryWaitMax
	if waitMin <= 0 {
		waitMin = DefaultRetryWaitMin
	}
	if waitMax < waitMin {
		waitMax = max(waitMin, DefaultRetryWaitMax)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:      base,
		apiKey:       cfg.APIKey,
		userAgent:    userAgent,
		httpClient:   httpClient,
		limiter:      limiter,
		maxRetries:   cfg.MaxRetries,
		retryWaitMin: waitMin,
		retryWaitMax: waitMax,
	}, nil
}

// BaseURL returns the normalized proxy URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get issues a GET and decodes the body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post issues a POST with a JSON body and decodes the response into out
// when out is non-nil.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

// do sends one logical request. GETs are retried with exponential backoff on
// network errors, 429 and 5xx; other methods are sent exactly once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("litellm: encoding %s %s: %w", method, path, err)
		}
		payload = data
	}

	if method != http.MethodGet || c.maxRetries <= 0 {
		return c.send(ctx, method, path, query, payload, out)
	}

	op := func() error {
		err := c.send(ctx, method, path, query, payload, out)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWaitMin
	b.MaxInterval = c.retryWaitMax
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		metrics.ObserveRetry(method, path)
		slog.Debug("retrying litellm request", "method", method, "path", path, "wait", wait, "error", err)
	}
	return backoff.RetryNotify(op, policy, notify)
}

// send performs a single HTTP round trip.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("litellm: %s %s: %w", method, path, err)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("litellm: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(method, path, 0, time.Since(start))
		return fmt.Errorf("litellm: %s %s: %w", method, path, err)
	}
	defer drainAndClose(resp)

	elapsed := time.Since(start)
	metrics.ObserveRequest(method, path, resp.StatusCode, elapsed)
	slog.Debug("litellm request", "method", method, "path", path, "status", resp.StatusCode, "duration", elapsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(method, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("litellm: %s %s: %w: empty body", method, path, ErrInvalidResponse)
		}
		return fmt.Errorf("litellm: decoding %s %s: %w", method, path, err)
	}
	return nil
}

// retryable reports whether err is worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// drainAndClose reads and closes the response body to allow connection reuse.
func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// isNotFound reports whether err is a 404 from the proxy.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
