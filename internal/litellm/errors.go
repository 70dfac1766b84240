// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package litellm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sentinel errors callers can match with errors.Is.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadRequest indicates the proxy rejected the request body.
	ErrBadRequest = errors.New("bad request")

	// ErrRateLimited indicates the proxy returned 429.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServer indicates a 5xx response from the proxy.
	ErrServer = errors.New("proxy server error")

	// ErrConfigManaged indicates a model or endpoint that is defined in the
	// proxy's config file and therefore cannot be changed through the API.
	ErrConfigManaged = errors.New("defined in the proxy config file, remove it from config.yaml instead")

	// ErrInvalidResponse indicates a response body of an unexpected shape.
	ErrInvalidResponse = errors.New("invalid response")
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4096

// APIError describes a non-2xx response from the LiteLLM proxy.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("litellm: %s %s: %d - %s", e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap maps the status code onto a sentinel error.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	case e.StatusCode >= http.StatusBadRequest:
		return ErrBadRequest
	default:
		return nil
	}
}

// Retryable reports whether the request may succeed if sent again.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// newAPIError reads a bounded slice of the response body and builds an APIError.
func newAPIError(method, path string, resp *http.Response) *APIError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	body := strings.TrimSpace(string(data))
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    extractErrorMessage(data),
		Body:       body,
	}
}

// extractErrorMessage understands the error shapes the proxy returns:
// {"error": {"message": ...}}, {"error": "..."} and FastAPI's {"detail": ...}.
// Anything else falls back to the raw body.
func extractErrorMessage(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var envelope struct {
		Error  json.RawMessage `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if msg := rawMessage(envelope.Error); msg != "" {
			return msg
		}
		if msg := rawMessage(envelope.Detail); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(data))
}

// rawMessage turns an error field that is either a string or an object with
// a "message" or "error" member into text.
func rawMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Error != "" {
			return obj.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
