// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package litellm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdaforno/litellmctl/internal/litellm/litellmtest"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := DefaultConfig(baseURL, litellmtest.MasterKey)
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 2 * time.Millisecond
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"empty", "", true},
		{"no scheme", "litellm.local:4000", true},
		{"ftp", "ftp://litellm.local", true},
		{"http", "http://litellm.local:4000", false},
		{"https with trailing slash", "https://litellm.example.com/", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(DefaultConfig(tt.baseURL, "k"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, c.BaseURL()[len(c.BaseURL())-1:], "/")
		})
	}
}

func TestClient_SendsBearerAndUserAgent(t *testing.T) {
	var gotAuth, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig(srv.URL+"/", "sk-abc")
	cfg.UserAgent = "litellmctl/test"
	c, err := New(cfg)
	require.NoError(t, err)

	_, err = c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-abc", gotAuth)
	assert.Equal(t, "litellmctl/test", gotUA)
}

func TestClient_Unauthorized(t *testing.T) {
	fake := litellmtest.New(t)
	c, err := New(DefaultConfig(fake.URL, "wrong"))
	require.NoError(t, err)

	_, err = c.ListTeams(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Authentication Error")
}

func TestClient_RetriesGetOnServerError(t *testing.T) {
	fake := litellmtest.New(t)
	fake.AddTeam(map[string]any{"team_alias": "ml"})
	fake.Fail("/team/list", http.StatusBadGateway, http.StatusServiceUnavailable)
	c := newTestClient(t, fake.URL)

	teams, err := c.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 1)
	assert.Equal(t, 3, fake.CountCalls(http.MethodGet, "/team/list"))
}

func TestClient_RetriesExhausted(t *testing.T) {
	fake := litellmtest.New(t)
	fake.Fail("/team/list", 500, 500, 500, 500)
	c := newTestClient(t, fake.URL)

	_, err := c.ListTeams(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, 1+DefaultMaxRetries, fake.CountCalls(http.MethodGet, "/team/list"))
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	fake := litellmtest.New(t)
	fake.Fail("/team/list", http.StatusBadRequest)
	c := newTestClient(t, fake.URL)

	_, err := c.ListTeams(context.Background())
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, 1, fake.CountCalls(http.MethodGet, "/team/list"))
}

func TestClient_PostIsNeverRetried(t *testing.T) {
	fake := litellmtest.New(t)
	fake.Fail("/team/new", http.StatusServiceUnavailable)
	c := newTestClient(t, fake.URL)

	_, err := c.CreateTeam(context.Background(), TeamCreateRequest{TeamAlias: "ml"})
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, 1, fake.CountCalls(http.MethodPost, "/team/new"))
	assert.Empty(t, fake.Teams())
}

func TestClient_ContextCanceled(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListModels(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hits.Load())
}

func TestClient_EmptyBodyIsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.ListModels(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_RateLimit(t *testing.T) {
	fake := litellmtest.New(t)
	cfg := DefaultConfig(fake.URL, litellmtest.MasterKey)
	cfg.RateLimit = 20
	c, err := New(cfg)
	require.NoError(t, err)

	start := time.Now()
	for range 25 {
		_, err := c.ListModels(context.Background())
		require.NoError(t, err)
	}
	// Burst of 20, then 5 more at 20/s.
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"openai envelope", `{"error": {"message": "bad model", "type": "invalid"}}`, "bad model"},
		{"error string", `{"error": "nope"}`, "nope"},
		{"fastapi detail string", `{"detail": "Not Found"}`, "Not Found"},
		{"fastapi detail object", `{"detail": {"error": "Team not found"}}`, "Team not found"},
		{"plain text", "upstream timed out", "upstream timed out"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractErrorMessage([]byte(tt.body)))
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		status    int
		want      error
		retryable bool
	}{
		{404, ErrNotFound, false},
		{401, ErrUnauthorized, false},
		{403, ErrUnauthorized, false},
		{422, ErrBadRequest, false},
		{429, ErrRateLimited, true},
		{502, ErrServer, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := &APIError{Method: "GET", Path: "/x", StatusCode: tt.status}
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.retryable, err.Retryable())
			assert.Contains(t, err.Error(), http.StatusText(tt.status))
		})
	}
}

func FuzzExtractErrorMessage(f *testing.F) {
	f.Add(`{"error": {"message": "x"}}`)
	f.Add(`{"detail": [1, 2]}`)
	f.Add(`{"error": null}`)
	f.Add("")

	f.Fuzz(func(t *testing.T, body string) {
		extractErrorMessage([]byte(body))
	})
}
