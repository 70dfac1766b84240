// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClass(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "error"},
		{-1, "error"},
		{200, "2xx"},
		{404, "4xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusClass(tt.code), "code %d", tt.code)
	}
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/team/list", "2xx"))
	ObserveRequest("GET", "/team/list", 200, 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/team/list", "2xx")))
}

func TestObserveReconcile(t *testing.T) {
	ok := ReconcileTotal.WithLabelValues("team", "create", "ok")
	failed := ReconcileTotal.WithLabelValues("team", "error", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveReconcile("team", "create", nil)
	ObserveReconcile("team", "error", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestWriteTextfile(t *testing.T) {
	MarkRun(time.Unix(1700000000, 0))
	ObserveRetry("GET", "/model/info")

	path := filepath.Join(t.TempDir(), "litellmctl.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "litellmctl_last_run_timestamp_seconds 1.7e+09")
	assert.True(t, strings.Contains(text, `litellmctl_api_retries_total{method="GET",route="/model/info"}`))
}
