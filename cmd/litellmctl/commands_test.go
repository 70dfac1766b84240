// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fdaforno/litellmctl/internal/litellm/litellmtest"
	"github.com/fdaforno/litellmctl/internal/pipeline"
	"github.com/fdaforno/litellmctl/internal/state"
)

func TestHistory_Empty(t *testing.T) {
	isolate(t)
	out, stderr, code := execute(t, "-o", "json", "history")
	require.Equal(t, ExitOK, code, stderr)

	var overview struct {
		Entries []any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &overview))
	assert.Empty(t, overview.Entries)
}

func TestHistory_LimitAndTrend(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, failed := range []int{3, 2, 0} {
		require.NoError(t, state.Record(dir, state.HistoryEntry{
			RunID:     "run-" + string(rune('a'+i)),
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Summary:   pipeline.Summary{Total: 3, Updated: 1, Failed: failed},
		}))
	}

	out, stderr, code := execute(t, "--state-dir", dir, "-o", "json", "history", "--limit", "2")
	require.Equal(t, ExitOK, code, stderr)

	var overview state.Overview
	require.NoError(t, json.Unmarshal([]byte(out), &overview))
	require.Len(t, overview.Entries, 2)
	assert.Equal(t, "run-c", overview.Entries[0].RunID)
	require.NotNil(t, overview.Trends)
	assert.Equal(t, state.Improving, overview.Trends.Failures.Direction)
}

func TestConfigShow_MasksKey(t *testing.T) {
	isolate(t)
	out, stderr, code := execute(t, "--api-url", "https://proxy.example.com/", "--api-key", "sk-abcdefgh12345678",
		"-o", "yaml", "config", "show")
	require.Equal(t, ExitOK, code, stderr)
	assert.NotContains(t, out, "sk-abcdefgh12345678")

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "https://proxy.example.com", got["api_url"])
	assert.Equal(t, "sk-...5678", got["api_key"])
	assert.Equal(t, "30s", got["timeout"])
	assert.Equal(t, 4, got["parallel"])
}

func TestConfigShow_ReportsFile(t *testing.T) {
	isolate(t)
	cfgFile := writeFile(t, t.TempDir(), "litellmctl.yaml", "api_url: http://proxy:4000\nretries: 5\n")

	out, stderr, code := execute(t, "--config", cfgFile, "-o", "json", "config", "show")
	require.Equal(t, ExitOK, code, stderr)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, cfgFile, got["config_file"])
	assert.Equal(t, 5.0, got["retries"])
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	isolate(t)
	_, stderr, code := execute(t, "--retries=-1", "--rate-limit=-2", "config", "show")
	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr, "config validation failed")
	assert.Contains(t, stderr, "retries")
}

func TestAnsible_RunsModule(t *testing.T) {
	isolate(t)
	fake := litellmtest.New(t)
	args, err := json.Marshal(map[string]any{"ANSIBLE_MODULE_ARGS": map[string]any{
		"api_url": fake.URL,
		"api_key": litellmtest.MasterKey,
		"name":    "research",
	}})
	require.NoError(t, err)
	argsFile := writeFile(t, t.TempDir(), "args.json", string(args))

	out, stderr, code := execute(t, "ansible", "litellm_team", argsFile)
	require.Equal(t, ExitOK, code, stderr)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["changed"])
	assert.Equal(t, "Team 'research' created successfully", result["message"])
	assert.NotContains(t, out, litellmtest.MasterKey)
}

func TestAnsible_FailureExitCode(t *testing.T) {
	isolate(t)
	out, _, code := execute(t, "ansible", "litellm_team", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 1, code)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["failed"])
	assert.True(t, strings.HasPrefix(result["msg"].(string), "reading module args"))
}

func TestMCPServe_RequiresConnection(t *testing.T) {
	isolate(t)
	_, stderr, code := execute(t, "mcp", "serve")
	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr, "missing connection settings")
}

func TestValidate(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", researchManifest)

	out, stderr, code := execute(t, "validate", good)
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, "valid: 3 resources\n"+
		"  team         1\n"+
		"  virtual_key  1\n"+
		"  model        1\n", out)

	bad := writeFile(t, dir, "bad.yaml", "teams:\n  - name: a\n  - name: a\n")
	_, stderr, code = execute(t, "validate", bad)
	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr, "duplicate")
}
