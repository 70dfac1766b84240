// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package ansible

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdaforno/litellmctl/internal/litellm/litellmtest"
	"github.com/fdaforno/litellmctl/internal/redact"
)

func writeArgs(t *testing.T, args map[string]any) string {
	t.Helper()
	data, err := json.Marshal(args)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "args")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func runModule(t *testing.T, name string, args map[string]any) (map[string]any, int) {
	t.Helper()
	var out bytes.Buffer
	code := Run(context.Background(), name, writeArgs(t, args), &out)

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result), out.String())
	return result, code
}

func TestRun_TeamLifecycle(t *testing.T) {
	srv := litellmtest.New(t)
	args := map[string]any{
		"api_url":    srv.URL,
		"api_key":    litellmtest.MasterKey,
		"name":       "research",
		"max_budget": 100,
		"models":     []any{"gpt-4o"},
	}

	result, code := runModule(t, "litellm_team", args)
	require.Equal(t, 0, code, result)
	assert.Equal(t, true, result["changed"])
	assert.Equal(t, "Team 'research' created successfully", result["message"])
	team := result["team"].(map[string]any)
	assert.Equal(t, "research", team["team_alias"])
	teamID := team["team_id"].(string)

	invocation := result["invocation"].(map[string]any)["module_args"].(map[string]any)
	assert.Equal(t, NoLogPlaceholder, invocation["api_key"])

	result, code = runModule(t, "litellm_team", args)
	require.Equal(t, 0, code)
	assert.Equal(t, false, result["changed"])

	result, code = runModule(t, "litellm_team", map[string]any{
		"api_url": srv.URL,
		"api_key": litellmtest.MasterKey,
		"team_id": teamID,
		"state":   "absent",
	})
	require.Equal(t, 0, code, result)
	assert.Equal(t, true, result["changed"])
	assert.Nil(t, srv.Team(teamID))
}

func TestRun_CheckModeWithDiff(t *testing.T) {
	srv := litellmtest.New(t)
	id := srv.AddTeam(map[string]any{"team_alias": "research", "max_budget": 10.0, "models": []any{}})

	result, code := runModule(t, "litellm_team", map[string]any{
		"api_url":             srv.URL,
		"api_key":             litellmtest.MasterKey,
		"name":                "research",
		"max_budget":          50,
		"_ansible_check_mode": true,
		"_ansible_diff":       true,
	})
	require.Equal(t, 0, code, result)
	assert.Equal(t, true, result["changed"])
	assert.Equal(t, "Team 'research' would be updated", result["message"])
	assert.Empty(t, srv.Writes())
	assert.Equal(t, 10.0, srv.Team(id)["max_budget"])

	diff := result["diff"].(map[string]any)
	assert.Equal(t, map[string]any{"max_budget": 10.0}, diff["before"])
	assert.Equal(t, map[string]any{"max_budget": 50.0}, diff["after"])
}

func TestRun_CreateDiffMasksSecrets(t *testing.T) {
	srv := litellmtest.New(t)
	result, code := runModule(t, "endpoint", map[string]any{
		"api_url":             srv.URL,
		"api_key":             litellmtest.MasterKey,
		"endpoint_name":       "azure-east",
		"api_base":            "https://east.openai.azure.com",
		"provider":            "azure",
		"endpoint_api_key":    "azure-secret-key",
		"_ansible_check_mode": true,
		"_ansible_diff":       true,
	})
	require.Equal(t, 0, code, result)
	assert.Equal(t, map[string]any{}, result["endpoint"])

	after := result["diff"].(map[string]any)["after"].(map[string]any)
	assert.Equal(t, "azure-east", after["endpoint_name"])
	assert.Equal(t, NoLogPlaceholder, after["endpoint_api_key"])
	assert.NotContains(t, after, "api_key")
}

func TestRun_FailureIsRedacted(t *testing.T) {
	redact.ResetForTest()
	t.Cleanup(redact.ResetForTest)

	srv := litellmtest.New(t)
	result, code := runModule(t, "litellm_model", map[string]any{
		"api_url":        srv.URL,
		"api_key":        "sk-wrong-master-key",
		"model_name":     "gpt-4o",
		"litellm_params": map[string]any{"model": "openai/gpt-4o"},
	})
	assert.Equal(t, 1, code)
	assert.Equal(t, true, result["failed"])
	assert.Equal(t, false, result["changed"])
	msg := result["msg"].(string)
	assert.NotContains(t, msg, "sk-wrong-master-key")
}

func TestRun_InvalidArguments(t *testing.T) {
	result, code := runModule(t, "litellm_virtual_key", map[string]any{
		"api_url": "http://localhost:4000",
		"api_key": "sk-master",
		"state":   "absent",
	})
	assert.Equal(t, 1, code)
	assert.Equal(t, true, result["failed"])
	assert.Contains(t, result["msg"], "state is absent but all of the following are missing: key_id")
	assert.NotContains(t, result, "invocation")
}

func TestRun_UnknownModule(t *testing.T) {
	result, code := runModule(t, "litellm_user", map[string]any{})
	assert.Equal(t, 1, code)
	assert.Contains(t, result["msg"], "unknown module")
}

func TestRun_MissingArgsFile(t *testing.T) {
	var out bytes.Buffer
	code := Run(context.Background(), "litellm_team", filepath.Join(t.TempDir(), "nope"), &out)
	assert.Equal(t, 1, code)

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Contains(t, result["msg"], "reading module args")
}
