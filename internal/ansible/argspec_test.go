// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package ansible

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdaforno/litellmctl/internal/testable"
)

func teamSpec(t *testing.T) ArgumentSpec {
	t.Helper()
	m, err := Lookup("litellm_team")
	require.NoError(t, err)
	return m.Spec
}

func TestValidate_DefaultsAndCoercion(t *testing.T) {
	m, err := Lookup("virtual_key")
	require.NoError(t, err)

	params, err := m.Spec.Validate(m.Name, map[string]any{
		"api_url":               "http://localhost:4000",
		"api_key":               "sk-master",
		"key_alias":             "ci",
		"max_budget":            "12.5",
		"tpm_limit":             float64(1000),
		"max_parallel_requests": "4",
		"models":                "gpt-4o, claude-3",
		"validate_certs":        "no",
	})
	require.NoError(t, err)

	assert.Equal(t, "present", params.String("state"))
	assert.False(t, params.Bool("validate_certs"))
	assert.Equal(t, 12.5, *params.Float("max_budget"))
	assert.Equal(t, int64(1000), *params.Int64("tpm_limit"))
	assert.Equal(t, 4, *params.Int("max_parallel_requests"))
	assert.Nil(t, params.Int64("rpm_limit"))
	assert.Equal(t, []string{"gpt-4o", "claude-3"}, params.Strings("models"))
	assert.Equal(t, map[string]any{}, params.Dict("metadata"))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "missing required",
			args: map[string]any{"name": "research"},
			want: "missing required arguments: api_key, api_url",
		},
		{
			name: "unknown parameter",
			args: map[string]any{"api_url": "u", "api_key": "k", "name": "x", "budget": 1},
			want: "Unsupported parameters for (litellm_team) module: budget",
		},
		{
			name: "bad choice",
			args: map[string]any{"api_url": "u", "api_key": "k", "name": "x", "state": "gone"},
			want: "value of state must be one of: present, absent, got: gone",
		},
		{
			name: "required if absent",
			args: map[string]any{"api_url": "u", "api_key": "k", "name": "x", "state": "absent"},
			want: "state is absent but all of the following are missing: team_id",
		},
		{
			name: "required if present",
			args: map[string]any{"api_url": "u", "api_key": "k"},
			want: "state is present but all of the following are missing: name",
		},
		{
			name: "bad float",
			args: map[string]any{"api_url": "u", "api_key": "k", "name": "x", "max_budget": "lots"},
			want: "argument 'max_budget' is of type str and we were unable to convert to float",
		},
		{
			name: "bad dict",
			args: map[string]any{"api_url": "u", "api_key": "k", "name": "x", "metadata": []any{"a"}},
			want: "argument 'metadata' is of type list",
		},
	}
	spec := teamSpec(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := spec.Validate("litellm_team", tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSanitized_MasksNoLog(t *testing.T) {
	spec := teamSpec(t)
	params, err := spec.Validate("litellm_team", map[string]any{
		"api_url": "http://proxy", "api_key": "sk-secret-value", "name": "research",
	})
	require.NoError(t, err)

	got := spec.Sanitized(params)
	assert.Equal(t, NoLogPlaceholder, got["api_key"])
	assert.Equal(t, "research", got["name"])
	assert.Equal(t, []string{"sk-secret-value"}, spec.Secrets(params))
}

func TestCoerceBool(t *testing.T) {
	for _, in := range []any{true, "yes", "True", "on", "1", float64(1)} {
		b, err := toBool(in)
		require.NoError(t, err, "%v", in)
		assert.True(t, b, "%v", in)
	}
	for _, in := range []any{false, "no", "off", "0", float64(0)} {
		b, err := toBool(in)
		require.NoError(t, err, "%v", in)
		assert.False(t, b, "%v", in)
	}
	_, err := toBool("maybe")
	assert.Error(t, err)
}

func TestCoerceInt_RejectsFraction(t *testing.T) {
	_, err := toInt(1.5)
	assert.Error(t, err)
	n, err := toInt(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestCoerceInt_Range(t *testing.T) {
	tests := []struct {
		in      float64
		want    int64
		wantErr bool
	}{
		{in: 1e18, want: 1_000_000_000_000_000_000},
		{in: -9223372036854775808, want: math.MinInt64},
		{in: 9223372036854775808, wantErr: true},
		{in: 1e19, wantErr: true},
		{in: -1e19, wantErr: true},
		{in: math.Inf(1), wantErr: true},
		{in: math.NaN(), wantErr: true},
	}
	for _, tt := range tests {
		n, err := toInt(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.in)
			continue
		}
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, n)
	}
}

func TestCoerceDict_FromJSONString(t *testing.T) {
	m, err := toDict(`{"owner": "ml"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"owner": "ml"}, m)
}

func TestParseArgs(t *testing.T) {
	inv, err := ParseArgs([]byte(`{
		"ANSIBLE_MODULE_ARGS": {
			"name": "research",
			"_ansible_check_mode": true,
			"_ansible_diff": "yes",
			"_ansible_verbosity": 2,
			"_ansible_module_name": "litellm_team"
		}
	}`))
	require.NoError(t, err)
	assert.True(t, inv.CheckMode)
	assert.True(t, inv.Diff)
	assert.False(t, inv.NoLog)
	assert.Equal(t, 2, inv.Verbosity)
	assert.Equal(t, map[string]any{"name": "research"}, inv.Params)
}

func TestParseArgs_NotObject(t *testing.T) {
	_, err := ParseArgs([]byte(`["a"]`))
	assert.Error(t, err)
}

func TestReadArgs_UsesFS(t *testing.T) {
	orig := FS
	t.Cleanup(func() { FS = orig })

	FS = &testable.MockFileSystem{
		ReadFileFn: func(name string) ([]byte, error) {
			if name != "/tmp/args" {
				return nil, os.ErrNotExist
			}
			return []byte(`{"name": "x"}`), nil
		},
	}
	inv, err := ReadArgs("/tmp/args")
	require.NoError(t, err)
	assert.Equal(t, "x", inv.Params["name"])

	_, err = ReadArgs("/missing")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"litellm_endpoint", "litellm_model", "litellm_team", "litellm_virtual_key"}, Names())

	m, err := Lookup("team")
	require.NoError(t, err)
	assert.Equal(t, "litellm_team", m.Name)

	_, err = Lookup("litellm_user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: litellm_endpoint")
}
