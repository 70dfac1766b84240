// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fdaforno/litellmctl/internal/litellm"
	"github.com/fdaforno/litellmctl/internal/reconcile"
)

// Compile-time interface check for JSONFormatter.
var _ Formatter = (*JSONFormatter)(nil)

func TestJSONFormatterName(t *testing.T) {
	assert.Equal(t, "json", NewJSONFormatter().Name())
}

func TestJSONFormatter_Registration(t *testing.T) {
	resetFmtForTesting()
	defer restoreFormatters()

	RegisterFormatter(NewJSONFormatter())
	f, err := GetFormatter("json")
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())
}

func TestJSONFormatter_NilSliceIsEmptyList(t *testing.T) {
	var buf bytes.Buffer
	var teams []litellm.Team
	require.NoError(t, NewJSONFormatter().Format(teams, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONFormatter_Result(t *testing.T) {
	var buf bytes.Buffer
	res := &reconcile.Result{
		Kind:    reconcile.KindTeam,
		Name:    "research",
		Action:  reconcile.ActionCreate,
		Changed: true,
		Message: "Team 'research' created successfully",
		Object:  &litellm.Team{TeamID: "team-1", TeamAlias: "research"},
	}
	require.NoError(t, NewJSONFormatter().Format(res, &buf))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "create", got["action"])
	assert.Equal(t, "team-1", got["object"].(map[string]any)["team_id"])
	assert.Contains(t, buf.String(), "\n  \"", "pretty-printed for non-file writers")
}

func TestJSONFormatter_Compact(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{Compact: true}
	require.NoError(t, f.Format(map[string]int{"a": 1}, &buf))
	assert.Equal(t, "{\"a\":1}\n", buf.String())
}

func TestJSONFormatter_CompactForRegularFile(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck // test cleanup

	assert.True(t, NewJSONFormatter().shouldCompact(file))
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestJSONFormatter_WriteError(t *testing.T) {
	err := NewJSONFormatter().Format(map[string]int{}, failWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write json")
}

func TestYAMLFormatter_UsesJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	budget := 12.5
	teams := []litellm.Team{{TeamID: "team-1", TeamAlias: "research", MaxBudget: &budget}}
	require.NoError(t, NewYAMLFormatter().Format(teams, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "- "), out)
	assert.Contains(t, out, "team_alias: research")
	assert.Contains(t, out, "max_budget: 12.5")

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "team-1", decoded[0]["team_id"])
}

func TestYAMLFormatter_NilSlice(t *testing.T) {
	var buf bytes.Buffer
	var models []litellm.Model
	require.NoError(t, NewYAMLFormatter().Format(models, &buf))
	assert.Equal(t, "[]\n", buf.String())
}
