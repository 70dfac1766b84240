// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath_ValidFile(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	file := filepath.Join(dir, "teams.yaml")
	require.NoError(t, os.WriteFile(file, []byte("teams: []\n"), 0o600))

	got, err := ResolvePath(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)
}

func TestResolvePath_Empty(t *testing.T) {
	_, err := ResolvePath("")
	assert.EqualError(t, err, "empty manifest path")
}

func TestResolvePath_NonexistentPath(t *testing.T) {
	_, err := ResolvePath("/nonexistent/path/that/does/not/exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve path")
}

func TestResolvePath_FollowsSymlinks(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	target := filepath.Join(dir, "real.yaml")
	require.NoError(t, os.WriteFile(target, []byte("models: []\n"), 0o600))
	link := filepath.Join(dir, "link.yaml")
	require.NoError(t, os.Symlink(target, link))

	got, err := ResolvePath(link)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestManifestSource_InlineYAML(t *testing.T) {
	m, err := ManifestSource{Content: "teams:\n  - name: research\n    max_budget: 10\n"}.Resolve()
	require.NoError(t, err)
	require.Len(t, m.Teams, 1)
	assert.Equal(t, "research", m.Teams[0].Name)
}

func TestManifestSource_InlineTOML(t *testing.T) {
	m, err := ManifestSource{
		Content: "[[models]]\nmodel_name = \"gpt-4o\"\n[models.litellm_params]\nmodel = \"openai/gpt-4o\"\n",
		Format:  "toml",
	}.Resolve()
	require.NoError(t, err)
	require.Len(t, m.Models, 1)
	assert.Equal(t, "openai/gpt-4o", m.Models[0].LiteLLMParams["model"])
}

func TestManifestSource_Paths(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "keys.yaml")
	require.NoError(t, os.WriteFile(file, []byte("virtual_keys:\n  - key_alias: ci\n"), 0o600))

	m, err := ManifestSource{Paths: []string{file}}.Resolve()
	require.NoError(t, err)
	require.Len(t, m.VirtualKeys, 1)
	assert.Equal(t, "ci", m.VirtualKeys[0].KeyAlias)
}

func TestManifestSource_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  ManifestSource
		want string
	}{
		{"neither", ManifestSource{}, "one of content or paths is required"},
		{"both", ManifestSource{Content: "teams: []", Paths: []string{"x.yaml"}}, "set either content or paths, not both"},
		{"missing path", ManifestSource{Paths: []string{"/nonexistent/manifest.yaml"}}, "cannot resolve path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.src.Resolve()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
