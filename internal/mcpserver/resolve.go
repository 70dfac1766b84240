// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes litellmctl's plan, apply, list and reconcile operations as
// tools over stdio transport.
package mcpserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fdaforno/litellmctl/internal/manifest"
)

// ManifestSource is the manifest a plan or apply tool call operates on:
// either inline content or paths on the server's file system.
type ManifestSource struct {
	Content string   `json:"content,omitempty" jsonschema:"Inline manifest document (YAML unless format is toml)"`
	Format  string   `json:"format,omitempty" jsonschema:"Format of inline content: yaml (default) or toml"`
	Paths   []string `json:"paths,omitempty" jsonschema:"Manifest files or directories to load instead of inline content"`
}

// ResolvePath resolves a manifest path to an absolute, symlink-resolved
// path. It returns an error if the path does not exist.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty manifest path")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return "", fmt.Errorf("path %q does not exist", path)
	}
	return absPath, nil
}

// Resolve loads the manifest described by src.
func (src ManifestSource) Resolve() (*manifest.Manifest, error) {
	switch {
	case src.Content != "" && len(src.Paths) > 0:
		return nil, errors.New("set either content or paths, not both")
	case src.Content != "":
		format := manifest.FormatYAML
		if src.Format != "" {
			format = manifest.Format(src.Format)
		}
		return manifest.Parse([]byte(src.Content), format)
	case len(src.Paths) > 0:
		resolved := make([]string, 0, len(src.Paths))
		for _, p := range src.Paths {
			abs, err := ResolvePath(p)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, abs)
		}
		return manifest.Load(resolved...)
	default:
		return nil, errors.New("one of content or paths is required")
	}
}
