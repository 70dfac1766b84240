// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package state persists the history of manifest apply runs.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fdaforno/litellmctl/internal/pipeline"
	"github.com/fdaforno/litellmctl/internal/testable"
)

// FS is the file system implementation used by this package.
var FS testable.FileSystem = testable.DefaultFS

// historyFile is the filename for apply history.
const historyFile = "apply-history.json"

// historySchemaVersion is the current history file schema version.
const historySchemaVersion = "1"

// maxHistoryEntries is the FIFO cap for history entries.
const maxHistoryEntries = 100

// FailedResource names a resource that failed in a run.
type FailedResource struct {
	Kind  string `json:"kind" yaml:"kind"`
	Name  string `json:"name" yaml:"name"`
	Error string `json:"error" yaml:"error"`
}

// HistoryEntry summarizes one apply or plan run.
type HistoryEntry struct {
	RunID     string           `json:"run_id" yaml:"run_id"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
	APIURL    string           `json:"api_url" yaml:"api_url"`
	CheckMode bool             `json:"check_mode" yaml:"check_mode"`
	Manifests []string         `json:"manifests,omitempty" yaml:"manifests,omitempty"`
	Summary   pipeline.Summary `json:"summary" yaml:"summary"`
	Duration  time.Duration    `json:"duration_ns" yaml:"duration_ns"`
	Failures  []FailedResource `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// ApplyHistory stores a time-series of apply run entries, oldest first.
type ApplyHistory struct {
	Version string         `json:"version"`
	Entries []HistoryEntry `json:"entries"`
}

// DefaultDir returns $XDG_STATE_HOME/litellmctl, falling back to
// ~/.local/state/litellmctl.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "litellmctl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "litellmctl")
}

// resolveDir applies the default when dir is empty.
func resolveDir(dir string) string {
	if dir == "" {
		return DefaultDir()
	}
	return dir
}

// LoadHistory reads <dir>/apply-history.json. An empty dir means DefaultDir.
// If the file does not exist, it returns (nil, nil).
func LoadHistory(dir string) (*ApplyHistory, error) {
	data, err := FS.ReadFile(historyPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var h ApplyHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse history file: %w", err)
	}
	return &h, nil
}

// SaveHistory writes the history to <dir>/apply-history.json, creating dir.
func SaveHistory(dir string, h *ApplyHistory) error {
	dir = resolveDir(dir)
	if err := FS.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}

	if err := FS.WriteFile(filepath.Join(dir, historyFile), data, 0o600); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// AppendEntry adds an entry to the history and enforces the FIFO cap.
func AppendEntry(h *ApplyHistory, entry HistoryEntry) *ApplyHistory {
	if h == nil {
		h = &ApplyHistory{Version: historySchemaVersion}
	}
	h.Version = historySchemaVersion
	h.Entries = append(h.Entries, entry)
	if len(h.Entries) > maxHistoryEntries {
		h.Entries = h.Entries[len(h.Entries)-maxHistoryEntries:]
	}
	return h
}

// Record appends entry to the history in dir.
func Record(dir string, entry HistoryEntry) error {
	h, err := LoadHistory(dir)
	if err != nil {
		return err
	}
	return SaveHistory(dir, AppendEntry(h, entry))
}

// BuildHistoryEntry creates a HistoryEntry from a pipeline report.
func BuildHistoryEntry(report *pipeline.Report, apiURL string, manifests []string) HistoryEntry {
	entry := HistoryEntry{
		RunID:     report.RunID,
		Timestamp: report.StartedAt.UTC(),
		APIURL:    apiURL,
		CheckMode: report.CheckMode,
		Manifests: manifests,
		Summary:   report.Summary(),
		Duration:  report.Duration,
	}
	for _, o := range report.Failures() {
		entry.Failures = append(entry.Failures, FailedResource{
			Kind:  string(o.Kind),
			Name:  o.Name,
			Error: o.Error,
		})
	}
	return entry
}

// Last returns up to n most recent entries, newest first.
func (h *ApplyHistory) Last(n int) []HistoryEntry {
	if h == nil {
		return nil
	}
	if n <= 0 || n > len(h.Entries) {
		n = len(h.Entries)
	}
	out := make([]HistoryEntry, 0, n)
	for i := len(h.Entries) - 1; i >= len(h.Entries)-n; i-- {
		out = append(out, h.Entries[i])
	}
	return out
}

// historyPath returns the full path to the history file.
func historyPath(dir string) string {
	return filepath.Join(resolveDir(dir), historyFile)
}
