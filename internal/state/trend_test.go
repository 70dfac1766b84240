// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fdaforno/litellmctl/internal/pipeline"
)

func entry(created, failed int, check bool) HistoryEntry {
	return HistoryEntry{
		CheckMode: check,
		Summary:   pipeline.Summary{Total: created + failed, Created: created, Failed: failed},
	}
}

func TestComputeTrends_NotEnoughData(t *testing.T) {
	assert.Nil(t, ComputeTrends(nil, 5))

	h := AppendEntry(nil, entry(3, 0, false))
	h = AppendEntry(h, entry(0, 0, true))
	assert.Nil(t, ComputeTrends(h, 5), "check-mode runs are ignored")
}

func TestComputeTrends_Converging(t *testing.T) {
	var h *ApplyHistory
	h = AppendEntry(h, entry(10, 4, false))
	h = AppendEntry(h, entry(0, 0, true))
	h = AppendEntry(h, entry(2, 4, false))

	got := ComputeTrends(h, 5)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.DataPoints)
	assert.Equal(t, TrendLine{Current: 2, Previous: 10, Delta: -8, Direction: Improving}, got.Drift)
	assert.Equal(t, Stable, got.Failures.Direction)
}

func TestComputeTrends_Window(t *testing.T) {
	var h *ApplyHistory
	h = AppendEntry(h, entry(100, 0, false))
	h = AppendEntry(h, entry(1, 0, false))
	h = AppendEntry(h, entry(5, 2, false))

	got := ComputeTrends(h, 2)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Drift.Previous)
	assert.Equal(t, Degrading, got.Drift.Direction)
	assert.Equal(t, Degrading, got.Failures.Direction)
}

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		old, new int
		want     Direction
	}{
		{0, 0, Stable},
		{10, 10, Stable},
		{100, 95, Stable},
		{10, 5, Improving},
		{0, 3, Degrading},
		{3, 0, Improving},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyDirection(tt.old, tt.new), "%d -> %d", tt.old, tt.new)
	}
}
