// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package state

import "math"

// DefaultWindowSize is the default number of entries to compare for trends.
const DefaultWindowSize = 5

// deadbandPct is the percentage change threshold below which a trend is "stable".
const deadbandPct = 0.10

// Direction describes whether a metric is improving, stable, or degrading.
type Direction string

const (
	Improving Direction = "improving"
	Stable    Direction = "stable"
	Degrading Direction = "degrading"
)

// TrendLine captures the directional change for a single metric.
type TrendLine struct {
	Current   int       `json:"current" yaml:"current"`
	Previous  int       `json:"previous" yaml:"previous"`
	Delta     int       `json:"delta" yaml:"delta"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// TrendResult holds drift and failure trends across recent applied runs.
type TrendResult struct {
	// Drift counts resources each run had to change.
	Drift      TrendLine `json:"drift" yaml:"drift"`
	Failures   TrendLine `json:"failures" yaml:"failures"`
	WindowSize int       `json:"window_size" yaml:"window_size"`
	DataPoints int       `json:"data_points" yaml:"data_points"`
}

// ComputeTrends compares the oldest and newest non-check-mode entries within
// the window. Returns nil if fewer than 2 data points are available.
func ComputeTrends(h *ApplyHistory, windowSize int) *TrendResult {
	if h == nil {
		return nil
	}
	if windowSize < 2 {
		windowSize = DefaultWindowSize
	}

	var entries []HistoryEntry
	for _, e := range h.Entries {
		if !e.CheckMode {
			entries = append(entries, e)
		}
	}
	if len(entries) < 2 {
		return nil
	}
	if len(entries) > windowSize {
		entries = entries[len(entries)-windowSize:]
	}

	oldest := entries[0]
	newest := entries[len(entries)-1]
	return &TrendResult{
		Drift:      computeTrendLine(oldest.Summary.Changed(), newest.Summary.Changed()),
		Failures:   computeTrendLine(oldest.Summary.Failed, newest.Summary.Failed),
		WindowSize: windowSize,
		DataPoints: len(entries),
	}
}

// computeTrendLine determines direction from old to new using a 10% deadband.
func computeTrendLine(oldVal, newVal int) TrendLine {
	return TrendLine{
		Current:   newVal,
		Previous:  oldVal,
		Delta:     newVal - oldVal,
		Direction: classifyDirection(oldVal, newVal),
	}
}

// classifyDirection applies the deadband threshold. Fewer changes or
// failures per run means the proxy is converging on the manifests.
func classifyDirection(oldVal, newVal int) Direction {
	if oldVal == 0 && newVal == 0 {
		return Stable
	}

	base := oldVal
	if base == 0 {
		base = newVal
	}

	pctChange := math.Abs(float64(newVal-oldVal)) / float64(base)
	if pctChange <= deadbandPct {
		return Stable
	}
	if newVal < oldVal {
		return Improving
	}
	return Degrading
}

// Overview is recent history together with its trends.
type Overview struct {
	Entries []HistoryEntry `json:"entries" yaml:"entries"`
	Trends  *TrendResult   `json:"trends,omitempty" yaml:"trends,omitempty"`
}
