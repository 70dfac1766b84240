// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package reconcile

import (
	"encoding/json"
	"reflect"
	"slices"
	"sort"
	"time"
)

// An empty desired value means the field is not managed and never yields a
// change. Every helper below follows that rule.

func diffString(changes []Change, field, before, after string) []Change {
	if after == "" || before == after {
		return changes
	}
	return append(changes, Change{Field: field, Before: before, After: after})
}

func diffPtr[T comparable](changes []Change, field string, before, after *T) []Change {
	if after == nil {
		return changes
	}
	if before != nil && *before == *after {
		return changes
	}
	var b any
	if before != nil {
		b = *before
	}
	return append(changes, Change{Field: field, Before: b, After: *after})
}

// diffSet compares two string lists ignoring order and duplicates.
func diffSet(changes []Change, field string, before, after []string) []Change {
	if len(after) == 0 {
		return changes
	}
	b, a := uniqueSorted(before), uniqueSorted(after)
	if slices.Equal(b, a) {
		return changes
	}
	return append(changes, Change{Field: field, Before: b, After: a})
}

func uniqueSorted(items []string) []string {
	out := slices.Clone(items)
	sort.Strings(out)
	return slices.Compact(out)
}

// diffJSON compares two JSON objects for equality after normalization.
func diffJSON(changes []Change, field string, before, after map[string]any) []Change {
	if len(after) == 0 {
		return changes
	}
	b, a := normalize(before), normalize(after)
	if b == nil {
		b = map[string]any{}
	}
	if reflect.DeepEqual(b, a) {
		return changes
	}
	return append(changes, Change{Field: field, Before: b, After: a})
}

// diffSubset compares only the keys present in after. Keys for which skip
// returns true are ignored. Each differing key is reported as field.key.
func diffSubset(changes []Change, field string, before, after map[string]any, skip func(string) bool) []Change {
	if len(after) == 0 {
		return changes
	}
	keys := make([]string, 0, len(after))
	for k := range after {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if skip != nil && skip(k) {
			continue
		}
		want := normalize(after[k])
		got, ok := before[k]
		if ok && reflect.DeepEqual(normalize(got), want) {
			continue
		}
		var b any
		if ok {
			b = normalize(got)
		}
		changes = append(changes, Change{Field: field + "." + k, Before: b, After: want})
	}
	return changes
}

// diffTime compares timestamps as instants when both parse, else as strings.
func diffTime(changes []Change, field, before, after string) []Change {
	if after == "" {
		return changes
	}
	if bt, ok := parseTime(before); ok {
		if at, ok := parseTime(after); ok && bt.Equal(at) {
			return changes
		}
	}
	return diffString(changes, field, before, after)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalize round-trips v through JSON so values decoded from YAML or TOML
// (ints, nested maps) compare equal to values decoded from the API (float64).
func normalize[T any](v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
