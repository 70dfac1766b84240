// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"time"

	"github.com/fdaforno/litellmctl/internal/reconcile"
)

// Outcome is the result of reconciling one resource.
type Outcome struct {
	Kind     reconcile.Kind    `json:"kind" yaml:"kind"`
	Name     string            `json:"name" yaml:"name"`
	State    reconcile.State   `json:"state" yaml:"state"`
	Result   *reconcile.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Err      error             `json:"-" yaml:"-"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration     `json:"duration_ns" yaml:"duration_ns"`
}

// Failed reports whether the resource could not be reconciled. Outcomes
// read back from history only carry the error text.
func (o Outcome) Failed() bool {
	return o.Err != nil || o.Error != ""
}

// Action returns the outcome's action, or "failed".
func (o Outcome) Action() string {
	switch {
	case o.Failed():
		return "failed"
	case o.Result == nil:
		return string(reconcile.ActionNone)
	default:
		return string(o.Result.Action)
	}
}

// Report aggregates the outcomes of one pipeline run.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	CheckMode bool          `json:"check_mode" yaml:"check_mode"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration_ns" yaml:"duration_ns"`
	Outcomes  []Outcome     `json:"outcomes" yaml:"outcomes"`
}

// Summary counts outcomes by action.
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Created   int `json:"created" yaml:"created"`
	Updated   int `json:"updated" yaml:"updated"`
	Deleted   int `json:"deleted" yaml:"deleted"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Changed returns the number of resources that were (or would be) modified.
func (s Summary) Changed() int {
	return s.Created + s.Updated + s.Deleted
}

// Summary counts the report's outcomes.
func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		switch o.Action() {
		case "failed":
			s.Failed++
		case string(reconcile.ActionCreate):
			s.Created++
		case string(reconcile.ActionUpdate):
			s.Updated++
		case string(reconcile.ActionDelete):
			s.Deleted++
		default:
			s.Unchanged++
		}
	}
	return s
}

// Failures returns the outcomes that ended in an error.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}
