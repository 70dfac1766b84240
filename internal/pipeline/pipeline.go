// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package pipeline applies a manifest against the LiteLLM proxy, one
// resource kind at a time, and aggregates the outcomes into a Report.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fdaforno/litellmctl/internal/litellm"
	"github.com/fdaforno/litellmctl/internal/manifest"
	"github.com/fdaforno/litellmctl/internal/reconcile"
	"github.com/fdaforno/litellmctl/internal/redact"
)

// DefaultParallelism bounds concurrent reconciliations within one kind.
const DefaultParallelism = 4

// Options configure a Pipeline.
type Options struct {
	CheckMode   bool
	Parallelism int
}

// Pipeline orchestrates reconciliation of every resource in a manifest.
type Pipeline struct {
	api  reconcile.API
	opts Options
}

// New creates a Pipeline that talks to api.
func New(api reconcile.API, opts Options) *Pipeline {
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	return &Pipeline{api: api, opts: opts}
}

// stage is one batch of resources of the same kind and desired state.
type stage struct {
	kind  reconcile.Kind
	state reconcile.State
}

// stages lists creation order for present resources followed by the
// reverse order for absent ones, so keys are deleted before their team.
func stages() []stage {
	var out []stage
	for _, k := range reconcile.Kinds {
		out = append(out, stage{kind: k, state: reconcile.StatePresent})
	}
	for i := len(reconcile.Kinds) - 1; i >= 0; i-- {
		out = append(out, stage{kind: reconcile.Kinds[i], state: reconcile.StateAbsent})
	}
	return out
}

// Run validates m and reconciles every resource in it. A failing resource
// is recorded in its Outcome and does not abort the run; Run only returns
// an error when the manifest itself is invalid.
func (p *Pipeline) Run(ctx context.Context, m *manifest.Manifest) (*Report, error) {
	if m == nil {
		return nil, errors.New("nil manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.NewString(),
		CheckMode: p.opts.CheckMode,
		StartedAt: time.Now().UTC(),
	}
	teamIDs := make(map[string]string)

	for _, st := range stages() {
		var specs []reconcile.Spec
		for _, s := range m.Specs(st.kind) {
			if s.DesiredState() == st.state {
				specs = append(specs, s)
			}
		}
		if len(specs) == 0 {
			continue
		}
		if st.kind == reconcile.KindVirtualKey {
			specs = withTeamIDs(specs, teamIDs)
		}

		outcomes := p.runStage(ctx, specs)
		for _, o := range outcomes {
			if o.Err != nil {
				slog.Warn("reconcile failed", "kind", o.Kind, "name", o.Name, "error", o.Err)
			}
			if t, ok := teamOf(o); ok && t.TeamID != "" {
				teamIDs[t.Name()] = t.TeamID
			}
		}
		report.Outcomes = append(report.Outcomes, outcomes...)
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// runStage reconciles specs concurrently, keeping outcomes in spec order.
func (p *Pipeline) runStage(ctx context.Context, specs []reconcile.Spec) []Outcome {
	outcomes := make([]Outcome, len(specs))

	var g errgroup.Group
	g.SetLimit(p.opts.Parallelism)
	for i, spec := range specs {
		g.Go(func() error {
			outcomes[i] = p.runOne(ctx, spec)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// runOne reconciles a single resource and captures its result and timing.
func (p *Pipeline) runOne(ctx context.Context, spec reconcile.Spec) Outcome {
	start := time.Now()
	res, err := reconcile.Reconcile(ctx, p.api, spec, reconcile.Options{CheckMode: p.opts.CheckMode})

	o := Outcome{
		Kind:     spec.Kind(),
		Name:     spec.DisplayName(),
		State:    spec.DesiredState(),
		Result:   res,
		Err:      err,
		Duration: time.Since(start),
	}
	if res != nil && res.Name != "" {
		o.Name = res.Name
	}
	if err != nil {
		o.Error = redact.Error(err)
	}
	return o
}

// withTeamIDs fills KeySpec.TeamID from teams reconciled earlier in the run.
func withTeamIDs(specs []reconcile.Spec, teamIDs map[string]string) []reconcile.Spec {
	out := make([]reconcile.Spec, len(specs))
	for i, s := range specs {
		ks, ok := s.(reconcile.KeySpec)
		if ok && ks.TeamID == "" && ks.Team != "" {
			if id, found := teamIDs[ks.Team]; found {
				ks.TeamID = id
			}
			s = ks
		}
		out[i] = s
	}
	return out
}

func teamOf(o Outcome) (*litellm.Team, bool) {
	if o.Kind != reconcile.KindTeam || o.Result == nil {
		return nil, false
	}
	t, ok := o.Result.Object.(*litellm.Team)
	return t, ok && t != nil
}
