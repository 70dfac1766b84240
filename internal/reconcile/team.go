// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fdaforno/litellmctl/internal/litellm"
)

// ReconcileTeam drives a team towards spec. The team is looked up by
// TeamID when set, otherwise by name.
func ReconcileTeam(ctx context.Context, api API, spec TeamSpec, opts Options) (res *Result, err error) {
	defer func() { observe(KindTeam, res, err) }()

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	res = newResult(KindTeam, spec.DisplayName())

	current, err := lookupTeam(ctx, api, spec)
	if err != nil {
		return nil, fmt.Errorf("looking up team %q: %w", res.Name, err)
	}

	if spec.DesiredState() == StateAbsent {
		if current == nil {
			return res.unchanged(fmt.Sprintf("Team '%s' does not exist", res.Name)), nil
		}
		res.Object = current
		res.planned(ActionDelete, opts)
		if opts.CheckMode {
			return res, nil
		}
		if err := api.DeleteTeam(ctx, current.TeamID); err != nil {
			return nil, fmt.Errorf("deleting team %q: %w", res.Name, err)
		}
		slog.Info("team deleted", "team", res.Name, "team_id", current.TeamID)
		return res, nil
	}

	if current == nil {
		if spec.Name == "" {
			return nil, invalid(KindTeam, res.Name, []string{"name is required to create a team"})
		}
		res.planned(ActionCreate, opts)
		if opts.CheckMode {
			return res, nil
		}
		created, err := api.CreateTeam(ctx, litellm.TeamCreateRequest{
			TeamID:    spec.TeamID,
			TeamAlias: spec.Name,
			Metadata:  spec.Metadata,
			MaxBudget: spec.MaxBudget,
			Models:    spec.Models,
		})
		if err != nil {
			return nil, fmt.Errorf("creating team %q: %w", res.Name, err)
		}
		res.Object = created
		slog.Info("team created", "team", res.Name, "team_id", created.TeamID)
		return res, nil
	}

	res.Changes = TeamChanges(current, spec)
	res.Object = current
	if len(res.Changes) == 0 {
		return res.unchanged(fmt.Sprintf("Team '%s' is up to date", res.Name)), nil
	}
	res.planned(ActionUpdate, opts)
	if opts.CheckMode {
		return res, nil
	}
	updated, err := api.UpdateTeam(ctx, litellm.TeamUpdateRequest{
		TeamID:    current.TeamID,
		TeamAlias: spec.Name,
		Metadata:  spec.Metadata,
		MaxBudget: spec.MaxBudget,
		Models:    spec.Models,
	})
	if err != nil {
		return nil, fmt.Errorf("updating team %q: %w", res.Name, err)
	}
	res.Object = updated
	slog.Info("team updated", "team", res.Name, "team_id", current.TeamID, "fields", len(res.Changes))
	return res, nil
}

func lookupTeam(ctx context.Context, api API, spec TeamSpec) (*litellm.Team, error) {
	if spec.TeamID != "" {
		return api.GetTeam(ctx, spec.TeamID)
	}
	return api.FindTeamByName(ctx, spec.Name)
}

// TeamChanges lists the managed fields of spec that differ from current.
func TeamChanges(current *litellm.Team, spec TeamSpec) []Change {
	var changes []Change
	changes = diffString(changes, "team_alias", current.Name(), spec.Name)
	changes = diffSet(changes, "models", current.Models, spec.Models)
	changes = diffPtr(changes, "max_budget", current.MaxBudget, spec.MaxBudget)
	changes = diffJSON(changes, "metadata", current.Metadata, spec.Metadata)
	return changes
}
