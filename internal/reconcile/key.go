// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fdaforno/litellmctl/internal/litellm"
)

// ReconcileKey drives a virtual key towards spec. The key is looked up by
// KeyID when set, otherwise by alias. A key with neither is created on every
// call because the proxy has nothing to match it against.
func ReconcileKey(ctx context.Context, api API, spec KeySpec, opts Options) (res *Result, err error) {
	defer func() { observe(KindVirtualKey, res, err) }()

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	res = newResult(KindVirtualKey, spec.DisplayName())

	current, err := lookupKey(ctx, api, spec)
	if err != nil {
		return nil, fmt.Errorf("looking up virtual key %q: %w", res.Name, err)
	}

	if spec.DesiredState() == StateAbsent {
		if current == nil {
			return res.unchanged(fmt.Sprintf("Virtual key '%s' does not exist", res.Name)), nil
		}
		res.Object = current
		res.planned(ActionDelete, opts)
		if opts.CheckMode {
			return res, nil
		}
		if err := api.DeleteKey(ctx, current.ID()); err != nil {
			return nil, fmt.Errorf("deleting virtual key %q: %w", res.Name, err)
		}
		slog.Info("virtual key deleted", "key", res.Name)
		return res, nil
	}

	pendingTeam, err := resolveTeam(ctx, api, &spec, opts)
	if err != nil {
		return nil, err
	}

	if current == nil {
		if spec.KeyAlias == "" && spec.KeyID == "" {
			slog.Warn("virtual key has no key_alias; a new key is generated on every run")
			res.Name = "(unnamed)"
		}
		res.planned(ActionCreate, opts)
		if pendingTeam != "" {
			res.Message += fmt.Sprintf(" (team '%s' does not exist yet)", pendingTeam)
		}
		if opts.CheckMode {
			return res, nil
		}
		generated, err := api.GenerateKey(ctx, spec.keyRequest())
		if err != nil {
			return nil, fmt.Errorf("generating virtual key %q: %w", res.Name, err)
		}
		res.Object = generated
		slog.Info("virtual key created", "key", res.Name)
		return res, nil
	}

	res.Changes = KeyChanges(current, spec)
	res.Object = current
	if len(res.Changes) == 0 {
		return res.unchanged(fmt.Sprintf("Virtual key '%s' is up to date", res.Name)), nil
	}
	res.planned(ActionUpdate, opts)
	if pendingTeam != "" {
		res.Message += fmt.Sprintf(" (team '%s' does not exist yet)", pendingTeam)
	}
	if opts.CheckMode {
		return res, nil
	}
	updated, err := api.UpdateKey(ctx, litellm.KeyUpdateRequest{
		Key:                current.ID(),
		KeyGenerateRequest: spec.keyRequest(),
	})
	if err != nil {
		return nil, fmt.Errorf("updating virtual key %q: %w", res.Name, err)
	}
	res.Object = updated
	slog.Info("virtual key updated", "key", res.Name, "fields", len(res.Changes))
	return res, nil
}

func lookupKey(ctx context.Context, api API, spec KeySpec) (*litellm.VirtualKey, error) {
	if spec.KeyID != "" {
		return api.GetKey(ctx, spec.KeyID)
	}
	if spec.KeyAlias != "" {
		return api.FindKeyByAlias(ctx, spec.KeyAlias)
	}
	return nil, nil
}

// resolveTeam fills spec.TeamID from spec.Team. In check mode a team that
// does not exist yet is returned as pending instead of failing, since an
// earlier step of the same plan may create it.
func resolveTeam(ctx context.Context, api API, spec *KeySpec, opts Options) (string, error) {
	if spec.TeamID != "" || spec.Team == "" {
		return "", nil
	}
	team, err := api.FindTeamByName(ctx, spec.Team)
	if err != nil {
		return "", fmt.Errorf("resolving team %q: %w", spec.Team, err)
	}
	if team == nil {
		if opts.CheckMode {
			return spec.Team, nil
		}
		return "", fmt.Errorf("virtual key %q: %w: %s", spec.DisplayName(), ErrTeamNotFound, spec.Team)
	}
	spec.TeamID = team.TeamID
	return "", nil
}

// KeyChanges lists the managed fields of spec that differ from current.
func KeyChanges(current *litellm.VirtualKey, spec KeySpec) []Change {
	var changes []Change
	changes = diffString(changes, "key_alias", current.KeyAlias, spec.KeyAlias)
	changes = diffString(changes, "team_id", current.TeamID, spec.TeamID)
	changes = diffSet(changes, "models", current.Models, spec.Models)
	changes = diffPtr(changes, "max_budget", current.MaxBudget, spec.MaxBudget)
	changes = diffString(changes, "budget_duration", current.BudgetDuration, spec.BudgetDuration)
	changes = diffJSON(changes, "metadata", current.Metadata, spec.Metadata)
	changes = diffTime(changes, "expires", current.Expires, spec.Expires)
	changes = diffPtr(changes, "max_parallel_requests", current.MaxParallelRequests, spec.MaxParallelRequests)
	changes = diffPtr(changes, "tpm_limit", current.TPMLimit, spec.TPMLimit)
	changes = diffPtr(changes, "rpm_limit", current.RPMLimit, spec.RPMLimit)
	return changes
}
