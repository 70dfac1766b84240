// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fdaforno/litellmctl/internal/litellm"
)

// ReconcileEndpoint drives an endpoint, looked up by endpoint_name, towards
// spec. An endpoint is stored as a model deployment with an api_base.
func ReconcileEndpoint(ctx context.Context, api API, spec EndpointSpec, opts Options) (res *Result, err error) {
	defer func() { observe(KindEndpoint, res, err) }()

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	res = newResult(KindEndpoint, spec.EndpointName)

	current, err := api.GetEndpoint(ctx, spec.EndpointName)
	if err != nil {
		return nil, fmt.Errorf("looking up endpoint %q: %w", res.Name, err)
	}

	if spec.DesiredState() == StateAbsent {
		if current == nil {
			return res.unchanged(fmt.Sprintf("Endpoint '%s' does not exist", res.Name)), nil
		}
		if !current.Managed {
			return nil, fmt.Errorf("endpoint %q: %w", res.Name, litellm.ErrConfigManaged)
		}
		res.Object = current
		res.planned(ActionDelete, opts)
		if opts.CheckMode {
			return res, nil
		}
		if err := api.DeleteModel(ctx, current.ModelID); err != nil {
			return nil, fmt.Errorf("deleting endpoint %q: %w", res.Name, err)
		}
		slog.Info("endpoint deleted", "endpoint", res.Name, "model_id", current.ModelID)
		return res, nil
	}

	if current == nil {
		res.planned(ActionCreate, opts)
		if opts.CheckMode {
			return res, nil
		}
		created, err := api.CreateEndpoint(ctx, spec.request())
		if err != nil {
			return nil, fmt.Errorf("creating endpoint %q: %w", res.Name, err)
		}
		res.Object = created
		slog.Info("endpoint created", "endpoint", res.Name, "model_id", created.ModelID)
		return res, nil
	}

	res.Changes = EndpointChanges(current, spec)
	res.Object = current
	if len(res.Changes) == 0 {
		return res.unchanged(fmt.Sprintf("Endpoint '%s' is up to date", res.Name)), nil
	}
	if !current.Managed {
		return nil, fmt.Errorf("endpoint %q: %w", res.Name, litellm.ErrConfigManaged)
	}
	res.planned(ActionUpdate, opts)
	if opts.CheckMode {
		return res, nil
	}
	updated, err := api.UpdateEndpoint(ctx, current, spec.request())
	if err != nil {
		return nil, fmt.Errorf("updating endpoint %q: %w", res.Name, err)
	}
	res.Object = updated
	slog.Info("endpoint updated", "endpoint", res.Name, "model_id", current.ModelID, "fields", len(res.Changes))
	return res, nil
}

// EndpointChanges lists the managed fields of spec that differ from current.
// The endpoint API key is write-only and never compared.
func EndpointChanges(current *litellm.Endpoint, spec EndpointSpec) []Change {
	var changes []Change
	changes = diffString(changes, "api_base", current.APIBase, spec.APIBase)
	changes = diffString(changes, "provider", current.Provider, spec.Provider)
	changes = diffString(changes, "api_version", current.APIVersion, spec.APIVersion)
	changes = diffSubset(changes, "metadata", current.Metadata, spec.Metadata, isServerInfo)
	return changes
}
