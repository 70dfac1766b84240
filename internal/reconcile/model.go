// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fdaforno/litellmctl/internal/litellm"
)

// ReconcileModel drives a model deployment, looked up by model_name,
// towards spec. Deployments loaded from the proxy config file are read-only.
func ReconcileModel(ctx context.Context, api API, spec ModelSpec, opts Options) (res *Result, err error) {
	defer func() { observe(KindModel, res, err) }()

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	res = newResult(KindModel, spec.ModelName)

	current, err := api.GetModel(ctx, spec.ModelName)
	if err != nil {
		return nil, fmt.Errorf("looking up model %q: %w", res.Name, err)
	}

	if spec.DesiredState() == StateAbsent {
		if current == nil {
			return res.unchanged(fmt.Sprintf("Model '%s' does not exist", res.Name)), nil
		}
		res.Object = sanitizedModel(current)
		if !current.DBManaged() {
			return nil, fmt.Errorf("model %q: %w", res.Name, litellm.ErrConfigManaged)
		}
		res.planned(ActionDelete, opts)
		if opts.CheckMode {
			return res, nil
		}
		if err := api.DeleteModel(ctx, current.ID()); err != nil {
			return nil, fmt.Errorf("deleting model %q: %w", res.Name, err)
		}
		slog.Info("model deleted", "model", res.Name, "model_id", current.ID())
		return res, nil
	}

	req := litellm.ModelRequest{
		ModelName:     spec.ModelName,
		LiteLLMParams: spec.LiteLLMParams,
		ModelInfo:     spec.ModelInfo,
	}

	if current == nil {
		res.planned(ActionCreate, opts)
		if opts.CheckMode {
			return res, nil
		}
		created, err := api.CreateModel(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("creating model %q: %w", res.Name, err)
		}
		res.Object = sanitizedModel(created)
		slog.Info("model created", "model", res.Name, "model_id", created.ID())
		return res, nil
	}

	res.Changes = ModelChanges(current, spec)
	res.Object = sanitizedModel(current)
	if len(res.Changes) == 0 {
		return res.unchanged(fmt.Sprintf("Model '%s' is up to date", res.Name)), nil
	}
	if !current.DBManaged() {
		return nil, fmt.Errorf("model %q: %w", res.Name, litellm.ErrConfigManaged)
	}
	res.planned(ActionUpdate, opts)
	if opts.CheckMode {
		return res, nil
	}
	updated, err := api.UpdateModel(ctx, current.ID(), req)
	if err != nil {
		return nil, fmt.Errorf("updating model %q: %w", res.Name, err)
	}
	res.Object = sanitizedModel(updated)
	slog.Info("model updated", "model", res.Name, "model_id", current.ID(), "fields", len(res.Changes))
	return res, nil
}

// ModelChanges lists desired litellm_params and model_info entries that
// differ from current. Credentials are write-only and never compared.
func ModelChanges(current *litellm.Model, spec ModelSpec) []Change {
	var changes []Change
	changes = diffSubset(changes, "litellm_params", current.LiteLLMParams, spec.LiteLLMParams, litellm.IsSecretParam)
	changes = diffSubset(changes, "model_info", current.ModelInfo, spec.ModelInfo, isServerInfo)
	return changes
}

// isServerInfo reports model_info keys the proxy assigns itself.
func isServerInfo(key string) bool {
	return key == "id" || key == "db_model"
}

func sanitizedModel(m *litellm.Model) *litellm.Model {
	if m == nil {
		return nil
	}
	return &litellm.Model{
		ModelName:     m.ModelName,
		LiteLLMParams: litellm.SanitizeParams(m.LiteLLMParams),
		ModelInfo:     m.ModelInfo,
	}
}
