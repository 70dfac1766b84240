// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package litellm

import (
	"context"
	"encoding/json"
	"fmt"
)

// ListModels returns every deployment reported by /model/info.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var resp struct {
		Data []Model `json:"data"`
	}
	if err := c.get(ctx, "/model/info", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetModel returns the first deployment named name, or (nil, nil).
func (c *Client) GetModel(ctx context.Context, name string) (*Model, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	for i := range models {
		if models[i].ModelName == name {
			return &models[i], nil
		}
	}
	return nil, nil
}

// CreateModel adds a deployment to the proxy database.
func (c *Client) CreateModel(ctx context.Context, req ModelRequest) (*Model, error) {
	var raw json.RawMessage
	if err := c.post(ctx, "/model/new", req, &raw); err != nil {
		return nil, err
	}
	return decodeModelResponse(raw, req)
}

// UpdateModel replaces the params and info of the deployment with the given
// model_info.id.
func (c *Client) UpdateModel(ctx context.Context, id string, req ModelRequest) (*Model, error) {
	info := make(map[string]any, len(req.ModelInfo)+1)
	for k, v := range req.ModelInfo {
		info[k] = v
	}
	info["id"] = id
	req.ModelInfo = info

	var raw json.RawMessage
	if err := c.post(ctx, "/model/update", req, &raw); err != nil {
		return nil, err
	}
	return decodeModelResponse(raw, req)
}

// DeleteModel removes the deployment with the given model_info.id.
func (c *Client) DeleteModel(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("litellm: delete model: %w", ErrConfigManaged)
	}
	return c.post(ctx, "/model/delete", map[string]string{"id": id}, nil)
}

// decodeModelResponse returns the deployment echoed by the proxy. Older
// proxies answer with a status message only; the request is returned then.
func decodeModelResponse(raw json.RawMessage, req ModelRequest) (*Model, error) {
	var model Model
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, fmt.Errorf("litellm: decoding model: %w", err)
	}
	if model.ModelName == "" {
		model = Model{
			ModelName:     req.ModelName,
			LiteLLMParams: req.LiteLLMParams,
			ModelInfo:     req.ModelInfo,
		}
	}
	return &model, nil
}
