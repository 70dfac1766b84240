// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package litellm

import (
	"context"
	"strings"
)

// EndpointType marks deployments created for an endpoint.
const EndpointType = "managed_endpoint"

// secretParams lists litellm_params that the proxy treats as write-only
// credentials and masks in /model/info.
var secretParams = map[string]bool{
	"api_key":               true,
	"aws_access_key_id":     true,
	"aws_secret_access_key": true,
	"aws_session_token":     true,
	"vertex_credentials":    true,
	"azure_ad_token":        true,
	"client_secret":         true,
}

// IsSecretParam reports whether a litellm_params key holds a credential.
func IsSecretParam(key string) bool {
	return secretParams[key]
}

// SanitizeParams returns a copy of params with credentials replaced by a
// fixed mask.
func SanitizeParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		if IsSecretParam(k) {
			if s, ok := v.(string); ok && s == "" {
				out[k] = s
				continue
			}
			out[k] = "********"
			continue
		}
		out[k] = v
	}
	return out
}

// ProviderOf extracts the provider prefix from litellm_params.model
// ("azure/gpt-4" → "azure"), or "unknown".
func ProviderOf(params map[string]any) string {
	model, _ := params["model"].(string)
	if provider, _, ok := strings.Cut(model, "/"); ok && provider != "" {
		return provider
	}
	return "unknown"
}

// EndpointFromModel builds the endpoint view of a deployment. It returns
// false when the deployment has no api_base.
func EndpointFromModel(m *Model) (Endpoint, bool) {
	apiBase, _ := m.LiteLLMParams["api_base"].(string)
	if apiBase == "" {
		return Endpoint{}, false
	}
	name := m.ModelName
	if name == "" {
		name = "unknown"
	}
	apiVersion, _ := m.LiteLLMParams["api_version"].(string)
	model, _ := m.LiteLLMParams["model"].(string)

	var metadata map[string]any
	if len(m.ModelInfo) > 0 {
		metadata = make(map[string]any, len(m.ModelInfo))
		for k, v := range m.ModelInfo {
			metadata[k] = v
		}
	}

	return Endpoint{
		EndpointName: name,
		APIBase:      apiBase,
		Provider:     ProviderOf(m.LiteLLMParams),
		APIVersion:   apiVersion,
		Metadata:     metadata,
		ModelID:      m.ID(),
		Model:        model,
		Managed:      m.DBManaged(),
	}, true
}

// ListEndpoints returns the endpoint view of every deployment with an api_base.
func (c *Client) ListEndpoints(ctx context.Context) ([]Endpoint, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	var endpoints []Endpoint
	for i := range models {
		if ep, ok := EndpointFromModel(&models[i]); ok {
			endpoints = append(endpoints, ep)
		}
	}
	return endpoints, nil
}

// GetEndpoint returns the endpoint named name, or (nil, nil).
func (c *Client) GetEndpoint(ctx context.Context, name string) (*Endpoint, error) {
	endpoints, err := c.ListEndpoints(ctx)
	if err != nil {
		return nil, err
	}
	for i := range endpoints {
		if endpoints[i].EndpointName == name {
			return &endpoints[i], nil
		}
	}
	return nil, nil
}

// ModelRequest converts a new endpoint into the deployment that represents it:
// model "<provider>/endpoint-<name>" pointing at api_base, with the
// endpoint metadata as model_info.
func (r EndpointRequest) ModelRequest() ModelRequest {
	params := map[string]any{
		"model":    r.Provider + "/endpoint-" + r.Name,
		"api_base": r.APIBase,
	}
	if r.APIKey != "" {
		params["api_key"] = r.APIKey
	}
	if r.APIVersion != "" {
		params["api_version"] = r.APIVersion
	}

	info := make(map[string]any, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		info[k] = v
	}
	info["endpoint_type"] = EndpointType

	return ModelRequest{
		ModelName:     r.Name,
		LiteLLMParams: params,
		ModelInfo:     info,
	}
}

// CreateEndpoint adds the deployment backing an endpoint.
func (c *Client) CreateEndpoint(ctx context.Context, req EndpointRequest) (*Endpoint, error) {
	model, err := c.CreateModel(ctx, req.ModelRequest())
	if err != nil {
		return nil, err
	}
	return endpointOrRequest(model, req), nil
}

// UpdateRequest builds the /model/update body that moves the deployment
// behind current towards r. The deployment keeps its model param; only the
// provider prefix is replaced when the provider changes. endpoint_type is
// carried over only when current already has it.
func (r EndpointRequest) UpdateRequest(current *Endpoint) ModelRequest {
	params := map[string]any{
		"model":    withProvider(current.Model, r.Provider),
		"api_base": r.APIBase,
	}
	if current.Model == "" {
		params["model"] = r.Provider + "/endpoint-" + r.Name
	}
	if r.APIKey != "" {
		params["api_key"] = r.APIKey
	}
	if r.APIVersion != "" {
		params["api_version"] = r.APIVersion
	}

	info := make(map[string]any, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		info[k] = v
	}
	if t, ok := current.Metadata["endpoint_type"]; ok {
		info["endpoint_type"] = t
	}

	name := current.EndpointName
	if name == "" {
		name = r.Name
	}
	return ModelRequest{
		ModelName:     name,
		LiteLLMParams: params,
		ModelInfo:     info,
	}
}

// withProvider returns model with its provider prefix set to provider.
// An unprefixed model gains the prefix.
func withProvider(model, provider string) string {
	if provider == "" {
		return model
	}
	if p, rest, ok := strings.Cut(model, "/"); ok {
		if p == provider {
			return model
		}
		return provider + "/" + rest
	}
	return provider + "/" + model
}

// UpdateEndpoint updates the deployment backing current.
func (c *Client) UpdateEndpoint(ctx context.Context, current *Endpoint, req EndpointRequest) (*Endpoint, error) {
	model, err := c.UpdateModel(ctx, current.ModelID, req.UpdateRequest(current))
	if err != nil {
		return nil, err
	}
	return endpointOrRequest(model, req), nil
}

func endpointOrRequest(model *Model, req EndpointRequest) *Endpoint {
	if ep, ok := EndpointFromModel(model); ok {
		return &ep
	}
	return &Endpoint{
		EndpointName: req.Name,
		APIBase:      req.APIBase,
		Provider:     req.Provider,
		APIVersion:   req.APIVersion,
		Metadata:     req.Metadata,
		ModelID:      model.ID(),
	}
}
