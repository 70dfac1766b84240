// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package litellm

// Team is a LiteLLM team as returned by /team/info and /team/list.
type Team struct {
	TeamID    string         `json:"team_id"`
	TeamAlias string         `json:"team_alias,omitempty"`
	TeamName  string         `json:"team_name,omitempty"`
	Models    []string       `json:"models,omitempty"`
	MaxBudget *float64       `json:"max_budget,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Spend     float64        `json:"spend,omitempty"`
	Blocked   bool           `json:"blocked,omitempty"`
}

// Name returns the alias, falling back to the legacy team_name field.
func (t *Team) Name() string {
	if t.TeamAlias != "" {
		return t.TeamAlias
	}
	return t.TeamName
}

// TeamCreateRequest is the body of POST /team/new.
type TeamCreateRequest struct {
	TeamID    string         `json:"team_id,omitempty"`
	TeamAlias string         `json:"team_alias"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	MaxBudget *float64       `json:"max_budget,omitempty"`
	Models    []string       `json:"models,omitempty"`
}

// TeamUpdateRequest is the body of POST /team/update. Empty fields are left
// untouched by the proxy.
type TeamUpdateRequest struct {
	TeamID    string         `json:"team_id"`
	TeamAlias string         `json:"team_alias,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	MaxBudget *float64       `json:"max_budget,omitempty"`
	Models    []string       `json:"models,omitempty"`
}

// VirtualKey is a LiteLLM virtual key. Key holds the secret only in the
// response to /key/generate; listings carry the hashed Token instead.
type VirtualKey struct {
	Key                 string         `json:"key,omitempty"`
	Token               string         `json:"token,omitempty"`
	KeyAlias            string         `json:"key_alias,omitempty"`
	KeyName             string         `json:"key_name,omitempty"`
	TeamID              string         `json:"team_id,omitempty"`
	Models              []string       `json:"models,omitempty"`
	MaxBudget           *float64       `json:"max_budget,omitempty"`
	BudgetDuration      string         `json:"budget_duration,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
	Expires             string         `json:"expires,omitempty"`
	MaxParallelRequests *int           `json:"max_parallel_requests,omitempty"`
	TPMLimit            *int64         `json:"tpm_limit,omitempty"`
	RPMLimit            *int64         `json:"rpm_limit,omitempty"`
	Spend               float64        `json:"spend,omitempty"`
}

// ID returns the identifier accepted by /key/update and /key/delete.
func (k *VirtualKey) ID() string {
	if k.Token != "" {
		return k.Token
	}
	return k.Key
}

// Name returns the alias, falling back to key_name.
func (k *VirtualKey) Name() string {
	if k.KeyAlias != "" {
		return k.KeyAlias
	}
	return k.KeyName
}

// KeyGenerateRequest is the body of POST /key/generate.
type KeyGenerateRequest struct {
	KeyAlias            string         `json:"key_alias,omitempty"`
	TeamID              string         `json:"team_id,omitempty"`
	Models              []string       `json:"models,omitempty"`
	MaxBudget           *float64       `json:"max_budget,omitempty"`
	BudgetDuration      string         `json:"budget_duration,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
	Expires             string         `json:"expires,omitempty"`
	MaxParallelRequests *int           `json:"max_parallel_requests,omitempty"`
	TPMLimit            *int64         `json:"tpm_limit,omitempty"`
	RPMLimit            *int64         `json:"rpm_limit,omitempty"`
}

// KeyUpdateRequest is the body of POST /key/update.
type KeyUpdateRequest struct {
	Key string `json:"key"`
	KeyGenerateRequest
}

// Model is one deployment from /model/info.
type Model struct {
	ModelName     string         `json:"model_name"`
	LiteLLMParams map[string]any `json:"litellm_params,omitempty"`
	ModelInfo     map[string]any `json:"model_info,omitempty"`
}

// ID returns model_info.id, or "" when the proxy did not report one.
func (m *Model) ID() string {
	if m.ModelInfo == nil {
		return ""
	}
	id, _ := m.ModelInfo["id"].(string)
	return id
}

// DBManaged reports whether the deployment is stored in the proxy database
// and can therefore be updated or deleted through the API. Deployments from
// the proxy config file report db_model=false.
func (m *Model) DBManaged() bool {
	if m.ID() == "" {
		return false
	}
	if dbModel, ok := m.ModelInfo["db_model"].(bool); ok {
		return dbModel
	}
	return true
}

// ModelRequest is the body of POST /model/new and POST /model/update.
type ModelRequest struct {
	ModelName     string         `json:"model_name"`
	LiteLLMParams map[string]any `json:"litellm_params"`
	ModelInfo     map[string]any `json:"model_info,omitempty"`
}

// Endpoint is a view over a model deployment that carries an api_base.
type Endpoint struct {
	EndpointName string         `json:"endpoint_name"`
	APIBase      string         `json:"api_base"`
	Provider     string         `json:"provider"`
	APIVersion   string         `json:"api_version,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ModelID      string         `json:"model_id,omitempty"`

	// Model is litellm_params.model of the backing deployment.
	Model string `json:"-"`
	// Managed mirrors Model.DBManaged for the backing deployment.
	Managed bool `json:"-"`
}

// EndpointRequest describes an endpoint to create or update.
type EndpointRequest struct {
	Name       string
	APIBase    string
	Provider   string
	APIKey     string
	APIVersion string
	Metadata   map[string]any
}
