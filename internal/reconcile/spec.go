// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fdaforno/litellmctl/internal/litellm"
)

// Spec is the desired state of one resource.
type Spec interface {
	Kind() Kind
	DisplayName() string
	DesiredState() State
	Validate() error
}

// TeamSpec is the desired state of a team.
type TeamSpec struct {
	TeamID    string         `json:"team_id,omitempty" yaml:"team_id,omitempty" toml:"team_id,omitempty"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
	MaxBudget *float64       `json:"max_budget,omitempty" yaml:"max_budget,omitempty" toml:"max_budget,omitempty"`
	Models    []string       `json:"models,omitempty" yaml:"models,omitempty" toml:"models,omitempty"`
	State     State          `json:"state,omitempty" yaml:"state,omitempty" toml:"state,omitempty"`
}

// KeySpec is the desired state of a virtual key. Team names a team by alias
// and is resolved to TeamID when TeamID is empty.
type KeySpec struct {
	KeyID               string         `json:"key_id,omitempty" yaml:"key_id,omitempty" toml:"key_id,omitempty"`
	KeyAlias            string         `json:"key_alias,omitempty" yaml:"key_alias,omitempty" toml:"key_alias,omitempty"`
	TeamID              string         `json:"team_id,omitempty" yaml:"team_id,omitempty" toml:"team_id,omitempty"`
	Team                string         `json:"team,omitempty" yaml:"team,omitempty" toml:"team,omitempty"`
	Models              []string       `json:"models,omitempty" yaml:"models,omitempty" toml:"models,omitempty"`
	MaxBudget           *float64       `json:"max_budget,omitempty" yaml:"max_budget,omitempty" toml:"max_budget,omitempty"`
	BudgetDuration      string         `json:"budget_duration,omitempty" yaml:"budget_duration,omitempty" toml:"budget_duration,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
	Expires             string         `json:"expires,omitempty" yaml:"expires,omitempty" toml:"expires,omitempty"`
	MaxParallelRequests *int           `json:"max_parallel_requests,omitempty" yaml:"max_parallel_requests,omitempty" toml:"max_parallel_requests,omitempty"`
	TPMLimit            *int64         `json:"tpm_limit,omitempty" yaml:"tpm_limit,omitempty" toml:"tpm_limit,omitempty"`
	RPMLimit            *int64         `json:"rpm_limit,omitempty" yaml:"rpm_limit,omitempty" toml:"rpm_limit,omitempty"`
	State               State          `json:"state,omitempty" yaml:"state,omitempty" toml:"state,omitempty"`
}

// ModelSpec is the desired state of a model deployment.
type ModelSpec struct {
	ModelName     string         `json:"model_name" yaml:"model_name" toml:"model_name"`
	LiteLLMParams map[string]any `json:"litellm_params,omitempty" yaml:"litellm_params,omitempty" toml:"litellm_params,omitempty"`
	ModelInfo     map[string]any `json:"model_info,omitempty" yaml:"model_info,omitempty" toml:"model_info,omitempty"`
	State         State          `json:"state,omitempty" yaml:"state,omitempty" toml:"state,omitempty"`
}

// EndpointSpec is the desired state of an endpoint.
type EndpointSpec struct {
	EndpointName string         `json:"endpoint_name" yaml:"endpoint_name" toml:"endpoint_name"`
	APIBase      string         `json:"api_base,omitempty" yaml:"api_base,omitempty" toml:"api_base,omitempty"`
	Provider     string         `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty"`
	APIKey       string         `json:"endpoint_api_key,omitempty" yaml:"endpoint_api_key,omitempty" toml:"endpoint_api_key,omitempty"`
	APIVersion   string         `json:"api_version,omitempty" yaml:"api_version,omitempty" toml:"api_version,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
	State        State          `json:"state,omitempty" yaml:"state,omitempty" toml:"state,omitempty"`
}

// invalid builds a validation error for a resource.
func invalid(kind Kind, name string, problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	subject := kind.Label()
	if name != "" {
		subject += " '" + name + "'"
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidSpec, subject, strings.Join(problems, "; "))
}

func stateProblem(s State) []string {
	if _, err := ParseState(string(s)); err != nil {
		return []string{fmt.Sprintf("state must be %q or %q, got %q", StatePresent, StateAbsent, s)}
	}
	return nil
}

// Kind implements Spec.
func (s TeamSpec) Kind() Kind { return KindTeam }

// DesiredState implements Spec.
func (s TeamSpec) DesiredState() State { return s.State.effective() }

// DisplayName returns the name, falling back to the team ID.
func (s TeamSpec) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.TeamID
}

// Validate checks that the team can be looked up.
func (s TeamSpec) Validate() error {
	problems := stateProblem(s.State)
	if s.TeamID == "" && s.Name == "" {
		problems = append(problems, "one of team_id or name is required")
	}
	if s.MaxBudget != nil && *s.MaxBudget < 0 {
		problems = append(problems, "max_budget must not be negative")
	}
	return invalid(KindTeam, s.DisplayName(), problems)
}

// Kind implements Spec.
func (s KeySpec) Kind() Kind { return KindVirtualKey }

// DesiredState implements Spec.
func (s KeySpec) DesiredState() State { return s.State.effective() }

// DisplayName returns the alias, falling back to the key ID.
func (s KeySpec) DisplayName() string {
	if s.KeyAlias != "" {
		return s.KeyAlias
	}
	return s.KeyID
}

// Validate checks the key spec. A present key without alias or ID is valid
// but is created on every run.
func (s KeySpec) Validate() error {
	problems := stateProblem(s.State)
	if s.State.effective() == StateAbsent && s.KeyID == "" && s.KeyAlias == "" {
		problems = append(problems, "one of key_id or key_alias is required when state is absent")
	}
	if s.MaxBudget != nil && *s.MaxBudget < 0 {
		problems = append(problems, "max_budget must not be negative")
	}
	if s.TPMLimit != nil && *s.TPMLimit < 0 {
		problems = append(problems, "tpm_limit must not be negative")
	}
	if s.RPMLimit != nil && *s.RPMLimit < 0 {
		problems = append(problems, "rpm_limit must not be negative")
	}
	if s.MaxParallelRequests != nil && *s.MaxParallelRequests < 0 {
		problems = append(problems, "max_parallel_requests must not be negative")
	}
	return invalid(KindVirtualKey, s.DisplayName(), problems)
}

// Kind implements Spec.
func (s ModelSpec) Kind() Kind { return KindModel }

// DesiredState implements Spec.
func (s ModelSpec) DesiredState() State { return s.State.effective() }

// DisplayName returns the model name.
func (s ModelSpec) DisplayName() string { return s.ModelName }

// Validate checks the model spec.
func (s ModelSpec) Validate() error {
	problems := stateProblem(s.State)
	if s.ModelName == "" {
		problems = append(problems, "model_name is required")
	}
	if s.State.effective() == StatePresent && len(s.LiteLLMParams) == 0 {
		problems = append(problems, "litellm_params is required when state is present")
	}
	return invalid(KindModel, s.ModelName, problems)
}

// Kind implements Spec.
func (s EndpointSpec) Kind() Kind { return KindEndpoint }

// DesiredState implements Spec.
func (s EndpointSpec) DesiredState() State { return s.State.effective() }

// DisplayName returns the endpoint name.
func (s EndpointSpec) DisplayName() string { return s.EndpointName }

// Validate checks the endpoint spec.
func (s EndpointSpec) Validate() error {
	problems := stateProblem(s.State)
	if s.EndpointName == "" {
		problems = append(problems, "endpoint_name is required")
	}
	if s.State.effective() == StatePresent {
		if s.APIBase == "" {
			problems = append(problems, "api_base is required when state is present")
		}
		if s.Provider == "" {
			problems = append(problems, "provider is required when state is present")
		}
		if strings.Contains(s.Provider, "/") {
			problems = append(problems, "provider must not contain '/'")
		}
	}
	return invalid(KindEndpoint, s.EndpointName, problems)
}

// request converts the spec into an endpoint request.
func (s EndpointSpec) request() litellm.EndpointRequest {
	return litellm.EndpointRequest{
		Name:       s.EndpointName,
		APIBase:    s.APIBase,
		Provider:   s.Provider,
		APIKey:     s.APIKey,
		APIVersion: s.APIVersion,
		Metadata:   s.Metadata,
	}
}

// keyRequest converts the spec into a generate/update body.
func (s KeySpec) keyRequest() litellm.KeyGenerateRequest {
	return litellm.KeyGenerateRequest{
		KeyAlias:            s.KeyAlias,
		TeamID:              s.TeamID,
		Models:              s.Models,
		MaxBudget:           s.MaxBudget,
		BudgetDuration:      s.BudgetDuration,
		Metadata:            s.Metadata,
		Expires:             s.Expires,
		MaxParallelRequests: s.MaxParallelRequests,
		TPMLimit:            s.TPMLimit,
		RPMLimit:            s.RPMLimit,
	}
}

// IsInvalid reports whether err is a validation failure.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidSpec)
}
