// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package ansible

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fdaforno/litellmctl/internal/reconcile"
)

// Module is one Ansible module backed by a reconciler.
type Module struct {
	// Name is the module name, e.g. "litellm_team".
	Name string

	// ResultKey is the key holding the resource record in the result.
	ResultKey string

	Spec ArgumentSpec

	// Build converts validated params into the desired resource.
	Build func(Params) reconcile.Spec
}

var (
	modMu       sync.RWMutex
	modRegistry = make(map[string]Module)
)

// Register adds a module to the registry.
func Register(m Module) {
	modMu.Lock()
	defer modMu.Unlock()
	modRegistry[m.Name] = m
}

// Lookup returns the module with the given name. The "litellm_" prefix may be
// omitted.
func Lookup(name string) (Module, error) {
	modMu.RLock()
	defer modMu.RUnlock()
	if m, ok := modRegistry[name]; ok {
		return m, nil
	}
	if m, ok := modRegistry["litellm_"+name]; ok {
		return m, nil
	}
	return Module{}, fmt.Errorf("unknown module: %q (available: %s)", name, strings.Join(namesLocked(), ", "))
}

// Names returns the registered module names, sorted.
func Names() []string {
	modMu.RLock()
	defer modMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(modRegistry))
	for n := range modRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// commonParams are accepted by every module.
func commonParams(extra map[string]Param) map[string]Param {
	params := map[string]Param{
		"api_url":        {Type: TypeStr, Required: true},
		"api_key":        {Type: TypeStr, Required: true, NoLog: true},
		"state":          {Type: TypeStr, Default: string(reconcile.StatePresent), Choices: []string{string(reconcile.StatePresent), string(reconcile.StateAbsent)}},
		"validate_certs": {Type: TypeBool, Default: true},
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

func state(p Params) reconcile.State {
	return reconcile.State(p.String("state"))
}

func init() {
	Register(Module{
		Name:      "litellm_team",
		ResultKey: "team",
		Spec: ArgumentSpec{
			Params: commonParams(map[string]Param{
				"team_id":    {Type: TypeStr},
				"name":       {Type: TypeStr},
				"metadata":   {Type: TypeDict, Default: map[string]any{}},
				"max_budget": {Type: TypeFloat},
				"models":     {Type: TypeList, Elements: TypeStr},
			}),
			RequiredIf: []RequiredIf{
				{Key: "state", Value: "present", Requires: []string{"name"}},
				{Key: "state", Value: "absent", Requires: []string{"team_id"}},
			},
		},
		Build: func(p Params) reconcile.Spec {
			return reconcile.TeamSpec{
				TeamID:    p.String("team_id"),
				Name:      p.String("name"),
				Metadata:  p.Dict("metadata"),
				MaxBudget: p.Float("max_budget"),
				Models:    p.Strings("models"),
				State:     state(p),
			}
		},
	})

	Register(Module{
		Name:      "litellm_virtual_key",
		ResultKey: "virtual_key",
		Spec: ArgumentSpec{
			Params: commonParams(map[string]Param{
				"key_id":                {Type: TypeStr},
				"key_alias":             {Type: TypeStr},
				"team_id":               {Type: TypeStr},
				"models":                {Type: TypeList, Elements: TypeStr},
				"max_budget":            {Type: TypeFloat},
				"budget_duration":       {Type: TypeStr},
				"metadata":              {Type: TypeDict, Default: map[string]any{}},
				"expires":               {Type: TypeStr},
				"max_parallel_requests": {Type: TypeInt},
				"tpm_limit":             {Type: TypeInt},
				"rpm_limit":             {Type: TypeInt},
			}),
			RequiredIf: []RequiredIf{
				{Key: "state", Value: "absent", Requires: []string{"key_id"}},
			},
		},
		Build: func(p Params) reconcile.Spec {
			return reconcile.KeySpec{
				KeyID:               p.String("key_id"),
				KeyAlias:            p.String("key_alias"),
				TeamID:              p.String("team_id"),
				Models:              p.Strings("models"),
				MaxBudget:           p.Float("max_budget"),
				BudgetDuration:      p.String("budget_duration"),
				Metadata:            p.Dict("metadata"),
				Expires:             p.String("expires"),
				MaxParallelRequests: p.Int("max_parallel_requests"),
				TPMLimit:            p.Int64("tpm_limit"),
				RPMLimit:            p.Int64("rpm_limit"),
				State:               state(p),
			}
		},
	})

	Register(Module{
		Name:      "litellm_model",
		ResultKey: "model",
		Spec: ArgumentSpec{
			Params: commonParams(map[string]Param{
				"model_name":     {Type: TypeStr, Required: true},
				"litellm_params": {Type: TypeDict},
				"model_info":     {Type: TypeDict, Default: map[string]any{}},
			}),
			RequiredIf: []RequiredIf{
				{Key: "state", Value: "present", Requires: []string{"litellm_params"}},
			},
		},
		Build: func(p Params) reconcile.Spec {
			return reconcile.ModelSpec{
				ModelName:     p.String("model_name"),
				LiteLLMParams: p.Dict("litellm_params"),
				ModelInfo:     p.Dict("model_info"),
				State:         state(p),
			}
		},
	})

	Register(Module{
		Name:      "litellm_endpoint",
		ResultKey: "endpoint",
		Spec: ArgumentSpec{
			Params: commonParams(map[string]Param{
				"endpoint_name":    {Type: TypeStr, Required: true},
				"api_base":         {Type: TypeStr},
				"provider":         {Type: TypeStr},
				"endpoint_api_key": {Type: TypeStr, NoLog: true},
				"api_version":      {Type: TypeStr},
				"metadata":         {Type: TypeDict, Default: map[string]any{}},
			}),
			RequiredIf: []RequiredIf{
				{Key: "state", Value: "present", Requires: []string{"api_base", "provider"}},
			},
		},
		Build: func(p Params) reconcile.Spec {
			return reconcile.EndpointSpec{
				EndpointName: p.String("endpoint_name"),
				APIBase:      p.String("api_base"),
				Provider:     p.String("provider"),
				APIKey:       p.String("endpoint_api_key"),
				APIVersion:   p.String("api_version"),
				Metadata:     p.Dict("metadata"),
				State:        state(p),
			}
		},
	})
}
