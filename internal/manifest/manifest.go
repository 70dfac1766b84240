// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package manifest loads declarative LiteLLM resource documents in YAML or
// TOML.
package manifest

import (
	"fmt"
	"strings"

	"github.com/fdaforno/litellmctl/internal/reconcile"
)

// Manifest is the desired state of a set of LiteLLM resources.
type Manifest struct {
	Teams       []reconcile.TeamSpec     `json:"teams,omitempty" yaml:"teams,omitempty" toml:"teams,omitempty"`
	VirtualKeys []reconcile.KeySpec      `json:"virtual_keys,omitempty" yaml:"virtual_keys,omitempty" toml:"virtual_keys,omitempty"`
	Models      []reconcile.ModelSpec    `json:"models,omitempty" yaml:"models,omitempty" toml:"models,omitempty"`
	Endpoints   []reconcile.EndpointSpec `json:"endpoints,omitempty" yaml:"endpoints,omitempty" toml:"endpoints,omitempty"`
}

// Merge appends the resources of other to m.
func (m *Manifest) Merge(other *Manifest) {
	if other == nil {
		return
	}
	m.Teams = append(m.Teams, other.Teams...)
	m.VirtualKeys = append(m.VirtualKeys, other.VirtualKeys...)
	m.Models = append(m.Models, other.Models...)
	m.Endpoints = append(m.Endpoints, other.Endpoints...)
}

// Count returns the number of resources in m.
func (m *Manifest) Count() int {
	return len(m.Teams) + len(m.VirtualKeys) + len(m.Models) + len(m.Endpoints)
}

// Specs returns the resources of one kind in manifest order.
func (m *Manifest) Specs(kind reconcile.Kind) []reconcile.Spec {
	var specs []reconcile.Spec
	switch kind {
	case reconcile.KindTeam:
		for _, s := range m.Teams {
			specs = append(specs, s)
		}
	case reconcile.KindVirtualKey:
		for _, s := range m.VirtualKeys {
			specs = append(specs, s)
		}
	case reconcile.KindModel:
		for _, s := range m.Models {
			specs = append(specs, s)
		}
	case reconcile.KindEndpoint:
		for _, s := range m.Endpoints {
			specs = append(specs, s)
		}
	}
	return specs
}

// Validate checks every resource and reports all problems at once. Two
// resources of the same kind may not share a name.
func (m *Manifest) Validate() error {
	var errs []string

	for _, kind := range reconcile.Kinds {
		seen := make(map[string]int)
		for i, spec := range m.Specs(kind) {
			if err := spec.Validate(); err != nil {
				errs = append(errs, fmt.Sprintf("%s[%d]: %v", section(kind), i, err))
			}
			name := spec.DisplayName()
			if name == "" {
				continue
			}
			if first, dup := seen[name]; dup {
				errs = append(errs, fmt.Sprintf("%s[%d]: duplicate name %q (first defined at %s[%d])", section(kind), i, name, section(kind), first))
				continue
			}
			seen[name] = i
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// section returns the document key holding resources of kind.
func section(kind reconcile.Kind) string {
	switch kind {
	case reconcile.KindTeam:
		return "teams"
	case reconcile.KindVirtualKey:
		return "virtual_keys"
	case reconcile.KindModel:
		return "models"
	case reconcile.KindEndpoint:
		return "endpoints"
	default:
		return string(kind)
	}
}
