// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fdaforno/litellmctl/internal/litellm"
	"github.com/fdaforno/litellmctl/internal/output"
	"github.com/fdaforno/litellmctl/internal/pipeline"
	"github.com/fdaforno/litellmctl/internal/reconcile"
)

// API is the LiteLLM client surface the tools need.
type API interface {
	reconcile.API
	ListTeams(ctx context.Context) ([]litellm.Team, error)
	ListKeys(ctx context.Context) ([]litellm.VirtualKey, error)
	ListModels(ctx context.Context) ([]litellm.Model, error)
	ListEndpoints(ctx context.Context) ([]litellm.Endpoint, error)
}

var _ API = (*litellm.Client)(nil)

// PlanInput is the input schema for the plan and apply tools.
type PlanInput struct {
	ManifestSource
	Parallelism int `json:"parallelism,omitempty" jsonschema:"Concurrent reconciliations per resource kind (default 4)"`
}

// ListInput is the input schema for the list_resources tool.
type ListInput struct {
	Kind string `json:"kind" jsonschema:"Resource kind: team, virtual_key, model or endpoint"`
}

// ReconcileInput is the input schema for the per-resource reconcile tools.
type ReconcileInput[S any] struct {
	Resource  S    `json:"resource" jsonschema:"Desired state of the resource"`
	CheckMode bool `json:"check_mode,omitempty" jsonschema:"Report what would change without writing"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// tools binds tool handlers to one API client.
type tools struct {
	api API
}

// registerTools adds all litellmctl tools to the MCP server.
func registerTools(server *mcp.Server, api API) {
	h := &tools{api: api}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan",
		Description: "Compute the changes needed to bring the LiteLLM proxy in line with a manifest of teams, virtual keys, models and endpoints. Never writes.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, h.handlePlan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply",
		Description: "Apply a manifest to the LiteLLM proxy: create, update or delete resources until they match. Returns the per-resource report.",
		Annotations: &mcp.ToolAnnotations{
			DestructiveHint: boolPtr(true),
			IdempotentHint:  true,
			OpenWorldHint:   boolPtr(true),
		},
	}, h.handleApply)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_resources",
		Description: "List teams, virtual keys, models or endpoints currently defined on the LiteLLM proxy. Key secrets and provider credentials are masked.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, h.handleList)

	addReconcileTool[reconcile.TeamSpec](server, h, reconcile.KindTeam, "a team (budget, allowed models, metadata)")
	addReconcileTool[reconcile.KeySpec](server, h, reconcile.KindVirtualKey, "a virtual key (alias, team, limits, expiry)")
	addReconcileTool[reconcile.ModelSpec](server, h, reconcile.KindModel, "a model deployment (litellm_params, model_info)")
	addReconcileTool[reconcile.EndpointSpec](server, h, reconcile.KindEndpoint, "an endpoint (api_base, provider, credentials)")
}

func addReconcileTool[S reconcile.Spec](server *mcp.Server, h *tools, kind reconcile.Kind, what string) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reconcile_" + string(kind),
		Description: fmt.Sprintf("Ensure %s is present or absent on the LiteLLM proxy. Idempotent; set check_mode to preview.", what),
		Annotations: &mcp.ToolAnnotations{
			DestructiveHint: boolPtr(true),
			IdempotentHint:  true,
			OpenWorldHint:   boolPtr(true),
		},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ReconcileInput[S]) (*mcp.CallToolResult, any, error) {
		res, err := reconcile.Reconcile(ctx, h.api, input.Resource, reconcile.Options{CheckMode: input.CheckMode})
		if err != nil {
			return nil, nil, err
		}
		return textResult(res)
	})
}

func (h *tools) handlePlan(ctx context.Context, req *mcp.CallToolRequest, input PlanInput) (*mcp.CallToolResult, any, error) {
	return h.run(ctx, input, true)
}

func (h *tools) handleApply(ctx context.Context, req *mcp.CallToolRequest, input PlanInput) (*mcp.CallToolResult, any, error) {
	return h.run(ctx, input, false)
}

func (h *tools) run(ctx context.Context, input PlanInput, check bool) (*mcp.CallToolResult, any, error) {
	m, err := input.Resolve()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	if input.Parallelism < 0 {
		return nil, nil, fmt.Errorf("parallelism must be non-negative, got %d", input.Parallelism)
	}

	p := pipeline.New(h.api, pipeline.Options{CheckMode: check, Parallelism: input.Parallelism})
	report, err := p.Run(ctx, m)
	if err != nil {
		return nil, nil, err
	}

	result, _, err := textResult(report)
	if err != nil {
		return nil, nil, err
	}
	// Partial failures are reported in the payload and flagged as a tool error.
	result.IsError = report.Summary().Failed > 0
	return result, nil, nil
}

func (h *tools) handleList(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, any, error) {
	var (
		items any
		err   error
	)
	switch reconcile.Kind(strings.ToLower(strings.TrimSpace(input.Kind))) {
	case reconcile.KindTeam:
		items, err = h.api.ListTeams(ctx)
	case reconcile.KindVirtualKey:
		var keys []litellm.VirtualKey
		keys, err = h.api.ListKeys(ctx)
		for i := range keys {
			keys[i].Key = ""
		}
		items = keys
	case reconcile.KindModel:
		var models []litellm.Model
		models, err = h.api.ListModels(ctx)
		for i := range models {
			models[i].LiteLLMParams = litellm.SanitizeParams(models[i].LiteLLMParams)
		}
		items = models
	case reconcile.KindEndpoint:
		items, err = h.api.ListEndpoints(ctx)
	default:
		return nil, nil, fmt.Errorf("unsupported kind %q (supported: team, virtual_key, model, endpoint)", input.Kind)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("listing %ss: %w", input.Kind, err)
	}
	return textResult(items)
}

// textResult renders v as JSON text content.
func textResult(v any) (*mcp.CallToolResult, any, error) {
	formatter, err := output.GetFormatter("json")
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := formatter.Format(v, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: buf.String()},
		},
	}, nil, nil
}
