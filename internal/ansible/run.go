// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package ansible

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/fdaforno/litellmctl/internal/litellm"
	"github.com/fdaforno/litellmctl/internal/reconcile"
	"github.com/fdaforno/litellmctl/internal/redact"
)

// connectionParams are not part of the resource and never appear in diffs.
var connectionParams = map[string]bool{
	"api_url":        true,
	"api_key":        true,
	"state":          true,
	"validate_certs": true,
}

// NewClient builds the API client for a module run. Tests replace it.
var NewClient = func(cfg litellm.Config) (reconcile.API, error) {
	return litellm.New(cfg)
}

// Run executes the named module with the args file at argsPath and writes
// exactly one JSON result to stdout. It returns the process exit code.
func Run(ctx context.Context, name, argsPath string, stdout io.Writer) int {
	result := Execute(ctx, name, argsPath)
	enc := json.NewEncoder(stdout)
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stdout, `{"failed": true, "msg": %q}`+"\n", "encoding module result: "+err.Error())
		return 1
	}
	if failed, _ := result["failed"].(bool); failed {
		return 1
	}
	return 0
}

// Execute runs a module and returns its result object.
func Execute(ctx context.Context, name, argsPath string) map[string]any {
	mod, err := Lookup(name)
	if err != nil {
		return failure(err, nil)
	}
	inv, err := ReadArgs(argsPath)
	if err != nil {
		return failure(err, nil)
	}
	return mod.Execute(ctx, inv)
}

// Execute runs the module against an already parsed invocation.
func (m Module) Execute(ctx context.Context, inv *Invocation) map[string]any {
	params, err := m.Spec.Validate(m.Name, inv.Params)
	if err != nil {
		return failure(err, nil)
	}
	for _, s := range m.Spec.Secrets(params) {
		redact.Register(s)
	}
	invocation := map[string]any{"module_args": m.Spec.Sanitized(params)}

	cfg := litellm.DefaultConfig(params.String("api_url"), params.String("api_key"))
	cfg.InsecureSkipVerify = !params.Bool("validate_certs")
	api, err := NewClient(cfg)
	if err != nil {
		return failure(err, invocation)
	}

	spec := m.Build(params)
	res, err := reconcile.Reconcile(ctx, api, spec, reconcile.Options{CheckMode: inv.CheckMode})
	if err != nil {
		slog.Debug("module failed", "module", m.Name, "error", err)
		return failure(err, invocation)
	}

	out := map[string]any{
		"changed":    res.Changed,
		"message":    res.Message,
		m.ResultKey:  objectOrEmpty(res.Object),
		"invocation": invocation,
	}
	if inv.Diff {
		out["diff"] = diffOf(res, m.desired(params))
	}
	return out
}

// desired returns the resource fields the user set, with secrets masked.
func (m Module) desired(params Params) map[string]any {
	out := make(map[string]any)
	for k, v := range m.Spec.Sanitized(params) {
		if connectionParams[k] || isEmpty(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func diffOf(res *reconcile.Result, desired map[string]any) map[string]any {
	before := map[string]any{}
	after := map[string]any{}
	switch res.Action {
	case reconcile.ActionCreate:
		after = desired
	case reconcile.ActionDelete:
		before = toMap(res.Object)
	case reconcile.ActionUpdate:
		for _, c := range res.Changes {
			before[c.Field] = c.Before
			after[c.Field] = c.After
		}
	}
	return map[string]any{"before": before, "after": after}
}

func objectOrEmpty(obj any) any {
	if m := toMap(obj); len(m) > 0 {
		return m
	}
	return map[string]any{}
}

// toMap flattens a record to a JSON object, or nil.
func toMap(obj any) map[string]any {
	if obj == nil {
		return nil
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

func failure(err error, invocation map[string]any) map[string]any {
	out := map[string]any{
		"failed":  true,
		"changed": false,
		"msg":     redact.Error(err),
	}
	if invocation != nil {
		out["invocation"] = invocation
	}
	return out
}
