// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/fdaforno/litellmctl/internal/litellm"
	"github.com/fdaforno/litellmctl/internal/reconcile"
)

// resource describes one resource kind's subcommands.
type resource struct {
	kind    reconcile.Kind
	use     string
	aliases []string

	// flags registers the kind's fields on fs and returns a function that
	// builds the spec once flags are parsed.
	flags func(fs *pflag.FlagSet) func() (reconcile.Spec, error)

	list func(ctx context.Context, c *litellm.Client) (any, error)
}

var teamResource = resource{
	kind:    reconcile.KindTeam,
	use:     "team",
	aliases: []string{"teams"},
	flags: func(fs *pflag.FlagSet) func() (reconcile.Spec, error) {
		var s reconcile.TeamSpec
		var metadata []string
		fs.StringVar(&s.Name, "name", "", "team alias")
		fs.StringVar(&s.TeamID, "team-id", "", "team ID (required for state=absent)")
		fs.StringSliceVar(&s.Models, "models", nil, "allowed models")
		budget := fs.Float64("max-budget", 0, "maximum spend in USD")
		fs.StringArrayVar(&metadata, "metadata", nil, "metadata entry key=value (repeatable)")
		return func() (reconcile.Spec, error) {
			var err error
			if s.Metadata, err = parseKV(metadata); err != nil {
				return nil, err
			}
			s.MaxBudget = changedPtr(fs, "max-budget", budget)
			return s, nil
		}
	},
	list: func(ctx context.Context, c *litellm.Client) (any, error) { return c.ListTeams(ctx) },
}

var keyResource = resource{
	kind:    reconcile.KindVirtualKey,
	use:     "key",
	aliases: []string{"keys", "virtual-key"},
	flags: func(fs *pflag.FlagSet) func() (reconcile.Spec, error) {
		var s reconcile.KeySpec
		var metadata []string
		fs.StringVar(&s.KeyAlias, "alias", "", "key alias")
		fs.StringVar(&s.KeyID, "key-id", "", "key or token (required for state=absent without alias)")
		fs.StringVar(&s.TeamID, "team-id", "", "owning team ID")
		fs.StringVar(&s.Team, "team", "", "owning team alias, resolved to its ID")
		fs.StringSliceVar(&s.Models, "models", nil, "allowed models")
		fs.StringVar(&s.BudgetDuration, "budget-duration", "", "budget reset period, e.g. 30d")
		fs.StringVar(&s.Expires, "expires", "", "expiry timestamp")
		fs.StringArrayVar(&metadata, "metadata", nil, "metadata entry key=value (repeatable)")
		budget := fs.Float64("max-budget", 0, "maximum spend in USD")
		parallel := fs.Int("max-parallel-requests", 0, "maximum concurrent requests")
		tpm := fs.Int64("tpm-limit", 0, "tokens per minute")
		rpm := fs.Int64("rpm-limit", 0, "requests per minute")
		return func() (reconcile.Spec, error) {
			var err error
			if s.Metadata, err = parseKV(metadata); err != nil {
				return nil, err
			}
			s.MaxBudget = changedPtr(fs, "max-budget", budget)
			s.MaxParallelRequests = changedPtr(fs, "max-parallel-requests", parallel)
			s.TPMLimit = changedPtr(fs, "tpm-limit", tpm)
			s.RPMLimit = changedPtr(fs, "rpm-limit", rpm)
			return s, nil
		}
	},
	list: func(ctx context.Context, c *litellm.Client) (any, error) {
		keys, err := c.ListKeys(ctx)
		for i := range keys {
			keys[i].Key = ""
		}
		return keys, err
	},
}

var modelResource = resource{
	kind:    reconcile.KindModel,
	use:     "model",
	aliases: []string{"models"},
	flags: func(fs *pflag.FlagSet) func() (reconcile.Spec, error) {
		var s reconcile.ModelSpec
		var params, info []string
		fs.StringVar(&s.ModelName, "name", "", "public model name")
		fs.StringArrayVar(&params, "param", nil, "litellm_params entry key=value (repeatable)")
		fs.StringArrayVar(&info, "info", nil, "model_info entry key=value (repeatable)")
		return func() (reconcile.Spec, error) {
			var err error
			if s.LiteLLMParams, err = parseKV(params); err != nil {
				return nil, err
			}
			if s.ModelInfo, err = parseKV(info); err != nil {
				return nil, err
			}
			return s, nil
		}
	},
	list: func(ctx context.Context, c *litellm.Client) (any, error) {
		models, err := c.ListModels(ctx)
		for i := range models {
			models[i].LiteLLMParams = litellm.SanitizeParams(models[i].LiteLLMParams)
		}
		return models, err
	},
}

var endpointResource = resource{
	kind:    reconcile.KindEndpoint,
	use:     "endpoint",
	aliases: []string{"endpoints"},
	flags: func(fs *pflag.FlagSet) func() (reconcile.Spec, error) {
		var s reconcile.EndpointSpec
		var metadata []string
		fs.StringVar(&s.EndpointName, "name", "", "endpoint name")
		fs.StringVar(&s.APIBase, "api-base", "", "provider base URL")
		fs.StringVar(&s.Provider, "provider", "", "provider, e.g. azure or openai")
		fs.StringVar(&s.APIKey, "endpoint-api-key", "", "provider credential")
		fs.StringVar(&s.APIVersion, "api-version", "", "provider API version")
		fs.StringArrayVar(&metadata, "metadata", nil, "metadata entry key=value (repeatable)")
		return func() (reconcile.Spec, error) {
			var err error
			s.Metadata, err = parseKV(metadata)
			return s, err
		}
	},
	list: func(ctx context.Context, c *litellm.Client) (any, error) { return c.ListEndpoints(ctx) },
}

// newResourceCmd builds "<kind> apply" and "<kind> list".
func newResourceCmd(a *app, r resource) *cobra.Command {
	label := strings.ToLower(r.kind.Label())
	cmd := &cobra.Command{
		Use:     r.use,
		Aliases: r.aliases,
		Short:   fmt.Sprintf("Manage %ss", label),
	}

	var stateFlag string
	var check bool
	apply := &cobra.Command{
		Use:   "apply",
		Short: fmt.Sprintf("Ensure a %s is present or absent", label),
		Args:  cobra.NoArgs,
	}
	build := r.flags(apply.Flags())
	apply.Flags().StringVar(&stateFlag, "state", string(reconcile.StatePresent), "present or absent")
	apply.Flags().BoolVar(&check, "check", false, "report the change without writing")
	apply.RunE = func(cmd *cobra.Command, _ []string) error {
		st, err := reconcile.ParseState(stateFlag)
		if err != nil {
			return exitError(ExitInvalidArgs, "%v", err)
		}
		spec, err := build()
		if err != nil {
			return exitError(ExitInvalidArgs, "%v", err)
		}
		spec = withState(spec, st)
		if err := spec.Validate(); err != nil {
			return exitError(ExitInvalidArgs, "%v", err)
		}

		c, err := a.client()
		if err != nil {
			return err
		}
		res, err := reconcile.Reconcile(cmd.Context(), c, spec, reconcile.Options{CheckMode: check})
		if err != nil {
			if errors.Is(err, reconcile.ErrInvalidSpec) {
				return exitError(ExitInvalidArgs, "%v", err)
			}
			return exitError(ExitTotalFailure, "%v", err)
		}
		return a.render(cmd, res)
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %ss on the proxy", label),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			items, err := r.list(cmd.Context(), c)
			if err != nil {
				return exitError(ExitTotalFailure, "listing %ss: %v", label, err)
			}
			return a.render(cmd, items)
		},
	}

	cmd.AddCommand(apply, list)
	return cmd
}

// withState sets the desired state on a spec built from flags.
func withState(spec reconcile.Spec, st reconcile.State) reconcile.Spec {
	switch s := spec.(type) {
	case reconcile.TeamSpec:
		s.State = st
		return s
	case reconcile.KeySpec:
		s.State = st
		return s
	case reconcile.ModelSpec:
		s.State = st
		return s
	case reconcile.EndpointSpec:
		s.State = st
		return s
	}
	return spec
}

// changedPtr returns v only when the named flag was set.
func changedPtr[T any](fs *pflag.FlagSet, name string, v *T) *T {
	if !fs.Changed(name) {
		return nil
	}
	return v
}

// parseKV turns key=value pairs into a map. Values are decoded as YAML
// scalars or flow collections, so rpm=100 is a number and tags=[a,b] a list.
func parseKV(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", p)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if v == nil {
			v = raw
		}
		out[key] = v
	}
	return out, nil
}
