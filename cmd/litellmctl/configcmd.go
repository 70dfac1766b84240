// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/fdaforno/litellmctl/internal/config"
	"github.com/fdaforno/litellmctl/internal/state"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect litellmctl configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.render(cmd, settings(a.cfg.Redacted()))
		},
	})
	return cmd
}

// settings flattens cfg into the keys a config file uses.
func settings(cfg config.Config) map[string]any {
	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir = state.DefaultDir()
	}
	out := map[string]any{
		"api_url":    cfg.APIURL,
		"api_key":    cfg.APIKey,
		"insecure":   cfg.Insecure,
		"timeout":    cfg.Timeout.String(),
		"retries":    cfg.Retries,
		"rate_limit": cfg.RateLimit,
		"output":     cfg.Output,
		"log_format": cfg.LogFormat,
		"parallel":   cfg.Parallel,
		"state_dir":  stateDir,
	}
	if cfg.APIKeyFile != "" {
		out["api_key_file"] = cfg.APIKeyFile
	}
	if cfg.File != "" {
		out["config_file"] = cfg.File
	}
	return out
}
