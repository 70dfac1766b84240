// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fdaforno/litellmctl/internal/config"
	"github.com/fdaforno/litellmctl/internal/litellm"
	"github.com/fdaforno/litellmctl/internal/output"
)

// loadConfig layers defaults, config file, environment and the flags of cmd.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags(), a.configFile)
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	if err := config.Validate(cfg); err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	a.cfg = cfg
	return nil
}

// client returns a LiteLLM client for the loaded configuration.
func (a *app) client() (*litellm.Client, error) {
	if err := config.RequireConnection(a.cfg); err != nil {
		return nil, exitError(ExitInvalidArgs, "%v", err)
	}
	c, err := a.newClient(a.cfg.ClientConfig())
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "creating LiteLLM client: %v", err)
	}
	slog.Debug("connected", "api_url", c.BaseURL())
	return c, nil
}

// render writes v to the command's stdout in the configured output format.
func (a *app) render(cmd *cobra.Command, v any) error {
	name := "text"
	if a.cfg != nil && a.cfg.Output != "" {
		name = a.cfg.Output
	}
	f, err := output.GetFormatter(name)
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	if err := f.Format(v, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
