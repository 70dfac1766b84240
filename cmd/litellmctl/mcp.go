// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/fdaforno/litellmctl/internal/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server commands",
		Long:  "Commands for running litellmctl as an MCP server, exposing plan, apply, list and reconcile tools to AI agents.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Start an MCP server on stdin/stdout, exposing litellmctl's tools:
  - plan:            Preview the changes a manifest would make
  - apply:           Apply a manifest
  - list_resources:  List teams, virtual keys, models or endpoints
  - reconcile_*:     Ensure a single team, key, model or endpoint

The server talks to the proxy configured by flags, environment and config
file, like every other command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			return mcpserver.Run(cmd.Context(), Version, c, &mcp.StdioTransport{})
		},
	})
	return cmd
}
