// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// New creates a new MCP server with litellmctl's tools bound to api.
func New(version string, api API) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "litellmctl",
		Title:   "litellmctl: LiteLLM proxy reconciler",
		Version: version,
	}, nil)

	registerTools(server, api)
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, api API, transport mcp.Transport) error {
	return New(version, api).Run(ctx, transport)
}
