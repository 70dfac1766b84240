// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fdaforno/litellmctl/internal/manifest"
	"github.com/fdaforno/litellmctl/internal/reconcile"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH...",
		Short: "Check manifests without contacting the proxy",
		Long: `Parse and validate manifest files or directories offline: syntax,
${VAR} expansion, required fields, states and duplicate names per kind.

  litellmctl validate manifests/
  litellmctl validate teams.yaml keys.toml`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args...)
			if err != nil {
				return exitError(ExitInvalidArgs, "%v", err)
			}
			if err := m.Validate(); err != nil {
				return exitError(ExitInvalidArgs, "%v", err)
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "valid: %d resources\n", m.Count())
			for _, k := range reconcile.Kinds {
				if n := len(m.Specs(k)); n > 0 {
					_, _ = fmt.Fprintf(w, "  %-12s %d\n", k, n)
				}
			}
			return nil
		},
	}
}
