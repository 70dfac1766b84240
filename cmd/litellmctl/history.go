// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/fdaforno/litellmctl/internal/state"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent apply runs",
		Long: `Show recent apply and plan runs recorded in the state directory, newest
first, with the drift and failure trend across recent applies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := state.LoadHistory(a.cfg.StateDir)
			if err != nil {
				return exitError(ExitTotalFailure, "%v", err)
			}
			return a.render(cmd, &state.Overview{
				Entries: h.Last(limit),
				Trends:  state.ComputeTrends(h, state.DefaultWindowSize),
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show (0 = all)")
	return cmd
}
