// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fdaforno/litellmctl/internal/manifest"
	"github.com/fdaforno/litellmctl/internal/metrics"
	"github.com/fdaforno/litellmctl/internal/pipeline"
	"github.com/fdaforno/litellmctl/internal/state"
)

// applyFlags holds the flags shared by apply and plan.
type applyFlags struct {
	files       []string
	check       bool
	metricsFile string
	noHistory   bool
}

// newApplyCmd builds "apply", or "plan" when plan is true. plan is apply in
// check mode.
func newApplyCmd(a *app, plan bool) *cobra.Command {
	var f applyFlags
	cmd := &cobra.Command{
		Use:   "apply -f PATH...",
		Short: "Reconcile the proxy against manifest files",
		Long: `Load every manifest (YAML or TOML files, or directories of them), then
reconcile present resources in the order team, virtual_key, model, endpoint
and absent resources in the reverse order. A failing resource does not stop
the run.

Exit codes: 0 all converged, 1 invalid manifest or configuration,
2 some resources failed, 3 all resources failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if plan {
				f.check = true
			}
			return a.runApply(cmd, f)
		},
	}
	if plan {
		cmd.Use = "plan -f PATH..."
		cmd.Short = "Show what apply would change without writing"
		cmd.Long = "Plan is apply in check mode: every read is issued, no write is."
	}

	fl := cmd.Flags()
	fl.StringArrayVarP(&f.files, "file", "f", nil, "manifest file or directory (repeatable)")
	fl.Int("parallel", pipeline.DefaultParallelism, "concurrent reconciliations per resource kind")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	fl.BoolVar(&f.noHistory, "no-history", false, "do not record the run in the apply history")
	if !plan {
		fl.BoolVar(&f.check, "check", false, "report changes without writing (same as plan)")
	}
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) runApply(cmd *cobra.Command, f applyFlags) error {
	m, err := manifest.Load(f.files...)
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}
	if err := m.Validate(); err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}

	c, err := a.client()
	if err != nil {
		return err
	}

	p := pipeline.New(c, pipeline.Options{CheckMode: f.check, Parallelism: a.cfg.Parallel})
	report, err := p.Run(cmd.Context(), m)
	if err != nil {
		return exitError(ExitInvalidArgs, "%v", err)
	}

	if err := a.render(cmd, report); err != nil {
		return err
	}

	if !f.noHistory {
		entry := state.BuildHistoryEntry(report, a.cfg.APIURL, f.files)
		if err := state.Record(a.cfg.StateDir, entry); err != nil {
			slog.Warn("failed to record apply history", "error", err)
		}
	}
	if f.metricsFile != "" {
		metrics.MarkRun(report.StartedAt)
		if err := metrics.WriteTextfile(f.metricsFile); err != nil {
			slog.Warn("failed to write metrics", "path", f.metricsFile, "error", err)
		}
	}

	return summaryExit(report.Summary())
}

// summaryExit maps a run summary to the CLI exit code.
func summaryExit(s pipeline.Summary) error {
	switch {
	case s.Failed == 0:
		return nil
	case s.Failed == s.Total:
		return exitError(ExitTotalFailure, "all %d resources failed", s.Total)
	default:
		return exitError(ExitPartialFailure, "%d of %d resources failed", s.Failed, s.Total)
	}
}
