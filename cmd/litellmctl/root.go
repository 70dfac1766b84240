// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fdaforno/litellmctl/internal/config"
	"github.com/fdaforno/litellmctl/internal/litellm"
	litellmlog "github.com/fdaforno/litellmctl/internal/log"
)

// skipConfig marks commands that run without loading the configuration.
const skipConfig = "skip-config"

// app holds global flag values and the state shared by subcommands of one
// invocation.
type app struct {
	verbose    bool
	quiet      bool
	noColor    bool
	configFile string

	cfg *config.Config

	// newClient builds the API client. Tests replace it.
	newClient func(litellm.Config) (*litellm.Client, error)
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	a := &app{newClient: litellm.New}

	root := &cobra.Command{
		Use:   "litellmctl",
		Short: "Declaratively manage a LiteLLM proxy",
		Long: `litellmctl reconciles teams, virtual keys, models and endpoints on a
LiteLLM proxy with its management API. Each resource is declared present or
absent; litellmctl reads the current state, computes the difference and
issues only the writes needed, or reports them in check mode.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				color.NoColor = true
			}
			format, _ := cmd.Flags().GetString("log-format")
			if cmd.Annotations[skipConfig] == "" {
				if err := a.loadConfig(cmd); err != nil {
					return err
				}
				format = a.cfg.LogFormat
			}
			if err := litellmlog.Setup(litellmlog.Options{Verbose: a.verbose, Quiet: a.quiet, Format: format}); err != nil {
				return exitError(ExitInvalidArgs, "%v", err)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-essential output")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	pf.StringVar(&a.configFile, "config", "", "config file (default: litellmctl.yaml in the config search path)")
	pf.String("api-url", "", "LiteLLM proxy URL (env LITELLMCTL_API_URL, LITELLM_API_URL)")
	pf.String("api-key", "", "master key (env LITELLMCTL_API_KEY, LITELLM_MASTER_KEY)")
	pf.String("api-key-file", "", "read the master key from this file")
	pf.Bool("insecure", false, "skip TLS certificate verification")
	pf.Duration("timeout", litellm.DefaultTimeout, "per-request timeout")
	pf.Int("retries", litellm.DefaultMaxRetries, "retries for failed read requests")
	pf.Float64("rate-limit", 0, "maximum requests per second (0 = unlimited)")
	pf.StringP("output", "o", "text", "output format: text, json, yaml")
	pf.String("log-format", litellmlog.FormatText, "log format: text, json")
	pf.String("state-dir", "", "directory for apply history (default $XDG_STATE_HOME/litellmctl)")

	root.AddCommand(
		newApplyCmd(a, false),
		newApplyCmd(a, true),
		newResourceCmd(a, teamResource),
		newResourceCmd(a, keyResource),
		newResourceCmd(a, modelResource),
		newResourceCmd(a, endpointResource),
		newValidateCmd(),
		newHistoryCmd(a),
		newConfigCmd(a),
		newMCPCmd(a),
		newAnsibleCmd(),
		newVersionCmd(),
	)
	return root
}
