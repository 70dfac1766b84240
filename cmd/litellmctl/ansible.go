// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fdaforno/litellmctl/internal/ansible"
)

func newAnsibleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ansible MODULE ARGS_FILE",
		Short: "Run as an Ansible module",
		Long: fmt.Sprintf(`Execute an Ansible module with the JSON arguments file Ansible passes to
binary modules, and print the module result as JSON. Connection settings
come from the module arguments, not from litellmctl configuration.

Installing the binary as plugins/modules/<module> in a collection has the
same effect. Modules: %s.`, strings.Join(ansible.Names(), ", ")),
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := ansible.Run(cmd.Context(), args[0], args[1], cmd.OutOrStdout()); code != 0 {
				// The failure is already in the JSON result.
				return &exitCodeError{code: code}
			}
			return nil
		},
	}
}
