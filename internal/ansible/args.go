// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Package ansible implements the module side of Ansible's binary-module
// contract for the litellm_team, litellm_virtual_key, litellm_model and
// litellm_endpoint modules: read a JSON args file, reconcile, and print a
// single JSON result on stdout.
package ansible

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fdaforno/litellmctl/internal/testable"
)

// FS is the file system used to read args files.
var FS testable.FileSystem = testable.DefaultFS

// Invocation is a parsed args file. Internal _ansible_* keys are lifted out
// of Params.
type Invocation struct {
	Params    map[string]any
	CheckMode bool
	Diff      bool
	NoLog     bool
	Verbosity int
}

// ReadArgs reads and parses the args file Ansible passes to binary modules.
func ReadArgs(path string) (*Invocation, error) {
	data, err := FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module args: %w", err)
	}
	return ParseArgs(data)
}

// ParseArgs parses module arguments. Both the bare parameter object and the
// {"ANSIBLE_MODULE_ARGS": {...}} envelope are accepted.
func ParseArgs(data []byte) (*Invocation, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("module args must be a JSON object: %w", err)
	}
	if inner, ok := raw["ANSIBLE_MODULE_ARGS"].(map[string]any); ok {
		raw = inner
	}

	inv := &Invocation{Params: make(map[string]any, len(raw))}
	for k, v := range raw {
		if !strings.HasPrefix(k, "_ansible_") {
			inv.Params[k] = v
			continue
		}
		switch k {
		case "_ansible_check_mode":
			inv.CheckMode = truthy(v)
		case "_ansible_diff":
			inv.Diff = truthy(v)
		case "_ansible_no_log":
			inv.NoLog = truthy(v)
		case "_ansible_verbosity":
			if n, err := toInt(v); err == nil {
				inv.Verbosity = int(n)
			}
		}
	}
	return inv, nil
}

func truthy(v any) bool {
	b, err := toBool(v)
	return err == nil && b
}
