// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

package main

import "fmt"

// Exit codes for the litellmctl CLI.
const (
	ExitOK             = 0 // Everything converged (or would, in check mode).
	ExitInvalidArgs    = 1 // Invalid arguments, manifest or configuration.
	ExitPartialFailure = 2 // Some resources failed.
	ExitTotalFailure   = 3 // Every resource failed, or nothing could run.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitPartialFailure:
			msg = "litellmctl: some resources failed"
		case ExitTotalFailure:
			msg = "litellmctl: all resources failed"
		default:
			msg = "litellmctl: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
