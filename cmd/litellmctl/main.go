// Copyright 2026 The Litellmctl Authors
// SPDX-License-Identifier: MIT

// Command litellmctl reconciles teams, virtual keys, models and endpoints on
// a LiteLLM proxy. Installed under a module name such as litellm_team it
// behaves as an Ansible binary module instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fdaforno/litellmctl/internal/ansible"
	litellmlog "github.com/fdaforno/litellmctl/internal/log"
	"github.com/fdaforno/litellmctl/internal/redact"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if name, ok := moduleName(os.Args[0]); ok {
		_ = litellmlog.Setup(litellmlog.Options{Quiet: true})
		var argsPath string
		if len(os.Args) > 1 {
			argsPath = os.Args[1]
		}
		code := ansible.Run(ctx, name, argsPath, os.Stdout)
		stop()
		os.Exit(code)
	}

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

// run executes the CLI and maps its error to an exit code. Errors are
// printed to stderr with secrets redacted.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	var ece *exitCodeError
	if errors.As(err, &ece) {
		if ece.msg != "" {
			fmt.Fprintln(stderr, redact.String(ece.msg))
		}
		return ece.code
	}
	fmt.Fprintln(stderr, redact.String(err.Error()))
	return ExitInvalidArgs
}

// moduleName reports whether the binary was invoked as an Ansible module,
// e.g. through a litellm_team symlink in a collection's plugins/modules.
func moduleName(argv0 string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(argv0), filepath.Ext(argv0))
	if !strings.HasPrefix(base, "litellm_") {
		return "", false
	}
	if _, err := ansible.Lookup(base); err != nil {
		return "", false
	}
	return base, true
}
