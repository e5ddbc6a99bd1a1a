// Package main is the entry point for the provisionr CLI.
//
// provisionr prepares a project's development environment in one run: it
// checks the host, installs the package manager when missing, installs the
// base dependencies, runs the project's setup tasks, verifies the runtime
// packages and confirms the auxiliary tool.
//
// Commands: check, init, version, completion.
//
// For detailed usage information, run:
//
//	provisionr --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/provisionr/cmd/provisionr/commands"
	"github.com/imamik/provisionr/cmd/provisionr/handlers"
	"github.com/imamik/provisionr/internal/provisioning"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !handlers.IsReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(provisioning.ExitCode(err))
	}
}
