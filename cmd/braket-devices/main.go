// Package main provides the braket-devices CLI entrypoint.
//
// Usage:
//
//	braket-devices <command> [options]
//
// Exit codes:
//   - 0: success
//   - 1: device not found, invalid request, or local failure
//   - 2: invalid flags or configuration
//   - 3: upstream failure (credentials, permissions, network, service)
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/braket-devices/cli/cmd"
	"github.com/pithecene-io/braket-devices/types"
)

// Commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:           "braket-devices",
		Usage:          "Browse Amazon Braket quantum devices and their live status",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.ListCommand(),
			cmd.InspectCommand(),
			cmd.ExportCommand(),
			cmd.WatchCommand(),
			cmd.ServeCommand(),
			cmd.VersionCommand(commit),
		},
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes from cli.Exit().
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N"; skip those
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
