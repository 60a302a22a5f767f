// Package cmd provides CLI commands for the braket-devices binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for list and inspect.
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (list, inspect only)",
	}

	// ConfigFlag points at a braket-devices.yaml file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to braket-devices.yaml config file",
		EnvVars: []string{"BRAKET_DEVICES_CONFIG"},
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error messages
// instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
		ConfigFlag,
	}
}

// SourceFlags select where device data comes from: AWS directly, or a
// running braket-devices server when --server is set.
func SourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "region",
			Usage:   "AWS region to search (repeatable; default from the AWS chain)",
			EnvVars: []string{"BRAKET_DEVICES_REGIONS"},
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared config profile",
			EnvVars: []string{"AWS_PROFILE"},
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "Braket endpoint override (for local fakes)",
		},
		&cli.StringFlag{
			Name:    "server",
			Usage:   "Query a running braket-devices server instead of AWS",
			EnvVars: []string{"BRAKET_DEVICES_SERVER"},
		},
		&cli.StringFlag{
			Name:  "catalog",
			Usage: "Catalog file (json, yaml, msgpack) replacing the built-in seed",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
