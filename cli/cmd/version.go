package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/braket-devices/cli/render"
	"github.com/pithecene-io/braket-devices/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	CatalogFormat int    `json:"catalog_format"`
}

// VersionCommand returns the version command.
// It must not contact AWS or a server.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  []cli.Flag{FormatFlag, NoColorFlag, TUIFlag},
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return cli.Exit(err.Error(), exitConfigError)
		}

		// TUI not supported for version command
		if c.Bool("tui") {
			return cli.Exit("--tui is not supported for version command", exitConfigError)
		}

		return r.Render(VersionResponse{
			Version:       types.Version,
			Commit:        commit,
			CatalogFormat: types.CatalogFormatVersion,
		})
	}
}
