package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/cli/render"
	"github.com/pithecene-io/braket-devices/cli/tui"
	"github.com/pithecene-io/braket-devices/properties"
)

// InspectCommand returns the inspect command.
// Inspect returns the normalized view of a single device; --raw returns
// the device record as the registry reported it.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Inspect a single device by ARN",
		ArgsUsage: "<device-arn>",
		Flags: withFlags(ReadOnlyFlags(), SourceFlags(), []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Output the device record with its unparsed properties document",
			},
		}),
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("device-arn required", exitConfigError)
	}
	arn := c.Args().First()
	if err := braket.ValidateARN(arn); err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	if c.Bool("tui") && c.Bool("raw") {
		return cli.Exit("--tui and --raw cannot be combined", exitConfigError)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(c, cfg, "cli", "warn")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signalContext(c)
	defer cancel()

	registry, err := buildRegistry(ctx, c, cfg, logger, nil)
	if err != nil {
		return err
	}

	detail, err := registry.GetDevice(ctx, arn)
	if err != nil {
		return exit(err)
	}
	if c.Bool("raw") {
		return r.Render(detail)
	}

	view := properties.BuildView(detail, logger)
	if c.Bool("tui") {
		return r.RenderTUI(ctx, tui.ViewInspectDevice, view)
	}
	return r.Render(render.DeviceView{View: view})
}
