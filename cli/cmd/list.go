package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/braket-devices/catalog"
	"github.com/pithecene-io/braket-devices/cli/render"
	"github.com/pithecene-io/braket-devices/cli/tui"
	"github.com/pithecene-io/braket-devices/types"
)

// ListCommand returns the list command.
// List returns device summaries; --tui opens the interactive browser,
// which shows catalog rows at once and resolves statuses as they arrive.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List devices with their live status",
		Flags: withFlags(ReadOnlyFlags(), SourceFlags(), []cli.Flag{
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Filter by provider name (case-insensitive)",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Filter by device type: qpu, simulator",
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Filter by status: online, offline, unknown",
			},
		}),
		Action: listAction,
	}
}

func listFilter(c *cli.Context) (catalog.Filter, error) {
	f := catalog.Filter{
		Provider: c.String("provider"),
		Type:     c.String("type"),
		Status:   c.String("status"),
	}
	if f.Type != "" {
		if _, err := types.ParseDeviceType(f.Type); err != nil {
			return f, cli.Exit(err.Error(), exitConfigError)
		}
	}
	return f, nil
}

func listAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	filter, err := listFilter(c)
	if err != nil {
		return err
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
	cat, err := loadCatalog(c, cfg)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return r.RenderTUI(ctx, tui.ViewListDevices, tui.BrowserSource{
			Registry: registry,
			Board:    catalog.NewBoard(cat),
			Filter:   filter,
			Logger:   logger,
		})
	}

	list, err := registry.ListDevices(ctx)
	if err != nil {
		return exit(err)
	}
	printWarnings(list.Warnings)

	// Catalog qubit counts fill in devices the listing reports without one.
	board := catalog.NewBoard(cat)
	board.Apply(board.Begin(), list)
	rows := make([]types.DeviceSummary, 0, len(list.Devices))
	for _, d := range list.Devices {
		if e, ok := board.Entry(d.DeviceArn); ok {
			d.QubitCount = e.QubitCount
		}
		rows = append(rows, d)
	}
	return r.Render(render.Devices(filter.Apply(rows)))
}
