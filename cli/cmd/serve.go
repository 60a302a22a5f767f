package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/braket-devices/api"
	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/cache"
	devicesconfig "github.com/pithecene-io/braket-devices/cli/config"
	"github.com/pithecene-io/braket-devices/metrics"
)

// ServeCommand returns the serve command.
// Serve runs the HTTP API in front of AWS Braket.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the device HTTP API",
		Flags: withFlags([]cli.Flag{ConfigFlag}, SourceFlags(), []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address",
				Value:   ":8080",
				EnvVars: []string{"BRAKET_DEVICES_ADDR"},
			},
			&cli.StringFlag{
				Name:  "base-path",
				Usage: "Path prefix for the device routes (e.g. /api)",
			},
			&cli.StringSliceFlag{
				Name:  "cors-origin",
				Usage: "Allowed CORS origin (repeatable; default *)",
			},
			&cli.DurationFlag{
				Name:  "cache-ttl",
				Usage: "How long static device details are cached",
				Value: cache.DefaultTTL,
			},
		}),
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("server") || configVal(cfg, func(c *devicesconfig.Config) string { return c.ServerURL }) != "" {
		return cli.Exit("--server cannot be used with serve", exitConfigError)
	}
	logger, err := newLogger(c, cfg, "api", "info")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signalContext(c)
	defer cancel()

	m := metrics.NewCollector(regionsLabel(c, cfg), "", "")
	registry, err := buildRegistry(ctx, c, cfg, logger, m)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(c, cfg)
	if err != nil {
		return err
	}

	ttl := resolveDuration(c, "cache-ttl", configVal(cfg, func(c *devicesconfig.Config) devicesconfig.Duration { return c.CacheTTL }).Duration)
	if ttl <= 0 {
		return cli.Exit(fmt.Sprintf("invalid --cache-ttl: %s (must be positive)", ttl), exitConfigError)
	}
	base := resolveString(c, "base-path", configVal(cfg, func(c *devicesconfig.Config) string { return c.Server.BasePath }))
	if base != "" && !strings.HasPrefix(base, "/") {
		return cli.Exit(fmt.Sprintf("invalid --base-path: %q (must start with /)", base), exitConfigError)
	}

	srv := api.NewServer(
		braket.NewCachedRegistry(registry, ttl, m),
		api.WithBasePath(base),
		api.WithCatalog(cat),
		api.WithLogger(logger),
		api.WithMetrics(m),
		api.WithCORS(api.CORSConfig{
			AllowedOrigins: resolveStringSlice(c, "cors-origin", configVal(cfg, func(c *devicesconfig.Config) []string { return c.Server.CORSOrigins })),
		}),
	)

	addr := resolveString(c, "addr", configVal(cfg, func(c *devicesconfig.Config) string { return c.Server.Addr }))
	logger.Info("serving device API", map[string]any{
		"addr":      addr,
		"devices":   srv.DevicesPath(),
		"cache_ttl": ttl.String(),
	})
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return cli.Exit(fmt.Sprintf("server failed: %v", err), exitError)
	}
	return nil
}
