package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/catalog"
	devicesconfig "github.com/pithecene-io/braket-devices/cli/config"
	"github.com/pithecene-io/braket-devices/client"
	"github.com/pithecene-io/braket-devices/log"
	"github.com/pithecene-io/braket-devices/metrics"
)

// Exit codes.
const (
	exitSuccess     = 0
	exitError       = 1 // device not found, invalid input, local failures
	exitConfigError = 2 // invalid flags or config file
	exitUpstream    = 3 // AWS or server unreachable, credentials, permissions
)

// exitCodeFor maps an error to an exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitSuccess
	}
	switch braket.KindOf(err) {
	case braket.KindAuth, braket.KindPermission, braket.KindNetwork:
		return exitUpstream
	case braket.KindServer:
		var be *braket.Error
		var ae *client.APIError
		if errors.As(err, &be) || errors.As(err, &ae) {
			return exitUpstream
		}
	}
	return exitError
}

// exit wraps err in a cli.Exit carrying its exit code.
func exit(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(err.Error(), exitCodeFor(err))
}

// loadConfig loads the --config file. Returns nil when no file is given.
func loadConfig(c *cli.Context) (*devicesconfig.Config, error) {
	path := c.String("config")
	if path == "" {
		return nil, nil
	}
	cfg, err := devicesconfig.Load(path)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitConfigError)
	}
	return cfg, nil
}

// configVal reads a field from cfg, or the zero value when cfg is nil.
func configVal[T any](cfg *devicesconfig.Config, get func(*devicesconfig.Config) T) T {
	if cfg == nil {
		var zero T
		return zero
	}
	return get(cfg)
}

// resolveString applies precedence: CLI flag, then config, then the flag
// default.
func resolveString(c *cli.Context, name, cfgVal string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	if cfgVal != "" {
		return cfgVal
	}
	return c.String(name)
}

// resolveStringSlice applies precedence for repeatable flags.
func resolveStringSlice(c *cli.Context, name string, cfgVal []string) []string {
	if c.IsSet(name) {
		return c.StringSlice(name)
	}
	if len(cfgVal) > 0 {
		return cfgVal
	}
	return c.StringSlice(name)
}

// resolveInt applies precedence for int flags. A zero config value falls
// back to the flag default.
func resolveInt(c *cli.Context, name string, cfgVal int) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	if cfgVal != 0 {
		return cfgVal
	}
	return c.Int(name)
}

// resolveBool applies precedence for bool flags. Only a true config value
// overrides the flag default.
func resolveBool(c *cli.Context, name string, cfgVal bool) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	if cfgVal {
		return true
	}
	return c.Bool(name)
}

// resolveDuration applies precedence for duration flags.
func resolveDuration(c *cli.Context, name string, cfgVal time.Duration) time.Duration {
	if c.IsSet(name) {
		return c.Duration(name)
	}
	if cfgVal != 0 {
		return cfgVal
	}
	return c.Duration(name)
}

// newLogger builds the command logger from --log-level and the config,
// falling back to level.
func newLogger(c *cli.Context, cfg *devicesconfig.Config, component, level string) (*log.Logger, error) {
	if l := resolveString(c, "log-level", configVal(cfg, func(c *devicesconfig.Config) string { return c.Log.Level })); l != "" {
		level = l
	}
	logger, err := log.NewLogger(log.Options{Component: component, Level: level})
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("invalid --log-level: %v", err), exitConfigError)
	}
	return logger, nil
}

// loadCatalog loads --catalog, or the built-in seed.
func loadCatalog(c *cli.Context, cfg *devicesconfig.Config) (*catalog.Catalog, error) {
	path := resolveString(c, "catalog", configVal(cfg, func(c *devicesconfig.Config) string { return c.Catalog }))
	cat, err := catalog.LoadOrSeed(path)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("failed to load catalog: %v", err), exitConfigError)
	}
	return cat, nil
}

// buildRegistry returns the device source: an API client when --server is
// set, otherwise the AWS Braket client.
func buildRegistry(ctx context.Context, c *cli.Context, cfg *devicesconfig.Config, logger *log.Logger, m *metrics.Collector) (braket.Registry, error) {
	server := resolveString(c, "server", configVal(cfg, func(c *devicesconfig.Config) string { return c.ServerURL }))
	if server != "" {
		cl, err := client.New(server)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("invalid --server: %v", err), exitConfigError)
		}
		return cl, nil
	}

	bc := braket.Config{
		Regions:  resolveStringSlice(c, "region", configVal(cfg, func(c *devicesconfig.Config) []string { return c.Regions })),
		Profile:  resolveString(c, "profile", configVal(cfg, func(c *devicesconfig.Config) string { return c.Profile })),
		Endpoint: resolveString(c, "endpoint", configVal(cfg, func(c *devicesconfig.Config) string { return c.Endpoint })),
	}
	registry, err := braket.NewFromConfig(ctx, bc, braket.WithLogger(logger), braket.WithMetrics(m))
	if err != nil {
		return nil, exit(err)
	}
	return registry, nil
}

// regionsLabel is the metrics dimension for the configured regions.
func regionsLabel(c *cli.Context, cfg *devicesconfig.Config) string {
	regions := resolveStringSlice(c, "region", configVal(cfg, func(c *devicesconfig.Config) []string { return c.Regions }))
	if len(regions) == 0 {
		return "default"
	}
	return strings.Join(regions, ",")
}

// signalContext derives a context cancelled on SIGINT or SIGTERM.
func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// printWarnings writes listing warnings to stderr.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}
