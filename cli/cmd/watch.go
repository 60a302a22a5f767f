package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/braket-devices/adapter"
	"github.com/pithecene-io/braket-devices/adapter/redis"
	"github.com/pithecene-io/braket-devices/adapter/webhook"
	"github.com/pithecene-io/braket-devices/archive"
	"github.com/pithecene-io/braket-devices/catalog"
	devicesconfig "github.com/pithecene-io/braket-devices/cli/config"
	"github.com/pithecene-io/braket-devices/cli/render"
	"github.com/pithecene-io/braket-devices/metrics"
	"github.com/pithecene-io/braket-devices/watch"
)

// WatchCommand returns the watch command.
// Watch polls device statuses, publishes transitions to the configured
// adapter and archives every poll.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Poll device statuses and report transitions",
		Flags: withFlags([]cli.Flag{FormatFlag, NoColorFlag, ConfigFlag}, SourceFlags(), []cli.Flag{
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Poll interval",
				Value: watch.DefaultInterval,
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Poll once, print the transitions and exit",
			},
			&cli.BoolFlag{
				Name:  "no-restore",
				Usage: "Do not resume from the statuses in the archive",
			},
			// Storage flags
			&cli.StringFlag{
				Name:  "storage-backend",
				Usage: "Archive backend: fs, s3 or memory (default: no archive)",
			},
			&cli.StringFlag{
				Name:  "storage-path",
				Usage: "Archive location (fs: directory, s3: bucket/prefix or s3://bucket/prefix)",
			},
			&cli.StringFlag{
				Name:  "storage-dataset",
				Usage: "Archive dataset ID",
				Value: archive.DefaultDataset,
			},
			&cli.StringFlag{
				Name:  "storage-region",
				Usage: "AWS region for the S3 archive (optional, uses default chain)",
			},
			&cli.StringFlag{
				Name:  "storage-endpoint",
				Usage: "Custom S3 endpoint (MinIO, R2)",
			},
			&cli.BoolFlag{
				Name:  "storage-s3-path-style",
				Usage: "Force path-style S3 addressing",
			},
			// Adapter flags
			&cli.StringFlag{
				Name:  "adapter",
				Usage: "Status change adapter: webhook or redis",
			},
			&cli.StringFlag{
				Name:  "adapter-url",
				Usage: "Adapter endpoint (webhook URL or redis://host:port/db)",
			},
			&cli.StringFlag{
				Name:  "adapter-channel",
				Usage: "Redis pub/sub channel",
			},
			&cli.StringFlag{
				Name:  "adapter-status-key",
				Usage: "Redis hash holding the latest status per device",
			},
			&cli.DurationFlag{
				Name:  "adapter-timeout",
				Usage: "Per-publish timeout",
				Value: webhook.DefaultTimeout,
			},
			&cli.IntFlag{
				Name:  "adapter-retries",
				Usage: "Retry attempts per publish",
				Value: webhook.DefaultRetries,
			},
			&cli.StringSliceFlag{
				Name:  "adapter-header",
				Usage: "Webhook header as key=value (repeatable)",
			},
		}),
		Action: watchAction,
	}
}

// adapterChoice holds parsed adapter configuration.
type adapterChoice struct {
	adapterType string
	url         string
	channel     string
	statusKey   string
	headers     map[string]string
	timeout     time.Duration
	retries     int
}

// storageChoice holds parsed archive configuration.
type storageChoice struct {
	backend   string
	path      string
	dataset   string
	region    string
	profile   string
	endpoint  string
	pathStyle bool
}

func watchAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	interval := resolveDuration(c, "interval", configVal(cfg, func(c *devicesconfig.Config) devicesconfig.Duration { return c.Watch.Interval }).Duration)
	if !c.Bool("once") && interval < watch.MinInterval {
		return cli.Exit(fmt.Sprintf("invalid --interval: %s (minimum %s)", interval, watch.MinInterval), exitConfigError)
	}

	storage, err := parseStorageConfig(c, cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}

	var ac *adapterChoice
	if t := resolveString(c, "adapter", configVal(cfg, func(c *devicesconfig.Config) string { return c.Adapter.Type })); t != "" {
		if ac, err = parseAdapterConfigWithPrecedence(c, cfg, t); err != nil {
			return cli.Exit(err.Error(), exitConfigError)
		}
	}

	logger, err := newLogger(c, cfg, "watch", "info")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signalContext(c)
	defer cancel()

	adapterName := ""
	if ac != nil {
		adapterName = ac.adapterType
	}
	m := metrics.NewCollector(regionsLabel(c, cfg), storage.backend, adapterName)

	registry, err := buildRegistry(ctx, c, cfg, logger, m)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(c, cfg)
	if err != nil {
		return err
	}

	opts := []watch.Option{
		watch.WithLogger(logger),
		watch.WithMetrics(m),
	}
	if ac != nil {
		a, err := buildAdapter(ac)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid adapter config: %v", err), exitConfigError)
		}
		opts = append(opts, watch.WithAdapter(a))
	}
	if storage.backend != "" {
		arc, err := buildArchive(ctx, storage, m)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to open archive: %v", err), exitUpstream)
		}
		opts = append(opts, watch.WithArchive(arc))
	}

	w := watch.New(registry, append(opts, watch.WithBoard(catalog.NewBoard(cat)))...)
	defer func() {
		if err := w.Close(); err != nil {
			logger.Warn("adapter close failed", map[string]any{"error": err.Error()})
		}
	}()

	restore := cfg == nil || cfg.Watch.RestoreEnabled()
	if restore && !c.Bool("no-restore") {
		if err := w.Restore(ctx); err != nil {
			logger.Warn("starting without archived statuses", map[string]any{"error": err.Error()})
		}
	}

	if c.Bool("once") {
		res, err := w.Poll(ctx)
		if err != nil {
			return exit(err)
		}
		printWarnings(res.Warnings)
		return r.Render(changeRows(res.Changes))
	}

	logger.Info("watching devices", map[string]any{
		"interval": interval.String(),
		"adapter":  adapterName,
		"archive":  storage.backend,
	})
	if err := w.Run(ctx, interval); err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	snap := m.Snapshot()
	logger.Info("watch stopped", map[string]any{
		"polls":          snap.PollsCompleted,
		"status_changes": snap.StatusChanges,
	})
	return nil
}

// parseAdapterConfigWithPrecedence resolves adapter settings: CLI flags,
// then the config file, then flag defaults. Config headers are merged
// under --adapter-header values.
func parseAdapterConfigWithPrecedence(c *cli.Context, cfg *devicesconfig.Config, adapterType string) (*adapterChoice, error) {
	ac := &adapterChoice{
		adapterType: adapterType,
		url:         resolveString(c, "adapter-url", configVal(cfg, func(c *devicesconfig.Config) string { return c.Adapter.URL })),
		channel:     resolveString(c, "adapter-channel", configVal(cfg, func(c *devicesconfig.Config) string { return c.Adapter.Channel })),
		statusKey:   resolveString(c, "adapter-status-key", configVal(cfg, func(c *devicesconfig.Config) string { return c.Adapter.StatusKey })),
		timeout:     resolveDuration(c, "adapter-timeout", configVal(cfg, func(c *devicesconfig.Config) devicesconfig.Duration { return c.Adapter.Timeout }).Duration),
		retries:     c.Int("adapter-retries"),
		headers:     make(map[string]string),
	}
	if !c.IsSet("adapter-retries") {
		if r := configVal(cfg, func(c *devicesconfig.Config) *int { return c.Adapter.Retries }); r != nil {
			ac.retries = *r
		}
	}

	for k, v := range configVal(cfg, func(c *devicesconfig.Config) map[string]string { return c.Adapter.Headers }) {
		ac.headers[k] = v
	}
	for _, h := range c.StringSlice("adapter-header") {
		k, v, ok := strings.Cut(h, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --adapter-header %q: expected key=value", h)
		}
		ac.headers[strings.TrimSpace(k)] = v
	}

	switch adapterType {
	case "webhook", "redis":
		if ac.url == "" {
			return nil, fmt.Errorf("--adapter-url is required when --adapter=%s", adapterType)
		}
	default:
		return nil, fmt.Errorf("unknown adapter type: %q (must be webhook or redis)", adapterType)
	}
	if ac.retries < 0 {
		return nil, fmt.Errorf("--adapter-retries must be >= 0, got %d", ac.retries)
	}
	return ac, nil
}

func buildAdapter(ac *adapterChoice) (adapter.Adapter, error) {
	switch ac.adapterType {
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     ac.url,
			Headers: ac.headers,
			Timeout: ac.timeout,
			Retries: ac.retries,
		})
	case "redis":
		return redis.New(redis.Config{
			URL:       ac.url,
			Channel:   ac.channel,
			StatusKey: ac.statusKey,
			Timeout:   ac.timeout,
			Retries:   ac.retries,
		})
	default:
		return nil, fmt.Errorf("unknown adapter type: %q", ac.adapterType)
	}
}

func parseStorageConfig(c *cli.Context, cfg *devicesconfig.Config) (storageChoice, error) {
	s := storageChoice{
		backend:   resolveString(c, "storage-backend", configVal(cfg, func(c *devicesconfig.Config) string { return c.Storage.Backend })),
		path:      resolveString(c, "storage-path", configVal(cfg, func(c *devicesconfig.Config) string { return c.Storage.Path })),
		dataset:   resolveString(c, "storage-dataset", configVal(cfg, func(c *devicesconfig.Config) string { return c.Storage.Dataset })),
		region:    resolveString(c, "storage-region", configVal(cfg, func(c *devicesconfig.Config) string { return c.Storage.Region })),
		profile:   resolveString(c, "profile", configVal(cfg, func(c *devicesconfig.Config) string { return c.Profile })),
		endpoint:  resolveString(c, "storage-endpoint", configVal(cfg, func(c *devicesconfig.Config) string { return c.Storage.Endpoint })),
		pathStyle: resolveBool(c, "storage-s3-path-style", configVal(cfg, func(c *devicesconfig.Config) bool { return c.Storage.S3PathStyle })),
	}
	switch s.backend {
	case "":
		return s, nil
	case archive.BackendMemory:
		return s, nil
	case archive.BackendFS, archive.BackendS3:
		if s.path == "" {
			return s, fmt.Errorf("--storage-path is required when --storage-backend=%s", s.backend)
		}
		return s, nil
	default:
		return s, fmt.Errorf("invalid --storage-backend: %q (must be fs, s3 or memory)", s.backend)
	}
}

func buildArchive(ctx context.Context, s storageChoice, m *metrics.Collector) (*archive.Archive, error) {
	switch s.backend {
	case archive.BackendFS:
		return archive.NewFS(s.dataset, s.path, archive.WithMetrics(m))
	case archive.BackendS3:
		bucket, prefix, err := archive.ParseS3URI(s.path)
		if err != nil {
			return nil, err
		}
		return archive.NewS3(ctx, s.dataset, archive.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       s.region,
			Profile:      s.profile,
			Endpoint:     s.endpoint,
			UsePathStyle: s.pathStyle,
		}, archive.WithMetrics(m))
	case archive.BackendMemory:
		return archive.NewMemory(s.dataset, archive.WithMetrics(m))
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", s.backend)
	}
}

// changeRows renders the transitions of one poll.
type changeRows []watch.Change

// Table implements render.Tabular.
func (rows changeRows) Table() render.Table {
	t := render.Table{
		Headers:      []string{"NAME", "PROVIDER", "ARN", "PREVIOUS", "STATUS"},
		StatusColumn: 4,
	}
	for _, ch := range rows {
		prev := string(ch.Previous)
		if prev == "" {
			prev = "-"
		}
		t.Rows = append(t.Rows, []string{
			ch.Device.DeviceName,
			ch.Device.ProviderName,
			ch.Device.DeviceArn,
			prev,
			string(ch.Device.DeviceStatus),
		})
	}
	return t
}
