// Package redis publishes device status changes to Redis.
//
// Each event is PUBLISHed as JSON to a channel. When a status key is
// configured, the device's latest status is also written to a hash in the
// same transaction, so late subscribers can read current state.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pithecene-io/braket-devices/adapter"
)

// DefaultChannel is the default pub/sub channel name.
const DefaultChannel = "braket-devices:status_changed"

// DefaultTimeout is the default per-publish timeout.
const DefaultTimeout = 5 * time.Second

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 3

// Config configures the Redis adapter.
type Config struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// Channel is the pub/sub channel name.
	Channel string
	// StatusKey is the hash holding the latest status per device ARN.
	// Empty disables the hash.
	StatusKey string
	// Timeout is the per-publish timeout (default 5s).
	Timeout time.Duration
	// Retries is the number of retry attempts on failure.
	Retries int
}

// Adapter publishes status changes via Redis PUBLISH.
type Adapter struct {
	config Config
	client *goredis.Client
}

// New creates a Redis adapter from the given config.
func New(cfg Config) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis adapter requires a URL")
	}

	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis adapter: invalid URL: %w", err)
	}

	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}

	return &Adapter{
		config: cfg,
		client: goredis.NewClient(opts),
	}, nil
}

// Publish sends the event to the configured channel and, if enabled,
// records the device's latest status.
func (a *Adapter) Publish(ctx context.Context, event *adapter.StatusChangedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}

	return adapter.Retry(ctx, "redis", a.config.Retries, nil, func(ctx context.Context) error {
		publishCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()

		if a.config.StatusKey == "" {
			return a.client.Publish(publishCtx, a.config.Channel, body).Err()
		}
		_, err := a.client.TxPipelined(publishCtx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(publishCtx, a.config.StatusKey, event.DeviceArn, body)
			pipe.Publish(publishCtx, a.config.Channel, body)
			return nil
		})
		return err
	})
}

// Latest returns the last recorded event for arn from the status hash.
// It reports false when the hash is disabled or has no entry.
func (a *Adapter) Latest(ctx context.Context, arn string) (*adapter.StatusChangedEvent, bool, error) {
	if a.config.StatusKey == "" {
		return nil, false, nil
	}
	raw, err := a.client.HGet(ctx, a.config.StatusKey, arn).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: read status: %w", err)
	}
	var event adapter.StatusChangedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, false, fmt.Errorf("redis: decode status: %w", err)
	}
	return &event, true, nil
}

// Close releases adapter resources.
func (a *Adapter) Close() error {
	return a.client.Close()
}

var _ adapter.Adapter = (*Adapter)(nil)
