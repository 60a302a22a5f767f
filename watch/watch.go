// Package watch polls device statuses and reports transitions.
//
// A Watcher lists devices on an interval, merges each listing into a
// catalog.Board, and diffs the result against the statuses it saw last.
// Each transition is published to every configured adapter and, together
// with the full poll, written to the observation archive.
package watch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pithecene-io/braket-devices/adapter"
	"github.com/pithecene-io/braket-devices/archive"
	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/catalog"
	"github.com/pithecene-io/braket-devices/log"
	"github.com/pithecene-io/braket-devices/metrics"
	"github.com/pithecene-io/braket-devices/types"
)

// DefaultInterval is the poll interval when none is configured.
const DefaultInterval = time.Minute

// MinInterval is the shortest accepted poll interval.
const MinInterval = 5 * time.Second

// Change is one status transition. Previous is empty for a device that
// appeared after the first poll.
type Change struct {
	Device   types.DeviceSummary `json:"device"`
	Previous types.DeviceStatus  `json:"previousStatus,omitempty"`
}

// Result summarises one poll.
type Result struct {
	Seq      uint64
	Devices  int
	Changes  []Change
	Warnings []string
	// Baseline is set for the first poll of a watcher with no restored
	// state. Its statuses are recorded but not reported as changes.
	Baseline bool
	// Stale is set when a newer refresh of the shared board superseded
	// this poll; nothing was recorded.
	Stale bool
}

// Watcher polls a registry. Poll must not be called concurrently.
type Watcher struct {
	registry braket.Registry
	board    *catalog.Board
	adapters []adapter.Adapter
	archive  *archive.Archive
	logger   *log.Logger
	metrics  *metrics.Collector
	now      func() time.Time

	mu     sync.Mutex
	last   map[string]types.DeviceStatus
	primed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithBoard shares a board with other consumers, e.g. the TUI.
func WithBoard(b *catalog.Board) Option {
	return func(w *Watcher) { w.board = b }
}

// WithAdapter adds an adapter. The watcher closes it on Close.
func WithAdapter(a adapter.Adapter) Option {
	return func(w *Watcher) {
		if a != nil {
			w.adapters = append(w.adapters, a)
		}
	}
}

// WithArchive records every poll.
func WithArchive(a *archive.Archive) Option {
	return func(w *Watcher) { w.archive = a }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithMetrics sets the collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(w *Watcher) { w.metrics = m }
}

// WithClock overrides time.Now for observation timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

// New creates a watcher over registry.
func New(registry braket.Registry, opts ...Option) *Watcher {
	w := &Watcher{
		registry: registry,
		now:      time.Now,
		last:     make(map[string]types.DeviceStatus),
	}
	for _, o := range opts {
		o(w)
	}
	if w.board == nil {
		w.board = catalog.NewBoard(catalog.Seed())
	}
	return w
}

// Board returns the board the watcher merges listings into.
func (w *Watcher) Board() *catalog.Board {
	return w.board
}

// Restore loads the last archived status of every device so that the
// first poll reports changes since the previous run. An empty archive is
// not an error.
func (w *Watcher) Restore(ctx context.Context) error {
	if w.archive == nil {
		return nil
	}
	latest, err := w.archive.Latest(ctx)
	if errors.Is(err, archive.ErrNoObservations) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore statuses: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for arn, o := range latest {
		w.last[arn] = o.Status
	}
	w.primed = true
	w.logger.Info("restored statuses", map[string]any{"devices": len(latest)})
	return nil
}

// Poll lists devices once, reports transitions and archives the result.
// Only a failed listing is returned as an error; adapter and archive
// failures are logged and counted.
func (w *Watcher) Poll(ctx context.Context) (Result, error) {
	seq := w.board.Begin()
	list, err := w.registry.ListDevices(ctx)
	if err != nil {
		w.board.Fail(seq, err)
		w.metrics.IncPollFailed()
		return Result{Seq: seq}, fmt.Errorf("poll %d: %w", seq, err)
	}
	if !w.board.Apply(seq, list) {
		w.logger.Debug("poll superseded", map[string]any{"seq": seq})
		return Result{Seq: seq, Stale: true}, nil
	}
	w.metrics.IncPollCompleted()
	for _, warning := range list.Warnings {
		w.logger.Warn("partial listing", map[string]any{"seq": seq, "warning": warning})
	}

	at := w.now().UTC()
	res := Result{
		Seq:      seq,
		Devices:  len(list.Devices),
		Warnings: append([]string(nil), list.Warnings...),
	}
	res.Changes, res.Baseline = w.diff(list)

	for _, c := range res.Changes {
		w.metrics.IncStatusChange()
		w.logger.Info("status changed", map[string]any{
			"device_arn": c.Device.DeviceArn,
			"previous":   string(c.Previous),
			"status":     string(c.Device.DeviceStatus),
		})
		w.publish(ctx, adapter.NewStatusChangedEvent(c.Device, c.Previous, braket.RegionFromARN(c.Device.DeviceArn), at))
	}
	w.record(ctx, seq, at, list.Devices, res.Changes)
	return res, nil
}

// diff compares a listing to the last statuses and updates them.
// A device missing from a complete listing changes to UNKNOWN; partial
// listings never report disappearances.
func (w *Watcher) diff(list braket.DeviceList) ([]Change, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	baseline := !w.primed
	w.primed = true

	var changes []Change
	seen := make(map[string]struct{}, len(list.Devices))
	for _, d := range list.Devices {
		seen[d.DeviceArn] = struct{}{}
		prev, known := w.last[d.DeviceArn]
		w.last[d.DeviceArn] = d.DeviceStatus
		if baseline || (known && prev == d.DeviceStatus) {
			continue
		}
		changes = append(changes, Change{Device: d, Previous: prev})
	}

	if baseline || len(list.Warnings) > 0 {
		return changes, baseline
	}
	var gone []string
	for arn, prev := range w.last {
		if _, ok := seen[arn]; !ok && prev != types.DeviceStatusUnknown {
			gone = append(gone, arn)
		}
	}
	slices.Sort(gone)
	for _, arn := range gone {
		d := types.DeviceSummary{DeviceArn: arn, DeviceStatus: types.DeviceStatusUnknown}
		if e, ok := w.board.Entry(arn); ok {
			d.DeviceName = e.DeviceName
			d.DeviceType = e.DeviceType
			d.ProviderName = e.ProviderName
		}
		changes = append(changes, Change{Device: d, Previous: w.last[arn]})
		w.last[arn] = types.DeviceStatusUnknown
	}
	return changes, baseline
}

// publish delivers event to every adapter. One failing adapter does not
// stop the others.
func (w *Watcher) publish(ctx context.Context, event *adapter.StatusChangedEvent) {
	for _, a := range w.adapters {
		if err := a.Publish(ctx, event); err != nil {
			w.metrics.IncAdapterPublishFailure()
			w.logger.Warn("publish failed", map[string]any{
				"device_arn": event.DeviceArn,
				"error":      err.Error(),
			})
			continue
		}
		w.metrics.IncAdapterPublishSuccess()
	}
}

func (w *Watcher) record(ctx context.Context, seq uint64, at time.Time, devices []types.DeviceSummary, changes []Change) {
	if w.archive == nil {
		return
	}
	obs := make([]archive.Observation, 0, len(devices))
	for _, d := range devices {
		obs = append(obs, archive.ObservationFrom(d, seq, at))
	}
	if err := w.archive.WriteObservations(ctx, obs); err != nil {
		w.logger.Error("archive observations failed", map[string]any{"seq": seq, "error": err.Error()})
	}

	ts := make([]archive.Transition, 0, len(changes))
	for _, c := range changes {
		ts = append(ts, archive.Transition{
			DeviceArn:      c.Device.DeviceArn,
			DeviceName:     c.Device.DeviceName,
			ProviderName:   c.Device.ProviderName,
			PreviousStatus: c.Previous,
			Status:         c.Device.DeviceStatus,
			ObservedAt:     at,
		})
	}
	if err := w.archive.WriteTransitions(ctx, ts); err != nil {
		w.logger.Error("archive transitions failed", map[string]any{"seq": seq, "error": err.Error()})
	}
}

// Run polls immediately and then every interval until ctx is done. Failed
// polls are logged and retried on the next tick. It returns nil when ctx
// is canceled.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) error {
	if interval < MinInterval {
		return fmt.Errorf("interval %s is below the minimum %s", interval, MinInterval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		w.pollAndLog(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Watcher) pollAndLog(ctx context.Context) {
	res, err := w.Poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("poll failed", map[string]any{"seq": res.Seq, "error": err.Error()})
		return
	}
	w.logger.Debug("poll completed", map[string]any{
		"seq":      res.Seq,
		"devices":  res.Devices,
		"changes":  len(res.Changes),
		"baseline": res.Baseline,
	})
}

// Close closes every adapter and joins their errors.
func (w *Watcher) Close() error {
	var errs []error
	for _, a := range w.adapters {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
