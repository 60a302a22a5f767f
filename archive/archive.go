// Package archive stores device status observations in a Lode dataset.
//
// Records are JSON lines in a Hive layout partitioned by record kind,
// provider and day, on the local filesystem, S3, or in memory. The watcher
// writes one observation per device per poll plus one record per status
// transition; History and Latest read them back.
package archive

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/braket-devices/metrics"
)

// DefaultDataset is the dataset ID used when none is configured.
const DefaultDataset = "braket-devices"

// Backend names, as reported in metrics dimensions.
const (
	BackendFS     = "fs"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// Archive writes and reads observations.
type Archive struct {
	dataset lode.Dataset
	name    string
	backend string
	metrics *metrics.Collector
}

// Option configures an Archive.
type Option func(*Archive)

// WithMetrics sets the collector for write counters.
func WithMetrics(m *metrics.Collector) Option {
	return func(a *Archive) { a.metrics = m }
}

// New creates an archive on factory. backend labels the store in metrics.
func New(dataset, backend string, factory lode.StoreFactory, opts ...Option) (*Archive, error) {
	if dataset == "" {
		dataset = DefaultDataset
	}
	ds, err := lode.NewDataset(
		lode.DatasetID(dataset),
		factory,
		lode.WithHiveLayout(partitionKeys...),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
	if err != nil {
		return nil, wrap("init", dataset, err)
	}
	a := &Archive{dataset: ds, name: dataset, backend: backend}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// NewFS creates an archive rooted at a local directory.
func NewFS(dataset, root string, opts ...Option) (*Archive, error) {
	return New(dataset, BackendFS, lode.NewFSFactory(root), opts...)
}

// NewMemory creates an in-memory archive.
func NewMemory(dataset string, opts ...Option) (*Archive, error) {
	return New(dataset, BackendMemory, lode.NewMemoryFactory(), opts...)
}

// Backend returns the backend name.
func (a *Archive) Backend() string {
	return a.backend
}

// WriteObservations stores one poll's observations.
func (a *Archive) WriteObservations(ctx context.Context, obs []Observation) error {
	if len(obs) == 0 {
		return nil
	}
	records := make([]any, 0, len(obs))
	for _, o := range obs {
		records = append(records, o.record())
	}
	return a.write(ctx, records)
}

// WriteTransitions stores status transitions.
func (a *Archive) WriteTransitions(ctx context.Context, ts []Transition) error {
	if len(ts) == 0 {
		return nil
	}
	records := make([]any, 0, len(ts))
	for _, t := range ts {
		records = append(records, t.record())
	}
	return a.write(ctx, records)
}

func (a *Archive) write(ctx context.Context, records []any) error {
	if _, err := a.dataset.Write(ctx, records, lode.Metadata{}); err != nil {
		a.metrics.IncArchiveWriteFailure()
		return wrap("write", a.name, err)
	}
	a.metrics.IncArchiveWriteSuccess(len(records))
	return nil
}

// Query narrows History. Zero fields match everything.
type Query struct {
	DeviceArn string
	// Provider is the ARN provider segment, e.g. "ionq".
	Provider string
	Since    time.Time
}

// ErrNoObservations is returned by Latest when nothing has been archived.
var ErrNoObservations = errors.New("no observations archived")

// History returns archived observations matching q, oldest first.
func (a *Archive) History(ctx context.Context, q Query) ([]Observation, error) {
	snapshots, err := a.dataset.Snapshots(ctx)
	if err != nil {
		if isEmptyDataset(err) {
			return nil, nil
		}
		return nil, wrap("read", a.name, err)
	}

	var out []Observation
	for _, snap := range snapshots {
		if !snapshotHas(snap, "record_kind", RecordKindObservation) || !snapshotHas(snap, "provider", q.Provider) {
			continue
		}
		data, err := a.dataset.Read(ctx, snap.ID)
		if err != nil {
			return nil, wrap("read", string(snap.ID), err)
		}
		for _, item := range data {
			r, ok := item.(map[string]any)
			if !ok || r["record_kind"] != RecordKindObservation {
				continue
			}
			if q.DeviceArn != "" && str(r["device_arn"]) != q.DeviceArn {
				continue
			}
			if q.Provider != "" && str(r["provider"]) != q.Provider {
				continue
			}
			o, err := observationFromRecord(r)
			if err != nil {
				return nil, wrap("read", string(snap.ID), err)
			}
			if !q.Since.IsZero() && o.ObservedAt.Before(q.Since) {
				continue
			}
			out = append(out, o)
		}
	}

	slices.SortStableFunc(out, func(x, y Observation) int {
		return x.ObservedAt.Compare(y.ObservedAt)
	})
	return out, nil
}

// Latest returns the most recent observation per device.
func (a *Archive) Latest(ctx context.Context) (map[string]Observation, error) {
	history, err := a.History(ctx, Query{})
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNoObservations
	}
	latest := make(map[string]Observation)
	for _, o := range history {
		latest[o.DeviceArn] = o
	}
	return latest, nil
}

// snapshotHas reports whether any file of snap lies in the key=value
// partition. An empty value matches every snapshot.
func snapshotHas(snap *lode.Snapshot, key, value string) bool {
	if value == "" {
		return true
	}
	segment := key + "=" + value
	for _, f := range snap.Manifest.Files {
		if slices.Contains(strings.Split(f.Path, "/"), segment) {
			return true
		}
	}
	return false
}

// isEmptyDataset reports whether err means the dataset has no snapshots yet.
func isEmptyDataset(err error) bool {
	return errors.Is(classify(err), ErrNotFound)
}
