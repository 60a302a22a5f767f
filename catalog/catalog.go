// Package catalog holds the static device catalog and the state used to
// merge live statuses into it.
//
// A Catalog is an immutable, ordered list of static device records (no
// status). The embedded seed is one source; Load reads others from disk.
// A Board tracks the per-device resolution state of a catalog as live
// listings arrive, and a Tracker discards responses to superseded requests.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/types"
)

//go:embed seed.json
var seedJSON []byte

// Catalog is an ordered set of static device records keyed by ARN.
type Catalog struct {
	entries []types.CatalogEntry
	index   map[string]int
}

// New builds a catalog. ARNs must be valid and unique.
func New(entries []types.CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]types.CatalogEntry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if err := braket.ValidateARN(e.DeviceArn); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if _, err := types.ParseDeviceType(string(e.DeviceType)); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.DeviceArn, err)
		}
		if _, dup := c.index[e.DeviceArn]; dup {
			return nil, fmt.Errorf("entry %d: duplicate device ARN %s", i, e.DeviceArn)
		}
		e.DeviceType, _ = types.ParseDeviceType(string(e.DeviceType))
		c.index[e.DeviceArn] = len(c.entries)
		c.entries = append(c.entries, cloneEntry(e))
	}
	return c, nil
}

// Seed returns a fresh copy of the built-in catalog.
func Seed() *Catalog {
	c, err := decodeJSON(seedJSON)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid embedded seed: %v", err))
	}
	return c
}

// Empty returns a catalog with no entries.
func Empty() *Catalog {
	return &Catalog{index: map[string]int{}}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []types.CatalogEntry {
	if c == nil {
		return nil
	}
	out := make([]types.CatalogEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = cloneEntry(e)
	}
	return out
}

// Lookup returns the entry for arn.
func (c *Catalog) Lookup(arn string) (types.CatalogEntry, bool) {
	if c == nil {
		return types.CatalogEntry{}, false
	}
	i, ok := c.index[arn]
	if !ok {
		return types.CatalogEntry{}, false
	}
	return cloneEntry(c.entries[i]), true
}

// Summaries returns every entry as a summary with the given status.
func (c *Catalog) Summaries(status types.DeviceStatus) []types.DeviceSummary {
	out := make([]types.DeviceSummary, 0, c.Len())
	for _, e := range c.Entries() {
		out = append(out, e.Summary(status))
	}
	return out
}

// FromDevices builds a catalog from live summaries, dropping their status.
// qubitCounts supplies counts known from capabilities documents; a summary
// that already carries a count keeps it.
func FromDevices(devices []types.DeviceSummary, qubitCounts map[string]int) (*Catalog, error) {
	entries := make([]types.CatalogEntry, 0, len(devices))
	for _, d := range devices {
		e := types.CatalogEntry{
			DeviceArn:    d.DeviceArn,
			DeviceName:   d.DeviceName,
			DeviceType:   d.DeviceType,
			ProviderName: d.ProviderName,
			QubitCount:   d.QubitCount,
		}
		if e.QubitCount == nil {
			if n, ok := qubitCounts[d.DeviceArn]; ok {
				e.QubitCount = &n
			}
		}
		entries = append(entries, e)
	}
	return New(entries)
}

// ErrEmpty is returned when a catalog document has no devices.
var ErrEmpty = errors.New("catalog has no devices")

func cloneEntry(e types.CatalogEntry) types.CatalogEntry {
	if e.QubitCount != nil {
		n := *e.QubitCount
		e.QubitCount = &n
	}
	return e
}
