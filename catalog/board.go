package catalog

import (
	"sync"

	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/types"
)

// State is the resolution state of one board entry.
type State int

// Entry states. Unresolved moves to Resolved or Unknown; a Resolved entry
// never moves back.
const (
	Unresolved State = iota
	Resolved
	Unknown
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Entry is one device on the board.
type Entry struct {
	types.CatalogEntry
	State State
	// Status is the last resolved status; empty unless State is Resolved.
	Status types.DeviceStatus
	// Discovered is true for devices that were not in the catalog and
	// first appeared in a live listing.
	Discovered bool
}

// Summary returns the entry as a summary. Unresolved entries report
// LOADING and unknown entries UNKNOWN.
func (e Entry) Summary() types.DeviceSummary {
	switch e.State {
	case Resolved:
		return e.CatalogEntry.Summary(e.Status)
	case Unknown:
		return e.CatalogEntry.Summary(types.DeviceStatusUnknown)
	default:
		return e.CatalogEntry.Summary(types.DeviceStatusLoading)
	}
}

// Board merges live listings into a catalog by ARN. Catalog entries render
// immediately as LOADING; a listing resolves them. Responses are tagged with
// the sequence number returned by Begin and applied only when they belong
// to the latest request.
type Board struct {
	mu       sync.RWMutex
	tracker  Tracker
	entries  []Entry
	index    map[string]int
	warnings []string
	err      error
}

// NewBoard creates a board with every catalog entry unresolved.
func NewBoard(c *Catalog) *Board {
	b := &Board{index: make(map[string]int)}
	for _, e := range c.Entries() {
		b.index[e.DeviceArn] = len(b.entries)
		b.entries = append(b.entries, Entry{CatalogEntry: e})
	}
	return b
}

// Begin starts a refresh and returns its sequence number. Responses to
// earlier refreshes are ignored from now on.
func (b *Board) Begin() uint64 {
	return b.tracker.Next()
}

// Apply merges a listing. It reports false and changes nothing when seq is
// stale.
//
// Listed devices become Resolved with their live status, and devices not in
// the catalog are appended. Catalog entries missing from the listing become
// Unknown if they were unresolved; resolved ones keep their last status.
func (b *Board) Apply(seq uint64, list braket.DeviceList) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.tracker.IsLatest(seq) {
		return false
	}

	seen := make(map[string]struct{}, len(list.Devices))
	for _, d := range list.Devices {
		seen[d.DeviceArn] = struct{}{}
		i, ok := b.index[d.DeviceArn]
		if !ok {
			b.index[d.DeviceArn] = len(b.entries)
			b.entries = append(b.entries, Entry{
				CatalogEntry: types.CatalogEntry{
					DeviceArn:    d.DeviceArn,
					DeviceName:   d.DeviceName,
					DeviceType:   d.DeviceType,
					ProviderName: d.ProviderName,
					QubitCount:   d.QubitCount,
				},
				State:      Resolved,
				Status:     d.DeviceStatus,
				Discovered: true,
			})
			continue
		}
		e := &b.entries[i]
		e.State = Resolved
		e.Status = d.DeviceStatus
		if e.QubitCount == nil && d.QubitCount != nil {
			n := *d.QubitCount
			e.QubitCount = &n
		}
	}

	for i := range b.entries {
		e := &b.entries[i]
		if _, ok := seen[e.DeviceArn]; !ok && e.State == Unresolved {
			e.State = Unknown
		}
	}

	b.warnings = append([]string(nil), list.Warnings...)
	b.err = nil
	return true
}

// Fail records a failed refresh. Unresolved entries become Unknown;
// resolved entries keep their status. Reports false when seq is stale.
func (b *Board) Fail(seq uint64, err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.tracker.IsLatest(seq) {
		return false
	}
	for i := range b.entries {
		if b.entries[i].State == Unresolved {
			b.entries[i].State = Unknown
		}
	}
	b.warnings = nil
	b.err = err
	return true
}

// Entries returns a snapshot of the board in catalog order, discovered
// devices last.
func (b *Board) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, len(b.entries))
	for i, e := range b.entries {
		if e.QubitCount != nil {
			n := *e.QubitCount
			e.QubitCount = &n
		}
		out[i] = e
	}
	return out
}

// Entry returns the board entry for arn.
func (b *Board) Entry(arn string) (Entry, bool) {
	b.mu.RLock()
	i, ok := b.index[arn]
	b.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	return b.Entries()[i], true
}

// Rows returns the board as summaries.
func (b *Board) Rows() []types.DeviceSummary {
	entries := b.Entries()
	out := make([]types.DeviceSummary, len(entries))
	for i, e := range entries {
		out[i] = e.Summary()
	}
	return out
}

// Pending reports whether any entry is still unresolved.
func (b *Board) Pending() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, e := range b.entries {
		if e.State == Unresolved {
			return true
		}
	}
	return false
}

// Warnings returns the warnings of the last applied listing.
func (b *Board) Warnings() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.warnings...)
}

// Err returns the error of the last refresh, or nil after a success.
func (b *Board) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}
