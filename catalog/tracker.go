package catalog

import "sync/atomic"

// Tracker issues monotonic sequence numbers for requests. Only the response
// to the most recently issued request is current; earlier ones are stale
// even when they arrive later.
type Tracker struct {
	seq atomic.Uint64
}

// Next issues a sequence number for a new request, superseding all
// earlier ones.
func (t *Tracker) Next() uint64 {
	return t.seq.Add(1)
}

// Latest returns the most recently issued sequence number, or 0.
func (t *Tracker) Latest() uint64 {
	return t.seq.Load()
}

// IsLatest reports whether seq belongs to the most recent request.
func (t *Tracker) IsLatest(seq uint64) bool {
	return seq != 0 && seq == t.seq.Load()
}
