package catalog

import (
	"strings"

	"github.com/pithecene-io/braket-devices/types"
)

// Filter selects summaries. Zero fields match everything; string matches
// ignore case.
type Filter struct {
	Provider string
	Type     string
	Status   string
}

// Match reports whether s passes the filter.
func (f Filter) Match(s types.DeviceSummary) bool {
	if f.Provider != "" && !strings.EqualFold(f.Provider, s.ProviderName) {
		return false
	}
	if f.Type != "" {
		t, err := types.ParseDeviceType(f.Type)
		if err != nil || t != s.DeviceType {
			return false
		}
	}
	if f.Status != "" && !strings.EqualFold(f.Status, string(s.DeviceStatus)) {
		return false
	}
	return true
}

// Apply returns the summaries that pass the filter, in order.
func (f Filter) Apply(in []types.DeviceSummary) []types.DeviceSummary {
	out := make([]types.DeviceSummary, 0, len(in))
	for _, s := range in {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}
