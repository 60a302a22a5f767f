package properties

import (
	"maps"
	"slices"
)

// QubitAggregate holds device-wide means computed over per-qubit and
// per-coupling calibration entries. A nil field means no qubit or coupling
// reported it.
type QubitAggregate struct {
	T1                  *float64 `json:"t1Seconds,omitempty"`
	T2                  *float64 `json:"t2Seconds,omitempty"`
	SingleQubitFidelity *float64 `json:"singleQubitFidelity,omitempty"`
	ReadoutFidelity     *float64 `json:"readoutFidelity,omitempty"`
	TwoQubitFidelity    *float64 `json:"twoQubitFidelity,omitempty"`
}

// Metrics renders the aggregate in display order. Error rates are derived
// as 1 - fidelity.
func (a QubitAggregate) Metrics() []Metric {
	var l metricList
	l.add("Single-Qubit Fidelity", a.SingleQubitFidelity, FormatFidelity)
	l.add("Single-Qubit Error Rate", errorRateOf(a.SingleQubitFidelity), FormatErrorRate)
	l.add("Two-Qubit Fidelity", a.TwoQubitFidelity, FormatFidelity)
	l.add("Two-Qubit Error Rate", errorRateOf(a.TwoQubitFidelity), FormatErrorRate)
	l.add("Readout Fidelity", a.ReadoutFidelity, FormatFidelity)
	l.add("Readout Error Rate", errorRateOf(a.ReadoutFidelity), FormatErrorRate)
	l.add("T1", a.T1, FormatTime)
	l.add("T2", a.T2, FormatTime)
	return l
}

// sortedKeys iterates qubit and coupling maps deterministically so that
// floating point sums do not depend on map order.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
