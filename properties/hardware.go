package properties

import (
	"fmt"
	"strings"
)

// Row is one labelled display value.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// HardwareSpecs is the generic hardware description of a device.
type HardwareSpecs struct {
	QubitCount *int `json:"qubitCount,omitempty"`
	// FullyConnected is nil when the document carries no connectivity flag.
	FullyConnected *bool `json:"fullyConnected,omitempty"`
	// CouplingCount is the number of distinct qubit pairs in the
	// connectivity graph, when a graph is present.
	CouplingCount *int     `json:"couplingCount,omitempty"`
	NativeGateSet []string `json:"nativeGateSet,omitempty"`
}

// ExtractHardware reads the hardware fields. Every field is independent.
func ExtractHardware(p *Properties) HardwareSpecs {
	var h HardwareSpecs
	if p == nil || p.Paradigm == nil {
		return h
	}

	pd := p.Paradigm
	if pd.QubitCount != nil {
		n := *pd.QubitCount
		h.QubitCount = &n
	}
	if pd.Connectivity != nil {
		if pd.Connectivity.FullyConnected != nil {
			fc := *pd.Connectivity.FullyConnected
			h.FullyConnected = &fc
		}
		if len(pd.Connectivity.ConnectivityGraph) > 0 {
			n := countCouplings(pd.Connectivity.ConnectivityGraph)
			h.CouplingCount = &n
		}
	}
	if len(pd.NativeGateSet) > 0 {
		h.NativeGateSet = append([]string(nil), pd.NativeGateSet...)
	}
	return h
}

// countCouplings counts undirected qubit pairs; a->b and b->a count once.
func countCouplings(graph map[string][]QubitID) int {
	seen := make(map[[2]string]struct{})
	for from, tos := range graph {
		for _, to := range tos {
			a, b := from, string(to)
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			seen[[2]string{a, b}] = struct{}{}
		}
	}
	return len(seen)
}

// Rows renders the known fields.
func (h HardwareSpecs) Rows() []Row {
	var rows []Row
	if h.QubitCount != nil {
		rows = append(rows, Row{Label: "Qubits", Value: fmt.Sprintf("%d", *h.QubitCount)})
	}
	switch {
	case h.FullyConnected != nil && *h.FullyConnected:
		rows = append(rows, Row{Label: "Connectivity", Value: "Fully connected"})
	case h.CouplingCount != nil:
		rows = append(rows, Row{Label: "Connectivity", Value: fmt.Sprintf("%d qubit pairs", *h.CouplingCount)})
	case h.FullyConnected != nil:
		rows = append(rows, Row{Label: "Connectivity", Value: "Partially connected"})
	}
	if len(h.NativeGateSet) > 0 {
		rows = append(rows, Row{Label: "Native Gates", Value: strings.Join(h.NativeGateSet, ", ")})
	}
	return rows
}

// IsFullyConnected returns the connectivity flag, or false when the
// document has none. "Not fully connected" and "unknown" are deliberately
// not distinguished here; HardwareSpecs.FullyConnected keeps the difference.
func IsFullyConnected(p *Properties) bool {
	if p == nil || p.Paradigm == nil || p.Paradigm.Connectivity == nil || p.Paradigm.Connectivity.FullyConnected == nil {
		return false
	}
	return *p.Paradigm.Connectivity.FullyConnected
}

// Cost is a price per unit in USD.
type Cost struct {
	Price float64 `json:"price"`
	Unit  string  `json:"unit"`
}

// String renders "0.03 USD/shot".
func (c Cost) String() string {
	return fmt.Sprintf("%s USD/%s", formatNumber(c.Price), c.Unit)
}

// ShotsRange is the inclusive shot bounds per task.
type ShotsRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// OperationalDetails is the generic operational description of a device.
type OperationalDetails struct {
	Location         *string           `json:"location,omitempty"`
	Cost             *Cost             `json:"cost,omitempty"`
	ShotsRange       *ShotsRange       `json:"shotsRange,omitempty"`
	ExecutionWindows []ExecutionWindow `json:"executionWindows,omitempty"`
	UpdatedAt        *string           `json:"updatedAt,omitempty"`
	Documentation    *string           `json:"documentation,omitempty"`
}

// ExtractOperational reads the service fields. Every field is independent.
func ExtractOperational(p *Properties) OperationalDetails {
	var o OperationalDetails
	if p == nil || p.Service == nil {
		return o
	}

	s := p.Service
	if s.DeviceLocation != nil && *s.DeviceLocation != "" {
		loc := *s.DeviceLocation
		o.Location = &loc
	}
	if s.DeviceCost != nil && s.DeviceCost.Price != nil {
		unit := "shot"
		if s.DeviceCost.Unit != nil && *s.DeviceCost.Unit != "" {
			unit = *s.DeviceCost.Unit
		}
		o.Cost = &Cost{Price: *s.DeviceCost.Price, Unit: unit}
	}
	if len(s.ShotsRange) == 2 {
		o.ShotsRange = &ShotsRange{Min: s.ShotsRange[0], Max: s.ShotsRange[1]}
	}
	if len(s.ExecutionWindows) > 0 {
		o.ExecutionWindows = append([]ExecutionWindow(nil), s.ExecutionWindows...)
	}
	if s.UpdatedAt != nil && *s.UpdatedAt != "" {
		u := *s.UpdatedAt
		o.UpdatedAt = &u
	}
	if d := s.DeviceDocumentation; d != nil {
		switch {
		case d.ExternalDocumentationURL != nil && *d.ExternalDocumentationURL != "":
			u := *d.ExternalDocumentationURL
			o.Documentation = &u
		case d.Summary != nil && *d.Summary != "":
			u := *d.Summary
			o.Documentation = &u
		}
	}
	return o
}

// Rows renders the known fields with units.
func (o OperationalDetails) Rows() []Row {
	var rows []Row
	if o.Location != nil {
		rows = append(rows, Row{Label: "Location", Value: *o.Location})
	}
	if o.Cost != nil {
		rows = append(rows, Row{Label: "Cost", Value: o.Cost.String()})
	}
	if o.ShotsRange != nil {
		rows = append(rows, Row{Label: "Shots Range", Value: fmt.Sprintf("%d - %d shots", o.ShotsRange.Min, o.ShotsRange.Max)})
	}
	for _, w := range o.ExecutionWindows {
		rows = append(rows, Row{Label: "Execution Window", Value: w.String()})
	}
	if o.UpdatedAt != nil {
		rows = append(rows, Row{Label: "Last Updated", Value: *o.UpdatedAt})
	}
	if o.Documentation != nil {
		rows = append(rows, Row{Label: "Documentation", Value: *o.Documentation})
	}
	return rows
}

// String renders "Everyday 09:00:00 - 10:00:00 UTC".
func (w ExecutionWindow) String() string {
	day := w.ExecutionDay
	if day == "" {
		day = "Everyday"
	}
	return fmt.Sprintf("%s %s - %s UTC", day, w.WindowStartHour, w.WindowEndHour)
}
