package properties

import (
	"encoding/json"
	"fmt"
)

// QuEraPerformance is the analog paradigm performance section. Probabilities
// are fractions; positions are meters.
type QuEraPerformance struct {
	Lattice struct {
		AtomLossProbabilityTypical *float64 `json:"atomLossProbabilityTypical"`
		FillingErrorTypical        *float64 `json:"fillingErrorTypical"`
		PositionErrorAbs           *float64 `json:"positionErrorAbs"`
	} `json:"lattice"`
}

// QuEraCalibration wraps the decoded QuEra performance section.
type QuEraCalibration struct {
	Performance QuEraPerformance
}

// Vendor implements Calibration.
func (c *QuEraCalibration) Vendor() Vendor { return VendorQuEra }

// Metrics implements Calibration.
func (c *QuEraCalibration) Metrics() []Metric {
	lat := c.Performance.Lattice
	var l metricList
	l.add("Atom Loss Probability", lat.AtomLossProbabilityTypical, FormatErrorRate)
	l.add("Filling Error", lat.FillingErrorTypical, FormatErrorRate)
	l.add("Position Error", lat.PositionErrorAbs, FormatMicrometers)
	return l
}

func decodeQuEra(p *Properties) (Calibration, error) {
	if p.Paradigm == nil || len(p.Paradigm.Performance) == 0 {
		return nil, nil
	}
	var perf QuEraPerformance
	if err := json.Unmarshal(p.Paradigm.Performance, &perf); err != nil {
		return nil, fmt.Errorf("paradigm performance section: %w", err)
	}
	return &QuEraCalibration{Performance: perf}, nil
}
