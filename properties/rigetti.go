package properties

import (
	"errors"
	"fmt"
	"strings"
)

// Fidelity type names used in the standardized schema.
const (
	FidelityRandomizedBenchmarking = "RANDOMIZED_BENCHMARKING"
	FidelityReadout                = "READOUT"
)

// Standardized is the vendor-neutral gate-model calibration section, keyed
// by qubit label ("0") and by coupling label ("0-1").
type Standardized struct {
	OneQubitProperties map[string]OneQubitProperties `json:"oneQubitProperties,omitempty"`
	TwoQubitProperties map[string]TwoQubitProperties `json:"twoQubitProperties,omitempty"`
}

// OneQubitProperties is the calibration of a single qubit.
type OneQubitProperties struct {
	T1               *CoherenceTime  `json:"T1,omitempty"`
	T2               *CoherenceTime  `json:"T2,omitempty"`
	OneQubitFidelity []FidelityEntry `json:"oneQubitFidelity,omitempty"`
}

// CoherenceTime is a measured time with its unit ("S", "MS", "US", "NS").
type CoherenceTime struct {
	Value         *float64 `json:"value,omitempty"`
	StandardError *float64 `json:"standardError,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
}

// Seconds converts the value to seconds. A missing unit means seconds.
func (c *CoherenceTime) Seconds() (*float64, error) {
	if c == nil || c.Value == nil {
		return nil, nil
	}
	unit := "S"
	if c.Unit != nil {
		unit = strings.ToUpper(strings.TrimSpace(*c.Unit))
	}
	var scale float64
	switch unit {
	case "S", "":
		scale = 1
	case "MS":
		scale = 1e-3
	case "US":
		scale = 1e-6
	case "NS":
		scale = 1e-9
	default:
		return nil, fmt.Errorf("unsupported time unit %q", unit)
	}
	v := *c.Value * scale
	return &v, nil
}

// FidelityType names the measurement method behind a fidelity.
type FidelityType struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// FidelityEntry is a typed single-qubit fidelity.
type FidelityEntry struct {
	FidelityType  FidelityType `json:"fidelityType"`
	Fidelity      *float64     `json:"fidelity,omitempty"`
	StandardError *float64     `json:"standardError,omitempty"`
}

// TwoQubitProperties is the calibration of one coupling.
type TwoQubitProperties struct {
	TwoQubitGateFidelity []GateFidelity `json:"twoQubitGateFidelity,omitempty"`
}

// GateFidelity is the fidelity of one two-qubit gate on a coupling.
type GateFidelity struct {
	Direction     *string      `json:"direction,omitempty"`
	GateName      string       `json:"gateName"`
	Fidelity      *float64     `json:"fidelity,omitempty"`
	StandardError *float64     `json:"standardError,omitempty"`
	FidelityType  FidelityType `json:"fidelityType"`
}

// fidelityOfType returns the first entry of the given type.
func fidelityOfType(entries []FidelityEntry, name string) *float64 {
	for _, e := range entries {
		if e.FidelityType.Name == name {
			return e.Fidelity
		}
	}
	return nil
}

// RigettiCalibration aggregates the standardized section.
type RigettiCalibration struct {
	Aggregate QubitAggregate
}

// Vendor implements Calibration.
func (c *RigettiCalibration) Vendor() Vendor { return VendorRigetti }

// Metrics implements Calibration.
func (c *RigettiCalibration) Metrics() []Metric { return c.Aggregate.Metrics() }

// decodeRigetti returns the aggregate even when some coherence times were
// skipped; the error then lists them.
func decodeRigetti(p *Properties) (Calibration, error) {
	if p.Standardized == nil {
		return nil, nil
	}
	agg, err := aggregateStandardized(p.Standardized)
	return &RigettiCalibration{Aggregate: agg}, err
}

// aggregateStandardized averages each field over the qubits that report it,
// and the first two-qubit gate fidelity over the couplings that have one.
// A coherence time with an unknown unit counts as missing for that qubit
// and is reported in the returned error.
func aggregateStandardized(s *Standardized) (QubitAggregate, error) {
	var t1, t2, oneQ, readout, twoQ mean
	var skipped []error

	for _, q := range sortedKeys(s.OneQubitProperties) {
		props := s.OneQubitProperties[q]

		v1, err := props.T1.Seconds()
		if err != nil {
			skipped = append(skipped, fmt.Errorf("qubit %s T1: %w", q, err))
		}
		t1.add(v1)

		v2, err := props.T2.Seconds()
		if err != nil {
			skipped = append(skipped, fmt.Errorf("qubit %s T2: %w", q, err))
		}
		t2.add(v2)

		oneQ.add(fidelityOfType(props.OneQubitFidelity, FidelityRandomizedBenchmarking))
		readout.add(fidelityOfType(props.OneQubitFidelity, FidelityReadout))
	}

	for _, e := range sortedKeys(s.TwoQubitProperties) {
		gates := s.TwoQubitProperties[e].TwoQubitGateFidelity
		if len(gates) == 0 {
			continue
		}
		twoQ.add(gates[0].Fidelity)
	}

	return QubitAggregate{
		T1:                  t1.value(),
		T2:                  t2.value(),
		SingleQubitFidelity: oneQ.value(),
		ReadoutFidelity:     readout.value(),
		TwoQubitFidelity:    twoQ.value(),
	}, errors.Join(skipped...)
}
