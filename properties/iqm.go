package properties

// IQMProperties is the IQM provider section. Field maps are keyed by
// qubit ("1") and by pair ("1-2").
type IQMProperties struct {
	Properties struct {
		OneQubit map[string]map[string]*float64 `json:"one_qubit"`
		TwoQubit map[string]map[string]*float64 `json:"two_qubit"`
	} `json:"properties"`
}

// IQM field names.
const (
	iqmT1               = "T1"
	iqmT2               = "T2"
	iqmSingleQubitRB    = "fRB"
	iqmReadoutFidelity  = "fRO"
	iqmTwoQubitFidelity = "fCZ"
)

// IQMCalibration aggregates the IQM provider section.
type IQMCalibration struct {
	Aggregate QubitAggregate
}

// Vendor implements Calibration.
func (c *IQMCalibration) Vendor() Vendor { return VendorIQM }

// Metrics implements Calibration.
func (c *IQMCalibration) Metrics() []Metric { return c.Aggregate.Metrics() }

func decodeIQM(p *Properties) (Calibration, error) {
	var raw IQMProperties
	ok, err := decodeProvider(p, &raw)
	if err != nil || !ok {
		return nil, err
	}
	return &IQMCalibration{Aggregate: aggregateIQM(raw)}, nil
}

// aggregateIQM averages each field over the qubits (or pairs) that carry it.
// T1 and T2 are in seconds.
func aggregateIQM(raw IQMProperties) QubitAggregate {
	var t1, t2, oneQ, readout, twoQ mean

	one := raw.Properties.OneQubit
	for _, q := range sortedKeys(one) {
		fields := one[q]
		t1.add(fields[iqmT1])
		t2.add(fields[iqmT2])
		oneQ.add(fields[iqmSingleQubitRB])
		readout.add(fields[iqmReadoutFidelity])
	}

	two := raw.Properties.TwoQubit
	for _, pair := range sortedKeys(two) {
		twoQ.add(two[pair][iqmTwoQubitFidelity])
	}

	return QubitAggregate{
		T1:                  t1.value(),
		T2:                  t2.value(),
		SingleQubitFidelity: oneQ.value(),
		ReadoutFidelity:     readout.value(),
		TwoQubitFidelity:    twoQ.value(),
	}
}
