package properties

// IonQProperties is the IonQ provider section. Fidelities are device-level
// means; timings are in seconds.
type IonQProperties struct {
	Fidelity struct {
		OneQubit *fidelityStat `json:"1Q"`
		TwoQubit *fidelityStat `json:"2Q"`
		SPAM     *fidelityStat `json:"spam"`
	} `json:"fidelity"`
	Timing struct {
		T1      *float64 `json:"T1"`
		T2      *float64 `json:"T2"`
		Readout *float64 `json:"readout"`
	} `json:"timing"`
}

type fidelityStat struct {
	Mean *float64 `json:"mean"`
}

func (f *fidelityStat) mean() *float64 {
	if f == nil {
		return nil
	}
	return f.Mean
}

// IonQCalibration wraps the decoded IonQ section.
type IonQCalibration struct {
	Properties IonQProperties
}

// Vendor implements Calibration.
func (c *IonQCalibration) Vendor() Vendor { return VendorIonQ }

// Metrics implements Calibration.
func (c *IonQCalibration) Metrics() []Metric {
	p := c.Properties
	var l metricList
	l.add("Single-Qubit Fidelity", p.Fidelity.OneQubit.mean(), FormatFidelity)
	l.add("Two-Qubit Fidelity", p.Fidelity.TwoQubit.mean(), FormatFidelity)
	l.add("SPAM Fidelity", p.Fidelity.SPAM.mean(), FormatFidelity)
	l.add("T1", p.Timing.T1, FormatTime)
	l.add("T2", p.Timing.T2, FormatTime)
	l.add("Readout Time", p.Timing.Readout, FormatTime)
	return l
}

func decodeIonQ(p *Properties) (Calibration, error) {
	var raw IonQProperties
	ok, err := decodeProvider(p, &raw)
	if err != nil || !ok {
		return nil, err
	}
	return &IonQCalibration{Properties: raw}, nil
}
