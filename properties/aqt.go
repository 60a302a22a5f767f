package properties

// AQTProperties is the AQT provider section. Fidelities are raw percentages
// (99.5 means 0.995), T1 and T2 are seconds and the readout time is
// microseconds.
type AQTProperties struct {
	Properties struct {
		SingleQubitGateFidelity map[string]*float64 `json:"singleQubitGateFidelity"`
		TwoQubitGateFidelity    *float64            `json:"twoQubitGateFidelity"`
		SPAMFidelityLowerBound  *float64            `json:"spamFidelityLowerBound"`
		T1                      *float64            `json:"T1"`
		T2                      *float64            `json:"T2"`
		ReadoutTime             *float64            `json:"readoutTime"`
	} `json:"properties"`
}

// AQTCalibration holds the AQT values converted to fractions and seconds.
type AQTCalibration struct {
	SingleQubitFidelity *float64 `json:"singleQubitFidelity,omitempty"`
	TwoQubitFidelity    *float64 `json:"twoQubitFidelity,omitempty"`
	SPAMFidelityLower   *float64 `json:"spamFidelityLowerBound,omitempty"`
	T1                  *float64 `json:"t1Seconds,omitempty"`
	T2                  *float64 `json:"t2Seconds,omitempty"`
	ReadoutTime         *float64 `json:"readoutSeconds,omitempty"`
}

// Vendor implements Calibration.
func (c *AQTCalibration) Vendor() Vendor { return VendorAQT }

// Metrics implements Calibration.
func (c *AQTCalibration) Metrics() []Metric {
	var l metricList
	l.add("Single-Qubit Fidelity", c.SingleQubitFidelity, FormatFidelity)
	l.add("Two-Qubit Fidelity", c.TwoQubitFidelity, FormatFidelity)
	l.add("SPAM Fidelity (lower bound)", c.SPAMFidelityLower, FormatFidelity)
	l.add("T1", c.T1, FormatTime)
	l.add("T2", c.T2, FormatTime)
	l.add("Readout Time", c.ReadoutTime, FormatTime)
	return l
}

func decodeAQT(p *Properties) (Calibration, error) {
	var raw AQTProperties
	ok, err := decodeProvider(p, &raw)
	if err != nil || !ok {
		return nil, err
	}
	return convertAQT(raw), nil
}

func convertAQT(raw AQTProperties) *AQTCalibration {
	r := raw.Properties

	var single mean
	for _, k := range sortedKeys(r.SingleQubitGateFidelity) {
		single.add(percentPtr(r.SingleQubitGateFidelity[k]))
	}

	c := &AQTCalibration{
		SingleQubitFidelity: single.value(),
		TwoQubitFidelity:    percentPtr(r.TwoQubitGateFidelity),
		SPAMFidelityLower:   percentPtr(r.SPAMFidelityLowerBound),
		T1:                  r.T1,
		T2:                  r.T2,
	}
	if r.ReadoutTime != nil {
		s := MicrosecondsToSeconds(*r.ReadoutTime)
		c.ReadoutTime = &s
	}
	return c
}

func percentPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := PercentToFraction(*v)
	return &f
}
