package properties

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pithecene-io/braket-devices/log"
	"github.com/pithecene-io/braket-devices/types"
)

// Vendor identifies a provider whose calibration schema is understood.
type Vendor int

// Known vendors. VendorUnknown covers every other provider.
const (
	VendorUnknown Vendor = iota
	VendorIonQ
	VendorRigetti
	VendorIQM
	VendorAQT
	VendorQuEra
)

// vendorNames maps each known vendor to its Braket provider name.
var vendorNames = map[Vendor]string{
	VendorIonQ:    "IonQ",
	VendorRigetti: "Rigetti",
	VendorIQM:     "IQM",
	VendorAQT:     "AQT",
	VendorQuEra:   "QuEra",
}

// KnownVendors returns the vendors with a calibration schema, in a fixed order.
func KnownVendors() []Vendor {
	return []Vendor{VendorIonQ, VendorRigetti, VendorIQM, VendorAQT, VendorQuEra}
}

// ParseVendor matches a provider name exactly, ignoring case.
func ParseVendor(providerName string) Vendor {
	name := strings.TrimSpace(providerName)
	for _, v := range KnownVendors() {
		if strings.EqualFold(name, vendorNames[v]) {
			return v
		}
	}
	return VendorUnknown
}

func (v Vendor) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return "unknown"
}

// Metric is one labelled, formatted performance value.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// String renders "Label: Value".
func (m Metric) String() string {
	return m.Label + ": " + m.Value
}

// Calibration is a vendor-specific calibration schema decoded from a
// capabilities document. Each vendor has its own implementation; Metrics
// returns the values the document carries, in display order.
type Calibration interface {
	Vendor() Vendor
	Metrics() []Metric
}

// DecodeCalibration decodes the calibration schema for vendor.
// It returns (nil, nil) for VendorUnknown and when the document has no
// section for the vendor. A non-nil calibration returned with an error holds
// the values that survived; the error describes the skipped entries.
func DecodeCalibration(vendor Vendor, p *Properties) (Calibration, error) {
	if p == nil {
		return nil, nil
	}
	switch vendor {
	case VendorIonQ:
		return decodeIonQ(p)
	case VendorRigetti:
		return decodeRigetti(p)
	case VendorIQM:
		return decodeIQM(p)
	case VendorAQT:
		return decodeAQT(p)
	case VendorQuEra:
		return decodeQuEra(p)
	case VendorUnknown:
		return nil, nil
	}
	return nil, fmt.Errorf("no calibration decoder for vendor %d", vendor)
}

// ExtractPerformance returns the performance metrics for a device.
// Simulators and unknown providers yield an empty slice, as does a document
// whose vendor section cannot be decoded. Entries that cannot be read are
// treated as missing.
func ExtractPerformance(deviceType types.DeviceType, providerName string, p *Properties) []Metric {
	return extractPerformance(deviceType, providerName, p, nil)
}

func extractPerformance(deviceType types.DeviceType, providerName string, p *Properties, logger *log.Logger) []Metric {
	metrics := []Metric{}
	if deviceType != types.DeviceTypeQPU || p == nil {
		return metrics
	}

	vendor := ParseVendor(providerName)
	cal, err := DecodeCalibration(vendor, p)
	if err != nil {
		logger.Warn("undecodable calibration data", map[string]any{
			"vendor": vendor.String(),
			"error":  err.Error(),
		})
	}
	if cal == nil {
		return metrics
	}
	return append(metrics, cal.Metrics()...)
}

// decodeProvider unmarshals the provider section into dst.
// Reports false when the section is absent.
func decodeProvider(p *Properties, dst any) (bool, error) {
	if len(p.Provider) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(p.Provider, dst); err != nil {
		return false, fmt.Errorf("provider section: %w", err)
	}
	return true, nil
}

// metricList accumulates metrics, skipping absent values.
type metricList []Metric

func (l *metricList) add(label string, v *float64, format func(float64) string) {
	if v == nil {
		return
	}
	*l = append(*l, Metric{Label: label, Value: format(*v)})
}

// errorRateOf returns 1 - fidelity, or nil when fidelity is unknown.
// Fidelities above 1 give an error rate of 0.
func errorRateOf(fidelity *float64) *float64 {
	if fidelity == nil {
		return nil
	}
	e := max(1-*fidelity, 0)
	return &e
}

// mean averages the present values. Reports nil for no values.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}
