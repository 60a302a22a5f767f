package properties

import (
	"github.com/pithecene-io/braket-devices/log"
	"github.com/pithecene-io/braket-devices/types"
)

// View is the normalized projection of one device detail.
type View struct {
	Summary types.DeviceSummary `json:"summary"`
	Queue   []QueueRow          `json:"queue,omitempty"`
	// PropertiesAvailable is false when the detail had no usable
	// capabilities document; every section below is then empty.
	PropertiesAvailable bool                `json:"propertiesAvailable"`
	Hardware            *HardwareSpecs      `json:"hardware,omitempty"`
	Operational         *OperationalDetails `json:"operational,omitempty"`
	NativeGates         []Gate              `json:"nativeGates"`
	NativeGateSet       []Gate              `json:"nativeGateSet"`
	SupportedGates      []Gate              `json:"supportedGates"`
	ResultTypes         []ResultType        `json:"resultTypes"`
	// PerformanceApplicable is false for simulators, unknown providers and
	// documents without calibration data; views show "not applicable"
	// instead of an empty table.
	PerformanceApplicable bool     `json:"performanceApplicable"`
	Performance           []Metric `json:"performance"`
}

// BuildView normalizes a device detail. It never fails; a malformed
// capabilities document is logged and yields a view without properties.
func BuildView(detail types.DeviceDetail, logger *log.Logger) View {
	v := View{
		Summary:        detail.DeviceSummary,
		NativeGates:    []Gate{},
		NativeGateSet:  []Gate{},
		SupportedGates: []Gate{},
		ResultTypes:    []ResultType{},
		Performance:    []Metric{},
	}
	if detail.QueueDepth != nil {
		v.Queue = FormatQueueDepth(*detail.QueueDepth)
	}

	logger = logger.With("device_arn", detail.DeviceArn)
	p, ok := Parse(detail.Properties, logger)
	if !ok {
		return v
	}

	v.PropertiesAvailable = true
	hw := ExtractHardware(p)
	op := ExtractOperational(p)
	v.Hardware = &hw
	v.Operational = &op
	if v.Summary.QubitCount == nil && hw.QubitCount != nil {
		n := *hw.QubitCount
		v.Summary.QubitCount = &n
	}
	v.NativeGates = ExtractNativeGates(p)
	v.NativeGateSet = ExtractNativeGateSet(p)
	v.SupportedGates = ExtractSupportedGates(p)
	v.ResultTypes = ExtractResultTypes(p)
	v.Performance = extractPerformance(detail.DeviceType, detail.ProviderName, p, logger)
	v.PerformanceApplicable = len(v.Performance) > 0
	return v
}
