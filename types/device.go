//nolint:revive // types is a common Go package naming convention
package types

import (
	"fmt"
	"strings"
)

// DeviceType is the device category.
type DeviceType string

// Device categories as reported by the Braket API.
const (
	DeviceTypeQPU       DeviceType = "QPU"
	DeviceTypeSimulator DeviceType = "SIMULATOR"
)

// ParseDeviceType parses a device category case-insensitively.
// Accepts the SDK enum spelling ("AwsDeviceType.QPU") as well.
func ParseDeviceType(s string) (DeviceType, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "AWSDEVICETYPE.")
	switch v {
	case "QPU":
		return DeviceTypeQPU, nil
	case "SIMULATOR":
		return DeviceTypeSimulator, nil
	default:
		return "", fmt.Errorf("invalid device type: %q (must be QPU or SIMULATOR)", s)
	}
}

// DeviceStatus is the live availability of a device.
type DeviceStatus string

// Device statuses. LOADING is a placeholder used while the live status of a
// catalog entry has not resolved yet; it never comes from the API.
const (
	DeviceStatusOnline  DeviceStatus = "ONLINE"
	DeviceStatusOffline DeviceStatus = "OFFLINE"
	DeviceStatusRetired DeviceStatus = "RETIRED"
	DeviceStatusUnknown DeviceStatus = "UNKNOWN"
	DeviceStatusLoading DeviceStatus = "LOADING"
)

// ParseDeviceStatus parses a status case-insensitively.
// Unrecognized values map to UNKNOWN rather than failing.
func ParseDeviceStatus(s string) DeviceStatus {
	switch DeviceStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case DeviceStatusOnline:
		return DeviceStatusOnline
	case DeviceStatusOffline:
		return DeviceStatusOffline
	case DeviceStatusRetired:
		return DeviceStatusRetired
	case DeviceStatusLoading:
		return DeviceStatusLoading
	default:
		return DeviceStatusUnknown
	}
}

// Listed reports whether devices in this status appear in device listings.
// RETIRED devices are excluded.
func (s DeviceStatus) Listed() bool {
	return s == DeviceStatusOnline || s == DeviceStatusOffline
}

// DeviceSummary is the list-level view of a device.
type DeviceSummary struct {
	DeviceArn    string       `json:"deviceArn" yaml:"deviceArn"`
	DeviceName   string       `json:"deviceName" yaml:"deviceName"`
	DeviceType   DeviceType   `json:"deviceType" yaml:"deviceType"`
	DeviceStatus DeviceStatus `json:"deviceStatus" yaml:"deviceStatus"`
	ProviderName string       `json:"providerName" yaml:"providerName"`
	// QubitCount is known statically for catalog entries; nil when unknown.
	QubitCount *int `json:"qubitCount,omitempty" yaml:"qubitCount,omitempty"`
}

// DeviceDetail extends DeviceSummary with queue depth and the raw
// vendor-specific properties document.
type DeviceDetail struct {
	DeviceSummary `yaml:",inline"`
	QueueDepth    *QueueDepth `json:"queueDepth,omitempty" yaml:"queueDepth,omitempty"`
	// Properties is the serialized device capabilities JSON. Nil when the
	// upstream did not provide one.
	Properties *string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Static returns a copy of the detail with the status cleared.
// Used when caching the parts of a detail that do not change between calls.
func (d DeviceDetail) Static() DeviceDetail {
	out := d
	out.DeviceStatus = ""
	if d.QueueDepth != nil {
		q := d.QueueDepth.Clone()
		out.QueueDepth = &q
	}
	return out
}

// CatalogEntry is a static device record: everything but the live status.
type CatalogEntry struct {
	DeviceArn    string     `json:"deviceArn" yaml:"deviceArn" msgpack:"device_arn"`
	DeviceName   string     `json:"deviceName" yaml:"deviceName" msgpack:"device_name"`
	DeviceType   DeviceType `json:"deviceType" yaml:"deviceType" msgpack:"device_type"`
	ProviderName string     `json:"providerName" yaml:"providerName" msgpack:"provider_name"`
	QubitCount   *int       `json:"qubitCount,omitempty" yaml:"qubitCount,omitempty" msgpack:"qubit_count,omitempty"`
}

// Summary returns a DeviceSummary for the entry with the given status.
func (e CatalogEntry) Summary(status DeviceStatus) DeviceSummary {
	return DeviceSummary{
		DeviceArn:    e.DeviceArn,
		DeviceName:   e.DeviceName,
		DeviceType:   e.DeviceType,
		DeviceStatus: status,
		ProviderName: e.ProviderName,
		QubitCount:   e.QubitCount,
	}
}
