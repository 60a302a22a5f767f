package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/types"
)

// Record kinds, stored in the record_kind partition.
const (
	RecordKindObservation = "observation"
	RecordKindTransition  = "transition"
)

// partitionKeys is the Hive layout of the dataset.
var partitionKeys = []string{"record_kind", "provider", "day"}

// Observation is one device status seen by one poll.
type Observation struct {
	DeviceArn    string
	DeviceName   string
	ProviderName string
	DeviceType   types.DeviceType
	Status       types.DeviceStatus
	Region       string
	ObservedAt   time.Time
	// PollSeq is the sequence number of the poll that produced the
	// observation.
	PollSeq uint64
}

// Transition is a status change between two polls.
type Transition struct {
	DeviceArn      string
	DeviceName     string
	ProviderName   string
	PreviousStatus types.DeviceStatus
	Status         types.DeviceStatus
	ObservedAt     time.Time
}

// ObservationFrom builds the observation of d made by poll seq.
func ObservationFrom(d types.DeviceSummary, seq uint64, at time.Time) Observation {
	return Observation{
		DeviceArn:    d.DeviceArn,
		DeviceName:   d.DeviceName,
		ProviderName: d.ProviderName,
		DeviceType:   d.DeviceType,
		Status:       d.DeviceStatus,
		Region:       braket.RegionFromARN(d.DeviceArn),
		ObservedAt:   at.UTC(),
		PollSeq:      seq,
	}
}

// Day formats the day partition value (YYYY-MM-DD, UTC).
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// providerPartition is the provider path segment of the ARN, which is
// stable and free of spaces unlike the display name.
func providerPartition(arn, providerName string) string {
	if p := braket.ProviderFromARN(arn); p != "" {
		return p
	}
	return strings.ToLower(strings.ReplaceAll(providerName, " ", "-"))
}

func (o Observation) record() map[string]any {
	return map[string]any{
		"record_kind":   RecordKindObservation,
		"device_arn":    o.DeviceArn,
		"device_name":   o.DeviceName,
		"provider_name": o.ProviderName,
		"device_type":   string(o.DeviceType),
		"status":        string(o.Status),
		"region":        o.Region,
		"observed_at":   o.ObservedAt.UTC().Format(time.RFC3339Nano),
		"poll_seq":      o.PollSeq,
		"provider":      providerPartition(o.DeviceArn, o.ProviderName),
		"day":           Day(o.ObservedAt),
	}
}

func (t Transition) record() map[string]any {
	return map[string]any{
		"record_kind":     RecordKindTransition,
		"device_arn":      t.DeviceArn,
		"device_name":     t.DeviceName,
		"provider_name":   t.ProviderName,
		"previous_status": string(t.PreviousStatus),
		"status":          string(t.Status),
		"observed_at":     t.ObservedAt.UTC().Format(time.RFC3339Nano),
		"provider":        providerPartition(t.DeviceArn, t.ProviderName),
		"day":             Day(t.ObservedAt),
	}
}

// observationFromRecord decodes a stored observation. Numbers come back
// from JSONL as float64.
func observationFromRecord(r map[string]any) (Observation, error) {
	at, err := time.Parse(time.RFC3339Nano, str(r["observed_at"]))
	if err != nil {
		return Observation{}, fmt.Errorf("observed_at: %w", err)
	}
	o := Observation{
		DeviceArn:    str(r["device_arn"]),
		DeviceName:   str(r["device_name"]),
		ProviderName: str(r["provider_name"]),
		DeviceType:   types.DeviceType(str(r["device_type"])),
		Status:       types.ParseDeviceStatus(str(r["status"])),
		Region:       str(r["region"]),
		ObservedAt:   at,
	}
	switch v := r["poll_seq"].(type) {
	case float64:
		o.PollSeq = uint64(v)
	case uint64:
		o.PollSeq = v
	}
	return o, nil
}

func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
