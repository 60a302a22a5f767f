package types //nolint:revive // types is a valid package name

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseDeviceType(t *testing.T) {
	tests := []struct {
		in      string
		want    DeviceType
		wantErr bool
	}{
		{"QPU", DeviceTypeQPU, false},
		{"qpu", DeviceTypeQPU, false},
		{"SIMULATOR", DeviceTypeSimulator, false},
		{"Simulator", DeviceTypeSimulator, false},
		{"AwsDeviceType.QPU", DeviceTypeQPU, false},
		{"annealer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDeviceType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeviceType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDeviceType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDeviceStatus(t *testing.T) {
	tests := map[string]DeviceStatus{
		"ONLINE":   DeviceStatusOnline,
		"offline":  DeviceStatusOffline,
		"Retired":  DeviceStatusRetired,
		"LOADING":  DeviceStatusLoading,
		"degraded": DeviceStatusUnknown,
		"":         DeviceStatusUnknown,
	}
	for in, want := range tests {
		if got := ParseDeviceStatus(in); got != want {
			t.Errorf("ParseDeviceStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDeviceStatus_Listed(t *testing.T) {
	if !DeviceStatusOnline.Listed() || !DeviceStatusOffline.Listed() {
		t.Error("ONLINE and OFFLINE devices must be listed")
	}
	if DeviceStatusRetired.Listed() {
		t.Error("RETIRED devices must not be listed")
	}
}

func TestQueueDepth_JSONPreservesOrder(t *testing.T) {
	in := `{"quantumTasks":{"Priority":"0","Normal":5},"jobs":"3"}`

	var q QueueDepth
	if err := json.Unmarshal([]byte(in), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(q.QuantumTasks) != 2 {
		t.Fatalf("got %d queues, want 2", len(q.QuantumTasks))
	}
	if q.QuantumTasks[0] != (QueueCount{Name: "Priority", Count: 0}) {
		t.Errorf("first queue = %+v", q.QuantumTasks[0])
	}
	if q.QuantumTasks[1] != (QueueCount{Name: "Normal", Count: 5}) {
		t.Errorf("second queue = %+v", q.QuantumTasks[1])
	}
	if q.Jobs == nil || *q.Jobs != 3 {
		t.Fatalf("jobs = %v, want 3", q.Jobs)
	}

	out, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"quantumTasks":{"Priority":0,"Normal":5},"jobs":3}`
	if string(out) != want {
		t.Errorf("marshal = %s, want %s", out, want)
	}
}

func TestQueueDepth_JobsAbsent(t *testing.T) {
	var q QueueDepth
	if err := json.Unmarshal([]byte(`{"quantumTasks":{"Normal":1}}`), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.Jobs != nil {
		t.Errorf("jobs = %d, want nil", *q.Jobs)
	}
}

func TestQueueDepth_InvalidCount(t *testing.T) {
	var q QueueDepth
	if err := json.Unmarshal([]byte(`{"quantumTasks":{"Normal":"many"}}`), &q); err == nil {
		t.Error("expected error for non-numeric queue size")
	}
}

func TestQueueDepth_YAMLPreservesOrder(t *testing.T) {
	jobs := 2
	q := QueueDepth{
		QuantumTasks: []QueueCount{{Name: "Normal", Count: 7}, {Name: "Priority", Count: 1}},
		Jobs:         &jobs,
	}
	out, err := yaml.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)
	if strings.Index(s, "Normal") > strings.Index(s, "Priority") {
		t.Errorf("queue order not preserved:\n%s", s)
	}
	if !strings.Contains(s, "jobs: 2") {
		t.Errorf("missing jobs entry:\n%s", s)
	}
}

func TestParseQueueSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{" 12 ", 12, false},
		{">4000", 4000, false},
		{"-1", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseQueueSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQueueSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQueueSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDeviceDetail_StaticClearsStatus(t *testing.T) {
	jobs := 1
	d := DeviceDetail{
		DeviceSummary: DeviceSummary{DeviceArn: "arn:aws:braket:::device/quantum-simulator/amazon/sv1", DeviceStatus: DeviceStatusOnline},
		QueueDepth:    &QueueDepth{QuantumTasks: []QueueCount{{Name: "Normal", Count: 1}}, Jobs: &jobs},
	}

	s := d.Static()
	if s.DeviceStatus != "" {
		t.Errorf("static status = %q, want empty", s.DeviceStatus)
	}
	s.QueueDepth.SetTask("Normal", 9)
	if n, _ := d.QueueDepth.Task("Normal"); n != 1 {
		t.Errorf("Static must deep-copy queue depth, original changed to %d", n)
	}
}

func TestDeviceDetail_JSONFlattensSummary(t *testing.T) {
	props := `{"paradigm":{"qubitCount":25}}`
	d := DeviceDetail{
		DeviceSummary: DeviceSummary{
			DeviceArn:    "arn:aws:braket:us-east-1::device/qpu/ionq/Aria-1",
			DeviceName:   "Aria 1",
			DeviceType:   DeviceTypeQPU,
			DeviceStatus: DeviceStatusOnline,
			ProviderName: "IonQ",
		},
		Properties: &props,
	}
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["deviceName"] != "Aria 1" {
		t.Errorf("deviceName = %v", m["deviceName"])
	}
	if _, ok := m["queueDepth"]; ok {
		t.Error("absent queueDepth must be omitted")
	}
	if m["properties"] != props {
		t.Errorf("properties = %v", m["properties"])
	}
}
