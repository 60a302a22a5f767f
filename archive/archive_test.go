package archive

import (
	"errors"
	"testing"
	"time"

	"github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/braket-devices/metrics"
	"github.com/pithecene-io/braket-devices/types"
)

const (
	ariaARN  = "arn:aws:braket:us-east-1::device/qpu/ionq/Aria-1"
	ankaaARN = "arn:aws:braket:us-west-1::device/qpu/rigetti/Ankaa-3"
	sv1ARN   = "arn:aws:braket:::device/quantum-simulator/amazon/sv1"
)

func sharedFactory(store lode.Store) lode.StoreFactory {
	return func() (lode.Store, error) { return store, nil }
}

func device(arn, name, provider string, status types.DeviceStatus) types.DeviceSummary {
	return types.DeviceSummary{
		DeviceArn:    arn,
		DeviceName:   name,
		DeviceType:   types.DeviceTypeQPU,
		DeviceStatus: status,
		ProviderName: provider,
	}
}

func TestWriteAndHistory(t *testing.T) {
	m := metrics.NewCollector("us-east-1", BackendMemory, "")
	factory := sharedFactory(lode.NewMemory())
	a, err := New("", BackendMemory, factory, WithMetrics(m))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	t0 := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	poll1 := []Observation{
		ObservationFrom(device(ariaARN, "Aria 1", "IonQ", types.DeviceStatusOnline), 1, t0),
		ObservationFrom(device(ankaaARN, "Ankaa-3", "Rigetti", types.DeviceStatusOffline), 1, t0),
	}
	poll2 := []Observation{
		ObservationFrom(device(ariaARN, "Aria 1", "IonQ", types.DeviceStatusOffline), 2, t0.Add(time.Minute)),
	}
	if err := a.WriteObservations(t.Context(), poll1); err != nil {
		t.Fatalf("WriteObservations failed: %v", err)
	}
	if err := a.WriteObservations(t.Context(), poll2); err != nil {
		t.Fatalf("WriteObservations failed: %v", err)
	}

	// A second archive on the same store sees the same records.
	reader, err := New("", BackendMemory, factory)
	if err != nil {
		t.Fatal(err)
	}

	all, err := reader.History(t.Context(), Query{})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(History) = %d, want 3", len(all))
	}

	aria, err := reader.History(t.Context(), Query{DeviceArn: ariaARN})
	if err != nil {
		t.Fatal(err)
	}
	if len(aria) != 2 || aria[0].Status != types.DeviceStatusOnline || aria[1].Status != types.DeviceStatusOffline {
		t.Fatalf("Aria history = %+v", aria)
	}
	if aria[1].PollSeq != 2 || aria[1].Region != "us-east-1" {
		t.Errorf("Aria poll 2 = %+v", aria[1])
	}
	if !aria[0].ObservedAt.Equal(t0) {
		t.Errorf("ObservedAt = %v, want %v", aria[0].ObservedAt, t0)
	}

	rigetti, err := reader.History(t.Context(), Query{Provider: "rigetti"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rigetti) != 1 || rigetti[0].DeviceArn != ankaaARN {
		t.Errorf("rigetti history = %+v", rigetti)
	}

	recent, err := reader.History(t.Context(), Query{Since: t0.Add(30 * time.Second)})
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Errorf("len(since) = %d, want 1", len(recent))
	}

	s := m.Snapshot()
	if s.ArchiveWriteSuccess != 2 || s.ArchivedObservations != 3 {
		t.Errorf("metrics = %d writes / %d records, want 2 / 3", s.ArchiveWriteSuccess, s.ArchivedObservations)
	}
}

func TestLatest(t *testing.T) {
	factory := sharedFactory(lode.NewMemory())
	a, err := New("status", BackendMemory, factory)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Latest(t.Context()); !errors.Is(err, ErrNoObservations) {
		t.Fatalf("Latest on empty archive = %v, want ErrNoObservations", err)
	}

	t0 := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	for i, status := range []types.DeviceStatus{types.DeviceStatusOnline, types.DeviceStatusOffline} {
		obs := []Observation{
			ObservationFrom(device(ariaARN, "Aria 1", "IonQ", status), uint64(i+1), t0.Add(time.Duration(i)*time.Minute)),
		}
		if err := a.WriteObservations(t.Context(), obs); err != nil {
			t.Fatal(err)
		}
	}
	sv1 := device(sv1ARN, "SV1", "Amazon Braket", types.DeviceStatusOnline)
	sv1.DeviceType = types.DeviceTypeSimulator
	if err := a.WriteObservations(t.Context(), []Observation{ObservationFrom(sv1, 3, t0)}); err != nil {
		t.Fatal(err)
	}

	latest, err := a.Latest(t.Context())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got := latest[ariaARN].Status; got != types.DeviceStatusOffline {
		t.Errorf("Aria latest = %q, want OFFLINE", got)
	}
	if got := latest[sv1ARN]; got.Status != types.DeviceStatusOnline || got.DeviceType != types.DeviceTypeSimulator || got.Region != "" {
		t.Errorf("SV1 latest = %+v", got)
	}
}

func TestWriteTransitions_NotInHistory(t *testing.T) {
	a, err := New("", BackendMemory, sharedFactory(lode.NewMemory()))
	if err != nil {
		t.Fatal(err)
	}
	err = a.WriteTransitions(t.Context(), []Transition{{
		DeviceArn:      ariaARN,
		DeviceName:     "Aria 1",
		ProviderName:   "IonQ",
		PreviousStatus: types.DeviceStatusOnline,
		Status:         types.DeviceStatusOffline,
		ObservedAt:     time.Now(),
	}})
	if err != nil {
		t.Fatalf("WriteTransitions failed: %v", err)
	}

	history, err := a.History(t.Context(), Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("History returned %d transition records as observations", len(history))
	}
}

func TestWriteEmptyBatchIsNoop(t *testing.T) {
	m := metrics.NewCollector("", BackendMemory, "")
	a, err := NewMemory("", WithMetrics(m))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.WriteObservations(t.Context(), nil); err != nil {
		t.Fatal(err)
	}
	if err := a.WriteTransitions(t.Context(), nil); err != nil {
		t.Fatal(err)
	}
	if m.Snapshot().ArchiveWriteSuccess != 0 {
		t.Error("empty batch should not count as a write")
	}
	if a.Backend() != BackendMemory {
		t.Errorf("Backend() = %q", a.Backend())
	}
}

func TestNewFS(t *testing.T) {
	root := t.TempDir()
	a, err := NewFS("", root)
	if err != nil {
		t.Fatalf("NewFS failed: %v", err)
	}
	obs := []Observation{ObservationFrom(device(ariaARN, "Aria 1", "IonQ", types.DeviceStatusOnline), 1, time.Now())}
	if err := a.WriteObservations(t.Context(), obs); err != nil {
		t.Fatalf("WriteObservations failed: %v", err)
	}

	reopened, err := NewFS("", root)
	if err != nil {
		t.Fatal(err)
	}
	history, err := reopened.History(t.Context(), Query{DeviceArn: ariaARN})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("len(History) = %d, want 1", len(history))
	}
}

func TestProviderPartition(t *testing.T) {
	tests := []struct {
		arn, name, want string
	}{
		{ariaARN, "IonQ", "ionq"},
		{sv1ARN, "Amazon Braket", "amazon"},
		{"arn:aws:braket:us-east-1::bogus", "Amazon Braket", "amazon-braket"},
	}
	for _, tt := range tests {
		if got := providerPartition(tt.arn, tt.name); got != tt.want {
			t.Errorf("providerPartition(%q) = %q, want %q", tt.arn, got, tt.want)
		}
	}
}

func TestDay(t *testing.T) {
	at := time.Date(2026, 2, 7, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))
	if got := Day(at); got != "2026-02-08" {
		t.Errorf("Day() = %q, want 2026-02-08 (UTC)", got)
	}
}
