package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pithecene-io/braket-devices/archive"
	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/catalog"
	"github.com/pithecene-io/braket-devices/log"
	"github.com/pithecene-io/braket-devices/types"
)

type fakeRegistry struct {
	list    braket.DeviceList
	details map[string]types.DeviceDetail
}

func (f *fakeRegistry) ListDevices(context.Context) (braket.DeviceList, error) {
	return f.list, nil
}

func (f *fakeRegistry) GetDevice(_ context.Context, arn string) (types.DeviceDetail, error) {
	d, ok := f.details[arn]
	if !ok {
		return types.DeviceDetail{}, braket.NewError(braket.ErrNotFound, "get-device", arn, errors.New("no such device"))
	}
	return d, nil
}

func (f *fakeRegistry) DeviceStatus(ctx context.Context, arn string) (types.DeviceStatus, error) {
	d, err := f.GetDevice(ctx, arn)
	return d.DeviceStatus, err
}

func TestResolveEncoding(t *testing.T) {
	tests := []struct {
		flag, output string
		want         catalog.Encoding
		wantErr      bool
	}{
		{"", "", catalog.EncodingJSON, false},
		{"", "devices.yaml", catalog.EncodingYAML, false},
		{"", "s3://bucket/devices.msgpack", catalog.EncodingMsgpack, false},
		{"yaml", "devices.json", catalog.EncodingYAML, false},
		{"toml", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.flag+"|"+tt.output, func(t *testing.T) {
			got, err := resolveEncoding(tt.flag, tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportAction_WritesFile(t *testing.T) {
	for _, ext := range []string{"json", "yaml", "msgpack"} {
		t.Run(ext, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "devices."+ext)
			if err := newTestApp(ExportCommand()).Run([]string{"braket-devices", "export", "--output", out}); err != nil {
				t.Fatalf("export: %v", err)
			}

			got, err := catalog.Load(out)
			if err != nil {
				t.Fatalf("load exported catalog: %v", err)
			}
			if got.Len() != catalog.Seed().Len() {
				t.Errorf("exported %d devices, want %d", got.Len(), catalog.Seed().Len())
			}
		})
	}
}

func TestExportAction_InvalidEncoding(t *testing.T) {
	err := newTestApp(ExportCommand()).Run([]string{"braket-devices", "export", "--encoding", "toml"})
	if err == nil || !strings.Contains(err.Error(), "invalid encoding") {
		t.Errorf("expected invalid encoding error, got %v", err)
	}
}

func TestUploadS3_RequiresKey(t *testing.T) {
	err := uploadS3(t.Context(), archive.S3Config{}, "s3://bucket", catalog.EncodingJSON, nil)
	if err == nil || !strings.Contains(err.Error(), "missing object key") {
		t.Errorf("expected missing key error, got %v", err)
	}
}

func TestLiveCatalog(t *testing.T) {
	const (
		aria   = "arn:aws:braket:us-east-1::device/qpu/ionq/Aria-1"
		garnet = "arn:aws:braket:eu-north-1::device/qpu/iqm/Garnet"
		newQPU = "arn:aws:braket:us-west-1::device/qpu/rigetti/Cepheus-1"
	)
	props := `{"paradigm": {"qubitCount": 20}}`
	reg := &fakeRegistry{
		list: braket.DeviceList{Devices: []types.DeviceSummary{
			{DeviceArn: aria, DeviceName: "Aria 1", DeviceType: types.DeviceTypeQPU, ProviderName: "IonQ", DeviceStatus: types.DeviceStatusOnline},
			{DeviceArn: garnet, DeviceName: "Garnet", DeviceType: types.DeviceTypeQPU, ProviderName: "IQM", DeviceStatus: types.DeviceStatusOnline},
			{DeviceArn: newQPU, DeviceName: "Cepheus-1", DeviceType: types.DeviceTypeQPU, ProviderName: "Rigetti", DeviceStatus: types.DeviceStatusOffline},
		}},
		details: map[string]types.DeviceDetail{
			garnet: {
				DeviceSummary: types.DeviceSummary{DeviceArn: garnet, DeviceName: "Garnet", DeviceType: types.DeviceTypeQPU, ProviderName: "IQM"},
				Properties:    &props,
			},
		},
	}

	cat, err := liveCatalog(t.Context(), reg, catalog.Seed(), log.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", cat.Len())
	}

	// Aria 1 has no detail; its count comes from the seed catalog.
	if e, _ := cat.Lookup(aria); e.QubitCount == nil || *e.QubitCount != 25 {
		t.Errorf("Aria 1 qubits = %v, want 25 from the seed", e.QubitCount)
	}
	// Garnet's count comes from its capabilities document.
	if e, _ := cat.Lookup(garnet); e.QubitCount == nil || *e.QubitCount != 20 {
		t.Errorf("Garnet qubits = %v, want 20", e.QubitCount)
	}
	// Unknown everywhere stays unknown.
	if e, _ := cat.Lookup(newQPU); e.QubitCount != nil {
		t.Errorf("Cepheus qubits = %d, want unknown", *e.QubitCount)
	}
}
