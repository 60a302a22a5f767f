package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pithecene-io/braket-devices/api"
	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/types"
)

const ariaARN = "arn:aws:braket:us-east-1::device/qpu/ionq/Aria-1"

type stubRegistry struct {
	list   braket.DeviceList
	detail *types.DeviceDetail
	err    error
}

func (s *stubRegistry) ListDevices(context.Context) (braket.DeviceList, error) {
	return s.list, s.err
}

func (s *stubRegistry) GetDevice(_ context.Context, arn string) (types.DeviceDetail, error) {
	if s.err != nil {
		return types.DeviceDetail{}, s.err
	}
	if s.detail == nil || s.detail.DeviceArn != arn {
		return types.DeviceDetail{}, braket.NewError(braket.ErrNotFound, "get-device", arn, errors.New("missing"))
	}
	return *s.detail, nil
}

func (s *stubRegistry) DeviceStatus(ctx context.Context, arn string) (types.DeviceStatus, error) {
	d, err := s.GetDevice(ctx, arn)
	return d.DeviceStatus, err
}

func aria() *types.DeviceDetail {
	return &types.DeviceDetail{DeviceSummary: types.DeviceSummary{
		DeviceArn: ariaARN, DeviceName: "Aria 1", DeviceType: types.DeviceTypeQPU,
		DeviceStatus: types.DeviceStatusOnline, ProviderName: "IonQ",
	}}
}

func newTestClient(t *testing.T, reg braket.Registry, base string) *Client {
	t.Helper()
	srv := httptest.NewServer(api.NewServer(reg, api.WithBasePath(base)).Handler())
	t.Cleanup(srv.Close)
	c, err := New(srv.URL + base)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestListDevices(t *testing.T) {
	reg := &stubRegistry{list: braket.DeviceList{
		Devices:  []types.DeviceSummary{aria().DeviceSummary},
		Warnings: []string{"region eu-north-1: throttled"},
	}}
	c := newTestClient(t, reg, "")

	got, err := c.ListDevices(t.Context())
	if err != nil {
		t.Fatalf("ListDevices() error = %v", err)
	}
	if len(got.Devices) != 1 || got.Devices[0].DeviceArn != ariaARN {
		t.Errorf("devices = %+v", got.Devices)
	}
	if len(got.Warnings) != 1 || got.Warnings[0] != "region eu-north-1: throttled" {
		t.Errorf("warnings = %v", got.Warnings)
	}
}

func TestGetDevice_WithBasePath(t *testing.T) {
	c := newTestClient(t, &stubRegistry{detail: aria()}, "/api")

	d, err := c.GetDevice(t.Context(), ariaARN)
	if err != nil {
		t.Fatalf("GetDevice() error = %v", err)
	}
	if d.DeviceName != "Aria 1" {
		t.Errorf("DeviceName = %q", d.DeviceName)
	}

	status, err := c.DeviceStatus(t.Context(), ariaARN)
	if err != nil || status != types.DeviceStatusOnline {
		t.Errorf("DeviceStatus() = %q, %v", status, err)
	}
}

func TestGetDevice_Errors(t *testing.T) {
	tests := []struct {
		name     string
		arn      string
		err      error
		wantKind braket.Kind
		wantCode int
	}{
		{"validation", "bogus", nil, braket.KindValidation, http.StatusBadRequest},
		{"not found", "arn:aws:braket:us-east-1::device/qpu/ionq/Nope", nil, braket.KindNotFound, http.StatusNotFound},
		{"permission", ariaARN, braket.NewError(braket.ErrPermission, "get-device", ariaARN, errors.New("denied")), braket.KindPermission, http.StatusForbidden},
		{"unavailable", ariaARN, braket.NewError(braket.ErrUnavailable, "get-device", ariaARN, errors.New("throttled")), braket.KindServer, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &stubRegistry{detail: aria(), err: tt.err}, "")

			_, err := c.GetDevice(t.Context(), tt.arn)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.Type != tt.wantKind || apiErr.StatusCode != tt.wantCode {
				t.Errorf("APIError = %+v", apiErr)
			}
			if braket.KindOf(err) != tt.wantKind {
				t.Errorf("KindOf = %q, want %q", braket.KindOf(err), tt.wantKind)
			}
			if braket.HTTPStatus(err) != tt.wantCode {
				t.Errorf("HTTPStatus = %d, want %d", braket.HTTPStatus(err), tt.wantCode)
			}
		})
	}
}

func TestGetDevice_MissingDeviceIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.GetDevice(t.Context(), ariaARN)
	if !errors.Is(err, braket.ErrNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestGet_UnreadableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.ListDevices(t.Context())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Type != braket.KindNetwork {
		t.Fatalf("error = %v, want network APIError", err)
	}
	if !strings.Contains(apiErr.Message, "bad gateway") {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestGet_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.ListDevices(t.Context())
	if braket.KindOf(err) != braket.KindNetwork {
		t.Fatalf("KindOf = %q, want network (err = %v)", braket.KindOf(err), err)
	}
}

func TestView(t *testing.T) {
	c := newTestClient(t, &stubRegistry{detail: aria()}, "")

	v, err := c.View(t.Context(), ariaARN)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if v.PropertiesAvailable {
		t.Error("PropertiesAvailable = true without a document")
	}
	if v.Summary.DeviceArn != ariaARN {
		t.Errorf("summary = %+v", v.Summary)
	}
}

func TestCatalogAndMetrics(t *testing.T) {
	c := newTestClient(t, &stubRegistry{}, "")

	cat, err := c.Catalog(t.Context())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if cat.Len() == 0 {
		t.Error("empty catalog")
	}

	if _, err := c.Metrics(t.Context()); err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"localhost:8080", "ftp://host", "://"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q) succeeded", u)
		}
	}
}
