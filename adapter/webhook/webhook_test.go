package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pithecene-io/braket-devices/adapter"
	"github.com/pithecene-io/braket-devices/iox"
	"github.com/pithecene-io/braket-devices/types"
)

func testEvent() *adapter.StatusChangedEvent {
	return &adapter.StatusChangedEvent{
		EventVersion:   adapter.EventVersion,
		EventType:      adapter.EventTypeStatusChanged,
		DeviceArn:      "arn:aws:braket:us-east-1::device/qpu/ionq/Aria-1",
		DeviceName:     "Aria 1",
		ProviderName:   "IonQ",
		DeviceType:     types.DeviceTypeQPU,
		Region:         "us-east-1",
		PreviousStatus: types.DeviceStatusOnline,
		Status:         types.DeviceStatusOffline,
		ObservedAt:     "2026-02-07T12:00:00Z",
	}
}

func TestPublish_Success(t *testing.T) {
	var received adapter.StatusChangedEvent
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if et := r.Header.Get(EventTypeHeader); et != adapter.EventTypeStatusChanged {
			t.Errorf("expected event header %s, got %s", adapter.EventTypeStatusChanged, et)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a, err := New(Config{URL: ts.URL, Retries: 0})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(a)

	event := testEvent()
	if err := a.Publish(t.Context(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if received.DeviceName != "Aria 1" {
		t.Errorf("expected Aria 1, got %s", received.DeviceName)
	}
	if received.PreviousStatus != types.DeviceStatusOnline || received.Status != types.DeviceStatusOffline {
		t.Errorf("expected ONLINE -> OFFLINE, got %s -> %s", received.PreviousStatus, received.Status)
	}
}

func TestPublish_RetriesOnFailure(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := attempts.Add(1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a, err := New(Config{URL: ts.URL, Retries: 3, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(a)

	if err := a.Publish(t.Context(), testEvent()); err != nil {
		t.Fatalf("publish should succeed after retries: %v", err)
	}

	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestPublish_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	a, err := New(Config{URL: ts.URL, Retries: 0, Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(a)

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()

	err = a.Publish(ctx, testEvent())
	if err == nil {
		t.Fatal("expected error on canceled context")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantErr     bool
		wantTimeout time.Duration
	}{
		{"missing url", Config{}, true, 0},
		{"negative retries", Config{URL: "http://example.com", Retries: -1}, true, 0},
		{"default timeout", Config{URL: "http://example.com"}, false, DefaultTimeout},
		{"explicit", Config{URL: "http://example.com", Retries: 5, Timeout: time.Second}, false, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if a.config.Timeout != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", a.config.Timeout, tt.wantTimeout)
			}
			if a.config.Retries != tt.cfg.Retries {
				t.Errorf("retries = %d, want %d", a.config.Retries, tt.cfg.Retries)
			}
		})
	}
}

func TestPublish_Accepts2xxRange(t *testing.T) {
	codes := []int{200, 201, 202, 204}
	for _, code := range codes {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			a, err := New(Config{URL: ts.URL, Retries: 0})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			defer iox.DiscardClose(a)

			if err := a.Publish(t.Context(), testEvent()); err != nil {
				t.Fatalf("expected success for %d, got %v", code, err)
			}
		})
	}
}

func TestPublish_RetryPolicy(t *testing.T) {
	tests := []struct {
		code     int
		attempts int32
	}{
		{http.StatusBadRequest, 1},
		{http.StatusUnauthorized, 1},
		{http.StatusForbidden, 1},
		{http.StatusNotFound, 1},
		{http.StatusRequestTimeout, 2},
		{http.StatusTooManyRequests, 2},
		{http.StatusInternalServerError, 2},
		{http.StatusBadGateway, 2},
		{http.StatusServiceUnavailable, 2},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			var attempts atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				attempts.Add(1)
				w.WriteHeader(tt.code)
			}))
			defer ts.Close()

			a, err := New(Config{URL: ts.URL, Retries: 1, Timeout: 5 * time.Second})
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			defer iox.DiscardClose(a)

			err = a.Publish(t.Context(), testEvent())
			var statusErr *StatusError
			if !errors.As(err, &statusErr) || statusErr.Code != tt.code {
				t.Fatalf("expected StatusError %d, got %v", tt.code, err)
			}
			if got := attempts.Load(); got != tt.attempts {
				t.Errorf("attempts = %d, want %d", got, tt.attempts)
			}
		})
	}
}

func TestPublish_StatusErrorKeepsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, "unknown device\n")
	}))
	defer ts.Close()

	a, err := New(Config{URL: ts.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(a)

	err = a.Publish(t.Context(), testEvent())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Body != "unknown device" {
		t.Errorf("Body = %q", statusErr.Body)
	}
	if !strings.Contains(err.Error(), "422: unknown device") {
		t.Errorf("error = %q", err)
	}
}

func TestPublish_Headers(t *testing.T) {
	var got, auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(DeviceHeader)
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	a, err := New(Config{
		URL:     ts.URL,
		Headers: map[string]string{"Authorization": "Bearer test-token"},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(a)

	event := testEvent()
	if err := a.Publish(t.Context(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got != event.DeviceArn {
		t.Errorf("%s = %q, want %q", DeviceHeader, got, event.DeviceArn)
	}
	if auth != "Bearer test-token" {
		t.Errorf("Authorization = %q", auth)
	}
}
