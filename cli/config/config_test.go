package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `regions: [us-east-1, us-west-1, eu-north-1]
profile: research
endpoint: http://localhost:4566
server_url: http://devices.internal:8080/api
catalog: ./catalog.yaml
cache_ttl: 30m

log:
  level: debug

server:
  addr: ":9090"
  base_path: /api
  cors_origins:
    - https://notebook.example.com

watch:
  interval: 2m
  restore: false

storage:
  dataset: braket-devices
  backend: s3
  path: my-bucket/prefix
  region: us-east-1
  endpoint: https://example.com
  s3_path_style: true

adapter:
  type: webhook
  url: https://hooks.example.com/braket
  headers:
    Authorization: Bearer token123
  timeout: 10s
  retries: 3
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Regions) != 3 || cfg.Regions[2] != "eu-north-1" {
		t.Errorf("regions = %v", cfg.Regions)
	}
	assertEqual(t, "profile", cfg.Profile, "research")
	assertEqual(t, "endpoint", cfg.Endpoint, "http://localhost:4566")
	assertEqual(t, "server_url", cfg.ServerURL, "http://devices.internal:8080/api")
	assertEqual(t, "catalog", cfg.Catalog, "./catalog.yaml")
	if cfg.CacheTTL.Duration != 30*time.Minute {
		t.Errorf("cache_ttl = %v", cfg.CacheTTL.Duration)
	}
	assertEqual(t, "log.level", cfg.Log.Level, "debug")

	assertEqual(t, "server.addr", cfg.Server.Addr, ":9090")
	assertEqual(t, "server.base_path", cfg.Server.BasePath, "/api")
	if len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("cors_origins = %v", cfg.Server.CORSOrigins)
	}

	if cfg.Watch.Interval.Duration != 2*time.Minute {
		t.Errorf("watch.interval = %v", cfg.Watch.Interval.Duration)
	}
	if cfg.Watch.RestoreEnabled() {
		t.Error("watch.restore: false should disable restore")
	}

	assertEqual(t, "storage.backend", cfg.Storage.Backend, "s3")
	assertEqual(t, "storage.path", cfg.Storage.Path, "my-bucket/prefix")
	assertEqual(t, "storage.region", cfg.Storage.Region, "us-east-1")
	assertEqual(t, "storage.endpoint", cfg.Storage.Endpoint, "https://example.com")
	if !cfg.Storage.S3PathStyle {
		t.Error("expected storage.s3_path_style=true")
	}

	assertEqual(t, "adapter.type", cfg.Adapter.Type, "webhook")
	assertEqual(t, "adapter.url", cfg.Adapter.URL, "https://hooks.example.com/braket")
	assertEqual(t, "adapter.headers.Authorization", cfg.Adapter.Headers["Authorization"], "Bearer token123")
	if cfg.Adapter.Timeout.Duration != 10*time.Second {
		t.Errorf("adapter.timeout = %v", cfg.Adapter.Timeout.Duration)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 3 {
		t.Errorf("adapter.retries = %v", cfg.Adapter.Retries)
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	for name, content := range map[string]string{
		"empty":      "",
		"whitespace": "   \n  \n  \n",
		"comments":   "# This is a comment\n# Another comment\n",
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeTemp(t, content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(cfg.Regions) != 0 || cfg.Adapter.Type != "" {
				t.Errorf("expected zero config, got %+v", cfg)
			}
			if !cfg.Watch.RestoreEnabled() {
				t.Error("restore should default to enabled")
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeTemp(t, "{{invalid yaml"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("BRAKET_DEVICES_REGION", "us-west-1")
	yaml := `regions: ["${BRAKET_DEVICES_REGION}"]
storage:
  path: ${BRAKET_DEVICES_ARCHIVE:-./observations}
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Regions) != 1 || cfg.Regions[0] != "us-west-1" {
		t.Errorf("regions = %v", cfg.Regions)
	}
	assertEqual(t, "storage.path", cfg.Storage.Path, "./observations")
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	tests := []struct {
		name, yaml, key string
	}{
		{"top level", "regions: [us-east-1]\nbogus_key: should_fail\n", "bogus_key"},
		{"nested", "storage:\n  backend: fs\n  path: ./data\n  unknown_field: bad\n", "unknown_field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.yaml))
			if err == nil {
				t.Fatal("expected error for unknown key, got nil")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error should mention the unknown key, got: %v", err)
			}
		})
	}
}

func TestLoad_RetriesZeroDistinctFromNil(t *testing.T) {
	cfg, err := Load(writeTemp(t, "adapter:\n  type: webhook\n  url: https://example.com\n  retries: 0\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Adapter.Retries == nil || *cfg.Adapter.Retries != 0 {
		t.Errorf("retries: 0 should parse as *int(0), got %v", cfg.Adapter.Retries)
	}

	cfg, err = Load(writeTemp(t, "adapter:\n  type: webhook\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Adapter.Retries != nil {
		t.Errorf("omitted retries should be nil, got %d", *cfg.Adapter.Retries)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{`"10s"`, 10 * time.Second, false},
		{`"5m30s"`, 5*time.Minute + 30*time.Second, false},
		{`""`, 0, false},
		{`"forever"`, 0, true},
	}
	for _, tt := range tests {
		cfg, err := Load(writeTemp(t, "adapter:\n  timeout: "+tt.value+"\n"))
		if (err != nil) != tt.wantErr {
			t.Fatalf("timeout %s: err = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if err == nil && cfg.Adapter.Timeout.Duration != tt.want {
			t.Errorf("timeout %s = %v, want %v", tt.value, cfg.Adapter.Timeout.Duration, tt.want)
		}
	}
}

func TestLoad_RedisAdapterConfig(t *testing.T) {
	yaml := `adapter:
  type: redis
  url: redis://localhost:6379/0
  channel: braket-devices:status_changed
  status_key: braket-devices:status
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "adapter.type", cfg.Adapter.Type, "redis")
	assertEqual(t, "adapter.url", cfg.Adapter.URL, "redis://localhost:6379/0")
	assertEqual(t, "adapter.channel", cfg.Adapter.Channel, "braket-devices:status_changed")
	assertEqual(t, "adapter.status_key", cfg.Adapter.StatusKey, "braket-devices:status")
}

// writeTemp writes content to a temp file and returns the path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "braket-devices.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr []string
	}{
		{"bad log level", "log:\n  level: verbose\n", []string{"log.level"}},
		{"bad adapter", "adapter:\n  type: kafka\n", []string{"adapter.type"}},
		{"bad backend", "storage:\n  backend: gcs\n", []string{"storage.backend"}},
		{"relative base path", "server:\n  base_path: api\n", []string{"server.base_path"}},
		{"negative retries", "adapter:\n  retries: -1\n", []string{"adapter.retries"}},
		{"negative interval", "watch:\n  interval: -1m\n", []string{"watch.interval"}},
		{"empty region", "regions: [us-east-1, \"\"]\n", []string{"regions[1]"}},
		{"all reported", "log:\n  level: loud\nstorage:\n  backend: tape\n", []string{"log.level", "storage.backend"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %s", err, want)
				}
			}
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeTemp(t, ""))
	if err != nil {
		t.Fatalf("empty config should load: %v", err)
	}
	if !cfg.Watch.RestoreEnabled() {
		t.Error("restore should default to enabled")
	}
}
