package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mgbdash/dashbus/internal/canlog"
	"github.com/mgbdash/dashbus/internal/heartbeat"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "node.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
role = "body"
min_log_level = "warn"

[transport]
kind = "slcan"
device = "/dev/ttyUSB0"
baud = 921600
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Role != "body" {
		t.Fatalf("role = %q", cfg.Role)
	}
	if cfg.MinLogLevel != canlog.LevelWarn {
		t.Fatalf("min level = %v", cfg.MinLogLevel)
	}
	if cfg.Bitrate != 500000 {
		t.Fatalf("bitrate default = %d", cfg.Bitrate)
	}
	if cfg.Transport.Kind != "slcan" || cfg.Transport.Device != "/dev/ttyUSB0" || cfg.Transport.Baud != 921600 {
		t.Fatalf("transport = %+v", cfg.Transport)
	}
}

func TestLoadRejectsUnknownRole(t *testing.T) {
	path := writeConfig(t, `role = "chassis"`)
	if _, err := Load(path); err == nil {
		t.Fatal("unknown role must fail")
	}
}

func TestLoadRejectsUnknownLevel(t *testing.T) {
	path := writeConfig(t, `min_log_level = "verbose"`)
	if _, err := Load(path); err == nil {
		t.Fatal("unknown level must fail")
	}
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	path := writeConfig(t, "[transport]\nkind = \"socketcan\"\n")
	if _, err := Load(path); err == nil {
		t.Fatal("unknown transport kind must fail")
	}
}

func TestResolveRole(t *testing.T) {
	lr, hr, err := ResolveRole("GPS")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if lr != canlog.RoleGPS {
		t.Fatalf("log role = %v", lr)
	}
	if hr != heartbeat.RoleGPS {
		t.Fatalf("heartbeat role = %q", hr.String())
	}
}
