// Package config loads a node's TOML configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mgbdash/dashbus/internal/canid"
	"github.com/mgbdash/dashbus/internal/canlog"
	"github.com/mgbdash/dashbus/internal/heartbeat"
)

// Transport selects and parameterizes the frame controller.
type Transport struct {
	// Kind is "ebyte" (CAN-Ethernet adapter) or "slcan" (serial).
	Kind    string
	Address string // ebyte: host:port
	Device  string // slcan: serial device path
	Baud    int    // slcan: serial baud rate
}

// Config is a node's resolved runtime configuration.
type Config struct {
	Role        string
	MinLogLevel canlog.Level
	Bitrate     uint32
	Transport   Transport
}

// Default returns the configuration a node runs with when the file
// defines nothing.
func Default() Config {
	return Config{
		Role:        "dash",
		MinLogLevel: canlog.LevelDebug,
		Bitrate:     canid.DefaultBitrate,
		Transport: Transport{
			Kind: "ebyte",
			Baud: 115200,
		},
	}
}

type fileConfig struct {
	Role        string `toml:"role"`
	MinLogLevel string `toml:"min_log_level"`
	Bitrate     uint32 `toml:"bitrate"`
	Transport   struct {
		Kind    string `toml:"kind"`
		Address string `toml:"address"`
		Device  string `toml:"device"`
		Baud    int    `toml:"baud"`
	} `toml:"transport"`
}

// Load reads path and overlays it on the defaults. Only keys present in
// the file override.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("role") {
		cfg.Role = strings.TrimSpace(raw.Role)
	}
	if meta.IsDefined("min_log_level") {
		lv, err := canlog.ParseLevel(raw.MinLogLevel)
		if err != nil {
			return Config{}, fmt.Errorf("parse min_log_level: %w", err)
		}
		cfg.MinLogLevel = lv
	}
	if meta.IsDefined("bitrate") {
		cfg.Bitrate = raw.Bitrate
	}
	if meta.IsDefined("transport", "kind") {
		cfg.Transport.Kind = strings.ToLower(strings.TrimSpace(raw.Transport.Kind))
	}
	if meta.IsDefined("transport", "address") {
		cfg.Transport.Address = strings.TrimSpace(raw.Transport.Address)
	}
	if meta.IsDefined("transport", "device") {
		cfg.Transport.Device = strings.TrimSpace(raw.Transport.Device)
	}
	if meta.IsDefined("transport", "baud") {
		cfg.Transport.Baud = raw.Transport.Baud
	}

	if _, _, err := ResolveRole(cfg.Role); err != nil {
		return Config{}, err
	}
	switch cfg.Transport.Kind {
	case "ebyte", "slcan":
	default:
		return Config{}, fmt.Errorf("config: unknown transport kind %q", cfg.Transport.Kind)
	}

	return cfg, nil
}

// ResolveRole maps a configured role string to its log role code and
// heartbeat role name.
func ResolveRole(role string) (canlog.Role, heartbeat.RoleName, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "fuel":
		return canlog.RoleFuel, heartbeat.RoleFuel, nil
	case "amps":
		return canlog.RoleAmps, heartbeat.RoleAmps, nil
	case "temp":
		return canlog.RoleTemp, heartbeat.RoleTemp, nil
	case "speed":
		return canlog.RoleSpeed, heartbeat.RoleSpeed, nil
	case "body":
		return canlog.RoleBody, heartbeat.RoleBody, nil
	case "dash":
		return canlog.RoleDash, heartbeat.RoleDash, nil
	case "gps":
		return canlog.RoleGPS, heartbeat.RoleGPS, nil
	default:
		return 0, heartbeat.RoleName{}, fmt.Errorf("config: unknown role %q", role)
	}
}
