package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every recognized server option, all with defaults.
// RTYPE_CONFIG overrides the config file path at process start.
type Config struct {
	Network NetworkConfig `toml:"network"`
	Sim     SimConfig     `toml:"sim"`
	World   WorldConfig   `toml:"world"`
	Logging LoggingConfig `toml:"logging"`
	Limits  LimitsConfig  `toml:"limits"`
	Ops     OpsConfig     `toml:"ops"`
}

// Timeout options are plain integers in the file, in the unit their name
// carries, and converted to time.Duration by the accessor methods below.
type NetworkConfig struct {
	ListenPort          uint16 `toml:"listen_port"` // reliable-channel TCP port
	UDPPort             uint16 `toml:"udp_port"`    // datagram-channel port
	MaxClients          uint8  `toml:"max_clients"` // per-lobby cap
	ConnectTimeoutS     int    `toml:"connect_timeout_s"`
	ReadyTimeoutS       int    `toml:"ready_timeout_s"`
	InputSilenceGraceMS int    `toml:"input_silence_grace_ms"`
	InQueueSize         int    `toml:"in_queue_size"`
	OutQueueSize        int    `toml:"out_queue_size"`
}

func (n NetworkConfig) ConnectTimeout() time.Duration {
	return time.Duration(n.ConnectTimeoutS) * time.Second
}

func (n NetworkConfig) ReadyTimeout() time.Duration {
	return time.Duration(n.ReadyTimeoutS) * time.Second
}

func (n NetworkConfig) InputSilenceGrace() time.Duration {
	return time.Duration(n.InputSilenceGraceMS) * time.Millisecond
}

type SimConfig struct {
	TickRate               float64 `toml:"tick_rate"` // steps per second
	MaxCatchupTicks        int     `toml:"max_catchup_ticks"`
	SnapshotHistory        int     `toml:"snapshot_history"`
	PositionDeltaThreshold float64 `toml:"position_delta_threshold"`
}

type WorldConfig struct {
	Width  float64 `toml:"world_width"`
	Height float64 `toml:"world_height"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type LimitsConfig struct {
	MalformedPacketsPerWindow int `toml:"malformed_packets_per_window"`
	MalformedWindowS          int `toml:"malformed_window_s"`
	DatagramsPerSecond        int `toml:"datagrams_per_second"`
}

func (l LimitsConfig) MalformedWindow() time.Duration {
	return time.Duration(l.MalformedWindowS) * time.Second
}

type OpsConfig struct {
	MetricsPort uint16 `toml:"metrics_port"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns a fully populated Config with every option at its
// documented default.
func Defaults() *Config {
	return &Config{
		Network: NetworkConfig{
			ListenPort:          8080,
			UDPPort:             4242,
			MaxClients:          4,
			ConnectTimeoutS:     10,
			ReadyTimeoutS:       30,
			InputSilenceGraceMS: 1000,
			InQueueSize:         256,
			OutQueueSize:        256,
		},
		Sim: SimConfig{
			TickRate:               60.0,
			MaxCatchupTicks:        5,
			SnapshotHistory:        128,
			PositionDeltaThreshold: 5.0,
		},
		World: WorldConfig{
			Width:  1920,
			Height: 1080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Limits: LimitsConfig{
			MalformedPacketsPerWindow: 5,
			MalformedWindowS:          10,
			DatagramsPerSecond:        240,
		},
		Ops: OpsConfig{
			MetricsPort: 9090,
		},
	}
}
