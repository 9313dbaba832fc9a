package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Network.ListenPort != 8080 {
		t.Errorf("ListenPort = %d, want 8080", cfg.Network.ListenPort)
	}
	if cfg.Network.UDPPort != 4242 {
		t.Errorf("UDPPort = %d, want 4242", cfg.Network.UDPPort)
	}
	if cfg.Network.MaxClients != 4 {
		t.Errorf("MaxClients = %d, want 4", cfg.Network.MaxClients)
	}
	if got := cfg.Network.ConnectTimeout(); got != 10*time.Second {
		t.Errorf("ConnectTimeout = %v, want 10s", got)
	}
	if got := cfg.Network.ReadyTimeout(); got != 30*time.Second {
		t.Errorf("ReadyTimeout = %v, want 30s", got)
	}
	if got := cfg.Network.InputSilenceGrace(); got != time.Second {
		t.Errorf("InputSilenceGrace = %v, want 1s", got)
	}
	if cfg.Sim.TickRate != 60.0 {
		t.Errorf("TickRate = %v, want 60", cfg.Sim.TickRate)
	}
	if cfg.Sim.MaxCatchupTicks != 5 {
		t.Errorf("MaxCatchupTicks = %d, want 5", cfg.Sim.MaxCatchupTicks)
	}
	if cfg.Sim.SnapshotHistory != 128 {
		t.Errorf("SnapshotHistory = %d, want 128", cfg.Sim.SnapshotHistory)
	}
	if cfg.Sim.PositionDeltaThreshold != 5.0 {
		t.Errorf("PositionDeltaThreshold = %v, want 5.0", cfg.Sim.PositionDeltaThreshold)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	doc := `
[network]
listen_port = 9000
connect_timeout_s = 3
input_silence_grace_ms = 250

[sim]
tick_rate = 30.0

[world]
world_width = 2560
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Network.ListenPort != 9000 {
		t.Errorf("ListenPort = %d, want 9000", cfg.Network.ListenPort)
	}
	if got := cfg.Network.ConnectTimeout(); got != 3*time.Second {
		t.Errorf("ConnectTimeout = %v, want 3s", got)
	}
	if got := cfg.Network.InputSilenceGrace(); got != 250*time.Millisecond {
		t.Errorf("InputSilenceGrace = %v, want 250ms", got)
	}
	if cfg.Sim.TickRate != 30.0 {
		t.Errorf("TickRate = %v, want 30", cfg.Sim.TickRate)
	}
	if cfg.World.Width != 2560 {
		t.Errorf("World.Width = %v, want 2560", cfg.World.Width)
	}

	// Untouched sections keep their defaults.
	if cfg.Network.UDPPort != 4242 {
		t.Errorf("UDPPort = %d, want the 4242 default", cfg.Network.UDPPort)
	}
	if got := cfg.Limits.MalformedWindow(); got != 10*time.Second {
		t.Errorf("MalformedWindow = %v, want the 10s default", got)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
