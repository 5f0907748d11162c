package config

import (
	"testing"
	"time"
)

func TestLoadBotDefaults(t *testing.T) {
	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://localhost:8080/ws" {
		t.Fatalf("WSURL = %q", cfg.WSURL)
	}
	if cfg.Tick != 250*time.Millisecond {
		t.Fatalf("Tick = %v, want 250ms", cfg.Tick)
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("WS_URL", "ws://127.0.0.1:9000/ws")
	t.Setenv("ACCOUNT_ID", "77")
	t.Setenv("LEVEL_ID", "128")
	t.Setenv("TICK", "100ms")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://127.0.0.1:9000/ws" {
		t.Fatalf("WSURL = %q", cfg.WSURL)
	}
	if cfg.AccountID != 77 || cfg.LevelID != 128 {
		t.Fatalf("ids = %d/%d", cfg.AccountID, cfg.LevelID)
	}
	if cfg.Tick != 100*time.Millisecond {
		t.Fatalf("Tick = %v", cfg.Tick)
	}
}
