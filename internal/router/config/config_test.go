package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "app.env", "STORAGE=Memory\nREQUEST_TIMEOUT=2s\nSERVER_ADDRESS=127.0.0.1:9000\n")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("Storage = %q", cfg.Storage)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.ServerAddress != "127.0.0.1:9000" {
		t.Errorf("ServerAddress = %q", cfg.ServerAddress)
	}
	if cfg.EventsExchange != "tender_events" || cfg.MigrationURL != "file://migrations" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "app.env", "STORAGE=memory\nSERVER_ADDRESS=127.0.0.1:9000\n")
	t.Setenv("SERVER_ADDRESS", ":7000")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServerAddress != ":7000" {
		t.Fatalf("ServerAddress = %q, want env value", cfg.ServerAddress)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE", "memory")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServerAddress != "0.0.0.0:8080" || cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("defaults: %+v", cfg)
	}
}

func TestLoadConfigRejectsInconsistent(t *testing.T) {
	cases := map[string]string{
		"postgres without conn": "STORAGE=postgres\n",
		"unknown storage":       "STORAGE=redis\n",
		"zero timeout":          "STORAGE=memory\nREQUEST_TIMEOUT=0s\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeFile(t, dir, "app.env", content)
			if _, err := LoadConfig(dir); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
