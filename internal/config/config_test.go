package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sternrassler/steam-inventory-client/pkg/client"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty directory so no .env is picked up.
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q, want 0.0.0.0:8080", cfg.Server.Address())
	}
	if cfg.Steam.BaseURL != client.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Steam.BaseURL, client.DefaultBaseURL)
	}
	if cfg.Steam.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Steam.Timeout)
	}
	if !cfg.Journal.Enabled {
		t.Error("journal should be enabled by default")
	}
	if cfg.Journal.RedisAddress() != "localhost:6379" {
		t.Errorf("RedisAddress() = %q", cfg.Journal.RedisAddress())
	}
	if cfg.Journal.TTL != 7*24*time.Hour {
		t.Errorf("TTL = %s, want 168h", cfg.Journal.TTL)
	}
	if len(cfg.Server.Proxies) != 0 {
		t.Errorf("Proxies = %v, want none", cfg.Server.Proxies)
	}
	if cfg.Steam.Client().MaxProxies != client.DefaultMaxProxies {
		t.Errorf("MaxProxies = %d, want %d", cfg.Steam.Client().MaxProxies, client.DefaultMaxProxies)
	}
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STEAM_USER_AGENT", "TestApp/2.0")
	t.Setenv("STEAM_TIMEOUT", "10s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JOURNAL_ENABLED", "false")
	t.Setenv("JOURNAL_LIMIT", "5")
	t.Setenv("SERVER_PROXIES", "http://10.0.0.1:3128,10.0.0.2:3128")
	t.Setenv("STEAM_MAX_PROXIES", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}

	clientCfg := cfg.Steam.Client()
	if clientCfg.UserAgent != "TestApp/2.0" || clientCfg.Timeout != 10*time.Second {
		t.Errorf("Client() = %+v", clientCfg)
	}
	if cfg.Log.Logging().Level != "debug" {
		t.Errorf("Logging().Level = %q, want debug", cfg.Log.Logging().Level)
	}
	if cfg.Journal.Enabled {
		t.Error("journal should be disabled")
	}
	if len(cfg.Server.Proxies) != 2 || cfg.Server.Proxies[1] != "10.0.0.2:3128" {
		t.Errorf("Proxies = %v", cfg.Server.Proxies)
	}
	if clientCfg.MaxProxies != 3 {
		t.Errorf("MaxProxies = %d, want 3", clientCfg.MaxProxies)
	}
	if cfg.Journal.Options().Limit != 5 {
		t.Errorf("Options().Limit = %d, want 5", cfg.Journal.Options().Limit)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("REDIS_HOST=redis.internal\nREDIS_PORT=6380\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, dir)

	// godotenv does not override, restore afterwards.
	t.Setenv("REDIS_HOST", "")
	os.Unsetenv("REDIS_HOST")
	t.Setenv("REDIS_PORT", "")
	os.Unsetenv("REDIS_PORT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Journal.RedisAddress() != "redis.internal:6380" {
		t.Errorf("RedisAddress() = %q, want redis.internal:6380", cfg.Journal.RedisAddress())
	}
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for malformed SERVER_PORT")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore Chdir(%q): %v", old, err)
		}
	})
}
