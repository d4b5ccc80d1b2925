package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "test")
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_ENV", "test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "release" || cfg.Port != 8080 {
		t.Fatalf("defaults = mode %q port %d", cfg.Mode, cfg.Port)
	}
	if cfg.TokenTTL != 6*time.Hour {
		t.Fatalf("token_ttl default = %v", cfg.TokenTTL)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	writeConfig(t, "port: 9999\nmode: debug\nproviders:\n  resolve_ttl: 30s\n")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9999 || cfg.Mode != "debug" || cfg.Providers.ResolveTTL != 30*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadSecretsFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("LIVEKIT_API_KEY", "APIkeyEnv")
	t.Setenv("LIVEKIT_API_SECRET", "env-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LiveKit.APIKey != "APIkeyEnv" || cfg.LiveKit.APISecret != "env-secret" {
		t.Fatalf("livekit = %+v", cfg.LiveKit)
	}
}

// A config that cannot be decoded must yield an error and no config at all,
// so the caller can bail out instead of running on a half-parsed struct.
func TestLoadBadValueReturnsError(t *testing.T) {
	writeConfig(t, "token_ttl: never\n")
	cfg, err := Load()
	if err == nil {
		t.Fatal("want error for unparsable duration")
	}
	if cfg != nil {
		t.Fatal("error path handed back a config")
	}
}
