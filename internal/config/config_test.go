package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SKILLSWAP_CONFIG", "")
	t.Setenv("PORT", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBDriver != "sqlite" || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skillswap.yaml")
	raw := `
server:
  addr: ":9000"
database:
  driver: postgres
  url: postgres://localhost/skillswap
auth:
  token_secret: file-secret
  token_ttl: 2h
rate_limits:
  swap_per_minute: 5
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SKILLSWAP_CONFIG", path)
	t.Setenv("PORT", "")
	t.Setenv("SKILLSWAP_ADDR", ":9100")
	t.Setenv("SKILLSWAP_TOKEN_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9100" {
		t.Fatalf("env should override file, got %s", cfg.Addr)
	}
	if cfg.DBDriver != "postgres" || cfg.DatabaseURL != "postgres://localhost/skillswap" {
		t.Fatalf("unexpected database config: %+v", cfg)
	}
	if cfg.TokenSecret != "file-secret" || cfg.TokenTTL != 2*time.Hour || cfg.RateLimits.SwapPerMinute != 5 {
		t.Fatalf("unexpected file values: %+v", cfg)
	}
}

func TestLoadRejectsPostgresWithoutURL(t *testing.T) {
	t.Setenv("SKILLSWAP_CONFIG", "")
	t.Setenv("SKILLSWAP_DB_DRIVER", "postgres")
	t.Setenv("SKILLSWAP_DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsDefaultSecretWithPostgres(t *testing.T) {
	t.Setenv("SKILLSWAP_CONFIG", "")
	t.Setenv("SKILLSWAP_DB_DRIVER", "postgres")
	t.Setenv("SKILLSWAP_DATABASE_URL", "postgres://localhost/skillswap")
	t.Setenv("SKILLSWAP_TOKEN_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected default secret to be refused")
	}

	t.Setenv("SKILLSWAP_TOKEN_SECRET", "prod-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenSecret != "prod-secret" {
		t.Fatalf("unexpected secret %q", cfg.TokenSecret)
	}
}
