package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/factoryledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.BalanceWorkers != 8 || cfg.OutboxBatchSize != 100 {
		t.Fatalf("unexpected worker defaults: %+v", cfg)
	}

	if cfg.HierarchyCacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m hierarchy cache TTL, got %s", cfg.HierarchyCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("OUTBOX_ENABLED", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" || cfg.RedisEnabled {
		t.Fatalf("expected redis override, got url=%s enabled=%v", cfg.RedisURL, cfg.RedisEnabled)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.RateLimitRPS != 2.5 || cfg.OutboxEnabled {
		t.Fatalf("unexpected overrides: rps=%v outbox=%v", cfg.RateLimitRPS, cfg.OutboxEnabled)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BALANCE_WORKERS=3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	os.Unsetenv("BALANCE_WORKERS")
	t.Cleanup(func() { os.Unsetenv("BALANCE_WORKERS") })

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	if cfg.BalanceWorkers != 3 {
		t.Fatalf("expected BALANCE_WORKERS from .env, got %d", cfg.BalanceWorkers)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
