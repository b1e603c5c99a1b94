package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	uploads := t.TempDir()
	dir := writeConfig(t, `
jwt:
  secret: test-secret
storage:
  local_path: `+uploads+`
redis:
  enabled: true
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWT.ExpireTime != 720*time.Hour {
		t.Fatalf("jwt expire = %v, want 720h", cfg.JWT.ExpireTime)
	}
	if cfg.Quiz.CacheTTL != 10*time.Minute {
		t.Fatalf("quiz cache ttl = %v, want 10m", cfg.Quiz.CacheTTL)
	}
	if cfg.Database.Driver != "mysql" || cfg.Database.Port != 3306 {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Port != 6379 {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("bcrypt cost = %d, want 12", cfg.Auth.BcryptCost)
	}
	if cfg.RateLimit.Window() != time.Minute {
		t.Fatalf("rate limit window = %v", cfg.RateLimit.Window())
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	uploads := t.TempDir()
	dir := writeConfig(t, `
jwt:
  secret: from-file
storage:
  local_path: `+uploads+`
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("JWT_EXPIRE_HOURS", "2")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Fatalf("jwt secret = %q, want from-env", cfg.JWT.Secret)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour {
		t.Fatalf("jwt expire = %v, want 2h", cfg.JWT.ExpireTime)
	}
}

func TestLoadConfigRejectsWeakReleaseSecret(t *testing.T) {
	uploads := t.TempDir()
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
storage:
  local_path: `+uploads+`
`)

	if _, err := LoadConfig(dir); err == nil {
		t.Fatalf("expected error for short release secret")
	}
}
