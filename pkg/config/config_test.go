package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_ADMIN_SECRET", "admin-secret")
	t.Setenv("JWT_TEAM_SECRET", "team-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 0 {
		t.Errorf("redis config = %q db %d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.AdminTokenTTL != 15*time.Minute || cfg.TeamTokenTTL != 4*time.Hour {
		t.Errorf("TTLs = %v / %v", cfg.AdminTokenTTL, cfg.TeamTokenTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_ADMIN_SECRET", "admin-secret")
	t.Setenv("JWT_TEAM_SECRET", "team-secret")
	t.Setenv("ADDR", ":9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_EXP_ADMIN", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.RedisDB != 3 || cfg.AdminTokenTTL != time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_ADMIN_SECRET", "")
	t.Setenv("JWT_TEAM_SECRET", "team-secret")
	if _, err := Load(); err == nil {
		t.Errorf("missing admin secret accepted")
	}

	t.Setenv("JWT_ADMIN_SECRET", "admin-secret")
	t.Setenv("JWT_TEAM_SECRET", "")
	if _, err := Load(); err == nil {
		t.Errorf("missing team secret accepted")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_ADMIN_SECRET", "admin-secret")
	t.Setenv("JWT_TEAM_SECRET", "team-secret")

	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Errorf("invalid REDIS_DB accepted")
	}

	t.Setenv("REDIS_DB", "0")
	t.Setenv("JWT_EXP_TEAM", "soon")
	if _, err := Load(); err == nil {
		t.Errorf("invalid JWT_EXP_TEAM accepted")
	}
}
