package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %s", cfg.JWTTTL)
	}
	if cfg.StorageDriver != StorageMongo {
		t.Fatalf("expected mongo storage, got %s", cfg.StorageDriver)
	}
	if cfg.Login.MaxAttempts != 5 || cfg.Login.Window != 15*time.Minute {
		t.Fatalf("unexpected login config: %+v", cfg.Login)
	}
	if len(cfg.HTTP.AllowOrigins) != 1 || cfg.HTTP.AllowOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.HTTP.AllowOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "postgres")

	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.StorageDriver != StorageMemory || cfg.JWTTTL != 90*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.HTTP.AllowOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.HTTP.AllowOrigins)
	}
}
