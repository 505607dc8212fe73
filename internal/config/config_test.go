package config

import (
	"errors"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	for _, key := range []string{"DATABASE_URL", "MONGO_DB", "PORT", "APP_ENV", "ALLOWED_ORIGINS", "JWT_TTL", "BCRYPT_COST", "DB_CONNECT_ATTEMPTS", "DB_CONNECT_BACKOFF", "MAX_BODY_BYTES", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 5000 || cfg.Env != "dev" || cfg.DBName != "heartspace" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	if cfg.JWTTTL != time.Hour || cfg.BcryptCost != 10 {
		t.Fatalf("unexpected auth defaults: ttl=%v cost=%d", cfg.JWTTTL, cfg.BcryptCost)
	}

	if cfg.DBConnectAttempts != 5 || cfg.DBConnectBackoff != 2*time.Second {
		t.Fatalf("unexpected retry defaults: %d %v", cfg.DBConnectAttempts, cfg.DBConnectBackoff)
	}

	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5500" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}

	if cfg.MaxBodyBytes != 1<<20 || cfg.OTLPEndpoint != "" {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("DB_CONNECT_ATTEMPTS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 || cfg.Env != "prod" || cfg.JWTTTL != 15*time.Minute || cfg.BcryptCost != 12 || cfg.DBConnectAttempts != 2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}

	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoad_DatabaseURLAlias(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/heartspace")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DBURL != "postgres://localhost/heartspace" {
		t.Fatalf("got DBURL %q", cfg.DBURL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Run("database url", func(t *testing.T) {
		t.Setenv("MONGO_URI", "")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "test-secret")

		if _, err := Load(); !errors.Is(err, ErrMissingDBURL) {
			t.Fatalf("got %v, want ErrMissingDBURL", err)
		}
	})

	t.Run("jwt secret", func(t *testing.T) {
		t.Setenv("MONGO_URI", "mongodb://localhost:27017")
		t.Setenv("JWT_SECRET", "")

		if _, err := Load(); !errors.Is(err, ErrMissingJWTSecret) {
			t.Fatalf("got %v, want ErrMissingJWTSecret", err)
		}
	})
}

func TestLoad_RejectsZeroConnectAttempts(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_CONNECT_ATTEMPTS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero attempts")
	}
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	t.Setenv("SOME_DURATION", "-5s")

	if got := getEnvInt("SOME_INT", 7); got != 7 {
		t.Fatalf("getEnvInt fallback: got %d", got)
	}

	if got := getEnvDuration("SOME_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("getEnvDuration fallback: got %v", got)
	}
}
