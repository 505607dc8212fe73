package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingDBURL     = errors.New("MONGO_URI is missing from environment")
	ErrMissingJWTSecret = errors.New("JWT_SECRET is missing from environment")
)

type Config struct {
	Env   string
	Port  int
	DBURL string
	// database name used by the mongo store; ignored for postgres URLs
	DBName string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	AllowedOrigins []string
	MaxBodyBytes   int64

	DBConnectAttempts int
	DBConnectBackoff  time.Duration

	OTLPEndpoint string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:               getEnv("APP_ENV", "dev"),
		Port:              getEnvInt("PORT", 5000),
		DBURL:             getEnv("MONGO_URI", os.Getenv("DATABASE_URL")),
		DBName:            getEnv("MONGO_DB", "heartspace"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTTTL:            getEnvDuration("JWT_TTL", time.Hour),
		BcryptCost:        getEnvInt("BCRYPT_COST", 10),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5500")),
		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		DBConnectAttempts: getEnvInt("DB_CONNECT_ATTEMPTS", 5),
		DBConnectBackoff:  getEnvDuration("DB_CONNECT_BACKOFF", 2*time.Second),
		OTLPEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.DBURL == "" {
		return Config{}, ErrMissingDBURL
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	if cfg.DBConnectAttempts < 1 {
		return Config{}, fmt.Errorf("DB_CONNECT_ATTEMPTS must be at least 1, got %d", cfg.DBConnectAttempts)
	}

	return cfg, nil
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil || d <= 0 {
			return fallback
		}

		return d
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
