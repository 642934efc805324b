package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrMissingSigningSecret is returned when JWT_SECRET is not set.
var ErrMissingSigningSecret = errors.New("JWT_SECRET must be set")

// Server captures process-wide configuration. It is built once at startup and
// passed by value; nothing mutates it afterwards.
type Server struct {
	Addr        string
	Environment string
	DatabaseURL string

	Auth  AuthConfig
	Redis RedisConfig
}

// AuthConfig holds token and credential settings.
type AuthConfig struct {
	JWTSigningKey      string
	JWTIssuer          string
	TokenTTL           time.Duration
	BcryptCost         int
	LoginMaxAttempts   int
	LoginLockoutWindow time.Duration
}

// RedisConfig configures the optional Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// IsDevelopment reports whether internal error details may be exposed.
func (s Server) IsDevelopment() bool {
	return s.Environment == "development"
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	port := envOr("PORT", "5001")

	signingKey := os.Getenv("JWT_SECRET")
	if signingKey == "" {
		return Server{}, ErrMissingSigningSecret
	}

	tokenTTL, err := durationEnv("TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return Server{}, err
	}
	cost, err := intEnv("BCRYPT_COST", bcrypt.DefaultCost)
	if err != nil {
		return Server{}, err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Server{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	maxAttempts, err := intEnv("LOGIN_MAX_ATTEMPTS", 5)
	if err != nil {
		return Server{}, err
	}
	lockoutWindow, err := durationEnv("LOGIN_LOCKOUT_WINDOW", 15*time.Minute)
	if err != nil {
		return Server{}, err
	}

	poolSize, err := intEnv("REDIS_POOL_SIZE", 10)
	if err != nil {
		return Server{}, err
	}
	minIdle, err := intEnv("REDIS_MIN_IDLE_CONNS", 2)
	if err != nil {
		return Server{}, err
	}

	return Server{
		Addr:        ":" + port,
		Environment: envOr("APP_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Auth: AuthConfig{
			JWTSigningKey:      signingKey,
			JWTIssuer:          envOr("JWT_ISSUER", "stellariq"),
			TokenTTL:           tokenTTL,
			BcryptCost:         cost,
			LoginMaxAttempts:   maxAttempts,
			LoginLockoutWindow: lockoutWindow,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     poolSize,
			MinIdleConns: minIdle,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
