// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/msomdec/timeclock/internal/domain"
)

const minJWTSecretLen = 32

// Config holds every setting the server needs at startup.
type Config struct {
	Port         string
	DatabasePath string
	// DatabaseURL selects the Postgres store when set.
	DatabaseURL  string
	JWTSecret    string
	CookieSecure bool
	BcryptCost   int

	TimeZone *time.Location
	// Fallback is recorded when a client sends no coordinates.
	Fallback domain.Location

	RedisAddr         string
	RedisPassword     string
	AuthRatePerMinute int

	LogLevel slog.Level
}

// Load reads .env (if present) and the process environment. Variables
// already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DatabasePath:  getenv("DATABASE_PATH", "timeclock.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		// Default to secure cookies; disable only for local development.
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < minJWTSecretLen {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minJWTSecretLen)
	}

	var err error
	if cfg.BcryptCost, err = getenvInt("BCRYPT_COST", 12); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost)
	}

	if cfg.AuthRatePerMinute, err = getenvInt("AUTH_RATE_PER_MINUTE", 10); err != nil {
		return Config{}, err
	}
	if cfg.AuthRatePerMinute < 1 {
		return Config{}, fmt.Errorf("AUTH_RATE_PER_MINUTE must be positive, got %d", cfg.AuthRatePerMinute)
	}

	tz := getenv("TZ_NAME", "America/Sao_Paulo")
	if cfg.TimeZone, err = time.LoadLocation(tz); err != nil {
		return Config{}, fmt.Errorf("invalid TZ_NAME %q: %w", tz, err)
	}

	if cfg.Fallback.Latitude, err = getenvFloat("FALLBACK_LATITUDE", -23.5505); err != nil {
		return Config{}, err
	}
	if cfg.Fallback.Longitude, err = getenvFloat("FALLBACK_LONGITUDE", -46.6333); err != nil {
		return Config{}, err
	}
	if cfg.Fallback.Latitude < -90 || cfg.Fallback.Latitude > 90 || cfg.Fallback.Longitude < -180 || cfg.Fallback.Longitude > 180 {
		return Config{}, errors.New("FALLBACK_LATITUDE/FALLBACK_LONGITUDE out of range")
	}
	cfg.Fallback.Address = getenv("FALLBACK_ADDRESS", "São Paulo, SP")

	if cfg.LogLevel, err = parseLevel(getenv("LOG_LEVEL", "info")); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, fallback float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return lvl, nil
}
