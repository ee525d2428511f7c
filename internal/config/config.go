// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration. Required values are enforced by
// must(); optional features (Google sign-in) are simply disabled when their
// variables are absent.
type Config struct {
	Env  string // application environment (dev/test/prod)
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	JWTSecret      string // HS256 signing secret, process-wide
	AccessTTLMin   int    // access token lifetime in minutes
	RefreshTTLDays int    // refresh token lifetime in days

	GoogleClientID     string // empty = Google sign-in NotConfigured
	GoogleClientSecret string // only needed for the redirect code flow
	GoogleRedirectURL  string

	TokenCleanupIntervalMin int // refresh-token sweep period
}

// Load reads the environment. Missing required variables abort startup with a
// fatal log; there is no point serving traffic with half a config.
func Load() Config {
	return Config{
		Env:                     must("APP_ENV"),
		Port:                    must("APP_PORT"),
		DBUser:                  must("DB_USER"),
		DBPass:                  os.Getenv("DB_PASS"),
		DBHost:                  must("DB_HOST"),
		DBPort:                  must("DB_PORT"),
		DBName:                  must("DB_NAME"),
		JWTSecret:               must("JWT_SECRET"),
		AccessTTLMin:            mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:          mustInt("REFRESH_TOKEN_TTL_DAYS"),
		GoogleClientID:          os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:      os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:       os.Getenv("GOOGLE_REDIRECT_URL"),
		TokenCleanupIntervalMin: atoi(getenv("TOKEN_CLEANUP_INTERVAL_MIN", "60")),
	}
}

// GoogleEnabled reports whether federated sign-in is configured at all.
func (c Config) GoogleEnabled() bool { return c.GoogleClientID != "" }

// GoogleRedirectEnabled reports whether the redirect code flow is usable in
// addition to direct ID-token posts.
func (c Config) GoogleRedirectEnabled() bool {
	return c.GoogleEnabled() && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
