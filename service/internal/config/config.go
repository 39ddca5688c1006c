// Package config loads process settings from the environment (optionally
// seeded from a .env file) and table rules from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-level settings.
type Config struct {
	DatabaseURL    string        // GUINOTE_DATABASE_URL or DATABASE_URL; empty disables persistence
	RedisAddr      string        // REDIS_ADDR; empty disables the action log
	RedisPassword  string        // REDIS_PASSWORD
	RedisDB        int           // REDIS_DB
	ServerURL      string        // GUINOTE_SERVER_URL, websocket endpoint of the authoritative server
	PollInterval   time.Duration // GUINOTE_POLL_INTERVAL, snapshot polling fallback
	RequestTimeout time.Duration // GUINOTE_REQUEST_TIMEOUT, per remote call
	LogLevel       string        // GUINOTE_LOG_LEVEL
	RulesPath      string        // GUINOTE_RULES, custom rules.yaml
}

// Load reads envFile into the environment when it exists, without
// overriding variables already set, and builds a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		DatabaseURL:   firstEnv("GUINOTE_DATABASE_URL", "DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		ServerURL:     os.Getenv("GUINOTE_SERVER_URL"),
		LogLevel:      envOr("GUINOTE_LOG_LEVEL", "info"),
		RulesPath:     os.Getenv("GUINOTE_RULES"),
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.PollInterval, err = envDuration("GUINOTE_POLL_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = envDuration("GUINOTE_REQUEST_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return d, nil
}
