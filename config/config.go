// Package config loads service settings from the environment, with optional
// .env file support for local development.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	envAddr         = "STASH_ADDR"
	envReadTimeout  = "STASH_READ_TIMEOUT"
	envWriteTimeout = "STASH_WRITE_TIMEOUT"
	envLogLevel     = "STASH_LOG_LEVEL"
)

type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogLevel     log.Lvl
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first, if present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:         envString(envAddr, ":8080"),
		ReadTimeout:  envDuration(envReadTimeout, 15*time.Second),
		WriteTimeout: envDuration(envWriteTimeout, 15*time.Second),
		LogLevel:     parseLevel(os.Getenv(envLogLevel)),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseLevel(v string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
