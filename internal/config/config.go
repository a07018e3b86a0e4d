// Package config loads server configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration.
type Config struct {
	ListenAddr    string
	DatabaseURL   string
	DefaultBranch string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SnapshotTTL   time.Duration

	LogLevel string
	AppEnv   string

	// RepoCallTimeout bounds every persistence call made by the
	// catalog store.
	RepoCallTimeout time.Duration
}

// Load reads configuration from the environment. A missing
// DATABASE_URL selects the in-memory store (dev mode).
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DefaultBranch:   getEnv("DEFAULT_BRANCH", "main"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         redisDB,
		SnapshotTTL:     getEnvDuration("SNAPSHOT_CACHE_TTL", 30*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AppEnv:          getEnv("APP_ENV", "development"),
		RepoCallTimeout: getEnvDuration("REPO_CALL_TIMEOUT", 15*time.Second),
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
