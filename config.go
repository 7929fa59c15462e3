package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Everything comes from the environment
// (optionally seeded from a .env file) with sensible defaults.
type Config struct {
	Port string

	// Per-client admission policy
	RateLimit         int
	RateWindow        time.Duration
	TrustForwardedFor bool

	// Server-wide flood guard in front of the per-client windows
	FloodRPS   float64
	FloodBurst int

	// Conversion worker pool
	Workers       int
	QueueCapacity int

	// LibreOffice subprocess strategy
	SofficeBin     string
	ConvertTimeout time.Duration

	TempDir        string
	MaxUploadBytes int64

	// Rate limit backend: "memory" or "redis"
	RateLimitBackend string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int

	LogLevel string
	LogPath  string

	ShutdownTimeout time.Duration
}

func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),

		RateLimit:         getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateWindow:        getEnvDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		TrustForwardedFor: getEnvBool("TRUST_X_FORWARDED_FOR", false),

		FloodRPS:   float64(getEnvInt("FLOOD_LIMIT_RPS", 100)),
		FloodBurst: getEnvInt("FLOOD_LIMIT_BURST", 200),

		Workers:       getEnvInt("WORKERS", 4),
		QueueCapacity: getEnvInt("QUEUE_CAPACITY", 100),

		SofficeBin:     getEnv("SOFFICE_BIN", "soffice"),
		ConvertTimeout: getEnvDuration("CONVERT_TIMEOUT", 2*time.Minute),

		TempDir:        getEnv("TEMP_DIR", os.TempDir()),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 50<<20)),

		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		RedisAddr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
