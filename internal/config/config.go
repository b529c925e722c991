package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port     string
	LogLevel string

	UpstreamAPIURL   string
	UpstreamToken    string
	UpstreamUsername string
	UpstreamPassword string
	HTTPTimeout      time.Duration
	RetryAttempts    int
	UpstreamRPS      float64

	DealsStaleAfter time.Duration
	UnitsStaleAfter time.Duration
	TargetsFile     string

	JWTSecret   string
	CORSOrigins []string

	SinkURL    string
	SinkSecret string

	R2AccountID string
	R2AccessKey string
	R2SecretKey string
	R2Bucket    string

	Timezone string
	Location *time.Location
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
// Malformed values fall back to their defaults.
func FromEnv() *Config {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UpstreamAPIURL:   strings.TrimRight(getEnv("UPSTREAM_API_URL", "http://localhost:8000/api"), "/"),
		UpstreamToken:    getEnv("UPSTREAM_TOKEN", ""),
		UpstreamUsername: getEnv("UPSTREAM_USERNAME", ""),
		UpstreamPassword: getEnv("UPSTREAM_PASSWORD", ""),
		HTTPTimeout:      getDuration("HTTP_TIMEOUT", 30*time.Second),
		RetryAttempts:    getInt("RETRY_ATTEMPTS", 3),
		UpstreamRPS:      getFloat("UPSTREAM_RPS", 5),

		DealsStaleAfter: getDuration("DEALS_STALE_AFTER", 5*time.Minute),
		UnitsStaleAfter: getDuration("UNITS_STALE_AFTER", 10*time.Minute),
		TargetsFile:     getEnv("TARGETS_FILE", ""),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		SinkURL:    getEnv("SINK_URL", ""),
		SinkSecret: getEnv("SINK_SECRET", ""),

		R2AccountID: getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", ""),

		Timezone: getEnv("TIMEZONE", "Asia/Jakarta"),
	}

	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logrus.WithError(err).WithField("timezone", cfg.Timezone).Warn("Unknown timezone, using UTC")
		loc = time.UTC
	}
	cfg.Location = loc

	return cfg
}

// R2Enabled reports whether every R2 credential is present.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKey != "" && c.R2SecretKey != "" && c.R2Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || f <= 0 {
		return defaultValue
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
