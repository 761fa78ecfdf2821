// Package config loads service configuration from the environment so main
// stays lean. Every value has a development default; production overrides
// via env vars.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// DatabaseURL selects the postgres-backed stores when non-empty;
	// otherwise the in-memory stores are used (dev/test).
	DatabaseURL string

	Redis        RedisConfig
	Kafka        KafkaConfig
	Notification NotificationConfig
}

// RedisConfig controls the optional pet read cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PetCacheTTL  time.Duration
}

// KafkaConfig controls the optional transition audit publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// NotificationConfig controls outbound email dispatch.
type NotificationConfig struct {
	// SESRegion enables the SES gateway when non-empty; otherwise
	// notifications are logged and dropped (dev).
	SESRegion  string
	Sender     string
	QueueSize  int
	MaxRetries int
	RetryDelay time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:          getEnv("HOMEWARD_ADDR", ":8080"),
		JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     getEnv("JWT_ISSUER", "homeward"),
		JWTAudience:   getEnv("JWT_AUDIENCE", "homeward-api"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PetCacheTTL:  getEnvDuration("PET_CACHE_TTL", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TRANSITIONS_TOPIC", "homeward.application-transitions"),
		},
		Notification: NotificationConfig{
			SESRegion:  os.Getenv("SES_REGION"),
			Sender:     getEnv("NOTIFICATION_SENDER", "no-reply@homeward.dev"),
			QueueSize:  getEnvInt("NOTIFICATION_QUEUE_SIZE", 256),
			MaxRetries: getEnvInt("NOTIFICATION_MAX_RETRIES", 3),
			RetryDelay: getEnvDuration("NOTIFICATION_RETRY_DELAY", 2*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
