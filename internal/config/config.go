package config

import (
	"os"
	"strings"
	"time"
)

// Config holds every externally-configured value the server needs.
// It is built once in main and passed down explicitly; no package in
// this codebase reads the environment on its own.
type Config struct {
	HTTPAddr string

	// Database
	MySQLDSN string

	// Redis (read-through cache)
	RedisAddr string

	// Auth
	JWTSecret   string
	TokenExpiry time.Duration

	// Payment provider webhook
	WebhookSecret string

	// Notifier (SMTP)
	SMTPHost string
	SMTPPort string
	SMTPFrom string

	// Kafka (post-commit order events); empty brokers disables publishing
	KafkaBrokers []string
	KafkaTopic   string

	// CORS
	FrontendOrigin string
}

// Load reads the configuration from environment variables, applying
// development defaults where a value is safe to default. Secrets have
// no defaults on purpose; main fails fast when they are missing.
func Load() Config {
	return Config{
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		MySQLDSN:       getenv("DB_DSN", "storefront:storefront@tcp(127.0.0.1:3306)/storefront?parseTime=true"),
		RedisAddr:      getenv("REDIS_ADDR", "127.0.0.1:6379"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenExpiry:    72 * time.Hour,
		WebhookSecret:  os.Getenv("PAYMENT_WEBHOOK_SECRET"),
		SMTPHost:       getenv("SMTP_HOST", "localhost"),
		SMTPPort:       getenv("SMTP_PORT", "1025"),
		SMTPFrom:       getenv("SMTP_FROM", "orders@storefront.local"),
		KafkaBrokers:   splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     getenv("KAFKA_TOPIC", "storefront-orders"),
		FrontendOrigin: getenv("FRONTEND_ORIGIN", "http://localhost:5173"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
