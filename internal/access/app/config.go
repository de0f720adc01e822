package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// PublicOrigin is the console origin invite URLs are built on, e.g.
	// https://console.lendarios.com. Required for invites.
	PublicOrigin string

	// AuthIssuer is the expected iss claim on bearer tokens from the
	// platform auth provider.
	AuthIssuer string
	// AuthJWKSURL fetches the provider's verification keys. Takes
	// precedence over AuthPublicKeyFile.
	AuthJWKSURL string
	// AuthPublicKeyFile is a PEM-encoded public key for deployments
	// without a JWKS endpoint.
	AuthPublicKeyFile string

	BootstrapToken string // Optional: token required to perform bootstrap

	DatabaseFile string // Optional: path to SQLite database file (default: ./access.db)
	PepperFile   string // Optional: path to pepper file for password hashing (default: ./pepper)

	InviteExpiryDays int // Default invite lifetime in days (default: 7)

	// SMTP settings for invite notifications. Delivery is disabled when
	// SMTPHost is empty.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	InviteRetention      time.Duration // How long expired invites stay visible (default: 30 days)
}

func LoadConfig() Config {
	return Config{
		PublicOrigin:      getEnvOrDefault("ACCESS_PUBLIC_ORIGIN", "http://localhost:3000"),
		AuthIssuer:        getEnvOrDefault("ACCESS_AUTH_ISSUER", "lendarios-auth"),
		AuthJWKSURL:       os.Getenv("ACCESS_AUTH_JWKS_URL"),
		AuthPublicKeyFile: os.Getenv("ACCESS_AUTH_PUBLIC_KEY_FILE"),
		BootstrapToken:    os.Getenv("ACCESS_BOOTSTRAP_TOKEN"),
		DatabaseFile:      getEnvOrDefault("ACCESS_DATABASE_FILE", "access.db"),
		PepperFile:        getEnvOrDefault("ACCESS_PEPPER_FILE", "pepper"),
		InviteExpiryDays:  getEnvIntOrDefault("ACCESS_INVITE_EXPIRY_DAYS", 7),

		SMTPHost:     os.Getenv("ACCESS_SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("ACCESS_SMTP_PORT", 587),
		SMTPUsername: os.Getenv("ACCESS_SMTP_USERNAME"),
		SMTPPassword: os.Getenv("ACCESS_SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("ACCESS_SMTP_FROM", "no-reply@lendarios.com"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		InviteRetention:      getEnvDurationOrDefault("ACCESS_INVITE_RETENTION", 30*24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
