package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env  string
	Port string

	DBURL    string
	RedisURL string

	JWTSecret          string
	SessionExpiry      time.Duration
	RememberMeExpiry   time.Duration
	BcryptCost         int
	MaxFailedAttempts  int
	LockoutDuration    time.Duration
	RateLimitWindow    time.Duration
	RateLimitMax       int
	ResetTokenLifetime time.Duration

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	FrontendURL string
	TOTPIssuer  string
}

func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "3001"),
		DBURL:              mustGetEnv("DB_URL"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:          mustGetEnv("JWT_SECRET"),
		SessionExpiry:      getEnvAsDuration("SESSION_EXPIRY", 24*time.Hour),
		RememberMeExpiry:   getEnvAsDuration("REMEMBER_ME_EXPIRY", 30*24*time.Hour),
		BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
		MaxFailedAttempts:  getEnvAsInt("MAX_FAILED_ATTEMPTS", 5),
		LockoutDuration:    getEnvAsDuration("LOCKOUT_DURATION", 30*time.Minute),
		RateLimitWindow:    getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:       getEnvAsInt("RATE_LIMIT_MAX_ATTEMPTS", 5),
		ResetTokenLifetime: getEnvAsDuration("RESET_TOKEN_LIFETIME", time.Hour),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		FromEmail:          getEnv("FROM_EMAIL", "noreply@skycast.app"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		TOTPIssuer:         getEnv("TOTP_ISSUER", "Skycast"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %s", key, defaultVal)
		return defaultVal
	}
	return val
}
