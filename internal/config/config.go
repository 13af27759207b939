package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Session backends selectable through SESSION_BACKEND
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Auth API Configuration
	API APIConfig

	// HTTP Configuration
	HTTP HTTPConfig

	// Session Configuration
	Session SessionConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig describes the remote Auth API
type APIConfig struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gte=0"` // 0 = no client-side timeout
}

// HTTPConfig holds web portal configuration
type HTTPConfig struct {
	ListenAddr     string        `validate:"required"`
	RedirectDelay  time.Duration `validate:"gte=0"`
	AllowedOrigins []string
}

// SessionConfig holds session persistence configuration
type SessionConfig struct {
	Backend      string `validate:"oneof=memory sqlite redis"`
	CookieName   string `validate:"required"`
	DatabaseURL  string `validate:"required_if=Backend sqlite"`
	RedisAddress string `validate:"required_if=Backend redis"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiTimeout, err := durationEnv("API_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	redirectDelay, err := durationEnv("REDIRECT_DELAY", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000"), "/"),
			Timeout: apiTimeout,
		},
		HTTP: HTTPConfig{
			ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
			RedirectDelay:  redirectDelay,
			AllowedOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		},
		Session: SessionConfig{
			Backend:      strings.ToLower(getEnv("SESSION_BACKEND", BackendMemory)),
			CookieName:   getEnv("SESSION_COOKIE", "portald_scope"),
			DatabaseURL:  getEnv("DATABASE_URL", "portald.sqlite"),
			RedisAddress: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// durationEnv accepts Go durations ("750ms") or bare integers as milliseconds
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}

	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}

	var ms int64
	if _, err := fmt.Sscanf(raw, "%d", &ms); err == nil && fmt.Sprint(ms) == raw {
		return time.Duration(ms) * time.Millisecond, nil
	}

	return 0, fmt.Errorf("invalid %s %q: expected a duration such as 500ms", key, raw)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
