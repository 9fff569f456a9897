package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Redis    RedisConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Username string
	Password string
	Name     string
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

// AIConfig holds trust-analysis provider configuration
type AIConfig struct {
	GroqAPIKey     string
	GroqBaseURL    string
	Model          string
	RequestTimeout time.Duration
}

// RedisConfig holds the optional analysis cache backend settings.
// An empty Addr means the in-memory cache is used instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	AllowedOrigins string
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments. A missing file is fine;
	// the variables may already be in the environment.
	if os.Getenv("GO_ENV") != "production" {
		_ = godotenv.Load("env.local")
	}

	cfg := &Config{}

	// Database configuration
	var err error
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Username, err = requireEnv("DB_USERNAME"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.Name, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	// Auth configuration
	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}
	tokenExpiry := getEnvWithDefault("JWT_TOKEN_EXPIRY", "168h")
	cfg.Auth.TokenExpiry, err = time.ParseDuration(tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT_TOKEN_EXPIRY: %w", err)
	}

	// AI configuration. A missing key disables the external analyzer and the
	// rule-based scorer takes over, so it is not required here.
	cfg.AI.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.AI.GroqBaseURL = getEnvWithDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	cfg.AI.Model = getEnvWithDefault("GROQ_MODEL", "llama-3.1-8b-instant")
	aiTimeout := getEnvWithDefault("AI_REQUEST_TIMEOUT", "10s")
	cfg.AI.RequestTimeout, err = time.ParseDuration(aiTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AI_REQUEST_TIMEOUT: %w", err)
	}

	// Redis configuration (optional)
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	redisDB := getEnvWithDefault("REDIS_DB", "0")
	cfg.Redis.DB, err = strconv.Atoi(redisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_DB: %w", err)
	}

	// Server configuration
	serverPort, err := requireEnv("SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}
	cfg.Server.AllowedOrigins = getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s",
		c.Username, c.Password, c.Host, c.Name)
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
