package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort    string
	ServerHost    string
	PublicBaseURL string
	// CORSOrigins lists allowed browser origins. Empty allows any origin.
	CORSOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// MigrationsDir holds the .sql migration files applied on startup.
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Image storage: "local" writes under MediaDir and serves it at MediaURL,
	// "s3" uploads to S3Bucket.
	ImageBackend string
	MediaDir     string
	MediaURL     string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string

	// Pagination
	DefaultPageSize int
	MaxPageSize     int

	// Recipes a single user may create per hour. Zero disables the limit.
	RecipeCreationLimit int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI, Development, Test:
		loadEnvConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvConfig reads environment variables and fills in local defaults.
// Secrets may still be provided as Docker secrets; they win over defaults.
func loadEnvConfig(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "localhost")
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "http://localhost:8080")

	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBPassword = getEnvOrSecret("DB_PASSWORD", "db_password", "postgres")
	cfg.DBName = getEnv("DB_NAME", "foodgram")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = getEnvOrSecret("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)

	cfg.JWTSecret = getEnvOrSecret("JWT_SECRET", "jwt_secret", "")
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", 24*time.Hour)

	loadCommon(cfg)
}

// loadProdConfig loads configuration for production using Docker secrets for credentials
func loadProdConfig(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "")

	cfg.DBHost = getEnvOrSecret("DB_HOST", "db_host", "")
	cfg.DBPort = getEnvOrSecret("DB_PORT", "db_port", "5432")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.DBName = getEnvOrSecret("DB_NAME", "db_name", "foodgram")
	cfg.DBSSLMode = getEnvOrSecret("DB_SSL_MODE", "db_ssl_mode", "require")

	cfg.RedisHost = getEnvOrSecret("REDIS_HOST", "redis_host", "")
	cfg.RedisPort = getEnvOrSecret("REDIS_PORT", "redis_port", "6379")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisURL = readSecret("redis_url")
	cfg.RedisDB = 0

	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", 24*time.Hour)

	loadCommon(cfg)
}

func loadCommon(cfg *Config) {
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS")

	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", "migrations")

	cfg.ImageBackend = getEnv("IMAGE_BACKEND", "local")
	cfg.MediaDir = getEnv("MEDIA_DIR", "./media")
	cfg.MediaURL = getEnv("MEDIA_URL", "/media")
	cfg.S3Bucket = getEnv("S3_BUCKET_NAME", "foodgram-images")
	cfg.S3Region = getEnv("AWS_REGION", "us-east-1")
	cfg.S3Endpoint = getEnv("S3_ENDPOINT", "")

	cfg.DefaultPageSize = getEnvInt("PAGE_SIZE", 6)
	cfg.MaxPageSize = getEnvInt("MAX_PAGE_SIZE", 100)
	cfg.RecipeCreationLimit = getEnvInt("RECIPE_CREATION_LIMIT", 20)
}

// DSN returns the Postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getEnvOrSecret prefers the environment variable, then the Docker secret, then the fallback.
func getEnvOrSecret(key, secret, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if v := readSecret(secret); v != "" {
		return v
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
