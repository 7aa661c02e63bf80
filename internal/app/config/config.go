package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Demo        DemoConfig
	Storage     StorageConfig
	Features    FeatureConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL     string
	TestURL string
}

type RedisConfig struct {
	URL string
}

// StorageConfig points at the directory rendered page rasters live under.
type StorageConfig struct {
	Path string
}

// DemoConfig is the single account this deployment signs everyone in as.
type DemoConfig struct {
	UserID   string
	Name     string
	Email    string
	Password string
}

type FeatureConfig struct {
	SignInOrder bool
	SeedData    bool
}

// Load configuration from environment variables
func Load() (*Config, error) {
	// Load .env file in non-production environments
	env := os.Getenv("ENVIRONMENT")
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			// .env file is optional
		}
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:           getEnv("HOST", "localhost"),
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
		Database: DatabaseConfig{
			URL:     getEnv("DATABASE_URL", ""),
			TestURL: getEnv("DATABASE_URL_TEST", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Demo: DemoConfig{
			UserID:   getEnv("DEMO_USER_ID", "us1122334456"),
			Name:     getEnv("DEMO_USER_NAME", "John Doe"),
			Email:    getEnv("DEMO_USER_EMAIL", "john.doe@cloudbyz.com"),
			Password: getEnv("DEMO_USER_PASSWORD", "password"),
		},
		Storage: StorageConfig{
			Path: getEnv("STORAGE_PATH", "./pages"),
		},
		Features: FeatureConfig{
			SignInOrder: parseBool(getEnv("ENABLE_SIGN_IN_ORDER", "true")),
			SeedData:    parseBool(getEnv("ENABLE_SEED_DATA", "true")),
		},
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// GetDatabaseURL returns the appropriate database URL based on environment
func (c *Config) GetDatabaseURL() string {
	if c.Environment == "test" && c.Database.TestURL != "" {
		return c.Database.TestURL
	}
	return c.Database.URL
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest returns true if running in test environment
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

func validate(config *Config) error {
	// Database URL is optional for development
	if config.IsProduction() && config.GetDatabaseURL() == "" {
		return fmt.Errorf("DATABASE_URL is required in production")
	}
	if config.Demo.Email == "" || config.Demo.Password == "" {
		return fmt.Errorf("DEMO_USER_EMAIL and DEMO_USER_PASSWORD are required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return b
}
