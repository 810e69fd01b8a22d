package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session storage backends
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

const (
	DefaultAPIBaseURL  = "http://localhost:5000/api"
	DefaultHTTPTimeout = 10 * time.Second
	DefaultSessionTTL  = 7 * 24 * time.Hour
)

// Config holds application configuration
type Config struct {
	APIBaseURL        string
	HTTPTimeout       time.Duration
	Port              string
	AllowedOrigins    string
	Environment       string // development, staging, production
	LogLevel          string
	LogFormat         string
	SessionBackend    string
	SessionFile       string
	SessionTTL        time.Duration
	RedisAddr         string
	RedisPassword     string
	RabbitMQURL       string
	OpenAPIValidation bool
}

// FileConfig is the optional YAML overlay named by UFSCOMPRAS_CONFIG.
// Only the fields present in the file override the environment.
type FileConfig struct {
	APIBaseURL        string `yaml:"apiBaseURL"`
	HTTPTimeout       string `yaml:"httpTimeout"`
	Port              string `yaml:"port"`
	AllowedOrigins    string `yaml:"allowedOrigins"`
	Environment       string `yaml:"environment"`
	LogLevel          string `yaml:"logLevel"`
	LogFormat         string `yaml:"logFormat"`
	SessionBackend    string `yaml:"sessionBackend"`
	SessionFile       string `yaml:"sessionFile"`
	SessionTTL        string `yaml:"sessionTTL"`
	RedisAddr         string `yaml:"redisAddr"`
	RedisPassword     string `yaml:"redisPassword"`
	RabbitMQURL       string `yaml:"rabbitmqURL"`
	OpenAPIValidation *bool  `yaml:"openapiValidation"`
}

// Load loads configuration from .env, environment variables and the optional
// YAML overlay, then validates it.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := fromEnv()

	if path := os.Getenv("UFSCOMPRAS_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		APIBaseURL:        getEnv("API_BASE_URL", DefaultAPIBaseURL),
		HTTPTimeout:       getDuration("HTTP_TIMEOUT", DefaultHTTPTimeout),
		Port:              getEnv("PORT", "8080"),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		SessionBackend:    getEnv("SESSION_BACKEND", SessionBackendFile),
		SessionFile:       getEnv("SESSION_FILE", defaultSessionFile()),
		SessionTTL:        getDuration("SESSION_TTL", DefaultSessionTTL),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		OpenAPIValidation: getBool("OPENAPI_VALIDATION", false),
	}
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	overlay(&c.APIBaseURL, fc.APIBaseURL)
	overlay(&c.Port, fc.Port)
	overlay(&c.AllowedOrigins, fc.AllowedOrigins)
	overlay(&c.Environment, fc.Environment)
	overlay(&c.LogLevel, fc.LogLevel)
	overlay(&c.LogFormat, fc.LogFormat)
	overlay(&c.SessionBackend, fc.SessionBackend)
	overlay(&c.SessionFile, fc.SessionFile)
	overlay(&c.RedisAddr, fc.RedisAddr)
	overlay(&c.RedisPassword, fc.RedisPassword)
	overlay(&c.RabbitMQURL, fc.RabbitMQURL)

	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("parse config: httpTimeout: %w", err)
		}
		c.HTTPTimeout = d
	}
	if fc.SessionTTL != "" {
		d, err := time.ParseDuration(fc.SessionTTL)
		if err != nil {
			return fmt.Errorf("parse config: sessionTTL: %w", err)
		}
		c.SessionTTL = d
	}
	if fc.OpenAPIValidation != nil {
		c.OpenAPIValidation = *fc.OpenAPIValidation
	}

	return nil
}

// Validate checks configuration for security and correctness
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL (got %q)", c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use http or https (got %q)", u.Scheme)
	}

	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if c.SessionTTL < 0 {
		return errors.New("SESSION_TTL must not be negative")
	}

	switch c.SessionBackend {
	case SessionBackendFile:
		if c.SessionFile == "" {
			return errors.New("SESSION_FILE is required for the file session backend")
		}
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis session backend")
		}
	case SessionBackendMemory:
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of file, redis, memory (got %q)", c.SessionBackend)
	}

	// Production talks to the backend over TLS only
	if c.IsProduction() {
		if u.Scheme != "https" {
			return errors.New("API_BASE_URL must use HTTPS in production")
		}

		if c.AllowedOrigins != "" {
			log.Println("WARNING: Ensure ALLOWED_ORIGINS uses HTTPS in production")
		}
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev" || c.Environment == ""
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".ufscompras", "session.json")
	}
	return filepath.Join(dir, "ufscompras", "session.json")
}

func overlay(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
