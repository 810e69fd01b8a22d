package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		expected    bool
	}{
		{"production", "production", true},
		{"prod", "prod", true},
		{"development", "development", false},
		{"staging", "staging", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}
			if got := cfg.IsProduction(); got != tt.expected {
				t.Errorf("IsProduction() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		expected    bool
	}{
		{"development", "development", true},
		{"dev", "dev", true},
		{"empty", "", true},
		{"production", "production", false},
		{"staging", "staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}
			if got := cfg.IsDevelopment(); got != tt.expected {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		APIBaseURL:     DefaultAPIBaseURL,
		HTTPTimeout:    DefaultHTTPTimeout,
		Environment:    "development",
		SessionBackend: SessionBackendFile,
		SessionFile:    "/tmp/ufscompras/session.json",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(c *Config)
		errorContains string
	}{
		{"valid_defaults", func(c *Config) {}, ""},
		{"relative_base_url", func(c *Config) { c.APIBaseURL = "/api" }, "absolute URL"},
		{"unsupported_scheme", func(c *Config) { c.APIBaseURL = "ftp://example.com/api" }, "http or https"},
		{"zero_timeout", func(c *Config) { c.HTTPTimeout = 0 }, "HTTP_TIMEOUT"},
		{"negative_session_ttl", func(c *Config) { c.SessionTTL = -time.Second }, "SESSION_TTL"},
		{"unknown_backend", func(c *Config) { c.SessionBackend = "sqlite" }, "SESSION_BACKEND"},
		{"redis_without_addr", func(c *Config) { c.SessionBackend = SessionBackendRedis }, "REDIS_ADDR"},
		{"redis_with_addr", func(c *Config) {
			c.SessionBackend = SessionBackendRedis
			c.RedisAddr = "localhost:6379"
		}, ""},
		{"memory_backend", func(c *Config) { c.SessionBackend = SessionBackendMemory; c.SessionFile = "" }, ""},
		{"production_requires_https", func(c *Config) { c.Environment = "production" }, "HTTPS in production"},
		{"production_with_https", func(c *Config) {
			c.Environment = "production"
			c.APIBaseURL = "https://api.ufscompras.com/api"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errorContains == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.errorContains)
			}
			if !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errorContains)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("UFSCOMPRAS_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, DefaultAPIBaseURL)
	}
	if cfg.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, DefaultHTTPTimeout)
	}
	if cfg.Port != "8080" && os.Getenv("PORT") == "" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
}

func TestLoad_EnvironmentAndTrailingSlash(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:5000/api/")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("OPENAPI_VALIDATION", "true")
	t.Setenv("UFSCOMPRAS_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "http://backend:5000/api" {
		t.Errorf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("HTTPTimeout = %v, want 3s", cfg.HTTPTimeout)
	}
	if !cfg.OpenAPIValidation {
		t.Error("OpenAPIValidation = false, want true")
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ufscompras.yaml")
	content := `apiBaseURL: https://loja.example.com/api
httpTimeout: 2s
sessionBackend: redis
redisAddr: localhost:6380
sessionTTL: 12h
openapiValidation: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	t.Setenv("API_BASE_URL", "http://ignored:5000/api")
	t.Setenv("SESSION_BACKEND", "file")
	t.Setenv("OPENAPI_VALIDATION", "false")
	t.Setenv("UFSCOMPRAS_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "https://loja.example.com/api" {
		t.Errorf("APIBaseURL = %q, want overlay value", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 2*time.Second {
		t.Errorf("HTTPTimeout = %v, want 2s", cfg.HTTPTimeout)
	}
	if cfg.SessionBackend != SessionBackendRedis || cfg.RedisAddr != "localhost:6380" {
		t.Errorf("session backend = %q at %q, want redis at localhost:6380", cfg.SessionBackend, cfg.RedisAddr)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v, want 12h", cfg.SessionTTL)
	}
	if !cfg.OpenAPIValidation {
		t.Error("OpenAPIValidation = false, want overlay true")
	}
}

func TestLoad_InvalidOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("httpTimeout: soon\n"), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("UFSCOMPRAS_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for unparseable httpTimeout")
	}
}

func TestLoad_MissingOverlay(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "memory")
	t.Setenv("UFSCOMPRAS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for missing overlay file")
	}
}
