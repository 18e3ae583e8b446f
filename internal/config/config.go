package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Firebase FirebaseConfig
	Store    StoreConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	Env            string
	AllowedOrigins []string
}

// AuthConfig controls the API key gate
type AuthConfig struct {
	APIKey  string
	Enforce bool
}

type FirebaseConfig struct {
	CredentialsFile string
	ProjectID       string
}

type StoreConfig struct {
	Backend    string // "firestore" or "postgres"
	Collection string
}

type DatabaseConfig struct {
	URL string
}

type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	llmTimeout, err := time.ParseDuration(getEnv("LLM_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}
	if llmTimeout <= 0 {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: must be positive")
	}

	apiKey := getEnv("API_KEY", "")
	enforce := apiKey != ""
	if raw, ok := os.LookupEnv("ENFORCE_AUTH"); ok && strings.TrimSpace(raw) != "" {
		enforce, err = strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid ENFORCE_AUTH: %w", err)
		}
	}
	if enforce && apiKey == "" {
		return nil, fmt.Errorf("ENFORCE_AUTH is true but API_KEY is not set")
	}

	backend := strings.ToLower(getEnv("STORE_BACKEND", StoreFirestore))
	if backend != StoreFirestore && backend != StorePostgres {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want %q or %q", backend, StoreFirestore, StorePostgres)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("HOST", "127.0.0.1"),
			Port:           getEnv("PORT", "8600"),
			Env:            getEnv("ENV", "development"),
			AllowedOrigins: parseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			APIKey:  apiKey,
			Enforce: enforce,
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		},
		Store: StoreConfig{
			Backend:    backend,
			Collection: getEnv("DEVICES_COLLECTION", "devices"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		LLM: LLMConfig{
			BaseURL: strings.TrimRight(getEnv("LLM_BASE_URL", "http://127.0.0.1:11434"), "/"),
			Model:   getEnv("LLM_MODEL", "llama3.2:3b"),
			Timeout: llmTimeout,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Store.Backend == StorePostgres && cfg.Database.URL == "" {
		return nil, fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
	}

	return cfg, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// getEnv gets an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// parseCSV parses a comma-separated string into a slice of strings
func parseCSV(value string) []string {
	if value == "" {
		return []string{}
	}
	var result []string
	parts := strings.Split(value, ",")
	for _, s := range parts {
		trimmed := strings.TrimSpace(s)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
