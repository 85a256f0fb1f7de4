// Package config loads the server configuration from an optional YAML
// file, a .env file and environment variables, in that order of
// precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds token and password-hashing settings.
type AuthConfig struct {
	// JWTSecret signs session tokens. Required; the server refuses to
	// start without it.
	JWTSecret string `yaml:"jwt_secret"`

	// TokenTTLHours is the session token lifetime.
	TokenTTLHours int `yaml:"token_ttl_hours"`

	// BcryptCost is the bcrypt work factor. Zero means the library
	// default.
	BcryptCost int `yaml:"bcrypt_cost"`
}

// Load reads the configuration. path may be empty, in which case only
// .env and environment variables apply.
func Load(path string) (*Config, error) {
	// Missing .env is fine; it is a development convenience.
	_ = godotenv.Load()

	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Path: "./data/listling.db"},
		Auth:     AuthConfig{TokenTTLHours: 24},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Auth.TokenTTLHours < 1 {
		return nil, fmt.Errorf("token TTL must be at least one hour")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			cfg.Auth.TokenTTLHours = hours
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil {
			cfg.Auth.BcryptCost = cost
		}
	}
}
