package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Realtime RealtimeConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	Env            string        `env:"APP_ENV" envDefault:"development"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"10s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `env:"SURREAL_HOST" envDefault:"localhost"`
	Port      string `env:"SURREAL_PORT" envDefault:"8000"`
	User      string `env:"SURREAL_USER" envDefault:"root"`
	Password  string `env:"SURREAL_PASSWORD"`
	Namespace string `env:"SURREAL_NAMESPACE" envDefault:"gatherly"`
	Database  string `env:"SURREAL_DATABASE" envDefault:"gatherly"`
}

// JWTConfig holds token verification settings. The secret is shared with
// the auth collaborator that issues tokens.
type JWTConfig struct {
	Secret         string `env:"JWT_SECRET"`
	Issuer         string `env:"JWT_ISSUER" envDefault:"gatherly"`
	ExpirationMins int    `env:"JWT_EXPIRATION_MINS" envDefault:"60"`
}

// RealtimeConfig holds websocket hub settings
type RealtimeConfig struct {
	WriteWait      time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	PongWait       time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`
	MaxMessageSize int64         `env:"WS_MAX_MESSAGE_SIZE" envDefault:"4096"`
	SendBuffer     int           `env:"WS_SEND_BUFFER" envDefault:"64"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that required settings are present. Missing collaborator
// configuration is a startup error, never discovered at request time.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Database.Host == "" {
		errs = append(errs, errors.New("SURREAL_HOST is required"))
	}
	if c.Database.Password == "" && c.Server.Env == "production" {
		errs = append(errs, errors.New("SURREAL_PASSWORD is required in production"))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("SERVER_REQUEST_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// IsProduction returns true when running in production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
