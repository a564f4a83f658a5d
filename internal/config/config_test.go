package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			RequestTimeout: 10 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "gatherly",
			Database:  "gatherly",
		},
		JWT: JWTConfig{
			Secret:         "test-secret",
			Issuer:         "gatherly",
			ExpirationMins: 60,
		},
		Realtime: RealtimeConfig{
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			MaxMessageSize: 4096,
			SendBuffer:     64,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_MissingJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.Secret = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing JWT secret")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("expected JWT_SECRET in error, got: %v", err)
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database host")
	}
	if !strings.Contains(err.Error(), "SURREAL_HOST") {
		t.Errorf("expected SURREAL_HOST in error, got: %v", err)
	}
}

func TestConfig_Validate_ProductionRequiresDatabasePassword(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Env = "production"
	cfg.Database.Password = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing production database password")
	}
	if !strings.Contains(err.Error(), "SURREAL_PASSWORD") {
		t.Errorf("expected SURREAL_PASSWORD in error, got: %v", err)
	}
}

func TestConfig_Validate_DevelopmentAllowsEmptyPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected empty password allowed in development, got: %v", err)
	}
}

func TestConfig_Validate_NonPositiveRequestTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Server.RequestTimeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for zero request timeout")
	}
	if !strings.Contains(err.Error(), "SERVER_REQUEST_TIMEOUT") {
		t.Errorf("expected SERVER_REQUEST_TIMEOUT in error, got: %v", err)
	}
}

func TestConfig_Validate_CollectsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.Secret = ""
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected combined error")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") || !strings.Contains(err.Error(), "SURREAL_HOST") {
		t.Errorf("expected every failure reported, got: %v", err)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := validConfig()
	if cfg.IsProduction() {
		t.Error("development config reported as production")
	}

	cfg.Server.Env = "production"
	if !cfg.IsProduction() {
		t.Error("production config not reported as production")
	}
}
