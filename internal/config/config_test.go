package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "CORS_ORIGINS", "JWT_TTL", "PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8001" {
		t.Errorf("Expected default port 8001, got %s", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("Expected 7 day token TTL, got %v", cfg.Auth.TokenTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != len(DefaultCORSOrigins) {
		t.Errorf("Expected default origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/blog?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("Expected 2h token TTL, got %v", cfg.Auth.TokenTTL)
	}
	if got := strings.Join(cfg.CORS.AllowedOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Errorf("Unexpected origins: %s", got)
	}
	if cfg.Database.GetDSN() != "postgres://u:p@db:5432/blog?sslmode=disable" {
		t.Errorf("DATABASE_URL should override the DSN, got %s", cfg.Database.GetDSN())
	}
}

func TestParseOrigins_WildcardFallsBack(t *testing.T) {
	origins := parseOrigins("*")
	if len(origins) != len(DefaultCORSOrigins) || origins[0] != DefaultCORSOrigins[0] {
		t.Errorf("Wildcard should fall back to defaults, got %v", origins)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Host: "localhost", Name: "blog"},
			Auth:     AuthConfig{JWTSecret: "s", TokenTTL: time.Hour, SessionTTL: time.Hour},
			CORS:     CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing db name", func(c *Config) { c.Database.Name = "" }, "DB_NAME"},
		{"url replaces parts", func(c *Config) { c.Database.Name = ""; c.Database.URL = "postgres://x" }, ""},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }, "JWT_SECRET"},
		{"wildcard origin", func(c *Config) { c.CORS.AllowedOrigins = []string{"*"} }, "wildcard"},
		{"no origins", func(c *Config) { c.CORS.AllowedOrigins = nil }, "at least one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
