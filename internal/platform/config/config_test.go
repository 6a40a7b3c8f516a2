package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.Addr)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default token ttl of one day, got %s", cfg.TokenTTL)
	}
	if !cfg.RunMigrations || !cfg.RunSeed {
		t.Fatal("expected migrations and seed enabled by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid development config",
			mutate: func(c *Config) { c.DatabaseURL = "postgres://localhost/ems" },
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: true,
		},
		{
			name: "production requires jwt secret",
			mutate: func(c *Config) {
				c.DatabaseURL = "postgres://localhost/ems"
				c.Environment = "production"
				c.JWTSecret = ""
			},
			wantErr: true,
		},
		{
			name: "production rejects default seed password",
			mutate: func(c *Config) {
				c.DatabaseURL = "postgres://localhost/ems"
				c.Environment = "production"
				c.JWTSecret = "secret"
				c.SeedHRPassword = "hr123"
			},
			wantErr: true,
		},
		{
			name: "non positive token ttl",
			mutate: func(c *Config) {
				c.DatabaseURL = "postgres://localhost/ems"
				c.TokenTTL = 0
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
