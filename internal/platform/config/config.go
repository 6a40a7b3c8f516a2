package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr             string
	DatabaseURL      string
	JWTSecret        string
	TokenTTL         time.Duration
	Environment      string
	SeedHRUsername   string
	SeedHRPassword   string
	RunMigrations    bool
	RunSeed          bool
	MigrationsDir    string
	AllowedOrigin    string
	ShutdownTimeout  time.Duration
}

func Load() Config {
	return Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		TokenTTL:        getEnvDuration("TOKEN_TTL", 24*time.Hour),
		Environment:     getEnv("APP_ENV", "development"),
		SeedHRUsername:  getEnv("SEED_HR_USERNAME", "hr_user"),
		SeedHRPassword:  getEnv("SEED_HR_PASSWORD", "hr123"),
		RunMigrations:   getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:         getEnvBool("RUN_SEED", true),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && c.SeedHRPassword == "hr123" {
			return fmt.Errorf("SEED_HR_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	return nil
}
