package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/auth"
	"ems/internal/platform/config"
)

// Seed ensures the bootstrap HR account exists so the system is reachable
// on first start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	username := strings.TrimSpace(cfg.SeedHRUsername)
	if username == "" || cfg.SeedHRPassword == "" {
		return nil
	}

	var id int64
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE username = $1", username).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedHRPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (username, password_hash, role)
    VALUES ($1, $2, $3)
  `, username, hash, auth.RoleHR)
	return err
}
