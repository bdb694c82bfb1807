// Package seed prepares a freshly migrated database for first use.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way. An admin user is only
// created when both email and password are configured.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	if err := seedAdmin(ctx, tx, cfg, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, cfg Config, stats *Stats) error {
	email := NormalizeEmail(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	var hash string
	err := tx.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE email = ?`, email).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		newHash, err := HashPassword(cfg.AdminPassword)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, newHash); err != nil {
			return fmt.Errorf("insert admin user: %w", err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check admin user existence: %w", err)
	}

	// A rotated ADMIN_PASSWORD replaces the stored hash.
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(cfg.AdminPassword)) == nil {
		return nil
	}
	newHash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE email = ?`, newHash, email); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	stats.Updates++
	return nil
}

// HashPassword returns the bcrypt hash stored for a user password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hash), nil
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
