package db

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// InitAdmin seeds the admin account from ADMIN_USERNAME / ADMIN_PASSWORD if
// it does not exist yet. The password is stored bcrypt-hashed.
func InitAdmin(ctx context.Context, database *Database) error {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminUsername == "" || adminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set")
	}

	var count int
	err := database.ExecQueryRow(ctx, "SELECT COUNT(*) FROM users WHERE username = $1", adminUsername).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = database.Exec(ctx, "INSERT INTO users (username, password) VALUES ($1, $2)", adminUsername, string(hashed))
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}
