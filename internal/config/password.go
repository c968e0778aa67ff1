// Package config - password.go provides bcrypt hashing for the single-user login.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds configuration for password hashing and verification.
// The assistant has exactly one user; the bcrypt hash of their password is
// provided via ADMIN_PASSWORD_HASH and compared at login.
type PasswordConfig struct {
	BcryptCost int
	AdminHash  string
}

// NewPasswordConfig creates a new password configuration from environment
// variables. It reads ADMIN_PASSWORD_HASH (required for serve) and
// BCRYPT_COST (default: 12, used by the hash helper command).
func NewPasswordConfig() (*PasswordConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12"
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cost)
	}

	return &PasswordConfig{
		BcryptCost: cost,
		AdminHash:  os.Getenv("ADMIN_PASSWORD_HASH"),
	}, nil
}

// HashPassword hashes a password using bcrypt.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against the stored admin hash.
func (c *PasswordConfig) VerifyPassword(pw string) bool {
	if c.AdminHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.AdminHash), []byte(pw)) == nil
}
