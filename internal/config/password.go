package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig controls password hashing. The pepper, when set, is
// appended to every password before hashing so leaked hashes cannot be
// cracked without it.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string
}

// NewPasswordConfig builds a PasswordConfig from BCRYPT_COST (default
// 12, accepted range 10-14) and the optional PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost, err := strconv.Atoi(getenvDefault("BCRYPT_COST", "12"))
	if err != nil {
		return nil, fmt.Errorf("config error: invalid BCRYPT_COST: %v", err)
	}
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("config error: bcrypt cost out of range: %d (must be 10-14)", cost)
	}

	return &PasswordConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
	}, nil
}

// HashPassword hashes a password with bcrypt at the configured cost.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw+c.Pepper), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches the stored hash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw+c.Pepper)) == nil
}
