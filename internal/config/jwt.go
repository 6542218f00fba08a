package config

import (
	"fmt"
	"os"
	"strconv"
)

// JWTConfig holds the signing secret and token lifetime for issued
// access tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig builds a JWTConfig from JWT_SECRET (required) and
// JWT_EXPIRATION_HOURS (default 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("config error: JWT_SECRET is required")
	}

	hours, err := strconv.Atoi(getenvDefault("JWT_EXPIRATION_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("config error: invalid JWT_EXPIRATION_HOURS: %v", err)
	}
	if hours < 1 {
		return nil, fmt.Errorf("config error: JWT_EXPIRATION_HOURS must be at least 1, got %d", hours)
	}

	return &JWTConfig{Secret: secret, ExpirationHours: hours}, nil
}
