// Package auth implements the shared admin password check.
package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultPassword is accepted while no custom password has been set.
	DefaultPassword = "admin123"

	// MinPasswordLength is the minimum length of a new admin password.
	MinPasswordLength = 6

	// DefaultCost is the bcrypt cost used for new hashes.
	DefaultCost = 10
)

// Checker verifies admin passwords against a stored bcrypt hash, falling
// back to a default password when the hash is empty.
type Checker struct {
	defaultPassword string
	cost            int
}

// NewChecker creates a Checker. Empty defaultPassword and non-positive cost
// select the package defaults.
func NewChecker(defaultPassword string, cost int) *Checker {
	if defaultPassword == "" {
		defaultPassword = DefaultPassword
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Checker{defaultPassword: defaultPassword, cost: cost}
}

// Verify reports whether password matches hash. Surrounding whitespace in
// the password is ignored.
func (c *Checker) Verify(hash, password string) bool {
	password = strings.TrimSpace(password)
	if password == "" {
		return false
	}
	if hash == "" {
		return password == c.defaultPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Hash produces a bcrypt hash of a new password.
func (c *Checker) Hash(password string) (string, error) {
	password = strings.TrimSpace(password)
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
