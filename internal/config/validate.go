package config

import (
	"fmt"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Ideas.CodePrefix == "" {
		return fmt.Errorf("ideas.code_prefix must not be empty")
	}
	if c.Ideas.CodeRetryAttempts < 1 {
		return fmt.Errorf("ideas.code_retry_attempts must be >= 1 (got %d)", c.Ideas.CodeRetryAttempts)
	}
	if c.Ideas.VoteRetryAttempts < 1 {
		return fmt.Errorf("ideas.vote_retry_attempts must be >= 1 (got %d)", c.Ideas.VoteRetryAttempts)
	}
	if !domain.Visibility(c.Ideas.DefaultVisibility).IsValid() {
		return fmt.Errorf("ideas.default_visibility must be public, department, or private (got %q)", c.Ideas.DefaultVisibility)
	}

	if c.Limits.Enabled && c.Limits.RequestsPerMin < 1 {
		return fmt.Errorf("limits.requests_per_min must be >= 1 (got %d)", c.Limits.RequestsPerMin)
	}

	return nil
}
