package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// 1. Provider and API key validation
	if c.Provider != ProviderGemini && c.Provider != ProviderGoogleAI {
		return fmt.Errorf("%w: %q is not supported, use %q", ErrInvalidProvider, c.Provider, ProviderGemini)
	}

	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required\n"+
			"Get your API key at: https://ai.google.dev/gemini-api/docs/api-key",
			ErrMissingAPIKey)
	}

	// 2. Model configuration validation
	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	// Temperature range: 0.0 (deterministic) to 2.0 (maximum creativity)
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	// MaxTokens range: 1 to 2097152 (Gemini 2.5 max context window)
	if c.MaxTokens < 1 || c.MaxTokens > 2097152 {
		return fmt.Errorf("%w: must be between 1 and 2,097,152, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	if c.MaxTurns < 1 || c.MaxTurns > 25 {
		return fmt.Errorf("%w: must be between 1 and 25, got %d", ErrInvalidMaxTurns, c.MaxTurns)
	}

	// 3. Similarity threshold validation: both live in (0, 1]. A threshold
	// of 0 would match everything, so it is rejected.
	if c.DuplicateThreshold <= 0 || c.DuplicateThreshold > 1 {
		return fmt.Errorf("%w: duplicate_threshold must be in (0, 1], got %.2f",
			ErrInvalidThreshold, c.DuplicateThreshold)
	}
	if c.ResolveThreshold <= 0 || c.ResolveThreshold > 1 {
		return fmt.Errorf("%w: resolve_threshold must be in (0, 1], got %.2f",
			ErrInvalidThreshold, c.ResolveThreshold)
	}

	// 4. PostgreSQL configuration validation
	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}

	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}

	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	if c.PostgresPassword == "" {
		return fmt.Errorf("%w: postgres_password must be set in config.yaml",
			ErrInvalidPostgresPassword)
	}

	if c.PostgresPassword == "wishkeep_dev_password" {
		slog.Warn("Using default development password for PostgreSQL",
			"warning", "Change postgres_password in config.yaml for production deployments")
	}

	if len(c.PostgresPassword) < 8 {
		return fmt.Errorf("%w: postgres_password must be at least 8 characters (got %d)",
			ErrInvalidPostgresPassword, len(c.PostgresPassword))
	}

	// Modern SSL modes only; allow/prefer are deprecated (MITM vulnerable)
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(validSSLModes, c.PostgresSSLMode) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidPostgresSSLMode, c.PostgresSSLMode, validSSLModes)
	}

	// 5. Serve configuration validation
	if c.ListenAddr == "" || !strings.Contains(c.ListenAddr, ":") {
		return fmt.Errorf("%w: %q must be a host:port address", ErrInvalidListenAddr, c.ListenAddr)
	}

	for token, user := range c.APITokens {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("%w: empty token for user %q", ErrInvalidAPIToken, user)
		}
		if len(token) < 16 {
			return fmt.Errorf("%w: token for user %q must be at least 16 characters", ErrInvalidAPIToken, user)
		}
		if strings.TrimSpace(user) == "" {
			return fmt.Errorf("%w: token maps to empty user ID", ErrInvalidAPIToken)
		}
	}

	return nil
}
