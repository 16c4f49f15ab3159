// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.wishkeep/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - AI: provider, model selection, temperature, max tokens, max turns
//   - Storage: PostgreSQL connection (see storage.go)
//   - Similarity: duplicate and resolve thresholds for fuzzy title matching
//   - Serve: listen address and API tokens
//
// Security: sensitive data (passwords, tokens) is never logged; the config
// directory uses 0750 permissions.
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidMaxTurns indicates the max turns value is out of range.
	ErrInvalidMaxTurns = errors.New("invalid max turns")

	// ErrInvalidThreshold indicates a similarity threshold is out of range.
	ErrInvalidThreshold = errors.New("invalid similarity threshold")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresPassword indicates the PostgreSQL password is invalid.
	ErrInvalidPostgresPassword = errors.New("invalid PostgreSQL password")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidListenAddr indicates the serve listen address is invalid.
	ErrInvalidListenAddr = errors.New("invalid listen address")

	// ErrInvalidAPIToken indicates an API token entry is malformed.
	ErrInvalidAPIToken = errors.New("invalid API token")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderGoogleAI = "googleai"
)

// Default similarity thresholds. Both are tunable via config; the defaults
// match the behavior the assistant was calibrated against.
const (
	// DefaultDuplicateThreshold is the minimum title similarity for an
	// existing item to count as a potential duplicate on creation.
	DefaultDuplicateThreshold = 0.8

	// DefaultResolveThreshold is the minimum similarity for a user-typed
	// identifier to resolve to a stored item title.
	DefaultResolveThreshold = 0.6
)

// Config stores application configuration.
// SECURITY: Sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (passwords, API keys, tokens), update MarshalJSON.
type Config struct {
	// AI provider and model configuration
	Provider    string  `mapstructure:"provider" json:"provider"`
	ModelName   string  `mapstructure:"model_name" json:"model_name"`
	Temperature float32 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
	MaxTurns    int     `mapstructure:"max_turns" json:"max_turns"`

	// Similarity tunables
	DuplicateThreshold float64 `mapstructure:"duplicate_threshold" json:"duplicate_threshold"`
	ResolveThreshold   float64 `mapstructure:"resolve_threshold" json:"resolve_threshold"`

	// Storage configuration (see storage.go for documentation)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Serve mode configuration
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`

	// APITokens maps bearer tokens to user IDs. Requests carrying a token
	// run as the mapped user. SENSITIVE: keys masked in MarshalJSON.
	APITokens map[string]string `mapstructure:"api_tokens" json:"api_tokens"`

	// Chat mode configuration
	ServerURL string `mapstructure:"server_url" json:"server_url"`
	ChatToken string `mapstructure:"chat_token" json:"chat_token"` // SENSITIVE: masked in MarshalJSON
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".wishkeep")

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL, when set, overrides the individual postgres_* settings
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// AI defaults
	viper.SetDefault("provider", ProviderGemini)
	viper.SetDefault("model_name", "gemini-2.5-flash")
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("max_tokens", 2048)
	viper.SetDefault("max_turns", 5)

	// Similarity defaults
	viper.SetDefault("duplicate_threshold", DefaultDuplicateThreshold)
	viper.SetDefault("resolve_threshold", DefaultResolveThreshold)

	// PostgreSQL defaults (matching docker-compose.yml)
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "wishkeep")
	viper.SetDefault("postgres_password", "wishkeep_dev_password")
	viper.SetDefault("postgres_db_name", "wishkeep")
	viper.SetDefault("postgres_ssl_mode", "disable")

	// Serve defaults
	viper.SetDefault("listen_addr", ":8080")

	// Chat client defaults
	viper.SetDefault("server_url", "http://localhost:8080")
}

// bindEnvVariables binds environment variables explicitly.
// GEMINI_API_KEY is read directly by Genkit, not via Viper; validation
// checks its presence in cfg.Validate().
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a panic here is a bug, not a
	// runtime condition.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "WISHKEEP_PROVIDER")
	mustBind("model_name", "WISHKEEP_MODEL_NAME")
	mustBind("max_turns", "WISHKEEP_MAX_TURNS")
	mustBind("duplicate_threshold", "WISHKEEP_DUPLICATE_THRESHOLD")
	mustBind("resolve_threshold", "WISHKEEP_RESOLVE_THRESHOLD")
	mustBind("listen_addr", "WISHKEEP_LISTEN_ADDR")
	mustBind("server_url", "WISHKEEP_SERVER_URL")
	mustBind("chat_token", "WISHKEEP_TOKEN")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks (U+2588) cannot collide with real secret substrings.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 characters or fewer are fully masked; longer secrets keep the
// first and last 2 characters for debug utility.
//
// THREAT MODEL: this defends against accidental logging of real secrets.
// It is NOT cryptographically secure; if logs are compromised, rotate secrets.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
//
// Sensitive fields masked:
//   - PostgresPassword
//   - APITokens (token keys)
//   - ChatToken
//
// When adding new sensitive fields, update this method.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	a.ChatToken = maskSecret(a.ChatToken)
	if len(a.APITokens) > 0 {
		masked := make(map[string]string, len(a.APITokens))
		for token, user := range a.APITokens {
			masked[maskSecret(token)] = user
		}
		a.APITokens = masked
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// FullModelName returns the provider-qualified model name for Genkit.
// Example: "googleai/gemini-2.5-flash".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	return ProviderGoogleAI + "/" + c.ModelName
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
