// Package config loads and stores the credentials and defaults used by the
// transformation core. Values come from a YAML file, HPN_TRANSFORM_*
// environment variables and the vendor-standard key variables.
package config

import (
	"strings"
	"time"

	"github.com/hpn/hpn-transform/internal/domain"
)

// Configuration holds all application configuration values.
type Configuration struct {
	// API keys, one per vendor. Empty means "not configured".
	OpenAIAPIKey string `json:"openai_api_key" mapstructure:"openai_api_key"`
	ClaudeAPIKey string `json:"claude_api_key" mapstructure:"claude_api_key"`
	GeminiAPIKey string `json:"gemini_api_key" mapstructure:"gemini_api_key"`

	// DefaultProvider is tried before the priority list when it is credentialed.
	DefaultProvider string `json:"default_provider" mapstructure:"default_provider" validate:"omitempty,oneof=openai claude gemini"`

	// DefaultModels overrides each adapter's built-in default model.
	DefaultModels DefaultModels `json:"default_models" mapstructure:"default_models"`

	// ProviderPriority is the fallback order. Missing providers are appended
	// in the built-in order (claude, openai, gemini).
	ProviderPriority []string `json:"provider_priority" mapstructure:"provider_priority" validate:"omitempty,dive,oneof=openai claude gemini"`

	// RequestTimeoutSeconds bounds each outbound vendor call. Zero keeps the
	// adapter default.
	RequestTimeoutSeconds int `json:"request_timeout_seconds" mapstructure:"request_timeout_seconds" validate:"gte=0"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Server configuration, used by the serve command only.
	Server ServerConfig `json:"server" mapstructure:"server"`

	source string
}

// DefaultModels holds a per-provider default model.
type DefaultModels struct {
	OpenAI string `json:"openai" mapstructure:"openai"`
	Claude string `json:"claude" mapstructure:"claude"`
	Gemini string `json:"gemini" mapstructure:"gemini"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`

	// Format is the log format (json, text).
	Format string `json:"format" mapstructure:"format" validate:"omitempty,oneof=json text"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	// Host is the server bind address.
	Host string `json:"host" mapstructure:"host"`

	// Port is the server port number.
	Port int `json:"port" mapstructure:"port" validate:"gte=1,lte=65535"`

	// ShutdownTimeoutSeconds is the maximum duration to wait for active connections to finish.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// Source returns the config file that was read, or "" when values came from
// the environment only.
func (c *Configuration) Source() string {
	return c.source
}

// Settings converts the configuration into the value the core consumes.
func (c *Configuration) Settings() domain.Settings {
	creds := domain.Credentials{}
	for p, key := range c.apiKeys() {
		if strings.TrimSpace(key) != "" {
			creds[p] = strings.TrimSpace(key)
		}
	}

	models := map[domain.ProviderType]string{}
	for p, m := range map[domain.ProviderType]string{
		domain.ProviderOpenAI: c.DefaultModels.OpenAI,
		domain.ProviderClaude: c.DefaultModels.Claude,
		domain.ProviderGemini: c.DefaultModels.Gemini,
	} {
		if m = strings.TrimSpace(m); m != "" {
			models[p] = m
		}
	}

	defaults := domain.ProviderDefaults{Models: models}
	if p, ok := domain.ParseProviderType(c.DefaultProvider); ok {
		defaults.Preferred = p
	}
	for _, raw := range c.ProviderPriority {
		if p, ok := domain.ParseProviderType(raw); ok {
			defaults.Priority = append(defaults.Priority, p)
		}
	}

	return domain.Settings{Credentials: creds, Defaults: defaults}
}

// APIKey returns the configured key for a provider.
func (c *Configuration) APIKey(p domain.ProviderType) string {
	return c.apiKeys()[p]
}

// Secrets returns every non-empty API key, for log redaction.
func (c *Configuration) Secrets() []string {
	out := make([]string, 0, 3)
	for _, p := range domain.AllProviders() {
		if k := strings.TrimSpace(c.APIKey(p)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// RequestTimeout returns the outbound call timeout, or zero for the adapter default.
func (c *Configuration) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown window for the serve command.
func (c *Configuration) ShutdownTimeout() time.Duration {
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

func (c *Configuration) apiKeys() map[domain.ProviderType]string {
	return map[domain.ProviderType]string{
		domain.ProviderOpenAI: c.OpenAIAPIKey,
		domain.ProviderClaude: c.ClaudeAPIKey,
		domain.ProviderGemini: c.GeminiAPIKey,
	}
}
