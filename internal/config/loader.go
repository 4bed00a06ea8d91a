package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	defaultConfigDir  = ".hpn-transform"
	defaultConfigName = "config"
	defaultConfigType = "yaml"
	envPrefix         = "HPN_TRANSFORM"
)

// vendorEnv holds the key variables each vendor documents. They take
// priority over the file and the HPN_TRANSFORM_* variables.
type vendorEnv struct {
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	ClaudeAPIKey string `env:"ANTHROPIC_API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
}

// DefaultPath returns $HOME/.hpn-transform/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(defaultConfigDir, defaultConfigName+"."+defaultConfigType)
	}
	return filepath.Join(home, defaultConfigDir, defaultConfigName+"."+defaultConfigType)
}

// Load reads the configuration. An empty path means DefaultPath. A missing
// file is not an error; the environment alone may configure everything.
// Priority order (highest to lowest):
// 1. OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY
// 2. Environment variables (prefixed with HPN_TRANSFORM_)
// 3. config.yaml
// 4. Default values
func Load(path string) (*Configuration, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType(defaultConfigType)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	source := path
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{
				Op:  "read",
				Err: fmt.Errorf("failed to read config file: %w", err),
			}
		}
		source = ""
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{
			Op:  "unmarshal",
			Err: fmt.Errorf("failed to unmarshal config: %w", err),
		}
	}
	cfg.source = source

	if err := applyVendorEnv(&cfg); err != nil {
		return nil, &ConfigError{Op: "env", Err: err}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key is registered
// so that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("openai_api_key", "")
	v.SetDefault("claude_api_key", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("default_provider", "")
	v.SetDefault("default_models.openai", "")
	v.SetDefault("default_models.claude", "")
	v.SetDefault("default_models.gemini", "")
	v.SetDefault("provider_priority", []string{})
	v.SetDefault("request_timeout_seconds", 60)

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")

	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8787)
	v.SetDefault("server.shutdown_timeout_seconds", 15)
}

func applyVendorEnv(cfg *Configuration) error {
	var ve vendorEnv
	if err := env.Parse(&ve); err != nil {
		return fmt.Errorf("failed to parse vendor key variables: %w", err)
	}

	if ve.OpenAIAPIKey != "" {
		cfg.OpenAIAPIKey = ve.OpenAIAPIKey
	}
	if ve.ClaudeAPIKey != "" {
		cfg.ClaudeAPIKey = ve.ClaudeAPIKey
	}
	if ve.GeminiAPIKey != "" {
		cfg.GeminiAPIKey = ve.GeminiAPIKey
	}
	return nil
}

func (c *Configuration) normalize() {
	c.OpenAIAPIKey = strings.TrimSpace(c.OpenAIAPIKey)
	c.ClaudeAPIKey = strings.TrimSpace(c.ClaudeAPIKey)
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)
	c.DefaultProvider = strings.ToLower(strings.TrimSpace(c.DefaultProvider))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	priority := make([]string, 0, len(c.ProviderPriority))
	for _, p := range c.ProviderPriority {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			priority = append(priority, p)
		}
	}
	c.ProviderPriority = priority
}

var validate = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New()
	vd.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return name
	})
	return vd
}

// Validate validates the configuration and returns a *ValidationError that
// lists every offending key.
func (c *Configuration) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ConfigError{Op: "validate", Err: err}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return &ValidationError{Errors: messages}
}

func describeFieldError(fe validator.FieldError) string {
	key := fe.Namespace()
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:]
	}

	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s '%v' is invalid, must be one of: %s",
			key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed '%s' validation", key, fe.Tag())
	}
}
