package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hpn/hpn-transform/internal/domain"
)

const fileMode os.FileMode = 0o600

// SetAPIKey stores a provider's API key in the config file at path.
func SetAPIKey(path, provider, key string) error {
	p, err := parseProvider(provider)
	if err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return &InvalidValueError{Key: string(p) + "_api_key", Value: ""}
	}
	return update(path, string(p)+"_api_key", strings.TrimSpace(key))
}

// SetDefaultProvider stores the preferred provider in the config file at path.
func SetDefaultProvider(path, provider string) error {
	p, err := parseProvider(provider)
	if err != nil {
		return err
	}
	return update(path, "default_provider", string(p))
}

// SetDefaultModel stores a provider's default model in the config file at path.
func SetDefaultModel(path, provider, model string) error {
	p, err := parseProvider(provider)
	if err != nil {
		return err
	}
	if strings.TrimSpace(model) == "" {
		return &InvalidValueError{Key: "default_models." + string(p), Value: ""}
	}
	return update(path, "default_models."+string(p), strings.TrimSpace(model))
}

func parseProvider(raw string) (domain.ProviderType, error) {
	p, ok := domain.ParseProviderType(raw)
	if !ok {
		allowed := make([]string, 0, 3)
		for _, a := range domain.AllProviders() {
			allowed = append(allowed, a.String())
		}
		return "", &InvalidValueError{Key: "provider", Value: raw, AllowedValues: allowed}
	}
	return p, nil
}

// update rewrites a single key. Only values already in the file are carried
// over, so environment overrides are never persisted.
func update(path, key string, value any) error {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(defaultConfigType)
	v.SetConfigPermissions(fileMode)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &ConfigError{Op: "read", Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	v.Set(key, value)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return &ConfigError{Op: "write", Err: err}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return &ConfigError{Op: "write", Err: fmt.Errorf("failed to write config file: %w", err)}
	}
	if err := os.Chmod(path, fileMode); err != nil {
		return &ConfigError{Op: "write", Err: err}
	}
	return nil
}
