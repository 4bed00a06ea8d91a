package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError wraps a failure to read, decode or write the config file.
type ConfigError struct {
	Op  string // read, unmarshal, env or write
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ValidationError collects every rule a loaded configuration breaks. Each
// entry starts with the offending key.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "configuration validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("configuration validation failed with %d errors:\n  - %s",
		len(e.Errors), strings.Join(e.Errors, "\n  - "))
}

// HasError reports whether key has at least one validation failure.
func (e *ValidationError) HasError(key string) bool {
	for _, msg := range e.Errors {
		if strings.HasPrefix(msg, key) {
			return true
		}
	}
	return false
}

// InvalidValueError rejects a value passed to one of the Set functions.
type InvalidValueError struct {
	Key           string
	Value         string
	AllowedValues []string
}

func (e *InvalidValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s must not be empty", e.Key)
	}
	msg := fmt.Sprintf("invalid %s %q", e.Key, e.Value)
	if len(e.AllowedValues) > 0 {
		msg += ", must be one of: " + strings.Join(e.AllowedValues, ", ")
	}
	return msg
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

func IsInvalidValueError(err error) bool {
	var target *InvalidValueError
	return errors.As(err, &target)
}
