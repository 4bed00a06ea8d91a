package domain

import (
	"errors"
	"fmt"
)

// ErrNoCredentials is returned when no supported provider has an API key.
var ErrNoCredentials = errors.New("no API key configured for any provider")

// ConfigurationError reports a missing or unusable credential or an
// unresolvable provider. It is fatal to the invocation.
type ConfigurationError struct {
	Provider ProviderType
	Reason   string
	Err      error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Provider != "" {
		msg += fmt.Sprintf(" (%s)", e.Provider)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// InvalidInputError reports a request that cannot be sent, such as an empty prompt.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// IsConfigurationError checks if an error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsInvalidInputError checks if an error is an InvalidInputError.
func IsInvalidInputError(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
