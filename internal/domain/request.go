package domain

import (
	"strings"
	"time"
)

// TransformRequest is the caller's description of a single transformation.
type TransformRequest struct {
	// Prompt is the text to transform. Required.
	Prompt string `json:"prompt"`

	// Context is an optional instruction sent ahead of the prompt.
	Context string `json:"context,omitempty"`

	// Provider overrides provider resolution when it names a credentialed provider.
	Provider ProviderType `json:"provider,omitempty"`

	// Model overrides the backend's default model.
	Model string `json:"model,omitempty"`
}

// HasContext reports whether the request carries non-blank context.
func (r TransformRequest) HasContext() bool {
	return strings.TrimSpace(r.Context) != ""
}

// OutcomeStatus is the tri-state result of a transformation attempt.
type OutcomeStatus int

const (
	StatusSuccess OutcomeStatus = iota
	StatusEmpty
	StatusFailure
)

func (s OutcomeStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is produced fresh for every transformation and never cached.
type Outcome struct {
	Status OutcomeStatus

	// Text is set only for StatusSuccess.
	Text string

	// Message carries the backend's error text for StatusFailure.
	Message string

	Provider ProviderType
	Model    string
	Duration time.Duration
}

// OK reports whether the outcome carries generated text.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}
