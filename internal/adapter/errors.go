package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hpn/hpn-transform/internal/domain"
)

// APIError is returned for any transport, authentication or malformed-response
// condition. Message keeps the vendor's own wording when one was returned.
type APIError struct {
	Provider   domain.ProviderType
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API error [%d]: %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAPIError checks if an error is an APIError.
func IsAPIError(err error) bool {
	var target *APIError
	return errors.As(err, &target)
}

// vendorErrorResponse covers the error envelope used by both the Anthropic
// and Gemini APIs: {"error": {"message": "..."}}.
type vendorErrorResponse struct {
	Error struct {
		Code    json.RawMessage `json:"code,omitempty"`
		Message string          `json:"message"`
		Type    string          `json:"type,omitempty"`
		Status  string          `json:"status,omitempty"`
	} `json:"error"`
}

// doJSON performs one request and decodes a 2xx JSON body into out.
// Transport errors are unwrapped from *url.Error so the request URL, which
// may carry a credential, never reaches the message.
func (b *base) doJSON(ctx context.Context, provider domain.ProviderType, method, endpoint string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &APIError{Provider: provider, Message: "failed to marshal request", Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &APIError{Provider: provider, Message: "failed to create http request", Err: stripURL(err)}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return &APIError{Provider: provider, Message: "request failed", Err: stripURL(err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Provider: provider, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var vendorErr vendorErrorResponse
		if err := json.Unmarshal(respBody, &vendorErr); err == nil && vendorErr.Error.Message != "" {
			return &APIError{Provider: provider, StatusCode: resp.StatusCode, Message: vendorErr.Error.Message}
		}
		msg := string(bytes.TrimSpace(respBody))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Provider: provider, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &APIError{Provider: provider, Message: "failed to decode response", Err: err}
	}
	return nil
}

func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
