// Package security keeps credentials out of logs and user-facing messages.
package security

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// RedactedPlaceholder replaces every detected secret.
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns match the key formats of the supported vendors.
// Order matters: the Anthropic pattern must run before the generic sk- one.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{16,}`),
	regexp.MustCompile(`sk-(?:proj-)?[a-zA-Z0-9_-]{20,}`),
	regexp.MustCompile(`AIza[a-zA-Z0-9_-]{30,}`),
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]{16,}`),
	regexp.MustCompile(`([?&]key=)[^&\s"]+`),
}

// Redact scans a string for key-shaped substrings and replaces them.
func Redact(s string) string {
	result := s
	for _, pattern := range sensitivePatterns {
		if pattern.NumSubexp() > 0 {
			result = pattern.ReplaceAllString(result, "${1}"+RedactedPlaceholder)
			continue
		}
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// RedactSecrets replaces every literal occurrence of the given secrets, then
// applies Redact. Blank secrets are ignored.
func RedactSecrets(s string, secrets ...string) string {
	for _, secret := range secrets {
		secret = strings.TrimSpace(secret)
		if len(secret) < 4 {
			continue
		}
		s = strings.ReplaceAll(s, secret, RedactedPlaceholder)
	}
	return Redact(s)
}

// MaskKey returns a short masked form of an API key: xxxx...xxxx.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 12 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// RedactedHandler scrubs keys from the message and attributes of every record
// before passing it to the wrapped handler.
type RedactedHandler struct {
	inner   slog.Handler
	secrets []string
}

// NewRedactedHandler wraps inner. Any secrets given are scrubbed literally in
// addition to the pattern-based redaction.
func NewRedactedHandler(inner slog.Handler, secrets ...string) *RedactedHandler {
	return &RedactedHandler{inner: inner, secrets: secrets}
}

func (h *RedactedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts the message and every attribute before delegating.
func (h *RedactedHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, RedactSecrets(r.Message, h.secrets...), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

// WithAttrs redacts attrs once, up front.
func (h *RedactedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactedHandler{inner: h.inner.WithAttrs(redacted), secrets: h.secrets}
}

func (h *RedactedHandler) WithGroup(name string) slog.Handler {
	return &RedactedHandler{inner: h.inner.WithGroup(name), secrets: h.secrets}
}

func (h *RedactedHandler) redactAttr(a slog.Attr) slog.Attr {
	if isSensitiveKey(strings.ToLower(a.Key)) {
		return slog.String(a.Key, RedactedPlaceholder)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, RedactSecrets(v.String(), h.secrets...))
	case slog.KindGroup:
		group := v.Group()
		redacted := make([]any, len(group))
		for i, ga := range group {
			redacted[i] = h.redactAttr(ga)
		}
		return slog.Group(a.Key, redacted...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, RedactSecrets(err.Error(), h.secrets...))
		}
	}
	return a
}

// sensitiveKeyParts mark attribute keys whose value is never logged.
var sensitiveKeyParts = []string{"authorization", "api_key", "apikey", "api-key", "secret", "password", "credential"}

// isSensitiveKey reports whether an attribute key names a credential. Keys
// ending in "token" count; token counts such as max_tokens do not.
func isSensitiveKey(key string) bool {
	if strings.HasSuffix(key, "token") {
		return true
	}
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}
