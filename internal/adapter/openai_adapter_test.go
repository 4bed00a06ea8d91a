package adapter

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
)

const openAITestKey = "sk-TESTKEY00000000000000000000000"

func chatCompletion(content string) map[string]any {
	choices := []map[string]any{}
	if content != "-" {
		choices = append(choices, map[string]any{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		})
	}
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": choices,
	}
}

func messagesOf(t *testing.T, body map[string]any) []map[string]any {
	t.Helper()
	raw, ok := body["messages"].([]any)
	if !ok {
		t.Fatalf("messages missing from body: %v", body)
	}
	out := make([]map[string]any, 0, len(raw))
	for _, m := range raw {
		out = append(out, m.(map[string]any))
	}
	return out
}

func TestOpenAIAdapter_Transform(t *testing.T) {
	tests := []struct {
		name        string
		contextText string
		model       string
		wantRoles   []string
		wantTemp    bool
	}{
		{"prompt only", "", "gpt-4o-mini", []string{"user"}, true},
		{"blank context dropped", "   ", "gpt-4o", []string{"user"}, true},
		{"context as system message", "You are terse.", "gpt-4o", []string{"system", "user"}, true},
		{"reasoning model omits temperature", "", "o1-mini", []string{"user"}, false},
		{"o3 model omits temperature", "Be brief.", "o3-mini", []string{"system", "user"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, captured := newFakeVendor(t, http.StatusOK, chatCompletion("  polished text \n"))
			adapter := NewOpenAIAdapter(openAITestKey, WithBaseURL(srv.URL+"/v1"))

			got, err := adapter.Transform(context.Background(), "fix this", tt.contextText, tt.model)
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			if got != "polished text" {
				t.Errorf("Transform() = %q, want trimmed content", got)
			}

			req := captured.snapshot()
			if req.Path != "/v1/chat/completions" {
				t.Errorf("path = %s", req.Path)
			}
			if req.Header.Get("Authorization") != "Bearer "+openAITestKey {
				t.Errorf("Authorization header = %q", req.Header.Get("Authorization"))
			}

			msgs := messagesOf(t, req.Body)
			roles := make([]string, 0, len(msgs))
			for _, m := range msgs {
				roles = append(roles, m["role"].(string))
			}
			if !reflect.DeepEqual(roles, tt.wantRoles) {
				t.Errorf("roles = %v, want %v", roles, tt.wantRoles)
			}
			if msgs[len(msgs)-1]["content"] != "fix this" {
				t.Errorf("user content = %v", msgs[len(msgs)-1]["content"])
			}

			_, hasTemp := req.Body["temperature"]
			if hasTemp != tt.wantTemp {
				t.Errorf("temperature present = %v, want %v", hasTemp, tt.wantTemp)
			}
			if req.Body["model"] != tt.model {
				t.Errorf("model = %v, want %s", req.Body["model"], tt.model)
			}
		})
	}
}

func TestOpenAIAdapter_Transform_Empty(t *testing.T) {
	for _, content := range []string{"-", "", "   "} {
		srv, _ := newFakeVendor(t, http.StatusOK, chatCompletion(content))
		adapter := NewOpenAIAdapter(openAITestKey, WithBaseURL(srv.URL+"/v1"))

		got, err := adapter.Transform(context.Background(), "hi", "", DefaultOpenAIModel)
		if err != nil {
			t.Fatalf("Transform(%q) error = %v", content, err)
		}
		if got != "" {
			t.Errorf("Transform(%q) = %q, want empty", content, got)
		}
	}
}

func TestOpenAIAdapter_Transform_APIError(t *testing.T) {
	srv, captured := newFakeVendor(t, http.StatusUnauthorized, map[string]any{
		"error": map[string]any{
			"message": "Incorrect API key provided.",
			"type":    "invalid_request_error",
			"param":   nil,
			"code":    "invalid_api_key",
		},
	})

	adapter := NewOpenAIAdapter(openAITestKey, WithBaseURL(srv.URL+"/v1"))
	_, err := adapter.Transform(context.Background(), "hi", "", DefaultOpenAIModel)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "Incorrect API key provided." {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if captured.snapshot().Count != 1 {
		t.Errorf("request count = %d, want exactly 1 (no retries)", captured.snapshot().Count)
	}
}

func TestOpenAIAdapter_ListModels(t *testing.T) {
	srv, _ := newFakeVendor(t, http.StatusOK, map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": "o1-mini", "object": "model", "created": 1, "owned_by": "system"},
			{"id": "whisper-1", "object": "model", "created": 1, "owned_by": "system"},
			{"id": "gpt-4o", "object": "model", "created": 1, "owned_by": "system"},
			{"id": "omni-moderation-latest", "object": "model", "created": 1, "owned_by": "system"},
			{"id": "dall-e-3", "object": "model", "created": 1, "owned_by": "system"},
		},
	})

	adapter := NewOpenAIAdapter(openAITestKey, WithBaseURL(srv.URL+"/v1"))
	got := adapter.ListModels(context.Background())

	want := []string{"gpt-4o", "o1-mini"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListModels() = %v, want %v", got, want)
	}
}

func TestOpenAIAdapter_ListModels_Failure(t *testing.T) {
	adapter := NewOpenAIAdapter(openAITestKey, WithBaseURL(closedServerURL(t)))

	if got := adapter.ListModels(context.Background()); got == nil || len(got) != 0 {
		t.Errorf("ListModels() = %#v, want empty non-nil list", got)
	}
}

func TestIsOpenAIChatModel(t *testing.T) {
	tests := map[string]bool{
		"gpt-4o":                 true,
		"o1":                     true,
		"o3-mini":                true,
		"omni-moderation-latest": false,
		"text-embedding-3-small": false,
		"o":                      false,
	}
	for id, want := range tests {
		if got := isOpenAIChatModel(id); got != want {
			t.Errorf("isOpenAIChatModel(%q) = %v, want %v", id, got, want)
		}
	}
}
