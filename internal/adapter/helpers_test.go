package adapter

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// capturedRequest records what a fake vendor endpoint received.
type capturedRequest struct {
	mu     sync.Mutex
	Method string
	Path   string
	Query  map[string]string
	Header http.Header
	Raw    string
	Body   map[string]any
	Count  int
}

func (c *capturedRequest) snapshot() capturedRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return capturedRequest{
		Method: c.Method,
		Path:   c.Path,
		Query:  c.Query,
		Header: c.Header,
		Raw:    c.Raw,
		Body:   c.Body,
		Count:  c.Count,
	}
}

// newFakeVendor starts a server that records the request and replies with
// status and the JSON encoding of reply.
func newFakeVendor(t *testing.T, status int, reply any) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)

		captured.mu.Lock()
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = map[string]string{}
		for k := range r.URL.Query() {
			captured.Query[k] = r.URL.Query().Get(k)
		}
		captured.Header = r.Header.Clone()
		captured.Raw = string(raw)
		captured.Body = nil
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &captured.Body)
		}
		captured.Count++
		captured.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

// closedServerURL returns the URL of a server that is no longer listening.
func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
