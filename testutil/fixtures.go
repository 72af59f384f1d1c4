package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Response is a canned backend reply
type Response struct {
	Status int
	Body   interface{}
	// Raw is written verbatim when set, bypassing JSON encoding of Body
	Raw string
}

// Request is a request the backend fixture received
type Request struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// BackendServer serves canned replies keyed by "METHOD /path" and records
// every request it receives
type BackendServer struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Response
	requests []Request
}

// NewBackendServer starts a fixture backend closed at test end. Unknown
// routes get 404 {"detail": "Not Found"}.
func NewBackendServer(t *testing.T, routes map[string]Response) *BackendServer {
	t.Helper()
	b := &BackendServer{routes: routes}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// SetRoute replaces the reply for key
func (b *BackendServer) SetRoute(key string, resp Response) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[key] = resp
}

// Requests returns a copy of the recorded requests
func (b *BackendServer) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *BackendServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	resp, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		resp = Response{Status: http.StatusNotFound, Body: map[string]string{"detail": "Not Found"}}
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if resp.Raw != "" {
		_, _ = io.WriteString(w, resp.Raw)
		return
	}
	_ = json.NewEncoder(w).Encode(resp.Body)
}
