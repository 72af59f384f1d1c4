package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIURL is where the video RAG backend listens unless configured otherwise
const DefaultAPIURL = "http://127.0.0.1:8000"

const (
	opHealth       = "health"
	opProcessVideo = "process-video"
	opQuery        = "query"
)

// Backend is the remote video question-answering service
type Backend interface {
	CheckHealth(ctx context.Context) (*HealthResponse, error)
	ProcessVideo(ctx context.Context, videoURL string) (*ProcessVideoResponse, error)
	Query(ctx context.Context, question string) (*QueryResponse, error)
}

// APIClient talks to the backend over HTTP/JSON. Every call is a single
// round trip: no retries, no caching, no deduplication.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures an APIClient
type ClientOption func(*APIClient)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *APIClient) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request; zero leaves requests unbounded.
// The http.Client is copied so a shared client is never modified.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *APIClient) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// NewAPIClient creates a client for baseURL, falling back to DefaultAPIURL
func NewAPIClient(baseURL string, opts ...ClientOption) *APIClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	c := &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address requests are sent to
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// CheckHealth probes GET /health
func (c *APIClient) CheckHealth(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, opHealth, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProcessVideo asks the backend to ingest videoURL
func (c *APIClient) ProcessVideo(ctx context.Context, videoURL string) (*ProcessVideoResponse, error) {
	var resp ProcessVideoResponse
	if err := c.do(ctx, opProcessVideo, http.MethodPost, "/process-video", ProcessVideoRequest{VideoURL: videoURL}, &resp); err != nil {
		return nil, err
	}
	// Some backends only describe the video in video_info
	if resp.VideoID == "" && resp.VideoInfo != nil {
		resp.VideoID = resp.VideoInfo.VideoID
	}
	return &resp, nil
}

// Query asks a question about the processed video
func (c *APIClient) Query(ctx context.Context, question string) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.do(ctx, opQuery, http.MethodPost, "/query", QueryRequest{Question: question}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// errorBody matches FastAPI-style error payloads
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *APIClient) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		LogDebug("%s %s failed after %s: %v", method, path, time.Since(start), err)
		return &RequestError{Op: op, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	LogDebug("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     parseErrorDetail(respBody),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}

// parseErrorDetail extracts a readable message from an error response body.
// FastAPI sends {"detail": "..."} for handled errors and
// {"detail": [{"msg": "..."}]} for request validation failures.
func parseErrorDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return string(eb.Detail)
}
