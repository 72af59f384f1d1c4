package internal

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FakeBackend is an in-memory Backend with canned answers and call counters
type FakeBackend struct {
	mu sync.Mutex

	HealthErr   error
	ProcessResp *ProcessVideoResponse
	ProcessErr  error
	QueryResp   *QueryResponse
	QueryErr    error
	// Block, when set, makes every call wait until it is closed or ctx ends
	Block chan struct{}

	healthCalls  int
	processCalls int
	queryCalls   int
	videoURLs    []string
	questions    []string
}

// NewFakeBackend returns a backend that is online, accepts any video and
// echoes questions back as answers
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

func (f *FakeBackend) wait(ctx context.Context) error {
	f.mu.Lock()
	block := f.Block
	f.mu.Unlock()
	if block == nil {
		return nil
	}
	select {
	case <-block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CheckHealth implements Backend
func (f *FakeBackend) CheckHealth(ctx context.Context) (*HealthResponse, error) {
	f.mu.Lock()
	f.healthCalls++
	err := f.HealthErr
	f.mu.Unlock()
	if werr := f.wait(ctx); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	return &HealthResponse{Status: "healthy", Message: "fake backend"}, nil
}

// ProcessVideo implements Backend
func (f *FakeBackend) ProcessVideo(ctx context.Context, videoURL string) (*ProcessVideoResponse, error) {
	f.mu.Lock()
	f.processCalls++
	f.videoURLs = append(f.videoURLs, videoURL)
	resp, err := f.ProcessResp, f.ProcessErr
	f.mu.Unlock()
	if werr := f.wait(ctx); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		id, _ := ExtractVideoID(videoURL)
		resp = &ProcessVideoResponse{Success: true, VideoID: id, Message: "processed"}
	}
	out := *resp
	return &out, nil
}

// Query implements Backend
func (f *FakeBackend) Query(ctx context.Context, question string) (*QueryResponse, error) {
	f.mu.Lock()
	f.queryCalls++
	f.questions = append(f.questions, question)
	resp, err := f.QueryResp, f.QueryErr
	f.mu.Unlock()
	if werr := f.wait(ctx); werr != nil {
		return nil, werr
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &QueryResponse{Success: true, Answer: fmt.Sprintf("You asked: %s", question)}
	}
	out := *resp
	return &out, nil
}

// HealthCalls returns how many health probes were made
func (f *FakeBackend) HealthCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthCalls
}

// ProcessCalls returns how many videos were submitted
func (f *FakeBackend) ProcessCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.processCalls
}

// QueryCalls returns how many questions were sent
func (f *FakeBackend) QueryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queryCalls
}

// Questions returns the questions received, in order
func (f *FakeBackend) Questions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.questions...)
}

// VideoURLs returns the video URLs received, in order
func (f *FakeBackend) VideoURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.videoURLs...)
}

// RecordingNotifier keeps every toast it receives
type RecordingNotifier struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify records t
func (n *RecordingNotifier) Notify(t Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, t)
}

// Toasts returns the recorded toasts in arrival order
func (n *RecordingNotifier) Toasts() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Toast(nil), n.toasts...)
}

// CreateTestMessages creates a question/answer pair starting at base
func CreateTestMessages(base time.Time) []Message {
	return []Message{
		{
			ID:        "msg-1",
			Content:   "What is this video about?",
			Origin:    OriginUser,
			CreatedAt: base,
		},
		{
			ID:        "msg-2",
			Content:   "It explains how **goroutines** are scheduled.",
			Origin:    OriginAssistant,
			CreatedAt: base.Add(2 * time.Second),
		},
	}
}

// CreateTestTranscript creates a transcript with sample data
func CreateTestTranscript(id string) *Transcript {
	base := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	t := NewTranscript("dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", DefaultAPIURL, CreateTestMessages(base))
	t.ID = id
	return t
}

// CreateTestTranscriptWithMessages creates a transcript with custom messages
func CreateTestTranscriptWithMessages(id string, messages []Message) *Transcript {
	t := NewTranscript("dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ", DefaultAPIURL, messages)
	t.ID = id
	return t
}
