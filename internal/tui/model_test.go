package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/ytchat/internal"
)

const (
	testURL   = "https://www.youtube.com/watch?v=abc123&t=5s"
	secondURL = "https://youtu.be/xyz789"
)

var enterKey = tea.KeyMsg{Type: tea.KeyEnter}

func newTestModel(t *testing.T, backend *internal.FakeBackend, opts ...Option) Model {
	t.Helper()
	shell := internal.NewShell(backend, internal.DefaultAPIURL)
	return New(context.Background(), shell, append([]Option{WithoutMarkdown()}, opts...)...)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return model, cmd
}

// collect runs cmd and any batched commands, returning the messages produced.
// Only use it on commands that do not sleep.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func online(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, healthMsg{state: internal.HealthOnline})
	return m
}

// readyModel drives a model through a successful submit of testURL
func readyModel(t *testing.T, backend *internal.FakeBackend) Model {
	t.Helper()
	m := online(t, newTestModel(t, backend))
	m.urlInput.SetValue(testURL)
	m, cmd := update(t, m, enterKey)
	processed := find[processedMsg](t, collect(cmd))
	m, _ = update(t, m, processed)
	if !m.video.Session().Ready() {
		t.Fatalf("session state = %v, want ready", m.video.Session().State)
	}
	return m
}

func TestSubmitVideo_DisabledWhileProcessing(t *testing.T) {
	backend := internal.NewFakeBackend()
	m := online(t, newTestModel(t, backend))
	m.urlInput.SetValue(testURL)

	m, first := update(t, m, enterKey)
	if first == nil {
		t.Fatal("first enter should start processing")
	}
	if !m.processing {
		t.Fatal("model should be processing after first enter")
	}
	if got := m.video.Session().State; got != internal.SessionProcessing {
		t.Errorf("session state = %v, want processing", got)
	}

	// rapid second trigger hits the disabled control
	m, second := update(t, m, enterKey)
	if second != nil {
		t.Error("second enter while processing should not produce a command")
	}
	m, third := update(t, m, submitURLMsg{})
	if third != nil {
		t.Error("submit while processing should not produce a command")
	}

	processed := find[processedMsg](t, collect(first))
	if got := backend.ProcessCalls(); got != 1 {
		t.Errorf("ProcessVideo called %d times, want 1", got)
	}

	m, _ = update(t, m, processed)
	if m.processing {
		t.Error("processing should clear after the response")
	}
	session := m.video.Session()
	if session.State != internal.SessionReady || session.VideoID != "abc123" {
		t.Errorf("session = %+v, want ready with abc123", session)
	}
	if m.urlInput.Value() != "" {
		t.Errorf("url input = %q, want cleared", m.urlInput.Value())
	}
	if m.focus != focusChat {
		t.Error("focus should move to the chat panel")
	}
	if len(m.toasts) != 1 || m.toasts[0].Kind != internal.ToastSuccess {
		t.Errorf("toasts = %+v, want one success toast", m.toasts)
	}
}

func TestAskQuestion_DisabledWhilePending(t *testing.T) {
	backend := internal.NewFakeBackend()
	m := readyModel(t, backend)

	m.questionInput.SetValue("What is this video about?")
	m, first := update(t, m, enterKey)
	if first == nil {
		t.Fatal("first enter should send the question")
	}
	if !m.chat.Pending() {
		t.Fatal("conversation should be pending")
	}
	if m.questionInput.Value() != "" {
		t.Errorf("question input = %q, want cleared", m.questionInput.Value())
	}

	m.questionInput.SetValue("And another thing?")
	m, second := update(t, m, enterKey)
	if second != nil {
		t.Error("enter while pending should not produce a command")
	}

	answered := find[answeredMsg](t, collect(first))
	if got := backend.QueryCalls(); got != 1 {
		t.Errorf("Query called %d times, want 1", got)
	}

	m, _ = update(t, m, answered)
	if m.chat.Pending() {
		t.Error("pending should clear after the answer")
	}
	messages := m.chat.Messages()
	if len(messages) != 2 {
		t.Fatalf("conversation has %d messages, want 2", len(messages))
	}
	if messages[0].Origin != internal.OriginUser || messages[1].Origin != internal.OriginAssistant {
		t.Errorf("origins = %s, %s; want user, assistant", messages[0].Origin, messages[1].Origin)
	}
	if messages[1].Content != "You asked: What is this video about?" {
		t.Errorf("answer = %q", messages[1].Content)
	}
}

func TestAskQuestion_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		ready    bool
		question string
		wantErr  string
	}{
		{name: "no video", ready: false, question: "What is this?", wantErr: msgProcessFirst},
		{name: "too short", ready: true, question: "hi", wantErr: msgQuestionTooShort},
		{name: "blank", ready: true, question: "   ", wantErr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := internal.NewFakeBackend()
			var m Model
			if tt.ready {
				m = readyModel(t, backend)
			} else {
				m = online(t, newTestModel(t, backend))
				m.setFocus(focusChat)
			}
			before := m.chat.Len()

			m.questionInput.SetValue(tt.question)
			m, cmd := update(t, m, enterKey)
			if cmd != nil {
				t.Error("rejected question should not produce a command")
			}
			if m.questionErr != tt.wantErr {
				t.Errorf("questionErr = %q, want %q", m.questionErr, tt.wantErr)
			}
			if m.chat.Len() != before {
				t.Errorf("conversation grew from %d to %d", before, m.chat.Len())
			}
			if backend.QueryCalls() != 0 {
				t.Errorf("Query called %d times, want 0", backend.QueryCalls())
			}
		})
	}
}

func TestSubmitVideo_InvalidURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "empty", url: "  ", wantErr: "YouTube URL is required"},
		{name: "not youtube", url: "https://example.com/video", wantErr: "Please enter a valid YouTube URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := internal.NewFakeBackend()
			m := online(t, newTestModel(t, backend))
			m.urlInput.SetValue(tt.url)

			m, cmd := update(t, m, enterKey)
			if cmd != nil {
				t.Error("invalid URL should not produce a command")
			}
			if m.urlErr != tt.wantErr {
				t.Errorf("urlErr = %q, want %q", m.urlErr, tt.wantErr)
			}
			if m.video.Session().State != internal.SessionUnset {
				t.Errorf("session state = %v, want unset", m.video.Session().State)
			}
			if backend.ProcessCalls() != 0 {
				t.Error("backend should not be called for an invalid URL")
			}
		})
	}
}

func TestSubmitVideo_Offline(t *testing.T) {
	backend := internal.NewFakeBackend()
	m := newTestModel(t, backend)

	m, cmd := update(t, m, healthMsg{state: internal.HealthOffline, err: errors.New("connection refused")})
	if cmd == nil {
		t.Error("offline probe should schedule a toast expiry")
	}
	if len(m.toasts) != 1 || !strings.Contains(m.toasts[0].Message, internal.DefaultAPIURL) {
		t.Errorf("toasts = %+v, want offline toast naming the API URL", m.toasts)
	}

	m.urlInput.SetValue(testURL)
	m, cmd = update(t, m, enterKey)
	if cmd != nil {
		t.Error("submit should be disabled while offline")
	}
	if m.urlErr != msgBackendOffline {
		t.Errorf("urlErr = %q, want %q", m.urlErr, msgBackendOffline)
	}
	if backend.ProcessCalls() != 0 {
		t.Error("backend should not be called while offline")
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil {
		t.Fatal("ctrl+r should probe again")
	}
	if m.video.Health() != internal.HealthChecking {
		t.Errorf("health = %v, want checking", m.video.Health())
	}

	probe := find[healthMsg](t, collect(cmd))
	m, _ = update(t, m, probe)
	if m.video.Health() != internal.HealthOnline {
		t.Errorf("health = %v, want online", m.video.Health())
	}
	if m.urlErr != "" {
		t.Errorf("urlErr = %q, want cleared once online", m.urlErr)
	}
	if backend.HealthCalls() != 1 {
		t.Errorf("CheckHealth called %d times, want 1", backend.HealthCalls())
	}
}

func TestSubmitVideo_FailureKeepsInput(t *testing.T) {
	backend := internal.NewFakeBackend()
	backend.ProcessResp = &internal.ProcessVideoResponse{Success: false, Message: "Could not fetch transcript"}
	m := online(t, newTestModel(t, backend))
	m.urlInput.SetValue(testURL)

	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, find[processedMsg](t, collect(cmd)))

	if m.video.Session().State != internal.SessionFailed {
		t.Errorf("session state = %v, want failed", m.video.Session().State)
	}
	if m.urlInput.Value() != testURL {
		t.Errorf("url input = %q, want it kept", m.urlInput.Value())
	}
	if len(m.toasts) != 1 || m.toasts[0].Message != "Could not fetch transcript" {
		t.Errorf("toasts = %+v", m.toasts)
	}

	// retry is allowed
	_, cmd = update(t, m, enterKey)
	if cmd == nil {
		t.Error("retry after failure should submit again")
	}
}

func TestAskQuestion_FailureAppendsSyntheticReply(t *testing.T) {
	backend := internal.NewFakeBackend()
	backend.QueryErr = errors.New("connection reset")
	m := readyModel(t, backend)
	toastsBefore := len(m.toasts)

	m.questionInput.SetValue("Who is speaking?")
	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, find[answeredMsg](t, collect(cmd)))

	messages := m.chat.Messages()
	if len(messages) != 2 {
		t.Fatalf("conversation has %d messages, want 2", len(messages))
	}
	if !messages[1].Synthetic || messages[1].Content == "" {
		t.Errorf("reply = %+v, want non-empty synthetic message", messages[1])
	}
	if m.chat.Pending() {
		t.Error("pending should clear after a failure")
	}
	if len(m.toasts) != toastsBefore+1 {
		t.Errorf("toasts = %d, want %d", len(m.toasts), toastsBefore+1)
	}
}

func TestAnswerForReplacedVideoIsDropped(t *testing.T) {
	backend := internal.NewFakeBackend()
	m := readyModel(t, backend)

	m.questionInput.SetValue("What is this video about?")
	m, askCmd := update(t, m, enterKey)
	stale := find[answeredMsg](t, collect(askCmd))

	m.setFocus(focusVideo)
	m.urlInput.SetValue(secondURL)
	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, find[processedMsg](t, collect(cmd)))
	if got := m.video.Session().VideoID; got != "xyz789" {
		t.Fatalf("video id = %q, want xyz789", got)
	}
	if m.chat.Len() != 0 {
		t.Fatalf("conversation should reset for the new video, has %d messages", m.chat.Len())
	}

	m, _ = update(t, m, stale)
	if m.chat.Len() != 0 {
		t.Errorf("stale answer was appended: %+v", m.chat.Messages())
	}
}

func TestNewVideoClearsRenderedAnswers(t *testing.T) {
	backend := internal.NewFakeBackend()
	m := readyModel(t, backend)
	m.rendered["m1"] = "cached answer"

	m.setFocus(focusVideo)
	m.urlInput.SetValue(secondURL)
	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, find[processedMsg](t, collect(cmd)))

	if len(m.rendered) != 0 {
		t.Errorf("rendered cache = %v, want empty after a new video", m.rendered)
	}
}

func TestFailedSubmitKeepsRenderedAnswers(t *testing.T) {
	backend := internal.NewFakeBackend()
	m := readyModel(t, backend)
	m.rendered["m1"] = "cached answer"

	backend.ProcessErr = errors.New("down")
	m.setFocus(focusVideo)
	m.urlInput.SetValue(secondURL)
	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, find[processedMsg](t, collect(cmd)))

	if m.rendered["m1"] != "cached answer" {
		t.Errorf("rendered cache = %v, want it kept after a failed submit", m.rendered)
	}
}

func TestToastsExpire(t *testing.T) {
	m := newTestModel(t, internal.NewFakeBackend())
	if cmd := m.pushToast(internal.NewToast(internal.ToastInfo, "hello")); cmd == nil {
		t.Fatal("pushToast should schedule expiry")
	}
	if m.pushToast(internal.Toast{}) != nil {
		t.Error("empty toast should be ignored")
	}

	m, _ = update(t, m, toastExpiredMsg{now: time.Now()})
	if len(m.toasts) != 1 {
		t.Fatalf("toast expired early: %d left", len(m.toasts))
	}

	m, _ = update(t, m, toastExpiredMsg{now: time.Now().Add(internal.ToastTTL)})
	if len(m.toasts) != 0 {
		t.Errorf("toasts = %d, want 0 after TTL", len(m.toasts))
	}
}

func TestInitWithInitialURL(t *testing.T) {
	backend := internal.NewFakeBackend()
	m := newTestModel(t, backend, WithInitialURL(" "+testURL+" "))
	if m.urlInput.Value() != testURL {
		t.Errorf("url input = %q, want %q", m.urlInput.Value(), testURL)
	}

	msgs := collect(m.Init())
	probe := find[healthMsg](t, msgs)
	if probe.state != internal.HealthOnline {
		t.Errorf("probe state = %v, want online", probe.state)
	}

	m, cmd := update(t, m, find[submitURLMsg](t, msgs))
	if cmd == nil || !m.processing {
		t.Error("initial URL should be submitted on start")
	}
}

func TestView(t *testing.T) {
	backend := internal.NewFakeBackend()
	m := readyModel(t, backend)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m.questionInput.SetValue("What is this video about?")
	m, cmd := update(t, m, enterKey)
	m, _ = update(t, m, find[answeredMsg](t, collect(cmd)))

	view := m.View()
	for _, want := range []string{"Video", "Chat", "online", "abc123", "You", "Assistant", "You asked: What is this video about?"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q, got:\n%s", want, view)
		}
	}
}
