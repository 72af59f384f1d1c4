// Package tui is the interactive two-panel terminal shell: a video panel that
// submits links and a chat panel that asks questions about the ready video.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/iksnae/ytchat/internal"
)

const maxToasts = 3

const (
	msgQuestionTooShort = "Question must be at least 3 characters"
	msgProcessFirst     = "Please process a video first"
	msgBackendOffline   = "Backend is offline. Press ctrl+r to check again."
)

type focusArea int

const (
	focusVideo focusArea = iota
	focusChat
)

type healthMsg struct {
	state internal.HealthState
	err   error
}

type processedMsg struct {
	resp *internal.ProcessVideoResponse
	err  error
}

type answeredMsg struct {
	generation int
	resp       *internal.QueryResponse
	err        error
}

type toastExpiredMsg struct {
	now time.Time
}

type submitURLMsg struct{}

// Model is the bubbletea model for the chat shell. All state changes happen
// in Update; backend calls run as commands and report back as messages.
type Model struct {
	ctx   context.Context
	shell *internal.Shell
	video *internal.VideoController
	chat  *internal.Conversation

	urlInput      textinput.Model
	questionInput textinput.Model
	spinner       spinner.Model
	focus         focusArea

	// processing is true while a ProcessVideo call is outstanding
	processing bool
	// generation changes whenever a new video becomes ready; answers from
	// an older generation are dropped
	generation int

	toasts      []internal.Toast
	urlErr      string
	questionErr string
	initialURL  string

	renderer *glamour.TermRenderer
	rendered map[string]string

	width  int
	height int
}

// Option configures a Model
type Option func(*Model)

// WithInitialURL submits url as soon as the shell starts
func WithInitialURL(url string) Option {
	return func(m *Model) {
		m.initialURL = strings.TrimSpace(url)
	}
}

// WithoutMarkdown shows assistant answers as plain text
func WithoutMarkdown() Option {
	return func(m *Model) {
		m.renderer = nil
	}
}

// New creates the shell model around shell
func New(ctx context.Context, shell *internal.Shell, opts ...Option) Model {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://www.youtube.com/watch?v=..."
	urlInput.Prompt = "▶ "
	urlInput.CharLimit = 2048
	urlInput.Focus()

	questionInput := textinput.New()
	questionInput.Placeholder = "Ask a question about the video"
	questionInput.Prompt = "? "
	questionInput.CharLimit = 1000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = checkingStyle

	m := Model{
		ctx:           ctx,
		shell:         shell,
		video:         shell.Video(),
		chat:          shell.Chat(),
		urlInput:      urlInput,
		questionInput: questionInput,
		spinner:       sp,
		focus:         focusVideo,
		rendered:      make(map[string]string),
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(60),
	)
	if err != nil {
		internal.LogWarn("Markdown rendering disabled: %v", err)
	} else {
		m.renderer = renderer
	}

	for _, opt := range opts {
		opt(&m)
	}
	if m.initialURL != "" {
		m.urlInput.SetValue(m.initialURL)
	}
	return m
}

// Init probes backend health once
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.probeHealth()}
	if m.initialURL != "" {
		cmds = append(cmds, func() tea.Msg { return submitURLMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update handles one message
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeInputs()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitURLMsg:
		return m.submitVideo()

	case healthMsg:
		m.video.SetHealth(msg.state)
		if msg.err != nil {
			internal.LogDebug("health probe: %v", msg.err)
		}
		if msg.state == internal.HealthOnline && m.urlErr == msgBackendOffline {
			m.urlErr = ""
		}
		if toast, ok := m.video.HealthToast(msg.state); ok {
			return m, m.pushToast(toast)
		}
		return m, nil

	case processedMsg:
		m.processing = false
		out := m.video.CompleteSubmit(msg.resp, msg.err)
		if out.ClearInput {
			m.generation++
			m.rendered = make(map[string]string)
			m.urlInput.Reset()
			m.setFocus(focusChat)
		}
		return m, m.pushToast(out.Toast)

	case answeredMsg:
		if msg.generation != m.generation {
			internal.LogDebug("dropping answer for a replaced video")
			return m, nil
		}
		out := m.chat.CompleteAsk(msg.resp, msg.err)
		if out.Toast != nil {
			return m, m.pushToast(*out.Toast)
		}
		return m, nil

	case toastExpiredMsg:
		m.pruneToasts(msg.now)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == focusVideo {
			m.setFocus(focusChat)
		} else {
			m.setFocus(focusVideo)
		}
		return m, nil
	case "ctrl+r":
		if m.video.Health() == internal.HealthChecking {
			return m, nil
		}
		m.video.SetHealth(internal.HealthChecking)
		return m, tea.Batch(m.probeHealth(), m.spinner.Tick)
	case "enter":
		if m.focus == focusVideo {
			return m.submitVideo()
		}
		return m.askQuestion()
	}
	return m.updateInputs(msg)
}

// submitVideo is a no-op while a submit is outstanding or the backend is offline
func (m Model) submitVideo() (tea.Model, tea.Cmd) {
	if m.processing {
		return m, nil
	}
	if m.video.Health() == internal.HealthOffline {
		m.urlErr = msgBackendOffline
		return m, nil
	}

	videoURL, err := m.video.BeginSubmit(m.urlInput.Value())
	if err != nil {
		m.urlErr = fieldMessage(err)
		return m, nil
	}
	m.urlErr = ""
	m.processing = true

	ctx, backend := m.ctx, m.shell.Backend()
	process := func() tea.Msg {
		resp, err := backend.ProcessVideo(ctx, videoURL)
		return processedMsg{resp: resp, err: err}
	}
	return m, tea.Batch(process, m.spinner.Tick)
}

// askQuestion is a no-op while an answer is pending
func (m Model) askQuestion() (tea.Model, tea.Cmd) {
	if m.chat.Pending() {
		return m, nil
	}
	text := strings.TrimSpace(m.questionInput.Value())
	if text == "" {
		return m, nil
	}
	if !m.shell.HasProcessedVideo() {
		m.questionErr = msgProcessFirst
		return m, nil
	}
	if internal.QuestionTooShort(text) {
		m.questionErr = msgQuestionTooShort
		return m, nil
	}

	question, err := m.chat.BeginAsk(text)
	if err != nil {
		m.questionErr = fieldMessage(err)
		return m, nil
	}
	m.questionErr = ""
	m.questionInput.Reset()

	ctx, backend, generation := m.ctx, m.shell.Backend(), m.generation
	query := func() tea.Msg {
		resp, err := backend.Query(ctx, question)
		return answeredMsg{generation: generation, resp: resp, err: err}
	}
	return m, tea.Batch(query, m.spinner.Tick)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, isKey := msg.(tea.KeyMsg)
	var cmd tea.Cmd
	switch {
	case m.focus == focusVideo && m.videoInputEnabled():
		m.urlInput, cmd = m.urlInput.Update(msg)
		if isKey && m.urlErr != msgBackendOffline {
			m.urlErr = ""
		}
	case m.focus == focusChat && m.chatInputEnabled():
		m.questionInput, cmd = m.questionInput.Update(msg)
		if isKey {
			m.questionErr = ""
		}
	}
	return m, cmd
}

func (m Model) videoInputEnabled() bool {
	return !m.processing
}

func (m Model) chatInputEnabled() bool {
	return m.shell.HasProcessedVideo() && !m.chat.Pending()
}

func (m Model) busy() bool {
	return m.processing || m.chat.Pending() || m.video.Health() == internal.HealthChecking
}

func (m Model) probeHealth() tea.Cmd {
	ctx, backend := m.ctx, m.shell.Backend()
	return func() tea.Msg {
		state, err := internal.ProbeHealth(ctx, backend)
		return healthMsg{state: state, err: err}
	}
}

func (m *Model) pushToast(t internal.Toast) tea.Cmd {
	if t.Message == "" {
		return nil
	}
	m.toasts = append(m.toasts, t)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(internal.ToastTTL, func(now time.Time) tea.Msg {
		return toastExpiredMsg{now: now}
	})
}

func (m *Model) pruneToasts(now time.Time) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusVideo {
		m.questionInput.Blur()
		m.urlInput.Focus()
		return
	}
	m.urlInput.Blur()
	m.questionInput.Focus()
}

func (m *Model) resizeInputs() {
	videoWidth, chatWidth := m.panelWidths()
	m.urlInput.Width = max(videoWidth-6, 10)
	m.questionInput.Width = max(chatWidth-6, 10)
}

func fieldMessage(err error) string {
	var ve *internal.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
