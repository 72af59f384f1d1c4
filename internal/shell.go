package internal

import (
	"context"
	"fmt"
)

// TranscriptArchive stores finished conversations
type TranscriptArchive interface {
	SaveTranscript(t *Transcript) error
}

// Shell wires the video controller, the conversation and the toaster together.
// It is the controller's only listener and the conversation's only gate.
type Shell struct {
	backend  Backend
	apiURL   string
	notifier Notifier
	archive  TranscriptArchive

	video *VideoController
	chat  *Conversation
	// active is the session the current conversation belongs to
	active       VideoSession
	transcriptID string
}

// ShellOption configures a Shell
type ShellOption func(*Shell)

// WithNotifier sets where toasts are shown
func WithNotifier(n Notifier) ShellOption {
	return func(s *Shell) {
		s.notifier = n
	}
}

// WithArchive saves each conversation when its video is replaced or the shell closes
func WithArchive(a TranscriptArchive) ShellOption {
	return func(s *Shell) {
		s.archive = a
	}
}

// NewShell creates a shell talking to backend, which lives at apiURL
func NewShell(backend Backend, apiURL string, opts ...ShellOption) *Shell {
	s := &Shell{
		backend: backend,
		apiURL:  apiURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.video = NewVideoController(apiURL, s)
	s.chat = NewConversation(s)
	return s
}

// Backend returns the backend the shell calls
func (s *Shell) Backend() Backend {
	return s.backend
}

// APIURL returns the backend address
func (s *Shell) APIURL() string {
	return s.apiURL
}

// Video returns the video session controller
func (s *Shell) Video() *VideoController {
	return s.video
}

// Chat returns the conversation store
func (s *Shell) Chat() *Conversation {
	return s.chat
}

// HasProcessedVideo is the chat gate: open only while the video session is ready
func (s *Shell) HasProcessedVideo() bool {
	return s.video.Session().Ready()
}

// VideoReady archives the previous conversation and starts a new one
func (s *Shell) VideoReady(session VideoSession) {
	if err := s.archiveCurrent(); err != nil {
		LogWarn("Failed to archive conversation: %v", err)
	}
	s.chat.Reset()
	s.active = session
	s.transcriptID = NewMessageID()
}

// Notify shows t if a notifier is configured
func (s *Shell) Notify(t Toast) {
	if s.notifier != nil {
		s.notifier.Notify(t)
	}
}

// SubmitVideo validates and processes a video link
func (s *Shell) SubmitVideo(ctx context.Context, rawURL string) SubmitOutcome {
	out := s.video.Submit(ctx, s.backend, rawURL)
	s.Notify(out.Toast)
	return out
}

// AskQuestion sends one question about the ready video
func (s *Shell) AskQuestion(ctx context.Context, text string) AskOutcome {
	out := s.chat.Ask(ctx, s.backend, text)
	if out.Toast != nil {
		s.Notify(*out.Toast)
	}
	return out
}

// Transcript snapshots the current conversation, or nil when there is nothing to save
func (s *Shell) Transcript() *Transcript {
	if s.active.VideoID == "" || s.chat.Len() == 0 {
		return nil
	}
	t := NewTranscript(s.active.VideoID, s.active.VideoURL, s.apiURL, s.chat.Messages())
	t.ID = s.transcriptID
	return t
}

// Close archives the current conversation
func (s *Shell) Close() error {
	return s.archiveCurrent()
}

func (s *Shell) archiveCurrent() error {
	if s.archive == nil {
		return nil
	}
	t := s.Transcript()
	if t == nil {
		return nil
	}
	if err := s.archive.SaveTranscript(t); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	LogDebug("archived transcript %s (%d messages)", t.ID, len(t.Messages))
	return nil
}
