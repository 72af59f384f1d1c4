package internal

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MinQuestionLength is the shortest question the chat and ask inputs accept.
// The conversation itself only rejects blank text.
const MinQuestionLength = 3

const (
	msgAnswerFailed  = "Sorry, I couldn't process your question."
	msgAnswerErrored = "Sorry, there was an error processing your question. Please try again."
	msgToastFailed   = "Failed to get answer"
	msgToastErrored  = "Failed to get answer. Please try again."
)

// QuestionTooShort reports whether text, trimmed, is under MinQuestionLength runes
func QuestionTooShort(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < MinQuestionLength
}

// Gate tells the conversation whether a processed video is available
type Gate interface {
	HasProcessedVideo() bool
}

// GateFunc adapts a function to Gate
type GateFunc func() bool

// HasProcessedVideo calls f()
func (f GateFunc) HasProcessedVideo() bool {
	return f()
}

// AskOutcome describes the result of one question
type AskOutcome struct {
	Question Message
	Reply    Message
	// Toast is set when the reply is a synthetic failure message
	Toast *Toast
	Err   error
}

// Conversation is the append-only log of chat messages for the current video
type Conversation struct {
	messages []Message
	pending  bool
	gate     Gate
	now      func() time.Time
	newID    func() string
}

// ConversationOption configures a Conversation
type ConversationOption func(*Conversation)

// WithClock overrides the message timestamp source
func WithClock(now func() time.Time) ConversationOption {
	return func(c *Conversation) {
		c.now = now
	}
}

// WithIDGenerator overrides how message IDs are made
func WithIDGenerator(newID func() string) ConversationOption {
	return func(c *Conversation) {
		c.newID = newID
	}
}

// NewConversation creates an empty conversation gated by gate
func NewConversation(gate Gate, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		gate:  gate,
		now:   time.Now,
		newID: NewMessageID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Messages returns a copy of the log in chronological order
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Pending reports whether a question is awaiting its answer
func (c *Conversation) Pending() bool {
	return c.pending
}

// Reset starts a fresh log for a newly processed video
func (c *Conversation) Reset() {
	c.messages = nil
	c.pending = false
}

// BeginAsk records the user's question and marks the conversation pending.
// Blank text or a closed gate is rejected without touching any state.
func (c *Conversation) BeginAsk(text string) (string, error) {
	question := strings.TrimSpace(text)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if c.gate == nil || !c.gate.HasProcessedVideo() {
		return "", &ValidationError{Field: "question", Message: "Please process a video first", Err: ErrNoVideo}
	}
	c.append(question, OriginUser, false)
	c.pending = true
	return question, nil
}

// CompleteAsk appends the assistant's reply, or a synthetic apology when the
// query failed, and clears the pending flag
func (c *Conversation) CompleteAsk(resp *QueryResponse, err error) AskOutcome {
	defer func() { c.pending = false }()

	var question Message
	if n := len(c.messages); n > 0 {
		question = c.messages[n-1]
	}

	switch {
	case err != nil:
		LogWarn("query failed: %v", err)
		toast := NewToast(ToastError, msgToastErrored)
		return AskOutcome{
			Question: question,
			Reply:    c.append(msgAnswerErrored, OriginAssistant, true),
			Toast:    &toast,
			Err:      err,
		}
	case resp == nil || !resp.Success:
		content, toastMsg := msgAnswerFailed, msgToastFailed
		if resp != nil && resp.Message != "" {
			content, toastMsg = resp.Message, resp.Message
		}
		toast := NewToast(ToastError, toastMsg)
		return AskOutcome{
			Question: question,
			Reply:    c.append(content, OriginAssistant, true),
			Toast:    &toast,
			Err:      &ApplicationError{Op: opQuery, Message: content},
		}
	case strings.TrimSpace(resp.Answer) == "":
		// an empty answer would break the non-empty content invariant
		toast := NewToast(ToastError, msgToastFailed)
		return AskOutcome{
			Question: question,
			Reply:    c.append(msgAnswerFailed, OriginAssistant, true),
			Toast:    &toast,
			Err:      &ApplicationError{Op: opQuery, Message: "empty answer"},
		}
	}

	return AskOutcome{
		Question: question,
		Reply:    c.append(resp.Answer, OriginAssistant, false),
	}
}

// Ask runs BeginAsk, the backend query and CompleteAsk in sequence.
// A rejected question appends nothing and carries Err.
func (c *Conversation) Ask(ctx context.Context, b Backend, text string) AskOutcome {
	question, err := c.BeginAsk(text)
	if err != nil {
		out := AskOutcome{Err: err}
		if !errors.Is(err, ErrEmptyQuestion) {
			toast := NewToast(ToastError, "Please process a video first")
			out.Toast = &toast
		}
		return out
	}
	resp, err := b.Query(ctx, question)
	return c.CompleteAsk(resp, err)
}

func (c *Conversation) append(content string, origin Origin, synthetic bool) Message {
	createdAt := c.now()
	if n := len(c.messages); n > 0 && createdAt.Before(c.messages[n-1].CreatedAt) {
		createdAt = c.messages[n-1].CreatedAt
	}
	msg := Message{
		ID:        c.newID(),
		Content:   content,
		Origin:    origin,
		CreatedAt: createdAt,
		Synthetic: synthetic,
	}
	c.messages = append(c.messages, msg)
	return msg
}
