package internal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Origin identifies who authored a chat message
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// Message is one chat turn
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	Origin    Origin    `json:"origin" yaml:"origin"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	// Synthetic marks assistant messages produced locally after a failed query
	Synthetic bool `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Origin == OriginUser
}

// NewMessageID returns a time-ordered unique identifier
func NewMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 only fails when the random source does; fall back to v4
		return uuid.NewString()
	}
	return id.String()
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ProcessVideoRequest is the body of POST /process-video
type ProcessVideoRequest struct {
	VideoURL string `json:"video_url"`
}

// VideoInfo is the optional descriptive block some backends attach to responses
type VideoInfo struct {
	VideoID  string `json:"video_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// ProcessVideoResponse is the body returned by POST /process-video
type ProcessVideoResponse struct {
	Success   bool       `json:"success"`
	VideoID   string     `json:"video_id"`
	Message   string     `json:"message"`
	VideoInfo *VideoInfo `json:"video_info,omitempty"`
}

// QueryRequest is the body of POST /query
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is the body returned by POST /query
type QueryResponse struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer"`
	Message string `json:"message,omitempty"`
}

// Transcript is a saved snapshot of one video session and its conversation
type Transcript struct {
	ID       string             `json:"id" yaml:"id"`
	VideoID  string             `json:"video_id" yaml:"video_id"`
	VideoURL string             `json:"video_url,omitempty" yaml:"video_url,omitempty"`
	APIURL   string             `json:"api_url,omitempty" yaml:"api_url,omitempty"`
	Messages []Message          `json:"messages" yaml:"messages"`
	Metadata TranscriptMetadata `json:"metadata" yaml:"metadata"`
}

// TranscriptMetadata contains additional transcript information
type TranscriptMetadata struct {
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
	MessageCount int       `json:"message_count" yaml:"message_count"`
}

// NewTranscript snapshots a conversation about videoID
func NewTranscript(videoID, videoURL, apiURL string, messages []Message) *Transcript {
	now := time.Now()
	t := &Transcript{
		ID:       NewMessageID(),
		VideoID:  videoID,
		VideoURL: videoURL,
		APIURL:   apiURL,
		Messages: append([]Message(nil), messages...),
		Metadata: TranscriptMetadata{
			CreatedAt:    now,
			UpdatedAt:    now,
			MessageCount: len(messages),
		},
	}
	if len(messages) > 0 {
		t.Metadata.CreatedAt = messages[0].CreatedAt
		t.Metadata.UpdatedAt = messages[len(messages)-1].CreatedAt
		t.Metadata.Title = transcriptTitle(messages)
	}
	return t
}

// transcriptTitle uses the first user question, shortened, as the title
func transcriptTitle(messages []Message) string {
	for _, msg := range messages {
		if msg.IsUser() {
			return FormatVideoIDN(msg.Content, 60)
		}
	}
	return ""
}

// DisplayName returns the title, or a label built from the video ID
func (t *Transcript) DisplayName() string {
	if t.Metadata.Title != "" {
		return t.Metadata.Title
	}
	return fmt.Sprintf("Video %s", FormatVideoID(t.VideoID))
}
