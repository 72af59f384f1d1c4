package internal

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewMessageID(t *testing.T) {
	first := NewMessageID()
	second := NewMessageID()

	parsed, err := uuid.Parse(first)
	if err != nil {
		t.Fatalf("NewMessageID() = %q, not a UUID: %v", first, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("version = %d, want 7", parsed.Version())
	}
	if first == second {
		t.Error("NewMessageID() returned the same id twice")
	}
	if second < first {
		t.Errorf("ids are not time ordered: %s then %s", first, second)
	}
}

func TestMessage_IsUser(t *testing.T) {
	if !(Message{Origin: OriginUser}).IsUser() {
		t.Error("user message IsUser() = false")
	}
	if (Message{Origin: OriginAssistant}).IsUser() {
		t.Error("assistant message IsUser() = true")
	}
}

func TestNewTranscript(t *testing.T) {
	base := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	msgs := CreateTestMessages(base)

	tr := NewTranscript("dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ", DefaultAPIURL, msgs)
	if tr.ID == "" {
		t.Error("transcript id is empty")
	}
	if !tr.Metadata.CreatedAt.Equal(base) || !tr.Metadata.UpdatedAt.Equal(base.Add(2*time.Second)) {
		t.Errorf("metadata times = %v / %v", tr.Metadata.CreatedAt, tr.Metadata.UpdatedAt)
	}
	if tr.Metadata.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", tr.Metadata.MessageCount)
	}
	if tr.Metadata.Title != "What is this video about?" {
		t.Errorf("Title = %q", tr.Metadata.Title)
	}

	msgs[0].Content = "mutated"
	if tr.Messages[0].Content == "mutated" {
		t.Error("NewTranscript() shares the caller's slice")
	}
}

func TestTranscript_DisplayName(t *testing.T) {
	long := strings.Repeat("why ", 30)
	tests := []struct {
		name     string
		messages []Message
		want     string
	}{
		{
			name: "first question",
			messages: []Message{
				{Origin: OriginAssistant, Content: "Welcome"},
				{Origin: OriginUser, Content: "How does it end?"},
			},
			want: "How does it end?",
		},
		{
			name:     "long question truncated",
			messages: []Message{{Origin: OriginUser, Content: long}},
			want:     long[:60] + "...",
		},
		{
			name:     "no messages",
			messages: nil,
			want:     "Video dQw4w9WgXcQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranscript("dQw4w9WgXcQ", "", "", tt.messages)
			if got := tr.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcessVideoResponse_JSON(t *testing.T) {
	data := []byte(`{"success":true,"message":"ok","video_info":{"video_id":"abc","title":"Talk"}}`)
	var resp ProcessVideoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.VideoID != "" || resp.VideoInfo == nil || resp.VideoInfo.VideoID != "abc" {
		t.Errorf("decoded = %+v", resp)
	}
}
