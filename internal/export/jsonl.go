package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/ytchat/internal"
)

// JSONLExporter exports transcripts as JSONL, one message per line
type JSONLExporter struct{}

type jsonlLine struct {
	VideoID   string `json:"video_id"`
	Origin    string `json:"origin"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

// Export writes each message as a single JSON object
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range transcript.Messages {
		line := jsonlLine{
			VideoID:   transcript.VideoID,
			Origin:    string(msg.Origin),
			Content:   msg.Content,
			Synthetic: msg.Synthetic,
		}
		if !msg.CreatedAt.IsZero() {
			line.CreatedAt = msg.CreatedAt.UTC().Format(time.RFC3339)
		}

		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
