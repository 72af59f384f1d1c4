package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/ytchat/internal"
)

// MarkdownExporter exports transcripts as Markdown
type MarkdownExporter struct{}

// Export writes a heading, the video details and every message.
// User questions, and the title taken from them, are escaped; assistant
// answers are already Markdown.
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(transcript.DisplayName()))

	_, _ = fmt.Fprintf(w, "**Video:** %s  \n", transcript.VideoID)
	if transcript.VideoURL != "" {
		_, _ = fmt.Fprintf(w, "**Link:** %s  \n", transcript.VideoURL)
	}
	if !transcript.Metadata.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Started:** %s  \n", transcript.Metadata.CreatedAt.Format(time.RFC1123))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(transcript.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range transcript.Messages {
		timestamp := ""
		if !msg.CreatedAt.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.CreatedAt.Format("15:04:05"))
		}

		content := msg.Content
		label := "Assistant"
		if msg.IsUser() {
			label = "You"
			content = escapeMarkdown(content)
		} else if msg.Synthetic {
			content = "_" + content + "_"
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", label, timestamp, content)

		if i < len(transcript.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
