package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/ytchat/internal"
)

// Exporter writes a transcript in one file format
type Exporter interface {
	Export(transcript *internal.Transcript, w io.Writer) error
	Extension() string
}

// Formats lists the accepted format names
var Formats = []string{"md", "jsonl", "json", "yaml"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// FileName returns the conventional file name for a transcript in format e.
// The full id is used: time-ordered ids share long prefixes.
func FileName(transcript *internal.Transcript, e Exporter) string {
	return fmt.Sprintf("%s_%s.%s", transcript.VideoID, transcript.ID, e.Extension())
}
