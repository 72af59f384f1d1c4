package internal

import "regexp"

// DisplayIDLength is the number of characters of a video ID shown before truncation
const DisplayIDLength = 20

// videoURLPatterns are tried in order; the first match wins
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
}

// ExtractVideoID returns the video identifier embedded in a YouTube link.
// Recognized shapes: youtube.com/watch?v=<id>, youtu.be/<id>,
// youtube.com/embed/<id> and youtube.com/v/<id>. The id runs up to the
// first '&', newline, '?' or '#'.
func ExtractVideoID(url string) (string, bool) {
	for _, pattern := range videoURLPatterns {
		if match := pattern.FindStringSubmatch(url); match != nil {
			return match[1], true
		}
	}
	return "", false
}

// IsValidVideoURL reports whether ExtractVideoID finds an identifier in url
func IsValidVideoURL(url string) bool {
	_, ok := ExtractVideoID(url)
	return ok
}

// FormatVideoID shortens id for display to DisplayIDLength characters plus "..."
func FormatVideoID(id string) string {
	return FormatVideoIDN(id, DisplayIDLength)
}

// FormatVideoIDN shortens id to maxLen characters plus "..." when it is longer.
// The id is never validated.
func FormatVideoIDN(id string, maxLen int) string {
	runes := []rune(id)
	if len(runes) <= maxLen {
		return id
	}
	return string(runes[:maxLen]) + "..."
}
