package internal

import (
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"watch with fragment", "https://youtube.com/watch?v=dQw4w9WgXcQ#comments", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"v path", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"no scheme", "youtu.be/abc", "abc", true},
		{"id not validated", "https://youtu.be/not-a-real-id-at-all-but-accepted", "not-a-real-id-at-all-but-accepted", true},
		{"watch without v", "https://www.youtube.com/watch?list=PL123", "", false},
		{"channel page", "https://www.youtube.com/@golang", "", false},
		{"other host", "https://vimeo.com/123456", "", false},
		{"empty", "", "", false},
		{"plain text", "not a url", "", false},
		{"host is case sensitive", "HTTPS://WWW.YOUTUBE.COM/watch?v=abc", "", false},
		{"newline ends id", "https://www.youtube.com/watch?v=abc\ndef", "abc", true},
		{"first pattern wins", "https://www.youtube.com/v/AAA?x=youtu.be/BBB", "BBB", true},
		{"non youtube page", "https://example.com/video", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ExtractVideoID(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, id, tt.wantID)
			}
			if got := IsValidVideoURL(tt.url); got != tt.wantOK {
				t.Errorf("IsValidVideoURL(%q) = %v, want %v", tt.url, got, tt.wantOK)
			}
		})
	}
}

func TestExtractVideoID_Deterministic(t *testing.T) {
	url := "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL1"
	first, _ := ExtractVideoID(url)
	for i := 0; i < 5; i++ {
		if id, _ := ExtractVideoID(url); id != first {
			t.Fatalf("ExtractVideoID() = %q on run %d, want %q", id, i, first)
		}
	}
}

func TestFormatVideoID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"short", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"exactly twenty", strings.Repeat("a", 20), strings.Repeat("a", 20)},
		{"longer", strings.Repeat("b", 25), strings.Repeat("b", 20) + "..."},
		{"alphabet", "abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnopqrst..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVideoID(tt.id); got != tt.want {
				t.Errorf("FormatVideoID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestFormatVideoIDN_Runes(t *testing.T) {
	if got := FormatVideoIDN("héllo wörld", 5); got != "héllo..." {
		t.Errorf("FormatVideoIDN() = %q, want %q", got, "héllo...")
	}
}
