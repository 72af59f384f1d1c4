package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "video_url", Message: "Please enter a valid YouTube URL"}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "validation error") {
		t.Errorf("ValidationError.Error() should contain 'validation error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "video_url") {
		t.Errorf("ValidationError.Error() should contain field, got: %q", errorMsg)
	}

	wrapped := &ValidationError{Field: "question", Message: "x", Err: ErrNoVideo}
	if !errors.Is(wrapped, ErrNoVideo) {
		t.Error("ValidationError.Unwrap() should return the sentinel")
	}
}

func TestRequestError(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name string
		err  *RequestError
		want []string
	}{
		{
			name: "transport",
			err:  &RequestError{Op: "health", Err: cause},
			want: []string{"request error", "health", "connection refused"},
		},
		{
			name: "status with detail",
			err:  &RequestError{Op: "process-video", StatusCode: 400, Detail: "Invalid YouTube URL", Err: cause},
			want: []string{"process-video", "400", "Invalid YouTube URL"},
		},
		{
			name: "status only",
			err:  &RequestError{Op: "query", StatusCode: 502, Err: cause},
			want: []string{"query", "502"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errorMsg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(errorMsg, w) {
					t.Errorf("RequestError.Error() = %q, should contain %q", errorMsg, w)
				}
			}
			if !errors.Is(tt.err, cause) {
				t.Error("RequestError.Unwrap() should return original error")
			}
		})
	}
}

func TestApplicationError(t *testing.T) {
	if got := (&ApplicationError{Op: "query"}).Error(); got != "application error [query]" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ApplicationError{Op: "query", Message: "No transcript"}).Error(); !strings.Contains(got, "No transcript") {
		t.Errorf("Error() = %q, should contain message", got)
	}
}

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Path: "/test/history.db",
		Op:   "open",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/test/history.db") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/file.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", &ValidationError{Field: "video_url"}, true},
		{"wrapped validation", fmt.Errorf("submit: %w", &ValidationError{Field: "video_url"}), true},
		{"empty question", ErrEmptyQuestion, true},
		{"no video", ErrNoVideo, true},
		{"request", &RequestError{Op: "query"}, false},
		{"application", &ApplicationError{Op: "query"}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidation(tt.err); got != tt.want {
				t.Errorf("IsValidation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
