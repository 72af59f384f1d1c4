package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuestion is returned when a question is blank after trimming
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrNoVideo is returned when chat is attempted before a video is ready
	ErrNoVideo = errors.New("please process a video first")
)

// ValidationError represents input rejected locally, before any request is made
type ValidationError struct {
	Field   string // "video_url", "question"
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RequestError represents a failed round trip to the backend: transport failure,
// non-2xx status, or an undecodable body
type RequestError struct {
	Op         string // "health", "process-video", "query"
	StatusCode int
	Detail     string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("request error [%s]: status %d: %s", e.Op, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("request error [%s]: status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("request error [%s]: %v", e.Op, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ApplicationError represents a response that arrived intact but reported success=false
type ApplicationError struct {
	Op      string
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("application error [%s]", e.Op)
	}
	return fmt.Sprintf("application error [%s]: %s", e.Op, e.Message)
}

// StorageError represents errors accessing the transcript history database
type StorageError struct {
	Path string
	Op   string // "open", "migrate", "save", "load"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during transcript export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err was produced by local validation
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrEmptyQuestion) || errors.Is(err, ErrNoVideo)
}
