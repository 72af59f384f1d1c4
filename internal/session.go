package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SessionState is the processing state of the submitted video
type SessionState int

const (
	SessionUnset SessionState = iota
	SessionProcessing
	SessionReady
	SessionFailed
)

func (s SessionState) String() string {
	switch s {
	case SessionProcessing:
		return "processing"
	case SessionReady:
		return "ready"
	case SessionFailed:
		return "failed"
	default:
		return "unset"
	}
}

const (
	msgURLRequired       = "YouTube URL is required"
	msgURLInvalid        = "Please enter a valid YouTube URL"
	msgProcessFailed     = "Failed to process video"
	msgProcessErrored    = "Failed to process video. Please try again."
	msgProcessSucceeded  = "Video processed successfully!"
	msgBackendOfflineFmt = "Backend API is not accessible. Please ensure it's running on %s"
)

// VideoSession is the outcome of submitting one video.
// VideoID is only set while State is SessionReady.
type VideoSession struct {
	State    SessionState
	VideoID  string
	VideoURL string
}

// Ready reports whether chat is allowed for this session
func (s VideoSession) Ready() bool {
	return s.State == SessionReady
}

// Begin moves to processing for videoURL. Any prior session is replaced.
func (s VideoSession) Begin(videoURL string) VideoSession {
	return VideoSession{State: SessionProcessing, VideoURL: videoURL}
}

// Resolve applies the backend's answer to a processing session
func (s VideoSession) Resolve(resp *ProcessVideoResponse, err error) VideoSession {
	if err != nil || resp == nil || !resp.Success {
		return VideoSession{State: SessionFailed, VideoURL: s.VideoURL}
	}
	videoID := resp.VideoID
	if videoID == "" {
		// the backend accepted the video without naming it; use the id from the link
		videoID, _ = ExtractVideoID(s.VideoURL)
	}
	return VideoSession{State: SessionReady, VideoID: videoID, VideoURL: s.VideoURL}
}

// SessionListener is told when a video becomes ready for chat
type SessionListener interface {
	VideoReady(session VideoSession)
}

// SessionListenerFunc adapts a function to SessionListener
type SessionListenerFunc func(session VideoSession)

// VideoReady calls f(session)
func (f SessionListenerFunc) VideoReady(session VideoSession) {
	f(session)
}

// SubmitOutcome describes what the UI should do after a submit attempt
type SubmitOutcome struct {
	Session VideoSession
	// ClearInput is true only after a successful submit
	ClearInput bool
	Toast      Toast
	// Err is a *ValidationError, *RequestError or *ApplicationError on failure
	Err error
}

// VideoController owns the video session and backend health, and is the only
// component that decides whether chat is available
type VideoController struct {
	session  VideoSession
	health   HealthState
	apiURL   string
	listener SessionListener
}

// NewVideoController creates a controller that reports ready videos to listener
func NewVideoController(apiURL string, listener SessionListener) *VideoController {
	return &VideoController{
		health:   HealthChecking,
		apiURL:   apiURL,
		listener: listener,
	}
}

// Session returns the current video session
func (c *VideoController) Session() VideoSession {
	return c.session
}

// Health returns the last probe result
func (c *VideoController) Health() HealthState {
	return c.health
}

// SetHealth records a probe result
func (c *VideoController) SetHealth(h HealthState) {
	c.health = h
}

// HealthToast returns the notification for a probe result, if any
func (c *VideoController) HealthToast(h HealthState) (Toast, bool) {
	if h != HealthOffline {
		return Toast{}, false
	}
	return NewToast(ToastError, fmt.Sprintf(msgBackendOfflineFmt, c.apiURL)), true
}

// CheckHealth probes the backend once and records the result
func (c *VideoController) CheckHealth(ctx context.Context, b Backend) HealthState {
	c.health = HealthChecking
	h, err := ProbeHealth(ctx, b)
	if err != nil {
		LogDebug("health probe failed: %v", err)
	}
	c.health = h
	return h
}

// BeginSubmit validates rawURL and, if valid, moves the session to processing.
// An invalid URL leaves the session untouched.
func (c *VideoController) BeginSubmit(rawURL string) (string, error) {
	videoURL := strings.TrimSpace(rawURL)
	if videoURL == "" {
		return "", &ValidationError{Field: "video_url", Message: msgURLRequired}
	}
	if !IsValidVideoURL(videoURL) {
		return "", &ValidationError{Field: "video_url", Message: msgURLInvalid}
	}
	c.session = c.session.Begin(videoURL)
	return videoURL, nil
}

// CompleteSubmit applies the result of ProcessVideo
func (c *VideoController) CompleteSubmit(resp *ProcessVideoResponse, err error) SubmitOutcome {
	c.session = c.session.Resolve(resp, err)

	switch {
	case err != nil:
		LogWarn("process video failed: %v", err)
		return SubmitOutcome{
			Session: c.session,
			Toast:   NewToast(ToastError, msgProcessErrored),
			Err:     err,
		}
	case resp == nil || !resp.Success:
		message := msgProcessFailed
		if resp != nil && resp.Message != "" {
			message = resp.Message
		}
		return SubmitOutcome{
			Session: c.session,
			Toast:   NewToast(ToastError, message),
			Err:     &ApplicationError{Op: opProcessVideo, Message: message},
		}
	}

	LogInfo("video ready: %s", c.session.VideoID)
	if c.listener != nil {
		c.listener.VideoReady(c.session)
	}
	return SubmitOutcome{
		Session:    c.session,
		ClearInput: true,
		Toast:      NewToast(ToastSuccess, msgProcessSucceeded),
	}
}

// Submit validates rawURL, calls the backend and applies the result
func (c *VideoController) Submit(ctx context.Context, b Backend, rawURL string) SubmitOutcome {
	videoURL, err := c.BeginSubmit(rawURL)
	if err != nil {
		return SubmitOutcome{
			Session: c.session,
			Toast:   NewToast(ToastError, validationMessage(err)),
			Err:     err,
		}
	}
	resp, err := b.ProcessVideo(ctx, videoURL)
	return c.CompleteSubmit(resp, err)
}

func validationMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
