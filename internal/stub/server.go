// Package stub is a local stand-in for the video Q&A backend. It speaks the
// same HTTP/JSON contract, including FastAPI-style error bodies, and answers
// every question with a canned reply so the client can be exercised offline.
package stub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iksnae/ytchat/internal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the stub backend
type Config struct {
	// Latency delays every /process-video and /query response
	Latency time.Duration
	// OmitVideoID leaves video_id out of /process-video responses and only
	// reports it inside video_info
	OmitVideoID bool
}

// Server is the stub backend's HTTP handler
type Server struct {
	router   chi.Router
	registry *prometheus.Registry
	metrics  *metrics
	cfg      Config

	mu    sync.Mutex
	video *internal.VideoInfo
}

// New creates a stub backend with its own metrics registry
func New(cfg Config) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		router:   chi.NewRouter(),
		registry: registry,
		metrics:  newMetrics(registry),
		cfg:      cfg,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Registry exposes the metrics registry served on /metrics
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// CurrentVideo returns the last processed video, if any
func (s *Server) CurrentVideo() (internal.VideoInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.video == nil {
		return internal.VideoInfo{}, false
	}
	return *s.video, true
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)
	s.router.Use(s.metrics.instrument)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/process-video", s.handleProcessVideo)
	s.router.Post("/query", s.handleQuery)
	s.router.Get("/video-info", s.handleVideoInfo)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, internal.HealthResponse{Status: "healthy", Message: "stub backend"})
}

func (s *Server) handleProcessVideo(w http.ResponseWriter, r *http.Request) {
	var req internal.ProcessVideoRequest
	if !decodeBody(w, r, &req) {
		s.metrics.videosProcessed.WithLabelValues("invalid").Inc()
		return
	}
	videoURL := strings.TrimSpace(req.VideoURL)
	if videoURL == "" {
		s.metrics.videosProcessed.WithLabelValues("invalid").Inc()
		writeValidationError(w, "video_url", "Video URL cannot be empty")
		return
	}
	if !s.wait(r.Context()) {
		return
	}

	videoID, ok := internal.ExtractVideoID(videoURL)
	if !ok {
		s.metrics.videosProcessed.WithLabelValues("rejected").Inc()
		writeDetail(w, http.StatusBadRequest, "Invalid YouTube URL")
		return
	}

	info := &internal.VideoInfo{
		VideoID: videoID,
		Title:   fmt.Sprintf("Stub video %s", videoID),
		Channel: "ytchat stub",
	}
	s.mu.Lock()
	s.video = info
	s.mu.Unlock()
	s.metrics.videosProcessed.WithLabelValues("success").Inc()

	resp := internal.ProcessVideoResponse{
		Success:   true,
		VideoID:   videoID,
		Message:   "Video processed successfully",
		VideoInfo: info,
	}
	if s.cfg.OmitVideoID {
		resp.VideoID = ""
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req internal.QueryRequest
	if !decodeBody(w, r, &req) {
		s.metrics.questionsTotal.WithLabelValues("invalid").Inc()
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		s.metrics.questionsTotal.WithLabelValues("invalid").Inc()
		writeValidationError(w, "question", "Question cannot be empty")
		return
	}
	if !s.wait(r.Context()) {
		return
	}

	video, ok := s.CurrentVideo()
	if !ok {
		s.metrics.questionsTotal.WithLabelValues("no_video").Inc()
		writeDetail(w, http.StatusBadRequest, "No video processed. Please process a video first.")
		return
	}

	s.metrics.questionsTotal.WithLabelValues("answered").Inc()
	writeJSON(w, http.StatusOK, internal.QueryResponse{
		Success: true,
		Answer:  Answer(video.VideoID, question),
	})
}

func (s *Server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	video, ok := s.CurrentVideo()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "No video processed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"video_info": video,
	})
}

// Answer is the canned reply for question about videoID
func Answer(videoID, question string) string {
	return fmt.Sprintf("The stub backend has no transcript for video `%s`.\n\nYou asked: **%s**", videoID, question)
}

func (s *Server) wait(ctx context.Context) bool {
	if s.cfg.Latency <= 0 {
		return true
	}
	select {
	case <-time.After(s.cfg.Latency):
		return true
	case <-ctx.Done():
		return false
	}
}

// fieldError mirrors one entry of a FastAPI request validation error
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []fieldError{{Loc: []string{"body"}, Msg: "Invalid JSON body", Type: "value_error.jsondecode"}},
		})
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"detail": []fieldError{{Loc: []string{"body", field}, Msg: msg, Type: "value_error"}},
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.LogDebug("stub: encode response: %v", err)
	}
}

// requestLogger logs one line per request through the application logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		internal.Logger().Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
