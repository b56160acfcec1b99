package mockclassifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/scamscan/internal/log"
	"github.com/nao1215/scamscan/internal/model"
)

const (
	// AnalyzePath is the classification route.
	AnalyzePath = "/api/analyze"

	// DefaultAddr is where `scamscan mock` listens by default.
	DefaultAddr = "127.0.0.1:5000"

	// maxRequestBody caps the size of a request body.
	maxRequestBody = 1 << 20
)

// Server serves the mock classification API.
type Server struct {
	model  Model
	delay  time.Duration
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithModel replaces the default keyword model.
func WithModel(m Model) Option {
	return func(s *Server) {
		s.model = m
	}
}

// WithDelay makes every response wait d, to simulate a slow backend.
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{model: DefaultModel()}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+AnalyzePath, s.handleAnalyze)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// handleAnalyze implements POST /api/analyze.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req model.ScanRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Debug("rejecting malformed request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	result := s.model.Analyze(req)

	s.logger.Info("classified message", append(log.MessageAttrs(result.Message),
		"status", result.Status,
		"probability", result.Probability,
		"refinement", req.FollowupSubmitted,
	)...)

	writeJSON(w, http.StatusOK, result)
}

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errchkjson // best effort after headers are sent
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Start listens on addr and serves the API in the background.
// It returns a shutdown function and the base URL, e.g. http://127.0.0.1:5000.
// Use "127.0.0.1:0" to pick a free port.
func Start(addr string, opts ...Option) (func(context.Context) error, string, error) {
	if addr == "" {
		addr = DefaultAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	s := New(opts...)
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mock classifier server error", "error", err)
		}
	}()

	baseURL := "http://" + ln.Addr().String()
	s.logger.Info("mock classifier listening", "url", baseURL+AnalyzePath)

	return srv.Shutdown, baseURL, nil
}
