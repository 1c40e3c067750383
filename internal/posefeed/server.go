package posefeed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server handles HTTP requests for landmarks.
type Server struct {
	gen    *Generator
	logger *log.Logger
}

// NewServer creates a server backed by gen.
func NewServer(gen *Generator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default().WithPrefix("posefeed")
	}
	return &Server{gen: gen, logger: logger}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(middleware.Heartbeat("/health"))

	r.Get("/get_landmarks", s.handleLandmarks)
	r.Get("/frame", s.handleFrame)

	return r
}

type landmarksBody struct {
	Landmarks any `json:"landmarks"`
}

func (s *Server) handleLandmarks(w http.ResponseWriter, r *http.Request) {
	pts, ok := s.gen.Landmarks()
	if !ok {
		s.writeJSON(w, http.StatusOK, landmarksBody{Landmarks: -1})
		return
	}
	s.writeJSON(w, http.StatusOK, landmarksBody{Landmarks: pts})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"index":  s.gen.FrameIndex(s.gen.now()),
		"frames": len(s.gen.frames),
	})
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encode response", "error", err)
	}
}

// requestLogger logs each request at debug level with its status and latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving landmarks", "addr", addr)
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
		s.logger.Info("stopping landmark server")
		return srv.Shutdown(shutdownCtx)
	}
}
