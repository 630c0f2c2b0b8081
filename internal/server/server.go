package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spacesedan/commentlens/internal/clients"
	"github.com/spacesedan/commentlens/internal/models"
)

// Analyzer is the analysis pipeline the server exposes.
type Analyzer interface {
	Analyze(comments []string) (models.AnalysisResult, error)
}

// Server serves the analysis pipeline over HTTP. Source may be nil, in which
// case only inline comment batches can be analyzed.
type Server struct {
	analyzer    Analyzer
	source      clients.CommentSource
	maxComments int
	httpServer  *http.Server
}

func NewServer(addr string, analyzer Analyzer, source clients.CommentSource, maxComments int) *Server {
	s := &Server{
		analyzer:    analyzer,
		source:      source,
		maxComments: maxComments,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	return s
}

func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/", s.homeHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/analyze", s.analyzeHandler).Methods(http.MethodPost)

	return r
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Server] Listening", slog.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Warn("[Server] Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		slog.Info("[Server] Request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", wrapped.statusCode),
			slog.Duration("elapsed", time.Since(start)))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
