// Package httpapi exposes the application services over an HTTP JSON API.
// It is a driving adapter: handlers translate requests into calls on the
// driving ports and map domain errors onto HTTP status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lexpert-ai/lexpert/internal/core/ports/driving"
	"github.com/lexpert-ai/lexpert/internal/logger"
)

// Config holds HTTP server settings.
type Config struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string

	// ReadTimeout bounds request reading. Defaults to 30s.
	ReadTimeout time.Duration

	// WriteTimeout bounds response writing. Defaults to 120s; answer
	// generation can legitimately take a while.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Services bundles the driving ports the API serves.
// Auth may be nil, in which case requests are not authenticated
// (local development against sqlite or memory stores).
type Services struct {
	Auth    driving.AuthService
	Chat    driving.ChatService
	Answer  driving.AnswerService
	Ingest  driving.IngestService
	Storage driving.StorageService
	Tagger  driving.TaggerService
	Coach   driving.PromptCoach
}

// Server is the HTTP API server.
type Server struct {
	cfg      Config
	services Services
	httpSrv  *http.Server
}

// New creates a Server with the given services.
func New(cfg Config, services Services) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 120 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{cfg: cfg, services: services}
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the fully wired handler chain. Exposed separately so
// tests can drive the API through httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Protected endpoints
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/bots", s.handleListBots)
	mux.HandleFunc("GET /api/bots/{id}", s.handleGetBot)
	mux.HandleFunc("POST /api/rag", s.handleRAG)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/ingest", s.handleIngest)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("POST /api/auto-tag", s.handleAutoTag)
	mux.HandleFunc("POST /api/prompt-coach", s.handlePromptCoach)
	mux.HandleFunc("POST /api/check-bucket-exists", s.handleCheckBucketExists)
	mux.HandleFunc("POST /api/create-bucket", s.handleCreateBucket)
	mux.HandleFunc("GET /api/list-bucket-files", s.handleListBucketFiles)

	// Middleware runs outermost-first: logging, CORS, then auth.
	var h http.Handler = mux
	h = s.withAuth(h)
	h = withCORS(h)
	h = withLogging(h)
	return h
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully. Returns nil on clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening on %s", s.cfg.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("http: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
