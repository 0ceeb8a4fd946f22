// Package server exposes the consultant agent and the receipt pipeline
// over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kira-carbon/server/internal/agent/graph"
	"github.com/kira-carbon/server/internal/classify"
	"github.com/kira-carbon/server/internal/extract"
	"github.com/kira-carbon/server/internal/store"
	logx "github.com/kira-carbon/server/pkg/logger"
)

// Config carries the listener settings.
type Config struct {
	Addr            string        `envconfig:"SERVER_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Server routes chat and receipt-processing requests to the agent and
// the extraction/classification pipelines.
type Server struct {
	cfg        Config
	agent      graph.Runner
	extractor  *extract.Pipeline
	classifier *classify.Pipeline
	store      store.Store
	router     *mux.Router
}

func New(cfg Config, agent graph.Runner, extractor *extract.Pipeline, classifier *classify.Pipeline, docStore store.Store) *Server {
	s := &Server{
		cfg:        cfg,
		agent:      agent,
		extractor:  extractor,
		classifier: classifier,
		store:      docStore,
		router:     mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(requestIDMiddleware, accessLogMiddleware, corsMiddleware)

	s.router.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/receipts/process", s.handleProcessReceipt).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet, http.MethodOptions)

	s.router.MethodNotAllowedHandler = corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}))
}

// Handler returns the root handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		logx.Info().Msg("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
