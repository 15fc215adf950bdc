// Package api serves skim summaries and column-name cleaning over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"goskim/adapters/excel"
	"goskim/adapters/render"
	"goskim/internal"
	apperrors "goskim/internal/errors"
	"goskim/internal/naming"
	"goskim/ports"
)

// Config holds HTTP server settings
type Config struct {
	Port         string
	Delimiter    rune
	MaxBodyBytes int64
}

// DefaultConfig listens on 8080 and accepts uploads up to 32 MiB
func DefaultConfig() Config {
	return Config{Port: "8080", Delimiter: ',', MaxBodyBytes: 32 << 20}
}

// Server routes requests to the skim service
type Server struct {
	router  *chi.Mux
	skimmer ports.Skimmer
	config  Config
	logger  *internal.Logger
}

// NewServer creates a server; a nil logger uses the default one
func NewServer(skimmer ports.Skimmer, config Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  chi.NewRouter(),
		skimmer: skimmer,
		config:  config,
		logger:  logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/api/skim", s.handleSkim)
	s.router.Post("/api/columns/clean", s.handleCleanColumns)
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.With("request_id", middleware.GetReqID(r.Context())).
			Debug("%s %s -> %d in %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleSkim reads a CSV body and answers with the summary. ?format=yaml
// switches the encoding, ?name= sets the dataset name.
func (s *Server) handleSkim(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" || format == "console" {
		format = "json"
	}
	renderer, err := render.ForFormat(format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	cfg := excel.DefaultExcelConfig()
	cfg.Name = r.URL.Query().Get("name")
	cfg.Delimiter = s.config.Delimiter
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	reader := excel.NewCSVStreamReader(body, cfg).WithLogger(s.logger)

	ds, err := reader.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.skimmer.Skim(r.Context(), ds)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "application/yaml")
	}
	w.WriteHeader(http.StatusOK)
	if err := renderer.Render(w, res); err != nil {
		s.logger.Error("failed to write summary: %v", err)
	}
}

func (s *Server) handleCleanColumns(w http.ResponseWriter, r *http.Request) {
	var req CleanColumnsRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "failed to read body"))
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "invalid JSON body"))
		return
	}

	names, err := naming.Normalize(req.Names, req.options())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, CleanColumnsResponse{Names: names})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.FromDomain(err)
	status := apperrors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	} else {
		s.logger.Debug("request rejected: %v", err)
	}
	writeJSON(w, status, ErrorResponse{Code: appErr.Code, Message: appErr.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
