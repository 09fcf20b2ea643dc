// Package server exposes review acquisition and analysis over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"airbnb-reviews/config"
	"airbnb-reviews/models"
	"airbnb-reviews/services"
	"airbnb-reviews/utils"
)

// requestsPerMinute is the per-IP request budget.
const requestsPerMinute = 100

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Acquirer fetches the reviews of one listing.
type Acquirer interface {
	Acquire(ctx context.Context, locator string, maxReviews int, sink *utils.Sink) (*models.AcquisitionResult, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     chi.Router
	acquirer   Acquirer
	analyzer   *services.Analyzer
	logger     *utils.Logger
}

// New creates a new server instance
func New(cfg *config.Config, acquirer Acquirer, analyzer *services.Analyzer, logger *utils.Logger) *Server {
	s := &Server{
		acquirer: acquirer,
		analyzer: analyzer,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestSize(maxBodyBytes))
	r.Use(httprate.LimitByIP(requestsPerMinute, time.Minute))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/scrape-reviews", s.handleScrapeReviews)
		r.Post("/scrape-and-analyze", s.handleScrapeAndAnalyze)
		r.Post("/debug-scraping", s.handleDebugScraping)
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // a full tier cascade can take minutes
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[server] Listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("[server] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("[server] Stopped")
	return nil
}

// withLogging logs every request with its status and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("[server] %s %s %d %v (%s)",
			r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond),
			middleware.GetReqID(r.Context()))
	})
}
