package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"airbnb-reviews/models"
	"airbnb-reviews/services"
	"airbnb-reviews/utils"
)

// debugDefaultReviews is the review cap for debug scraping when none is given.
const debugDefaultReviews = 5

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type debugResponse struct {
	*models.AcquisitionResult
	Logs []utils.Record `json:"logs"`
}

type debugErrorResponse struct {
	Error string         `json:"error"`
	Logs  []utils.Record `json:"logs"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.analyzer.Analyze(req.Reviews, req.Limit(), req.PropertyName)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleScrapeReviews(w http.ResponseWriter, r *http.Request) {
	var req models.AcquireRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.acquirer.Acquire(r.Context(), req.Locator, req.Limit(), nil)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleScrapeAndAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AcquireRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.acquirer.Acquire(r.Context(), req.Locator, req.Limit(), nil)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.analyzer.ScrapeAnalysis(res, services.DefaultScrapeTopReviews))
}

// handleDebugScraping runs an acquisition and returns everything it logged.
func (s *Server) handleDebugScraping(w http.ResponseWriter, r *http.Request) {
	var req models.AcquireRequest
	if !s.decode(w, r, &req) {
		return
	}
	limit := debugDefaultReviews
	if req.MaxReviews != nil {
		limit = *req.MaxReviews
	}

	sink := utils.NewSink()
	res, err := s.acquirer.Acquire(r.Context(), req.Locator, limit, sink)
	if err != nil {
		s.jsonResponse(w, HTTPStatus(err), debugErrorResponse{Error: errorMessage(err), Logs: sink.Records()})
		return
	}
	s.jsonResponse(w, http.StatusOK, debugResponse{AcquisitionResult: res, Logs: sink.Records()})
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.fail(w, decodeError(err))
		return false
	}
	if err := dst.Validate(); err != nil {
		s.fail(w, err)
		return false
	}
	return true
}

// decodeError classifies a body decoding failure. Review arrays holding
// anything but strings are review input errors.
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && (typeErr.Field == "reviews" || strings.HasPrefix(typeErr.Field, "reviews.")) {
		return &services.InvalidReviewInputError{Index: -1, Reason: "reviews must be strings, got " + typeErr.Value}
	}
	if errors.Is(err, io.EOF) {
		return &ErrValidation{Message: "request body is required"}
	}
	return &ErrValidation{Message: "invalid JSON body"}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[server] %v", err)
	}
	s.errorResponse(w, status, errorMessage(err))
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("[server] Failed to encode response: %v", err)
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
