package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-reviews/config"
	"airbnb-reviews/models"
	"airbnb-reviews/scraper/airbnb"
	"airbnb-reviews/services"
	"airbnb-reviews/utils"
)

// fakeAcquirer records its calls and returns a canned result.
type fakeAcquirer struct {
	result *models.AcquisitionResult
	err    error

	calls    int
	locator  string
	limit    int
	gotSink  bool
	logLines []string
}

func (f *fakeAcquirer) Acquire(_ context.Context, locator string, maxReviews int, sink *utils.Sink) (*models.AcquisitionResult, error) {
	f.calls++
	f.locator = locator
	f.limit = maxReviews
	f.gotSink = sink != nil
	for _, line := range f.logLines {
		sink.Add(utils.LevelInfo, line)
	}
	return f.result, f.err
}

func cannedResult() *models.AcquisitionResult {
	return &models.AcquisitionResult{
		RequestID:    "01HZX0000000000000000000AA",
		ListingID:    "12345",
		PropertyName: "Lake Cabin",
		Location:     "Tahoe",
		Reviews: []string{
			"ok",
			"great host, lovely view",
			"fine",
			"clean",
			"x",
			"y",
		},
		ReviewCount: 6,
		AcquiredAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Tier:        models.TierSynthetic,
		Diagnostic:  "rendered tier failed after 3 attempts: boom",
		Note:        services.SyntheticNote,
	}
}

func newTestServer(acq Acquirer) *Server {
	logger := utils.NewLoggerTo(io.Discard)
	cfg := &config.Config{Port: 0, MaxAnalyzeReviews: 50}
	return New(cfg, acq, services.NewAnalyzer(cfg.MaxAnalyzeReviews, logger), logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&fakeAcquirer{})
	w := do(t, s, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "healthy", resp["status"])
	assert.NotEmpty(t, resp["timestamp"])
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(&fakeAcquirer{})
	body := `{"reviews":["A","B","C"],"maxReviews":2,"propertyName":"Loft"}`
	w := do(t, s, http.MethodPost, "/api/analyze", body)

	require.Equal(t, http.StatusOK, w.Code)
	var res models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "Loft", res.PropertyName)
	assert.Equal(t, 3, res.TotalReviews)
	assert.Equal(t, []string{"A", "B"}, res.TopReviews)
}

func TestAnalyzeEndpointDefaults(t *testing.T) {
	s := newTestServer(&fakeAcquirer{})
	w := do(t, s, http.MethodPost, "/api/analyze", `{"reviews":[]}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, models.UnknownProperty, resp["propertyName"])
	assert.Equal(t, float64(0), resp["totalReviews"])
	assert.Equal(t, []any{}, resp["topReviews"])
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing reviews", `{}`, "reviews is required"},
		{"blank review", `{"reviews":["ok"," "]}`, "non-empty"},
		{"non-string review", `{"reviews":[1,2]}`, "invalid review input: reviews must be strings"},
		{"mixed review types", `{"reviews":["ok",5]}`, "invalid review input"},
		{"negative limit", `{"reviews":["a"],"maxReviews":-1}`, "maxReviews must be at least 0"},
		{"broken json", `{"reviews":`, "invalid JSON body"},
		{"empty body", ``, "request body is required"},
	}

	s := newTestServer(&fakeAcquirer{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody(t, w)["error"], tt.want)
		})
	}
}

func TestAnalyzeEndpointTooManyReviews(t *testing.T) {
	s := newTestServer(&fakeAcquirer{})
	reviews := make([]string, 51)
	for i := range reviews {
		reviews[i] = fmt.Sprintf("review %d", i)
	}
	payload, _ := json.Marshal(map[string]any{"reviews": reviews})

	w := do(t, s, http.MethodPost, "/api/analyze", string(payload))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "exceeds the maximum of 50")
}

func TestScrapeReviewsEndpoint(t *testing.T) {
	acq := &fakeAcquirer{result: cannedResult()}
	s := newTestServer(acq)
	w := do(t, s, http.MethodPost, "/api/scrape-reviews", `{"airbnbUrl":"https://www.airbnb.com/rooms/12345"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://www.airbnb.com/rooms/12345", acq.locator)
	assert.Equal(t, models.DefaultAcquireReviews, acq.limit)
	assert.False(t, acq.gotSink)

	resp := decodeBody(t, w)
	assert.Equal(t, "12345", resp["listingId"])
	assert.Equal(t, "synthetic", resp["tier"])
	assert.Equal(t, float64(6), resp["reviewCount"])
	assert.Equal(t, services.SyntheticNote, resp["note"])
	assert.Contains(t, resp["diagnostic"], "rendered tier failed")
}

func TestScrapeReviewsEndpointValidation(t *testing.T) {
	acq := &fakeAcquirer{result: cannedResult()}
	s := newTestServer(acq)

	w := do(t, s, http.MethodPost, "/api/scrape-reviews", `{"airbnbUrl":"https://example.com/rooms/1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "airbnbUrl must be an Airbnb URL")

	w = do(t, s, http.MethodPost, "/api/scrape-reviews", `{"airbnbUrl":"https://www.airbnb.com/rooms/1","maxReviews":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, acq.calls)
}

func TestScrapeReviewsEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid locator", &airbnb.InvalidLocatorError{Locator: "https://airbnb.com/s/search"}, http.StatusBadRequest},
		{"exhausted", fmt.Errorf("%w: parsed tier failed", airbnb.ErrAllTiersExhausted), http.StatusInternalServerError},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeAcquirer{err: tt.err})
			w := do(t, s, http.MethodPost, "/api/scrape-reviews", `{"airbnbUrl":"https://airbnb.com/s/search"}`)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.err.Error(), decodeBody(t, w)["error"])
		})
	}
}

func TestScrapeAndAnalyzeEndpoint(t *testing.T) {
	acq := &fakeAcquirer{result: cannedResult()}
	s := newTestServer(acq)
	w := do(t, s, http.MethodPost, "/api/scrape-and-analyze", `{"airbnbUrl":"https://www.airbnb.com/rooms/12345","maxReviews":10}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, acq.limit)

	var res models.ScrapeAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 6, res.TotalReviews)
	assert.Equal(t, 5, res.TopReviewsCount)
	assert.Equal(t, "great host, lovely view", res.TopReviews[0])
	assert.Equal(t, "clean", res.TopReviews[1])
	assert.Len(t, res.AllReviews, 6)
	assert.Equal(t, models.TierSynthetic, res.Tier)
}

func TestDebugScrapingEndpoint(t *testing.T) {
	acq := &fakeAcquirer{result: cannedResult(), logLines: []string{"[airbnb] first", "[airbnb] second"}}
	s := newTestServer(acq)
	w := do(t, s, http.MethodPost, "/api/debug-scraping", `{"airbnbUrl":"https://www.airbnb.com/rooms/12345"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, acq.gotSink)
	assert.Equal(t, debugDefaultReviews, acq.limit)

	resp := decodeBody(t, w)
	assert.Equal(t, "12345", resp["listingId"])
	logs, ok := resp["logs"].([]any)
	require.True(t, ok)
	require.Len(t, logs, 2)
	first := logs[0].(map[string]any)
	assert.Equal(t, "info", first["type"])
	assert.Equal(t, "[airbnb] first", first["message"])
}

func TestDebugScrapingEndpointError(t *testing.T) {
	acq := &fakeAcquirer{
		err:      &airbnb.InvalidLocatorError{Locator: "https://airbnb.com/s/x"},
		logLines: []string{"[airbnb] rejected"},
	}
	s := newTestServer(acq)
	w := do(t, s, http.MethodPost, "/api/debug-scraping", `{"airbnbUrl":"https://airbnb.com/s/x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Contains(t, resp["error"], "invalid Airbnb listing locator")
	assert.Len(t, resp["logs"], 1)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	s := newTestServer(&fakeAcquirer{})

	w := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Endpoint not found", decodeBody(t, w)["error"])

	w = do(t, s, http.MethodGet, "/api/analyze", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["error"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeAcquirer{})
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Message: "x"}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&services.InvalidReviewInputError{Index: 0, Reason: "x"}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("wrap: %w", airbnb.ErrInvalidLocator)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(airbnb.ErrAllTiersExhausted))
}
