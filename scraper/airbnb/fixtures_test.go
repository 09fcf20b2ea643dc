package airbnb

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"airbnb-reviews/config"
	"airbnb-reviews/utils"
)

const (
	reviewOne   = "We loved our stay here, the place was spotless and the host was kind to us."
	reviewTwo   = "Wonderful little cabin with a great view of the lake and a cozy fireplace."
	reviewThree = "The host left fresh bread for us and the kitchen was clean and well equipped."
)

func quietLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard) }

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		BaseURL:             baseURL,
		UserAgent:           "review-test-agent",
		ChromeBin:           "/nonexistent/chrome-for-tests",
		RenderedEnabled:     true,
		ParsedEnabled:       true,
		RenderedMaxAttempts: 1,
		ParsedMaxAttempts:   1,
		RenderedTimeoutMs:   5000,
		HTTPTimeoutMs:       2000,
	}
}

func listingPage(title, location string) string {
	return fmt.Sprintf(`<html><head><title>%s - Houses for Rent - Airbnb</title></head><body>
<div data-section-id="HERO_DEFAULT"><h1>%s</h1></div>
<div data-section-id="LOCATION_DEFAULT"><button>%s</button></div>
</body></html>`, title, title, location)
}

func reviewsPage(reviews ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div data-section-id="REVIEWS_DEFAULT">`)
	b.WriteString(`<span>4.95 stars · 120 reviews</span><button>Show more</button>`)
	for _, r := range reviews {
		fmt.Fprintf(&b, `<div class="r"><span>%s</span></div>`, r)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// fakeSite serves a listing whose endpoints are configured per test.
type fakeSite struct {
	t       *testing.T
	listing string
	reviews string
	pdp     string

	mu        sync.Mutex
	userAgent string
}

func (f *fakeSite) lastUserAgent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userAgent
}

func (f *fakeSite) serve(id string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/StaysPdpSections", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.userAgent = r.Header.Get("User-Agent")
		f.mu.Unlock()
		if f.pdp == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, f.pdp)
	})
	mux.HandleFunc("/rooms/"+id, func(w http.ResponseWriter, r *http.Request) {
		if f.listing == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, f.listing)
	})
	mux.HandleFunc("/rooms/"+id+"/reviews", func(w http.ResponseWriter, r *http.Request) {
		if f.reviews == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, f.reviews)
	})
	srv := httptest.NewServer(mux)
	f.t.Cleanup(srv.Close)
	return srv
}
