package airbnb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"airbnb-reviews/config"
	"airbnb-reviews/models"
	"airbnb-reviews/utils"
)

// reviewPaths are the places structured responses have been seen to keep reviews.
var reviewPaths = []string{
	"reviews",
	"data.reviews",
	"data.listing.reviews",
	`sections.#(sectionId=="REVIEWS_DEFAULT").section.reviews`,
	`pdpSections.#(sectionId=="REVIEWS_DEFAULT").section.reviews`,
}

// reviewTextFields are tried in order on each structured review object.
var reviewTextFields = []string{"comments", "text", "review", "content"}

// ParsedStrategy fetches pages directly and parses the returned markup.
// No script runs, so it only sees server-rendered content.
type ParsedStrategy struct {
	baseURL           string
	userAgent         string
	timeout           time.Duration
	requestsPerSecond float64
}

// NewParsedStrategy creates the direct-HTTP tier.
func NewParsedStrategy(cfg *config.Config) *ParsedStrategy {
	return &ParsedStrategy{
		baseURL:           cfg.BaseURL,
		userAgent:         cfg.UserAgent,
		timeout:           cfg.HTTPTimeout(),
		requestsPerSecond: cfg.RequestsPerSecond,
	}
}

func (p *ParsedStrategy) Tier() models.Tier { return models.TierParsed }

// Attempt runs one parsed acquisition. Metadata and reviews are fetched
// concurrently over a session that is closed before returning.
func (p *ParsedStrategy) Attempt(ctx context.Context, ref models.ListingReference, opts AttemptOptions) (*Harvest, error) {
	log := opts.logger()
	session := newHTTPSession(p.timeout, p.requestsPerSecond, p.userAgent)
	defer session.close()

	harvest := &Harvest{Metadata: models.UnknownMetadata()}

	var g errgroup.Group
	g.Go(func() error {
		harvest.Metadata = p.metadata(ctx, session, ref, log)
		return nil
	})

	var reviews []models.RawReview
	g.Go(func() error {
		var err error
		reviews, err = p.reviews(ctx, session, ref, opts.MaxReviews, log)
		return err
	})

	if err := g.Wait(); err != nil {
		return harvest, err
	}
	harvest.Reviews = reviews
	if len(reviews) == 0 {
		return harvest, ErrNoReviews
	}
	return harvest, nil
}

func (p *ParsedStrategy) metadata(ctx context.Context, s *httpSession, ref models.ListingReference, log *utils.Logger) models.ListingMetadata {
	listingURL := ref.ListingURL(p.baseURL)
	body, err := s.get(ctx, listingURL, "")
	if err != nil {
		log.Warn("[airbnb] Listing info unavailable: %v", err)
		return models.UnknownMetadata()
	}
	doc, err := parseDocument(string(body))
	if err != nil {
		log.Warn("[airbnb] Listing page unparseable: %v", err)
		return models.UnknownMetadata()
	}
	meta := ExtractMetadata(doc)
	log.Debug("[airbnb] Listing info: %q in %q", meta.Title, meta.Location)
	return meta
}

// reviews tries the structured endpoints first and falls back to the
// reviews page, then the listing page.
func (p *ParsedStrategy) reviews(ctx context.Context, s *httpSession, ref models.ListingReference, limit int, log *utils.Logger) ([]models.RawReview, error) {
	for _, endpoint := range p.endpoints(ref, limit) {
		log.Debug("[airbnb] Trying structured endpoint: %s", truncate(endpoint, 100))
		body, err := s.get(ctx, endpoint, "application/json")
		if err != nil {
			log.Debug("[airbnb] Structured endpoint failed: %v", err)
			continue
		}
		c := newCollector(models.TierParsed, limit)
		reviewsFromJSON(body, c, endpoint)
		if len(c.reviews) > 0 {
			log.Info("[airbnb] Structured endpoint returned %d reviews", len(c.reviews))
			return c.reviews, nil
		}
	}

	var lastErr error
	fetched := false
	for _, page := range []string{ref.ReviewsURL(p.baseURL), ref.ListingURL(p.baseURL)} {
		log.Debug("[airbnb] Parsing page: %s", page)
		body, err := s.get(ctx, page, "")
		if err != nil {
			log.Warn("[airbnb] Page fetch failed: %v", err)
			lastErr = err
			continue
		}
		fetched = true
		doc, err := parseDocument(string(body))
		if err != nil {
			lastErr = fmt.Errorf("parse %s: %w", page, err)
			continue
		}
		c := newCollector(models.TierParsed, limit)
		extractReviews(doc, c, page)
		log.Debug("[airbnb] %s yielded %d reviews", page, len(c.reviews))
		if len(c.reviews) > 0 {
			return c.reviews, nil
		}
	}

	if !fetched && lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

// endpoints lists the structured-data URLs tried before markup parsing.
func (p *ParsedStrategy) endpoints(ref models.ListingReference, limit int) []string {
	base := strings.TrimRight(p.baseURL, "/")

	variables, _ := json.Marshal(map[string]any{
		"id": ref.ID,
		"pdpSectionsRequest": map[string]any{
			"adults":     "1",
			"guests":     "1",
			"layout":     "SIDEBAR",
			"preview":    false,
			"sectionIds": []string{"REVIEWS_DEFAULT"},
		},
	})
	pdp := url.Values{}
	pdp.Set("operationName", "StaysPdpSections")
	pdp.Set("locale", "en")
	pdp.Set("currency", "USD")
	pdp.Set("variables", string(variables))

	v2 := url.Values{}
	v2.Set("listing_id", ref.ID)
	v2.Set("role", "all")
	v2.Set("_limit", fmt.Sprint(limit))

	return []string{
		base + "/api/v3/StaysPdpSections?" + pdp.Encode(),
		ref.ListingURL(base) + "/reviews.json",
		base + "/api/v2/reviews?" + v2.Encode(),
	}
}

// reviewsFromJSON pulls review text out of the first known path holding any.
func reviewsFromJSON(body []byte, c *collector, sourceURL string) {
	if !gjson.ValidBytes(body) {
		return
	}
	for _, path := range reviewPaths {
		arr := gjson.GetBytes(body, path)
		if !arr.IsArray() {
			continue
		}
		arr.ForEach(func(_, item gjson.Result) bool {
			for _, field := range reviewTextFields {
				if v := item.Get(field); v.Type == gjson.String {
					c.offer(v.String(), sourceURL)
					break
				}
			}
			return !c.full()
		})
		if len(c.reviews) > 0 {
			return
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
