package airbnb

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"airbnb-reviews/models"
	"airbnb-reviews/services"
	"airbnb-reviews/utils"
)

// Acceptance band for candidate review text, exclusive on both ends.
const (
	MinReviewLength = 50
	MaxReviewLength = 2000
)

// reviewCues are words at least one of which shows up in nearly every real review.
var reviewCues = []string{
	"stay", "place", "host", "recommend", "beautiful", "perfect",
	"amazing", "lovely", "great", "clean", "comfortable", "enjoyed",
	"nice", "good", "excellent", "wonderful",
}

// noiseMarkers identify rating widgets, counters and navigation controls.
var noiseMarkers = []string{
	"stars", "rating", "Show more", "Show less", "reviews", "guests",
}

var (
	bareNumber  = regexp.MustCompile(`^\d+$`)
	monthPrefix = regexp.MustCompile(`^(January|February|March|April|May|June|July|August|September|October|November|December)`)
)

// IsPlausibleReview applies the length band and the lexical filters to one text.
func IsPlausibleReview(text string) bool {
	n := utf8.RuneCountInString(text)
	if n <= MinReviewLength || n >= MaxReviewLength {
		return false
	}
	if !containsAny(text, reviewCues) {
		return false
	}
	if containsAny(text, noiseMarkers) {
		return false
	}
	return !bareNumber.MatchString(text) && !monthPrefix.MatchString(text)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// collector accumulates accepted reviews for one tier attempt,
// dropping exact duplicates and stopping at the limit.
type collector struct {
	tier    models.Tier
	limit   int
	seen    *utils.TextSet
	reviews []models.RawReview
}

func newCollector(tier models.Tier, limit int) *collector {
	return &collector{tier: tier, limit: limit, seen: utils.NewTextSet()}
}

// offer considers one candidate text and reports whether it was accepted.
func (c *collector) offer(raw, sourceURL string) bool {
	if c.full() {
		return false
	}
	text := services.NormaliseText(raw)
	if !IsPlausibleReview(text) || !c.seen.Add(text) {
		return false
	}
	c.reviews = append(c.reviews, models.RawReview{Text: text, Tier: c.tier, SourceURL: sourceURL})
	return true
}

func (c *collector) full() bool {
	return c.limit > 0 && len(c.reviews) >= c.limit
}
