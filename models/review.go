package models

import (
	"strings"
	"time"
)

// Tier identifies which acquisition strategy produced a piece of data.
type Tier string

const (
	TierRendered  Tier = "rendered"
	TierParsed    Tier = "parsed"
	TierSynthetic Tier = "synthetic"
)

// Sentinel metadata values used when a field could not be resolved.
const (
	UnknownProperty = "Unknown Property"
	UnknownLocation = "Unknown Location"
)

// ListingReference is a validated listing identifier plus the locator it came from.
type ListingReference struct {
	ID      string
	Locator string
}

// ListingURL returns the main listing page under the given origin.
func (r ListingReference) ListingURL(base string) string {
	return strings.TrimRight(base, "/") + "/rooms/" + r.ID
}

// ReviewsURL returns the dedicated reviews page under the given origin.
func (r ListingReference) ReviewsURL(base string) string {
	return r.ListingURL(base) + "/reviews"
}

// RawReview is one accepted piece of review text and where it came from.
type RawReview struct {
	Text      string `json:"text"`
	Tier      Tier   `json:"tier"`
	SourceURL string `json:"sourceUrl"`
}

// ListingMetadata holds the title and location of a listing.
type ListingMetadata struct {
	Title    string `json:"title"`
	Location string `json:"location"`
}

// UnknownMetadata returns metadata with both fields set to their sentinels.
func UnknownMetadata() ListingMetadata {
	return ListingMetadata{Title: UnknownProperty, Location: UnknownLocation}
}

// HasTitle reports whether the title was actually resolved.
func (m ListingMetadata) HasTitle() bool {
	return m.Title != "" && m.Title != UnknownProperty
}

// HasLocation reports whether the location was actually resolved.
func (m ListingMetadata) HasLocation() bool {
	return m.Location != "" && m.Location != UnknownLocation
}

// Or fills each unresolved field of m from fallback.
func (m ListingMetadata) Or(fallback ListingMetadata) ListingMetadata {
	if !m.HasTitle() && fallback.Title != "" {
		m.Title = fallback.Title
	}
	if !m.HasLocation() && fallback.Location != "" {
		m.Location = fallback.Location
	}
	return m
}

// ScoreBreakdown explains how a review's score was built.
type ScoreBreakdown struct {
	Preview          string   `json:"review"`
	Length           int      `json:"length"`
	LengthScore      int      `json:"lengthScore"`
	PositiveKeywords []string `json:"foundPositiveKeywords"`
	PositiveScore    int      `json:"positiveScore"`
	DetailKeywords   []string `json:"foundDetailKeywords"`
	DetailScore      int      `json:"detailScore"`
	TotalScore       int      `json:"totalScore"`
}

// ScoredReview pairs review text with its heuristic score.
type ScoredReview struct {
	Review    string          `json:"review"`
	Score     int             `json:"score"`
	Breakdown *ScoreBreakdown `json:"breakdown,omitempty"`
}

// AcquisitionResult is everything one acquisition request produced.
type AcquisitionResult struct {
	RequestID    string      `json:"requestId"`
	ListingID    string      `json:"listingId"`
	PropertyName string      `json:"propertyName"`
	Location     string      `json:"location"`
	Reviews      []string    `json:"reviews"`
	ReviewCount  int         `json:"reviewCount"`
	AcquiredAt   time.Time   `json:"acquiredAt"`
	Tier         Tier        `json:"tier"`
	Diagnostic   string      `json:"diagnostic,omitempty"`
	Note         string      `json:"note,omitempty"`
	Empty        bool        `json:"empty,omitempty"`
	RawReviews   []RawReview `json:"-"`
}

// AnalysisResult is the output of scoring-only analysis.
type AnalysisResult struct {
	PropertyName string    `json:"propertyName"`
	TotalReviews int       `json:"totalReviews"`
	TopReviews   []string  `json:"topReviews"`
	AnalyzedAt   time.Time `json:"analyzedAt"`
}

// ScrapeAnalysis combines an acquisition with a top-review selection.
type ScrapeAnalysis struct {
	ListingID       string    `json:"listingId"`
	PropertyName    string    `json:"propertyName"`
	Location        string    `json:"location"`
	AllReviews      []string  `json:"allReviews"`
	TopReviews      []string  `json:"topReviews"`
	TotalReviews    int       `json:"totalReviews"`
	TopReviewsCount int       `json:"topReviewsCount"`
	Tier            Tier      `json:"tier"`
	Diagnostic      string    `json:"diagnostic,omitempty"`
	Note            string    `json:"note,omitempty"`
	AnalyzedAt      time.Time `json:"analyzedAt"`
}
