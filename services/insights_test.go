package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-reviews/models"
)

func sampleResults() []*models.AcquisitionResult {
	return []*models.AcquisitionResult{
		{ListingID: "1", PropertyName: "Villa A", Location: "Bangkok", Tier: models.TierRendered,
			Reviews: []string{"ok", "great host, lovely view"}, ReviewCount: 2},
		{ListingID: "2", PropertyName: "Studio B", Location: "Bangkok", Tier: models.TierParsed,
			Reviews: []string{"clean"}, ReviewCount: 1},
		{ListingID: "3", PropertyName: "Loft C", Location: "Tokyo", Tier: models.TierSynthetic,
			Reviews: []string{"a", "b", "c", "d", "e", "f"}, ReviewCount: 6},
		{ListingID: "4", PropertyName: models.UnknownProperty, Location: models.UnknownLocation,
			Tier: models.TierSynthetic, Reviews: []string{}, Empty: true},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleResults(), 1)
	if r.TotalListings != 4 {
		t.Errorf("TotalListings: got %d, want 4", r.TotalListings)
	}
	if r.FailedListings != 1 {
		t.Errorf("FailedListings: got %d, want 1", r.FailedListings)
	}
	if r.TotalReviews != 9 {
		t.Errorf("TotalReviews: got %d, want 9", r.TotalReviews)
	}
	if r.AverageReviews != 2.25 {
		t.Errorf("AverageReviews: got %.2f, want 2.25", r.AverageReviews)
	}
	if r.EmptyResults != 1 {
		t.Errorf("EmptyResults: got %d, want 1", r.EmptyResults)
	}
}

func TestInsightTierAndLocationGrouping(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleResults(), 0)
	assert.Equal(t, 1, r.ListingsByTier[models.TierRendered])
	assert.Equal(t, 1, r.ListingsByTier[models.TierParsed])
	assert.Equal(t, 2, r.ListingsByTier[models.TierSynthetic])
	assert.Equal(t, 2, r.ListingsByLocation["Bangkok"])
	assert.Equal(t, 1, r.ListingsByLocation["Tokyo"])
	assert.NotContains(t, r.ListingsByLocation, models.UnknownLocation)
}

func TestInsightHighlights(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleResults(), 0)
	require.Len(t, r.Highlights, 3)
	assert.Equal(t, "1", r.Highlights[0].ListingID)
	assert.Equal(t, "great host, lovely view", r.Highlights[0].Review)
	assert.Equal(t, 8, r.Highlights[0].Score)
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil, 0)
	if r.TotalListings != 0 {
		t.Errorf("expected 0 total listings for empty input")
	}
}

func TestInsightPrint(t *testing.T) {
	var buf bytes.Buffer
	svc := NewInsightService(newTestLogger())
	svc.out = &buf
	svc.Print(svc.Generate(sampleResults(), 0))

	out := buf.String()
	assert.Contains(t, out, "AIRBNB REVIEW INSIGHTS")
	assert.Contains(t, out, "Villa A")
	assert.Contains(t, out, "Bangkok")
}
