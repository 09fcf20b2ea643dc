package airbnb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"airbnb-reviews/models"
)

func TestIsPlausibleReview(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"real review", reviewOne, true},
		{"another review", reviewTwo, true},
		{"too short", "Lovely stay!", false},
		{"exactly fifty", strings.Repeat("a", 46) + "stay", false},
		{"fifty one", strings.Repeat("a", 47) + "stay", true},
		{"too long", strings.Repeat("a", 1996) + "stay", false},
		{"no cue", "The apartment had a balcony facing the river and two bedrooms upstairs.", false},
		{"cue is case sensitive", "STAY HERE, THE APARTMENT HAD A BALCONY FACING THE RIVER, TWO BEDROOMS.", false},
		{"rating widget", "4.95 stars from our guests who stayed at this place over the summer months", false},
		{"show more", "We had a great time at this place and would come back again. Show more", false},
		{"month prefix", "March 2024 was when we had a great stay here with the whole family again.", false},
		{"counter", "This place has 120 reviews from people who had a great stay in the city.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlausibleReview(tt.text))
		})
	}
}

func TestCollectorDeduplicatesAndLimits(t *testing.T) {
	c := newCollector(models.TierParsed, 2)

	assert.True(t, c.offer("  "+reviewOne+"\n", "u1"))
	assert.False(t, c.offer(reviewOne, "u2"), "duplicate after normalisation")
	assert.False(t, c.offer("too short", "u2"))
	assert.True(t, c.offer(reviewTwo, "u2"))
	assert.True(t, c.full())
	assert.False(t, c.offer(reviewThree, "u3"), "limit reached")

	assert.Len(t, c.reviews, 2)
	assert.Equal(t, reviewOne, c.reviews[0].Text)
	assert.Equal(t, models.TierParsed, c.reviews[0].Tier)
	assert.Equal(t, "u1", c.reviews[0].SourceURL)
}

func TestCollectorWithoutLimit(t *testing.T) {
	c := newCollector(models.TierRendered, 0)
	c.offer(reviewOne, "")
	c.offer(reviewTwo, "")
	c.offer(reviewThree, "")
	assert.False(t, c.full())
	assert.Len(t, c.reviews, 3)
}
