package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestAcquireRequestValidate(t *testing.T) {
	tests := []struct {
		name  string
		req   AcquireRequest
		field string
	}{
		{"valid", AcquireRequest{Locator: "https://www.airbnb.com/rooms/1"}, ""},
		{"valid with limit", AcquireRequest{Locator: "https://airbnb.com/rooms/1", MaxReviews: intPtr(100)}, ""},
		{"missing locator", AcquireRequest{}, "airbnbUrl"},
		{"other site", AcquireRequest{Locator: "https://example.com/rooms/1"}, "airbnbUrl"},
		{"zero limit", AcquireRequest{Locator: "https://airbnb.com/rooms/1", MaxReviews: intPtr(0)}, "maxReviews"},
		{"limit too high", AcquireRequest{Locator: "https://airbnb.com/rooms/1", MaxReviews: intPtr(101)}, "maxReviews"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestAnalyzeRequestValidate(t *testing.T) {
	assert.NoError(t, (&AnalyzeRequest{Reviews: []string{}}).Validate())
	assert.NoError(t, (&AnalyzeRequest{Reviews: []string{"a"}, MaxReviews: intPtr(0)}).Validate())
	assert.Error(t, (&AnalyzeRequest{}).Validate())
	assert.Error(t, (&AnalyzeRequest{Reviews: []string{"a"}, MaxReviews: intPtr(-1)}).Validate())
}

func TestRequestLimits(t *testing.T) {
	assert.Equal(t, DefaultAcquireReviews, (&AcquireRequest{}).Limit())
	assert.Equal(t, 7, (&AcquireRequest{MaxReviews: intPtr(7)}).Limit())
	assert.Equal(t, DefaultAnalyzeReviews, (&AnalyzeRequest{}).Limit())
	assert.Equal(t, 0, (&AnalyzeRequest{MaxReviews: intPtr(0)}).Limit())
}
