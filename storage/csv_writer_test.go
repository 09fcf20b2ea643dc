package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbnb-reviews/models"
)

func sampleResult() *models.AcquisitionResult {
	return &models.AcquisitionResult{
		RequestID:    "01HZX0000000000000000000AA",
		ListingID:    "123",
		PropertyName: "Loft, with comma",
		Location:     "Paris",
		Reviews:      []string{"first review", "second \"quoted\" review"},
		ReviewCount:  2,
		AcquiredAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Tier:         models.TierParsed,
		RawReviews: []models.RawReview{
			{Text: "first review", SourceURL: "https://www.airbnb.com/rooms/123/reviews"},
			{Text: "second \"quoted\" review", SourceURL: "https://www.airbnb.com/rooms/123"},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriterWritesRowPerReview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reviews.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteResults([]*models.AcquisitionResult{sampleResult()}))
	require.NoError(t, w.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"01HZX0000000000000000000AA", "123", "Loft, with comma", "Paris", "parsed",
		"1", "first review", "https://www.airbnb.com/rooms/123/reviews", "2024-05-01T12:00:00Z",
	}, rows[1])
	assert.Equal(t, "2", rows[2][5])
	assert.Equal(t, "second \"quoted\" review", rows[2][6])
}

func TestCSVWriterEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	empty := &models.AcquisitionResult{ListingID: "9", Tier: models.TierSynthetic, Empty: true}
	require.NoError(t, w.WriteResults([]*models.AcquisitionResult{empty}))
	require.NoError(t, w.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "9", rows[1][1])
	assert.Equal(t, "", rows[1][5])
	assert.Equal(t, "", rows[1][6])
}
