package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"airbnb-reviews/models"
)

var csvHeader = []string{
	"request_id", "listing_id", "property_name", "location", "tier",
	"review_index", "review", "source_url", "acquired_at",
}

// CSVWriter writes acquisition results to a CSV file, one row per review.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteResults appends a row per review. A result without reviews still
// gets one row with an empty review column so the listing is accounted for.
func (c *CSVWriter) WriteResults(results []*models.AcquisitionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range results {
		acquired := r.AcquiredAt.Format(time.RFC3339)
		if len(r.Reviews) == 0 {
			if err := c.writer.Write(row(r, -1, "", "", acquired)); err != nil {
				return fmt.Errorf("csv: write row: %w", err)
			}
			continue
		}
		for i, text := range r.Reviews {
			source := ""
			if i < len(r.RawReviews) {
				source = r.RawReviews[i].SourceURL
			}
			if err := c.writer.Write(row(r, i, text, source, acquired)); err != nil {
				return fmt.Errorf("csv: write row: %w", err)
			}
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

func row(r *models.AcquisitionResult, index int, text, source, acquired string) []string {
	idx := ""
	if index >= 0 {
		idx = strconv.Itoa(index + 1)
	}
	return []string{
		r.RequestID,
		r.ListingID,
		r.PropertyName,
		r.Location,
		string(r.Tier),
		idx,
		text,
		source,
		acquired,
	}
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return c.file.Close()
}
