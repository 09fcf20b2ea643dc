package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"airbnb-reviews/models"
	"airbnb-reviews/utils"
)

// ErrInvalidReviewInput is matched by every InvalidReviewInputError.
var ErrInvalidReviewInput = errors.New("invalid review input")

// InvalidReviewInputError describes why a caller-supplied review set was rejected.
// Index is -1 when the problem is with the set as a whole.
type InvalidReviewInputError struct {
	Index  int
	Reason string
}

func (e *InvalidReviewInputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid review input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid review input at index %d: %s", e.Index, e.Reason)
}

func (e *InvalidReviewInputError) Is(target error) bool {
	return target == ErrInvalidReviewInput
}

// Cleaner validates caller-supplied reviews and tidies acquired ones.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Validate rejects blank entries and sets larger than max. A max of zero
// or less disables the size check.
func (c *Cleaner) Validate(reviews []string, max int) error {
	if max > 0 && len(reviews) > max {
		return &InvalidReviewInputError{
			Index:  -1,
			Reason: fmt.Sprintf("%d reviews exceeds the maximum of %d", len(reviews), max),
		}
	}
	for i, r := range reviews {
		if strings.TrimSpace(r) == "" {
			return &InvalidReviewInputError{Index: i, Reason: "reviews must be non-empty strings"}
		}
	}
	return nil
}

// Clean normalises whitespace and drops blank or repeated reviews,
// keeping first occurrences in order.
func (c *Cleaner) Clean(raw []models.RawReview) []models.RawReview {
	seen := utils.NewTextSet()
	result := make([]models.RawReview, 0, len(raw))

	for _, r := range raw {
		text := NormaliseText(r.Text)
		if text == "" {
			c.logger.Warn("[cleaner] Dropping blank review from %s", r.SourceURL)
			continue
		}
		if !seen.Add(text) {
			c.logger.Debug("[cleaner] Duplicate review skipped")
			continue
		}
		r.Text = text
		result = append(result, r)
	}

	if dropped := len(raw) - len(result); dropped > 0 {
		c.logger.Info("[cleaner] Cleaned %d → %d reviews (dropped %d)", len(raw), len(result), dropped)
	}
	return result
}

// NormaliseText strips leading/trailing whitespace and collapses internal whitespace.
func NormaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
