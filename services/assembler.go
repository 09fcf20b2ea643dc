package services

import (
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"airbnb-reviews/models"
	"airbnb-reviews/utils"
)

// SyntheticNote is attached to results whose reviews were generated.
const SyntheticNote = "Enhanced mock data generated due to scraping limitations"

// Assembly is the input to Assemble.
type Assembly struct {
	Reference  models.ListingReference
	Tier       models.Tier
	Metadata   models.ListingMetadata
	Reviews    []models.RawReview
	Limit      int
	Diagnostic string
}

// Assembler builds the result record returned to callers.
type Assembler struct {
	cleaner *Cleaner
	now     func() time.Time
}

// NewAssembler creates an Assembler. A nil logger discards cleaner output.
func NewAssembler(logger *utils.Logger) *Assembler {
	if logger == nil {
		logger = utils.NewLoggerTo(io.Discard)
	}
	return &Assembler{cleaner: NewCleaner(logger), now: time.Now}
}

// Assemble merges metadata, reviews and provenance. When no review survives
// the result is marked Empty instead of being padded.
func (a *Assembler) Assemble(in Assembly) *models.AcquisitionResult {
	meta := in.Metadata.Or(models.UnknownMetadata())
	reviews := a.cleaner.Clean(in.Reviews)
	if in.Limit > 0 && len(reviews) > in.Limit {
		reviews = reviews[:in.Limit]
	}

	texts := make([]string, len(reviews))
	for i, r := range reviews {
		texts[i] = r.Text
	}

	res := &models.AcquisitionResult{
		RequestID:    ulid.Make().String(),
		ListingID:    in.Reference.ID,
		PropertyName: meta.Title,
		Location:     meta.Location,
		Reviews:      texts,
		ReviewCount:  len(texts),
		AcquiredAt:   a.now().UTC(),
		Tier:         in.Tier,
		Diagnostic:   in.Diagnostic,
		Empty:        len(texts) == 0,
		RawReviews:   reviews,
	}
	if in.Tier == models.TierSynthetic {
		res.Note = SyntheticNote
	}
	return res
}
