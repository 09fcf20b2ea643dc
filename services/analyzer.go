package services

import (
	"time"

	"airbnb-reviews/models"
	"airbnb-reviews/utils"
)

// DefaultScrapeTopReviews is how many reviews scrape-and-analyze keeps.
const DefaultScrapeTopReviews = 5

// Analyzer picks the best reviews out of a set.
type Analyzer struct {
	cleaner  *Cleaner
	selector *Selector
	maxInput int
	logger   *utils.Logger
}

// NewAnalyzer creates an Analyzer that rejects sets larger than maxInput.
func NewAnalyzer(maxInput int, logger *utils.Logger) *Analyzer {
	return &Analyzer{
		cleaner:  NewCleaner(logger),
		selector: NewSelector(NewScorer()),
		maxInput: maxInput,
		logger:   logger,
	}
}

// Analyze validates reviews and returns the limit best of them.
func (a *Analyzer) Analyze(reviews []string, limit int, propertyName string) (*models.AnalysisResult, error) {
	if propertyName == "" {
		propertyName = models.UnknownProperty
	}
	if limit < 0 {
		return nil, &InvalidReviewInputError{Index: -1, Reason: "maxReviews must not be negative"}
	}
	if err := a.cleaner.Validate(reviews, a.maxInput); err != nil {
		return nil, err
	}

	top := a.selector.Select(reviews, limit)
	a.logger.Info("[analyzer] Selected %d of %d reviews for %q", len(top), len(reviews), propertyName)

	return &models.AnalysisResult{
		PropertyName: propertyName,
		TotalReviews: len(reviews),
		TopReviews:   top,
		AnalyzedAt:   time.Now().UTC(),
	}, nil
}

// RankAll returns every review with its score and breakdown, best first.
func (a *Analyzer) RankAll(reviews []string) ([]models.ScoredReview, error) {
	if err := a.cleaner.Validate(reviews, a.maxInput); err != nil {
		return nil, err
	}
	return a.selector.Rank(reviews), nil
}

// ScrapeAnalysis selects the top reviews of an acquisition result.
func (a *Analyzer) ScrapeAnalysis(res *models.AcquisitionResult, top int) *models.ScrapeAnalysis {
	if top <= 0 {
		top = DefaultScrapeTopReviews
	}
	selected := a.selector.Select(res.Reviews, top)

	return &models.ScrapeAnalysis{
		ListingID:       res.ListingID,
		PropertyName:    res.PropertyName,
		Location:        res.Location,
		AllReviews:      res.Reviews,
		TopReviews:      selected,
		TotalReviews:    len(res.Reviews),
		TopReviewsCount: len(selected),
		Tier:            res.Tier,
		Diagnostic:      res.Diagnostic,
		Note:            res.Note,
		AnalyzedAt:      time.Now().UTC(),
	}
}
