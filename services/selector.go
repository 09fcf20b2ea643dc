package services

import (
	"sort"

	"airbnb-reviews/models"
)

// Selector orders reviews by score. Equal scores keep their input order.
type Selector struct {
	scorer *Scorer
}

// NewSelector creates a Selector using scorer, or the default scorer when nil.
func NewSelector(scorer *Scorer) *Selector {
	if scorer == nil {
		scorer = NewScorer()
	}
	return &Selector{scorer: scorer}
}

// Rank scores every review and sorts them by descending score.
func (s *Selector) Rank(reviews []string) []models.ScoredReview {
	ranked := make([]models.ScoredReview, len(reviews))
	for i, r := range reviews {
		b := s.scorer.Breakdown(r)
		ranked[i] = models.ScoredReview{Review: r, Score: b.TotalScore, Breakdown: &b}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Select returns the text of the limit highest-scoring reviews.
func (s *Selector) Select(reviews []string, limit int) []string {
	if limit <= 0 || len(reviews) == 0 {
		return []string{}
	}
	ranked := s.Rank(reviews)
	if limit > len(ranked) {
		limit = len(ranked)
	}
	top := make([]string, limit)
	for i := range top {
		top[i] = ranked[i].Review
	}
	return top
}
