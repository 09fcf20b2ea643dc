package services

import (
	"strings"
	"unicode/utf8"

	"airbnb-reviews/models"
)

// PositiveKeywords are sentiment-positive terms worth 2 points each.
var PositiveKeywords = []string{
	"amazing", "excellent", "perfect", "wonderful", "fantastic", "great", "love", "loved",
	"beautiful", "clean", "comfortable", "recommend", "highly recommend", "best",
	"awesome", "incredible", "outstanding", "superb", "brilliant", "lovely",
	"enjoyed", "spotless", "helpful", "friendly", "welcoming",
}

// DetailKeywords are amenity and experience nouns worth 1 point each.
var DetailKeywords = []string{
	"hot tub", "location", "host", "cabin", "view", "kitchen", "bathroom",
	"bed", "shower", "wifi", "parking", "garden", "breakfast", "restaurant",
}

// Points per rule.
const (
	PreferredLengthScore  = 10
	AcceptableLengthScore = 5
	PositiveKeywordScore  = 2
	DetailKeywordScore    = 1
)

const previewLength = 100

// Scorer rates review text by length and keyword coverage. It is pure
// and safe for concurrent use.
type Scorer struct {
	positive []string
	detail   []string
}

// NewScorer returns a Scorer with the default keyword sets.
func NewScorer() *Scorer {
	return NewScorerWith(PositiveKeywords, DetailKeywords)
}

// NewScorerWith returns a Scorer with custom keyword sets. Keywords are
// lowercased and each distinct term counts once.
func NewScorerWith(positive, detail []string) *Scorer {
	return &Scorer{positive: distinctLower(positive), detail: distinctLower(detail)}
}

// Score returns the total score of text. It is never negative.
func (s *Scorer) Score(text string) int {
	lower := strings.ToLower(text)
	return LengthScore(utf8.RuneCountInString(text)) +
		len(matches(lower, s.positive))*PositiveKeywordScore +
		len(matches(lower, s.detail))*DetailKeywordScore
}

// Breakdown explains each rule's contribution to the score of text.
func (s *Scorer) Breakdown(text string) models.ScoreBreakdown {
	lower := strings.ToLower(text)
	length := utf8.RuneCountInString(text)
	positive := matches(lower, s.positive)
	detail := matches(lower, s.detail)

	b := models.ScoreBreakdown{
		Preview:          preview(text),
		Length:           length,
		LengthScore:      LengthScore(length),
		PositiveKeywords: positive,
		PositiveScore:    len(positive) * PositiveKeywordScore,
		DetailKeywords:   detail,
		DetailScore:      len(detail) * DetailKeywordScore,
	}
	b.TotalScore = b.LengthScore + b.PositiveScore + b.DetailScore
	return b
}

// LengthScore rewards reviews of 100 to 800 characters most, and those of
// 50 to 1000 somewhat.
func LengthScore(n int) int {
	switch {
	case n >= 100 && n <= 800:
		return PreferredLengthScore
	case n >= 50 && n <= 1000:
		return AcceptableLengthScore
	default:
		return 0
	}
}

func matches(lower string, keywords []string) []string {
	found := make([]string, 0)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			found = append(found, k)
		}
	}
	return found
}

func distinctLower(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	return string([]rune(text)[:previewLength]) + "..."
}
