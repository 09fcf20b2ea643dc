package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"airbnb-reviews/models"
	"airbnb-reviews/utils"
)

// highlightCount caps how many listing highlights a report keeps.
const highlightCount = 5

type InsightService struct {
	logger *utils.Logger
	scorer *Scorer
	out    io.Writer
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger, scorer: NewScorer(), out: os.Stdout}
}

// Generate summarises a batch of results. failed counts locators that
// produced no result at all.
func (s *InsightService) Generate(results []*models.AcquisitionResult, failed int) *models.InsightReport {
	report := &models.InsightReport{
		FailedListings:     failed,
		ListingsByTier:     make(map[models.Tier]int),
		ListingsByLocation: make(map[string]int),
	}

	if len(results) == 0 {
		return report
	}

	report.TotalListings = len(results)

	for _, r := range results {
		report.ListingsByTier[r.Tier]++
		report.TotalReviews += r.ReviewCount
		if r.Empty {
			report.EmptyResults++
		}
		if r.Location != "" && r.Location != models.UnknownLocation {
			report.ListingsByLocation[r.Location]++
		}
		if h, ok := s.highlight(r); ok {
			report.Highlights = append(report.Highlights, h)
		}
	}

	report.AverageReviews = round2(float64(report.TotalReviews) / float64(len(results)))

	sort.SliceStable(report.Highlights, func(i, j int) bool {
		return report.Highlights[i].Score > report.Highlights[j].Score
	})
	if len(report.Highlights) > highlightCount {
		report.Highlights = report.Highlights[:highlightCount]
	}

	s.logger.Info("[insights] Summarised %d results (%d failed)", len(results), failed)
	return report
}

func (s *InsightService) highlight(r *models.AcquisitionResult) (models.ListingHighlight, bool) {
	if len(r.Reviews) == 0 {
		return models.ListingHighlight{}, false
	}
	best, bestScore := "", -1
	for _, review := range r.Reviews {
		if score := s.scorer.Score(review); score > bestScore {
			best, bestScore = review, score
		}
	}
	return models.ListingHighlight{
		ListingID:    r.ListingID,
		PropertyName: r.PropertyName,
		Review:       best,
		Score:        bestScore,
	}, true
}

func (s *InsightService) Print(r *models.InsightReport) {
	w := s.out
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 AIRBNB REVIEW INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings acquired      : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Listings failed        : \033[1m%d\033[0m\n", r.FailedListings)
	fmt.Fprintf(w, "  Reviews collected      : \033[1m%d\033[0m\n", r.TotalReviews)
	fmt.Fprintf(w, "  Average per listing    : \033[1m%.2f\033[0m\n", r.AverageReviews)
	if r.EmptyResults > 0 {
		fmt.Fprintf(w, "  Empty results          : \033[1;31m%d\033[0m\n", r.EmptyResults)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Acquisition Tiers\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, tier := range []models.Tier{models.TierRendered, models.TierParsed, models.TierSynthetic} {
		count := r.ListingsByTier[tier]
		fmt.Fprintf(w, "  %-12s %s (%d)\n", tier, strings.Repeat("█", count), count)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Best Review per Listing\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Highlights) == 0 {
		fmt.Fprintf(w, "  No reviews found\n")
	} else {
		for i, h := range r.Highlights {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%d pts\033[0m\n",
				i+1, truncate(h.PropertyName, 38), h.Score)
			fmt.Fprintf(w, "     %s\n", truncate(h.Review, 70))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Location\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByLocation) == 0 {
		fmt.Fprintf(w, "  No location data\n")
	} else {
		type locCount struct {
			loc   string
			count int
		}
		var locs []locCount
		for loc, cnt := range r.ListingsByLocation {
			locs = append(locs, locCount{loc, cnt})
		}
		sort.Slice(locs, func(i, j int) bool {
			if locs[i].count != locs[j].count {
				return locs[i].count > locs[j].count
			}
			return locs[i].loc < locs[j].loc
		})
		for _, lc := range locs {
			bar := strings.Repeat("█", lc.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(lc.loc, 28), bar, lc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
