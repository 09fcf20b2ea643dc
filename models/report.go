package models

// ListingHighlight is the best-scoring review of one listing.
type ListingHighlight struct {
	ListingID    string
	PropertyName string
	Review       string
	Score        int
}

// InsightReport holds analytics over a batch of acquisition results.
type InsightReport struct {
	TotalListings      int
	FailedListings     int
	TotalReviews       int
	AverageReviews     float64
	EmptyResults       int
	ListingsByTier     map[Tier]int
	ListingsByLocation map[string]int
	Highlights         []ListingHighlight
}
