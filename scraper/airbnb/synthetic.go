package airbnb

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"airbnb-reviews/config"
	"airbnb-reviews/models"
	"airbnb-reviews/utils"
)

// Synthetic metadata used when nothing better is known.
const (
	SyntheticTitle         = "Airbnb Property"
	SyntheticLocationFound = "Location available on site"
	SyntheticLocationNone  = "Location not available"
)

// slotStride spreads consecutive reviews across a slot's options.
const slotStride = 7

var pageTitlePattern = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)<`)

type slot struct {
	name    string
	options []string
}

type reviewTemplate struct {
	text  string
	slots []slot
}

var reviewTemplates = []reviewTemplate{
	{
		text: "Amazing {adjective} with {feature}! The host was {host_quality} and the {amenity} was {quality}. Would definitely {action} again!",
		slots: []slot{
			{"adjective", []string{"place", "property", "location", "stay", "experience"}},
			{"feature", []string{"stunning views", "great amenities", "perfect location", "beautiful surroundings", "excellent facilities"}},
			{"host_quality", []string{"incredibly welcoming", "very helpful", "super responsive", "extremely kind", "wonderfully accommodating"}},
			{"amenity", []string{"location", "cleanliness", "comfort", "atmosphere", "setup"}},
			{"quality", []string{"perfect", "excellent", "outstanding", "fantastic", "amazing"}},
			{"action", []string{"stay", "book", "visit", "recommend this place", "come back"}},
		},
	},
	{
		text: "{quality} property in a {location_type}. Everything was {condition} and {maintenance}. The host provided {service} and the {aspect} exceeded our expectations.",
		slots: []slot{
			{"quality", []string{"Beautiful", "Lovely", "Wonderful", "Perfect", "Excellent"}},
			{"location_type", []string{"great location", "perfect spot", "ideal area", "fantastic neighborhood", "prime location"}},
			{"condition", []string{"clean", "spotless", "immaculate", "pristine", "well-maintained"}},
			{"maintenance", []string{"well-organized", "thoughtfully arranged", "carefully prepared", "professionally managed", "beautifully presented"}},
			{"service", []string{"excellent recommendations", "helpful local tips", "outstanding support", "wonderful hospitality", "great communication"}},
			{"aspect", []string{"overall experience", "attention to detail", "quality of amenities", "level of comfort", "standard of cleanliness"}},
		},
	},
	{
		text: "Had the most {experience} stay! The {space} is {description} and the {feature} was {quality}. {recommendation} for anyone looking for {purpose}.",
		slots: []slot{
			{"experience", []string{"amazing", "wonderful", "fantastic", "incredible", "memorable"}},
			{"space", []string{"place", "property", "accommodation", "home", "space"}},
			{"description", []string{"beautiful", "comfortable", "well-designed", "perfectly located", "thoughtfully decorated"}},
			{"feature", []string{"host", "location", "cleanliness", "comfort", "amenities"}},
			{"quality", []string{"exceptional", "outstanding", "perfect", "excellent", "top-notch"}},
			{"recommendation", []string{"Highly recommend", "Would definitely recommend", "Perfect choice", "Excellent option", "Great pick"}},
			{"purpose", []string{"a relaxing getaway", "a comfortable stay", "a memorable experience", "a perfect vacation", "quality accommodation"}},
		},
	},
}

// SyntheticReviews derives between five and eight template reviews from a
// listing ID. The same ID always yields the same reviews in the same order.
func SyntheticReviews(id string) []string {
	count := 5 + digitsMod(id, 4)
	seen := utils.NewTextSet()
	reviews := make([]string, 0, count)

	for i := 0; i < count; i++ {
		tmpl := reviewTemplates[i%len(reviewTemplates)]
		review := tmpl.text
		var combination strings.Builder

		for _, s := range tmpl.slots {
			n := len(s.options)
			idx := (digitsMod(id, n) + (i*slotStride+len(s.name))%n) % n
			choice := s.options[idx]
			review = strings.Replace(review, "{"+s.name+"}", choice, 1)
			combination.WriteString(choice)
			combination.WriteByte('|')
		}

		if seen.Add(combination.String()) {
			reviews = append(reviews, review)
		}
	}
	return reviews
}

// digitsMod returns the decimal string id modulo m without overflow.
// Non-digit characters are ignored.
func digitsMod(id string, m int) int {
	if m <= 1 {
		return 0
	}
	r := 0
	for _, ch := range id {
		if ch < '0' || ch > '9' {
			continue
		}
		r = (r*10 + int(ch-'0')) % m
	}
	return r
}

// SyntheticStrategy is the last tier. It cannot fail.
type SyntheticStrategy struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
}

// NewSyntheticStrategy creates the synthetic tier.
func NewSyntheticStrategy(cfg *config.Config) *SyntheticStrategy {
	return &SyntheticStrategy{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		timeout:   cfg.HTTPTimeout(),
	}
}

func (s *SyntheticStrategy) Tier() models.Tier { return models.TierSynthetic }

// Acquire generates reviews while making a best-effort fetch of the page title.
func (s *SyntheticStrategy) Acquire(ctx context.Context, ref models.ListingReference, opts AttemptOptions) *Harvest {
	log := opts.logger()
	log.Info("[airbnb] Using synthetic reviews for listing %s", ref.ID)

	harvest := &Harvest{}

	var g errgroup.Group
	g.Go(func() error {
		harvest.Metadata = s.metadata(ctx, ref, log)
		return nil
	})
	g.Go(func() error {
		source := ref.ListingURL(s.baseURL)
		for _, text := range SyntheticReviews(ref.ID) {
			harvest.Reviews = append(harvest.Reviews, models.RawReview{
				Text:      text,
				Tier:      models.TierSynthetic,
				SourceURL: source,
			})
		}
		return nil
	})
	_ = g.Wait()

	return harvest
}

func (s *SyntheticStrategy) metadata(ctx context.Context, ref models.ListingReference, log *utils.Logger) models.ListingMetadata {
	session := newHTTPSession(s.timeout, 0, s.userAgent)
	defer session.close()

	body, err := session.get(ctx, ref.ListingURL(s.baseURL), "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		log.Debug("[airbnb] Title lookup failed: %v", err)
		return models.ListingMetadata{
			Title:    "Airbnb Listing " + ref.ID,
			Location: SyntheticLocationNone,
		}
	}

	return models.ListingMetadata{
		Title:    TitleFromMarkup(string(body)),
		Location: SyntheticLocationFound,
	}
}

// TitleFromMarkup regex-extracts the document title from raw markup.
func TitleFromMarkup(markup string) string {
	m := pageTitlePattern.FindStringSubmatch(markup)
	if m == nil {
		return SyntheticTitle
	}
	if title := CleanPageTitle(m[1]); title != "" {
		return title
	}
	return SyntheticTitle
}
