package airbnb

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"airbnb-reviews/config"
	"airbnb-reviews/models"
	"airbnb-reviews/utils"
)

// RenderedStrategy drives a headless browser so deferred content gets a
// chance to load before extraction.
type RenderedStrategy struct {
	baseURL       string
	userAgent     string
	chromeBin     string
	pageTimeout   time.Duration
	sectionWait   time.Duration
	scrollPauses  []time.Duration
	allocatorOpts func() []chromedp.ExecAllocatorOption
}

// NewRenderedStrategy creates the browser tier.
func NewRenderedStrategy(cfg *config.Config) *RenderedStrategy {
	r := &RenderedStrategy{
		baseURL:      cfg.BaseURL,
		userAgent:    cfg.UserAgent,
		chromeBin:    cfg.ChromeBin,
		pageTimeout:  time.Duration(cfg.RenderedTimeoutMs) * time.Millisecond,
		sectionWait:  10 * time.Second,
		scrollPauses: []time.Duration{3 * time.Second, 2 * time.Second},
	}
	r.allocatorOpts = r.defaultAllocatorOptions
	return r
}

func (r *RenderedStrategy) Tier() models.Tier { return models.TierRendered }

// Attempt launches a browser, renders the listing and reviews pages in two
// concurrent tabs and extracts from the rendered markup. The browser is torn
// down before Attempt returns, whatever the outcome.
func (r *RenderedStrategy) Attempt(ctx context.Context, ref models.ListingReference, opts AttemptOptions) (*Harvest, error) {
	log := opts.logger()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOpts()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	log.Debug("[airbnb] Browser session started for listing %s", ref.ID)

	harvest := &Harvest{Metadata: models.UnknownMetadata()}

	var g errgroup.Group
	g.Go(func() error {
		harvest.Metadata = r.metadata(browserCtx, ref, log)
		return nil
	})

	var reviews []models.RawReview
	g.Go(func() error {
		var err error
		reviews, err = r.reviews(browserCtx, ref, opts.MaxReviews, log)
		return err
	})

	if err := g.Wait(); err != nil {
		return harvest, err
	}
	harvest.Reviews = reviews
	if len(reviews) == 0 {
		return harvest, ErrNoReviews
	}
	return harvest, nil
}

func (r *RenderedStrategy) metadata(browserCtx context.Context, ref models.ListingReference, log *utils.Logger) models.ListingMetadata {
	markup, err := r.render(browserCtx, ref.ListingURL(r.baseURL), false)
	if err != nil {
		log.Warn("[airbnb] Rendered listing page failed: %v", err)
		return models.UnknownMetadata()
	}
	doc, err := parseDocument(markup)
	if err != nil {
		return models.UnknownMetadata()
	}
	return ExtractMetadata(doc)
}

func (r *RenderedStrategy) reviews(browserCtx context.Context, ref models.ListingReference, limit int, log *utils.Logger) ([]models.RawReview, error) {
	page := ref.ReviewsURL(r.baseURL)
	markup, err := r.render(browserCtx, page, true)
	if err != nil {
		return nil, fmt.Errorf("render reviews page: %w", err)
	}
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, fmt.Errorf("parse rendered reviews page: %w", err)
	}

	if !hasReviewsSection(doc) {
		log.Debug("[airbnb] Reviews section not present on rendered page")
	}

	c := newCollector(models.TierRendered, limit)
	extractReviews(doc, c, page)
	log.Info("[airbnb] Rendered page yielded %d reviews", len(c.reviews))
	return c.reviews, nil
}

// render opens url in a new tab and returns the document markup. With
// scroll set it waits for the reviews section and scrolls to the bottom
// to trigger lazy loading.
func (r *RenderedStrategy) render(browserCtx context.Context, url string, scroll bool) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	if r.pageTimeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, r.pageTimeout)
		defer cancel()
	}

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if scroll {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			waitCtx, cancel := context.WithTimeout(ctx, r.sectionWait)
			defer cancel()
			// Missing section is not fatal; the broader selectors still run.
			_ = chromedp.WaitVisible(reviewsSection, chromedp.ByQuery).Do(waitCtx)
			return nil
		}))
		for _, pause := range r.scrollPauses {
			actions = append(actions,
				chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
				chromedp.Sleep(pause),
			)
		}
	}

	var markup string
	actions = append(actions, chromedp.OuterHTML("html", &markup))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", err
	}
	return markup, nil
}

func (r *RenderedStrategy) defaultAllocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-zygote", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.UserAgent(r.userAgent),
	)
	if bin := findChromeBinary(r.chromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}
	return opts
}
