package airbnb

import (
	"context"
	"fmt"
	"io"
	"strings"

	"airbnb-reviews/config"
	"airbnb-reviews/models"
	"airbnb-reviews/services"
	"airbnb-reviews/utils"
)

// Strategy is one retryable acquisition tier. Attempt may return a harvest
// alongside an error so that metadata from a failed attempt is not lost.
type Strategy interface {
	Tier() models.Tier
	Attempt(ctx context.Context, ref models.ListingReference, opts AttemptOptions) (*Harvest, error)
}

// Fallback is the tier of last resort. It always produces a harvest.
type Fallback interface {
	Tier() models.Tier
	Acquire(ctx context.Context, ref models.ListingReference, opts AttemptOptions) *Harvest
}

// Harvest is what a single tier attempt collected.
type Harvest struct {
	Metadata models.ListingMetadata
	Reviews  []models.RawReview
}

// AttemptOptions are passed to every tier attempt.
type AttemptOptions struct {
	MaxReviews int
	Logger     *utils.Logger
}

func (o AttemptOptions) logger() *utils.Logger {
	if o.Logger == nil {
		return utils.NewLoggerTo(io.Discard)
	}
	return o.Logger
}

// Stage pairs a retryable tier with its retry policy.
type Stage struct {
	Strategy Strategy
	Policy   utils.RetryPolicy
}

// Fetcher runs the acquisition tiers in descending fidelity until one yields reviews.
type Fetcher struct {
	stages    []Stage
	fallback  Fallback
	assembler *services.Assembler
	logger    *utils.Logger
}

// NewFetcher builds the standard tier chain from configuration.
func NewFetcher(cfg *config.Config, logger *utils.Logger) *Fetcher {
	var stages []Stage
	if cfg.RenderedEnabled {
		stages = append(stages, Stage{Strategy: NewRenderedStrategy(cfg), Policy: cfg.RenderedPolicy()})
	} else {
		logger.Info("[airbnb] Rendered tier disabled")
	}
	if cfg.ParsedEnabled {
		stages = append(stages, Stage{Strategy: NewParsedStrategy(cfg), Policy: cfg.ParsedPolicy()})
	} else {
		logger.Info("[airbnb] Parsed tier disabled")
	}
	return NewFetcherWith(stages, NewSyntheticStrategy(cfg), logger)
}

// NewFetcherWith builds a fetcher from explicit stages. A nil fallback
// makes exhaustion of every stage an error.
func NewFetcherWith(stages []Stage, fallback Fallback, logger *utils.Logger) *Fetcher {
	if logger == nil {
		logger = utils.NewLoggerTo(io.Discard)
	}
	return &Fetcher{
		stages:    stages,
		fallback:  fallback,
		assembler: services.NewAssembler(logger),
		logger:    logger,
	}
}

// Acquire resolves the locator and returns reviews from the highest tier that
// produces any. Records are also written to sink when it is non-nil.
func (f *Fetcher) Acquire(ctx context.Context, locator string, maxReviews int, sink *utils.Sink) (*models.AcquisitionResult, error) {
	log := f.logger.WithSink(sink)

	ref, err := ExtractReference(locator)
	if err != nil {
		log.Warn("[airbnb] %v", err)
		return nil, err
	}
	if maxReviews <= 0 {
		maxReviews = models.DefaultAcquireReviews
	}
	log.Info("[airbnb] Acquiring up to %d reviews for listing %s", maxReviews, ref.ID)

	opts := AttemptOptions{MaxReviews: maxReviews, Logger: log}
	retained := models.UnknownMetadata()
	var failures []string

	for _, stage := range f.stages {
		tier := stage.Strategy.Tier()
		log.Info("[airbnb] Trying %s tier", tier)

		var harvest *Harvest
		coordinator := utils.NewRetryCoordinator(stage.Policy, log)
		err := coordinator.Do(ctx, fmt.Sprintf("%s tier", tier), func(ctx context.Context) error {
			h, err := stage.Strategy.Attempt(ctx, ref, opts)
			if h != nil {
				retained = retained.Or(h.Metadata)
			}
			if err != nil {
				return err
			}
			if h == nil || len(h.Reviews) == 0 {
				return ErrNoReviews
			}
			harvest = h
			return nil
		})
		if err == nil {
			log.Info("[airbnb] %s tier returned %d reviews", tier, len(harvest.Reviews))
			return f.assemble(ref, tier, harvest.Metadata.Or(retained), harvest.Reviews, maxReviews, failures), nil
		}

		log.Warn("[airbnb] %s tier exhausted: %v", tier, err)
		failures = append(failures, err.Error())
	}

	if f.fallback == nil {
		log.Error("[airbnb] No tier produced reviews for listing %s", ref.ID)
		return nil, fmt.Errorf("%w: %s", ErrAllTiersExhausted, strings.Join(failures, "; "))
	}

	tier := f.fallback.Tier()
	h := f.fallback.Acquire(ctx, ref, opts)
	if h == nil {
		h = &Harvest{}
	}
	// Anything a real tier resolved beats generated metadata.
	return f.assemble(ref, tier, retained.Or(h.Metadata), h.Reviews, maxReviews, failures), nil
}

func (f *Fetcher) assemble(ref models.ListingReference, tier models.Tier, meta models.ListingMetadata, reviews []models.RawReview, limit int, failures []string) *models.AcquisitionResult {
	return f.assembler.Assemble(services.Assembly{
		Reference:  ref,
		Tier:       tier,
		Metadata:   meta,
		Reviews:    reviews,
		Limit:      limit,
		Diagnostic: strings.Join(failures, "; "),
	})
}
