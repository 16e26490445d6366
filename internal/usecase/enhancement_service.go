package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/macrolens/platescan/internal/domain"
)

// FoodResolver finds nutrition candidates for a food name.
type FoodResolver interface {
	Resolve(ctx context.Context, name string, maxResults int) domain.Resolution
}

// CuisineResolver finds candidates restricted to one cuisine.
type CuisineResolver interface {
	ResolveCuisine(ctx context.Context, name string, cuisine Cuisine, maxResults int) domain.Resolution
}

// SearchResolver serves both plain and cuisine-filtered searches.
type SearchResolver interface {
	FoodResolver
	CuisineResolver
}

var _ SearchResolver = (*Resolver)(nil)

// EnhancementConfig holds configuration for the enhancement service
type EnhancementConfig struct {
	MaxConcurrency     int
	DefaultWeightGrams float64
	// UseCuisineHints tries a cuisine-filtered lookup first for guesses
	// carrying a known cuisine hint. The plain lookup runs when it finds nothing.
	UseCuisineHints bool
}

// EnhancementService turns food guesses into enriched nutrition records.
type EnhancementService struct {
	resolver        FoodResolver
	maxConcurrency  int
	defaultWeight   float64
	useCuisineHints bool
	logger          *zap.Logger
}

// NewEnhancementService creates a new enhancement service with dependencies
func NewEnhancementService(resolver FoodResolver, config EnhancementConfig, logger *zap.Logger) *EnhancementService {
	maxConcurrency := config.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	defaultWeight := config.DefaultWeightGrams
	if defaultWeight <= 0 {
		defaultWeight = referenceGrams
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &EnhancementService{
		resolver:        resolver,
		maxConcurrency:  maxConcurrency,
		defaultWeight:   defaultWeight,
		useCuisineHints: config.UseCuisineHints,
		logger:          logger.Named("enhancer"),
	}
}

// Enhance enriches every guess and returns one record per guess in input
// order. It never fails: guesses that cannot be matched, or whose processing
// panics, come back as estimated records.
func (s *EnhancementService) Enhance(ctx context.Context, guesses []domain.FoodGuess) []domain.EnrichedFood {
	results := make([]domain.EnrichedFood, len(guesses))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for i, guess := range guesses {
		g.Go(func() error {
			results[i] = s.EnhanceOne(ctx, guess)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// EnhanceOne enriches a single guess.
func (s *EnhancementService) EnhanceOne(ctx context.Context, guess domain.FoodGuess) (result domain.EnrichedFood) {
	weight := guess.EstimatedWeightGrams
	if !(weight > 0) {
		weight = s.defaultWeight
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered panic while enriching item",
				zap.String("name", guess.Name),
				zap.Any("panic", r))
			result = Fallback(guess, weight, fmt.Errorf("%w: %v", domain.ErrItemProcessing, r))
		}
	}()

	if guess.Name == "" {
		return s.fallback(guess, weight, domain.ErrMalformedGuess)
	}

	resolution := s.resolve(ctx, guess)
	if resolution.Status != domain.ResolutionSuccess || resolution.BestMatch == nil {
		return s.fallback(guess, weight, noMatchReason(resolution))
	}

	return buildEnrichedFood(guess, weight, resolution.BestMatch)
}

// resolve looks the guess up, by cuisine first when hints are enabled.
func (s *EnhancementService) resolve(ctx context.Context, guess domain.FoodGuess) domain.Resolution {
	if s.useCuisineHints && guess.CuisineHint != "" {
		cuisineResolver, canFilter := s.resolver.(CuisineResolver)
		cuisine, known := LookupCuisine(guess.CuisineHint)
		if canFilter && known {
			resolution := cuisineResolver.ResolveCuisine(ctx, guess.Name, cuisine, 0)
			if resolution.Status == domain.ResolutionSuccess {
				return resolution
			}
			s.logger.Debug("no cuisine match, using plain lookup",
				zap.String("name", guess.Name),
				zap.String("cuisine", cuisine.Name))
		}
	}
	return s.resolver.Resolve(ctx, guess.Name, 0)
}

func (s *EnhancementService) fallback(guess domain.FoodGuess, weight float64, reason error) domain.EnrichedFood {
	s.logger.Info("using estimated nutrition",
		zap.String("name", guess.Name),
		zap.Error(reason))
	return Fallback(guess, weight, reason)
}

// noMatchReason explains an unsuccessful resolution, naming the first failed
// source when there was one.
func noMatchReason(resolution domain.Resolution) error {
	if len(resolution.SourceErrors) == 0 {
		return domain.ErrNoMatchFound
	}
	return fmt.Errorf("%w: %w", domain.ErrNoMatchFound, resolution.SourceErrors[0])
}

func buildEnrichedFood(guess domain.FoodGuess, weight float64, match *domain.Candidate) domain.EnrichedFood {
	portion := ScalePortion(match.Nutrients, weight)
	identifiers := match.Identifiers

	return domain.EnrichedFood{
		Name:                 guess.Name,
		CaloriesPer100:       portion.CaloriesPer100,
		EstimatedWeightGrams: weight,
		TotalCalories:        portion.TotalCalories,
		Confidence:           guess.Confidence,
		Nutrients:            portion.Nutrients,
		DataSource:           "USDA " + match.DatabaseName,
		DatabaseMatch:        match.Description,
		SourceIdentifiers:    &identifiers,
		Category:             guess.Category,
		PreparationMethod:    guess.PreparationMethod,
	}
}

// BatchSummary aggregates an enriched batch.
type BatchSummary struct {
	Items         int     `json:"items"`
	Matched       int     `json:"matched"`
	Estimated     int     `json:"estimated"`
	TotalCalories float64 `json:"totalCalories"`
}

// Summarize counts matched and estimated records and totals their calories.
func Summarize(foods []domain.EnrichedFood) BatchSummary {
	summary := BatchSummary{Items: len(foods)}
	var total float64
	for _, food := range foods {
		if food.IsEstimated() {
			summary.Estimated++
		} else {
			summary.Matched++
		}
		total += food.TotalCalories
	}
	summary.TotalCalories = round1(total)
	return summary
}
