package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/macrolens/platescan/internal/domain"
	"github.com/macrolens/platescan/internal/infrastructure/usda"
)

const (
	defaultSourceTimeout = 15 * time.Second
	defaultMaxResults    = 10
)

// LatencyObserver records how long each source query took.
type LatencyObserver interface {
	Observe(source string, elapsed time.Duration)
}

// ResolverConfig holds the read-only lookup settings.
type ResolverConfig struct {
	// Timeout bounds each individual source query
	Timeout time.Duration
	// MaxResults is the page size requested from each source
	MaxResults int
	// Observer is optional
	Observer LatencyObserver
}

// Resolver looks a food name up across every configured source, ranks the
// candidates and selects a best match.
type Resolver struct {
	client     domain.USDAClient
	sources    []domain.Source
	scorer     *RelevanceScorer
	timeout    time.Duration
	maxResults int
	observer   LatencyObserver
	logger     *zap.Logger
}

// sourceResult is the outcome of querying one source.
type sourceResult struct {
	candidates []domain.Candidate
	err        error
}

// NewResolver creates a resolver over sources. Sources are searched, and
// their candidates collected, in ascending Priority order.
func NewResolver(client domain.USDAClient, sources []domain.Source, config ResolverConfig, logger *zap.Logger) *Resolver {
	ordered := append([]domain.Source(nil), sources...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		client:     client,
		sources:    ordered,
		scorer:     NewRelevanceScorer(ordered),
		timeout:    timeout,
		maxResults: maxResults,
		observer:   config.Observer,
		logger:     logger.Named("resolver"),
	}
}

// Sources returns the sources in search order.
func (r *Resolver) Sources() []domain.Source {
	return append([]domain.Source(nil), r.sources...)
}

// Resolve queries all sources concurrently for name. maxResults <= 0 uses the
// configured page size. A failing source contributes no candidates and is
// recorded in SourceErrors. The result has ResolutionError status and no
// BestMatch when no source produced a candidate.
//
// BestMatch is the first record returned by the highest-priority source that
// returned anything, which is not necessarily the top of the ranked list.
func (r *Resolver) Resolve(ctx context.Context, name string, maxResults int) domain.Resolution {
	return r.resolve(ctx, name, maxResults, nil)
}

// ResolveCuisine looks name up with the cuisine's expanded query and keeps
// only the records whose description belongs to the cuisine. Best match
// selection and ranking then run over the kept records as in Resolve.
func (r *Resolver) ResolveCuisine(ctx context.Context, name string, cuisine Cuisine, maxResults int) domain.Resolution {
	return r.resolve(ctx, cuisine.ExpandQuery(name), maxResults, cuisine.Matches)
}

// resolve runs the lookup for name. keep, when set, filters each source's
// records by description before best match selection.
func (r *Resolver) resolve(ctx context.Context, name string, maxResults int, keep func(description string) bool) domain.Resolution {
	if maxResults <= 0 {
		maxResults = r.maxResults
	}

	results := make([]sourceResult, len(r.sources))

	var wg sync.WaitGroup
	for i, src := range r.sources {
		wg.Add(1)
		go func(i int, src domain.Source) {
			defer wg.Done()
			results[i] = r.querySource(ctx, src, name, maxResults)
		}(i, src)
	}
	wg.Wait()

	resolution := domain.Resolution{
		Status:     domain.ResolutionError,
		Candidates: []domain.Candidate{},
	}

	for i, res := range results {
		src := r.sources[i]
		if res.err != nil {
			r.logger.Warn("source lookup failed",
				zap.String("source", src.Name),
				zap.String("query", name),
				zap.Error(res.err))
			resolution.SourceErrors = append(resolution.SourceErrors, domain.SourceError{
				Source: src.Name,
				Err:    fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, res.err),
			})
			continue
		}

		if keep != nil {
			res.candidates = filterCandidates(res.candidates, keep)
		}

		if resolution.BestMatch == nil && len(res.candidates) > 0 {
			best := res.candidates[0]
			resolution.BestMatch = &best
		}
		resolution.Candidates = append(resolution.Candidates, res.candidates...)
	}

	sort.SliceStable(resolution.Candidates, func(i, j int) bool {
		a, b := resolution.Candidates[i], resolution.Candidates[j]
		if a.DatabasePriority != b.DatabasePriority {
			return a.DatabasePriority < b.DatabasePriority
		}
		return a.RelevanceScore > b.RelevanceScore
	})

	if resolution.BestMatch != nil {
		resolution.Status = domain.ResolutionSuccess
	}

	r.logger.Debug("resolved food name",
		zap.String("query", name),
		zap.String("status", string(resolution.Status)),
		zap.Int("candidates", len(resolution.Candidates)),
		zap.Int("failed_sources", len(resolution.SourceErrors)))

	return resolution
}

func filterCandidates(candidates []domain.Candidate, keep func(description string) bool) []domain.Candidate {
	kept := candidates[:0]
	for _, c := range candidates {
		if keep(c.Description) {
			kept = append(kept, c)
		}
	}
	return kept
}

// querySource runs a single bounded source query. Panics are converted into
// errors so that one source can never take down its siblings.
func (r *Resolver) querySource(ctx context.Context, src domain.Source, name string, maxResults int) (result sourceResult) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			result = sourceResult{err: fmt.Errorf("panic: %v", rec)}
		}
		if r.observer != nil {
			r.observer.Observe(src.Name, time.Since(start))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.SearchFoods(ctx, name, domain.SearchOptions{
		DataType: src.Name,
		PageSize: maxResults,
	})
	if errors.Is(err, domain.ErrProductNotFound) {
		return sourceResult{}
	}
	if err != nil {
		return sourceResult{err: err}
	}
	if resp == nil {
		return sourceResult{}
	}

	foods := resp.Foods
	if len(foods) > maxResults {
		foods = foods[:maxResults]
	}

	candidates := make([]domain.Candidate, 0, len(foods))
	for i := range foods {
		food := &foods[i]
		score := r.scorer.Score(food.Description, src.Name)
		candidates = append(candidates, usda.MapToCandidate(food, src, score))
	}

	return sourceResult{candidates: candidates}
}
