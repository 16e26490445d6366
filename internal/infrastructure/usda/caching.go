package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/macrolens/platescan/internal/domain"
)

// CachingClient serves repeated searches from a response cache.
// Only successful responses are cached.
type CachingClient struct {
	next   domain.USDAClient
	cache  domain.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

var _ domain.USDAClient = (*CachingClient)(nil)

// NewCachingClient wraps next with cache. A zero ttl defaults to 30 days.
func NewCachingClient(next domain.USDAClient, cache domain.CacheRepository, ttl time.Duration, logger *zap.Logger) *CachingClient {
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingClient{next: next, cache: cache, ttl: ttl, logger: logger}
}

// SearchFoods returns the cached response for the query when present.
func (c *CachingClient) SearchFoods(ctx context.Context, query string, opts domain.SearchOptions) (*domain.USDASearchResponse, error) {
	key := CacheKey(query, opts)

	if data, err := c.cache.Get(ctx, key); err == nil {
		var cached domain.USDASearchResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			c.logger.Debug("usda cache hit", zap.String("key", key))
			return &cached, nil
		}
		c.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
	}

	resp, err := c.next.SearchFoods(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(resp)
	if err == nil {
		err = c.cache.Set(ctx, key, data, c.ttl)
	}
	if err != nil {
		// Caching failures never fail the lookup
		c.logger.Warn("usda cache write failed", zap.String("key", key), zap.Error(err))
	}

	return resp, nil
}

// CacheKey builds a stable key for a search.
// Format: "usda:{data_type}:{page_size}:{folded_query}"
func CacheKey(query string, opts domain.SearchOptions) string {
	return fmt.Sprintf("usda:%s:%d:%s", strings.ToLower(opts.DataType), opts.PageSize, foldQuery(query))
}

// foldQuery lowercases, strips accents and collapses whitespace so that
// "Crème  Brûlée" and "creme brulee" share a cache entry.
func foldQuery(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(folded), " ")
}
