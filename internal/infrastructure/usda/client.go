package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/macrolens/platescan/internal/domain"
)

const (
	defaultPageSize        = 10
	defaultRequestsPerHour = 1000
	maxErrorBodyBytes      = 512
)

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

var _ domain.USDAClient = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestsPerHour replaces the client-side request budget.
func WithRequestsPerHour(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.rateLimiter = newLimiter(n)
		}
	}
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      strings.TrimSpace(apiKey),
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		rateLimiter: newLimiter(defaultRequestsPerHour),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newLimiter models an hourly key quota: the whole budget may be spent at
// once and refills evenly over the hour. A batch fans out to every source for
// every guess at once.
func newLimiter(perHour int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(perHour)/3600.0), perHour)
}

// HasAPIKey reports whether the client was configured with an API key.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// SearchFoods searches one USDA data type for query. A search with no hits
// returns an empty response, not an error. Failed requests are not retried.
func (c *Client) SearchFoods(ctx context.Context, query string, opts domain.SearchOptions) (*domain.USDASearchResponse, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingAPIKey
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	if opts.DataType != "" {
		params.Add("dataType", opts.DataType)
	}
	params.Add("pageSize", strconv.Itoa(pageSize))
	params.Add("sortBy", "dataType.keyword")
	params.Add("sortOrder", "asc")

	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Warn("usda api error",
			zap.String("data_type", opts.DataType),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("%w: status %d", domain.ErrUSDAAPIFailure, resp.StatusCode)
	}

	var searchResp domain.USDASearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("usda search",
		zap.String("query", query),
		zap.String("data_type", opts.DataType),
		zap.Int("foods", len(searchResp.Foods)),
		zap.Int("total_hits", searchResp.TotalHits))

	return &searchResp, nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PlateScan/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}

	return resp, nil
}
