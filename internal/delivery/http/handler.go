package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/macrolens/platescan/internal/domain"
	"github.com/macrolens/platescan/internal/logging"
	"github.com/macrolens/platescan/internal/metrics"
	"github.com/macrolens/platescan/internal/usecase"
	"github.com/macrolens/platescan/internal/vision"
)

const (
	maxBatchSize = 50
	maxPageSize  = 50
)

// Enhancer enriches a batch of food guesses
type Enhancer interface {
	Enhance(ctx context.Context, guesses []domain.FoodGuess) []domain.EnrichedFood
}

// MetricsSnapshotter exposes lookup latency snapshots
type MetricsSnapshotter interface {
	Snapshot() map[string]metrics.Snapshot
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	enhancer         Enhancer
	resolver         usecase.SearchResolver
	metrics          MetricsSnapshotter
	apiKeyConfigured bool
	version          string
	logger           *zap.Logger
}

// HandlerDeps groups the services used by Handler. Nil services disable
// their endpoints with 503.
type HandlerDeps struct {
	Enhancer         Enhancer
	Resolver         usecase.SearchResolver
	Metrics          MetricsSnapshotter
	APIKeyConfigured bool
	Version          string
	Logger           *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		enhancer:         deps.Enhancer,
		resolver:         deps.Resolver,
		metrics:          deps.Metrics,
		apiKeyConfigured: deps.APIKeyConfigured,
		version:          version,
		logger:           logger.Named("http"),
	}
}

// EnrichRequest is the body of POST /api/v1/foods/enrich. Exactly one of
// Foods or ModelOutput is expected; ModelOutput wins when both are set.
type EnrichRequest struct {
	Foods       []domain.FoodGuess `json:"foods"`
	ModelOutput string             `json:"modelOutput"`
}

// EnrichResponse is the body returned by the enrich endpoint
type EnrichResponse struct {
	Success bool                  `json:"success"`
	Foods   []domain.EnrichedFood `json:"foods"`
	Summary usecase.BatchSummary  `json:"summary"`
}

// SearchRequest is the body of POST /api/v1/nutrition/search. Cuisine, when
// set, restricts the results to records of that cuisine.
type SearchRequest struct {
	FoodName string `json:"foodName" binding:"required"`
	PageSize int    `json:"pageSize"`
	Cuisine  string `json:"cuisine"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	keyStatus := "missing"
	if h.apiKeyConfigured {
		keyStatus = "configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "platescan",
		"version":    h.version,
		"usdaApiKey": keyStatus,
	})
}

// Metrics returns per-source lookup latency percentiles
func (h *Handler) Metrics(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, gin.H{"sources": gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": h.metrics.Snapshot()})
}

// EnrichFoods attaches nutrition to food guesses or to a raw model answer
func (h *Handler) EnrichFoods(c *gin.Context) {
	if h.enhancer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Enrichment service not configured"})
		return
	}

	var req EnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	guesses := req.Foods
	if req.ModelOutput != "" {
		parsed, err := vision.ParseModelOutput(req.ModelOutput)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		guesses = parsed
	}

	if len(guesses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "foods or modelOutput is required"})
		return
	}
	if len(guesses) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many foods in one request"})
		return
	}

	foods := h.enhancer.Enhance(c.Request.Context(), guesses)
	summary := usecase.Summarize(foods)

	logging.WithContext(c.Request.Context(), h.logger).Info("enriched batch",
		zap.Int("items", summary.Items),
		zap.Int("matched", summary.Matched),
		zap.Int("estimated", summary.Estimated))

	c.JSON(http.StatusOK, EnrichResponse{
		Success: true,
		Foods:   foods,
		Summary: summary,
	})
}

// SearchNutrition handles nutrition search requests
func (h *Handler) SearchNutrition(c *gin.Context) {
	if h.resolver == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Nutrition service not configured"})
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.PageSize < 0 || req.PageSize > maxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error() + ": pageSize out of range"})
		return
	}

	var resolution domain.Resolution
	var cuisineName string
	if req.Cuisine != "" {
		cuisine, ok := usecase.LookupCuisine(req.Cuisine)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrUnknownCuisine.Error() + ": " + req.Cuisine})
			return
		}
		cuisineName = cuisine.Name
		resolution = h.resolver.ResolveCuisine(c.Request.Context(), req.FoodName, cuisine, req.PageSize)
	} else {
		resolution = h.resolver.Resolve(c.Request.Context(), req.FoodName, req.PageSize)
	}

	resp := usecase.NewSearchResult(resolution)
	resp.Cuisine = cuisineName

	if resolution.Status != domain.ResolutionSuccess {
		c.JSON(http.StatusNotFound, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
