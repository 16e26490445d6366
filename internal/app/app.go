// Package app wires configuration into the services shared by the HTTP
// server and the command line client.
package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/macrolens/platescan/config"
	"github.com/macrolens/platescan/internal/domain"
	"github.com/macrolens/platescan/internal/infrastructure/cache"
	"github.com/macrolens/platescan/internal/infrastructure/usda"
	"github.com/macrolens/platescan/internal/metrics"
	"github.com/macrolens/platescan/internal/usecase"
)

// Version is reported by the health endpoint and the CLI.
const Version = "1.0.0"

// App holds the wired services.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	USDA     *usda.Client
	Resolver *usecase.Resolver
	Enhancer *usecase.EnhancementService
	Metrics  *metrics.Registry

	closers []io.Closer
}

// New builds every service from cfg.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	responseCache, closer, err := newCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewRegistry(),
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.USDA = usda.NewClient(cfg.USDA.APIKey, cfg.USDA.BaseURL,
		usda.WithHTTPClient(&http.Client{Timeout: cfg.USDA.Timeout}),
		usda.WithRequestsPerHour(cfg.USDA.RequestsPerHour),
		usda.WithLogger(logger.Named("usda")),
	)

	if a.USDA.HasAPIKey() {
		logger.Info("usda api configured", zap.String("base_url", cfg.USDA.BaseURL))
	} else {
		logger.Warn("usda api key not configured, every item will be estimated",
			zap.String("base_url", cfg.USDA.BaseURL))
	}

	var client domain.USDAClient = a.USDA
	if responseCache != nil {
		client = usda.NewCachingClient(a.USDA, responseCache, cfg.Cache.TTL, logger.Named("usda_cache"))
	}
	logger.Info("response cache", zap.String("type", cfg.Cache.Type), zap.Duration("ttl", cfg.Cache.TTL))

	a.Resolver = usecase.NewResolver(client, Sources(cfg), usecase.ResolverConfig{
		Timeout:    cfg.USDA.Timeout,
		MaxResults: cfg.USDA.PageSize,
		Observer:   a.Metrics,
	}, logger)

	a.Enhancer = usecase.NewEnhancementService(a.Resolver, usecase.EnhancementConfig{
		MaxConcurrency:     cfg.Enhancement.MaxConcurrency,
		DefaultWeightGrams: cfg.Enhancement.DefaultWeightGrams,
		UseCuisineHints:    cfg.Enhancement.UseCuisineHints,
	}, logger)

	return a, nil
}

// Close releases the response cache.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Sources converts the configured source table into domain sources.
func Sources(cfg *config.Config) []domain.Source {
	sources := make([]domain.Source, 0, len(cfg.USDA.Sources))
	for _, src := range cfg.USDA.Sources {
		sources = append(sources, domain.Source{
			Name:      src.Name,
			Priority:  src.Priority,
			BaseScore: src.BaseScore,
		})
	}
	return sources
}

func newCache(cfg config.CacheConfig) (domain.CacheRepository, io.Closer, error) {
	switch cfg.Type {
	case "memory":
		c := cache.NewMemoryCache()
		return c, c, nil
	case "sqlite":
		c, err := cache.NewSQLiteCache(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return c, c, nil
	case "none", "":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}
