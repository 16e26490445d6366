package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/macrolens/platescan/internal/domain"
)

// MockUSDAClient is a mock implementation of domain.USDAClient keyed by data type
type MockUSDAClient struct {
	mu      sync.Mutex
	foods   map[string][]domain.USDAFood
	errs    map[string]error
	panics  map[string]bool
	blocks  map[string]bool
	queries []domain.SearchOptions
	names   []string
}

func NewMockUSDAClient() *MockUSDAClient {
	return &MockUSDAClient{
		foods:  make(map[string][]domain.USDAFood),
		errs:   make(map[string]error),
		panics: make(map[string]bool),
		blocks: make(map[string]bool),
	}
}

func (m *MockUSDAClient) SearchFoods(ctx context.Context, query string, opts domain.SearchOptions) (*domain.USDASearchResponse, error) {
	m.mu.Lock()
	m.queries = append(m.queries, opts)
	m.names = append(m.names, query)
	foods := m.foods[opts.DataType]
	err := m.errs[opts.DataType]
	shouldPanic := m.panics[opts.DataType]
	block := m.blocks[opts.DataType]
	m.mu.Unlock()

	if shouldPanic {
		panic("source exploded")
	}
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return &domain.USDASearchResponse{Foods: foods, TotalHits: len(foods)}, nil
}

func (m *MockUSDAClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

// mockObserver records observed source latencies
type mockObserver struct {
	mu       sync.Mutex
	observed map[string]int
}

func (o *mockObserver) Observe(source string, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.observed == nil {
		o.observed = make(map[string]int)
	}
	o.observed[source]++
}

// resolverFunc adapts a function to FoodResolver
type resolverFunc func(ctx context.Context, name string, maxResults int) domain.Resolution

func (f resolverFunc) Resolve(ctx context.Context, name string, maxResults int) domain.Resolution {
	return f(ctx, name, maxResults)
}

func usdaFood(id int64, description string, nutrients ...domain.USDANutrient) domain.USDAFood {
	return domain.USDAFood{FdcID: id, Description: description, Nutrients: nutrients}
}

func nutrient(name, unit string, value float64) domain.USDANutrient {
	return domain.USDANutrient{NutrientName: name, UnitName: unit, Value: value}
}
