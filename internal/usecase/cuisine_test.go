package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/macrolens/platescan/internal/domain"
)

func TestLookupCuisine(t *testing.T) {
	tests := []struct {
		hint   string
		wantOK bool
	}{
		{hint: "Malaysian", wantOK: true},
		{hint: "  southeast   ASIAN ", wantOK: true},
		{hint: "thai", wantOK: true},
		{hint: "chinese", wantOK: true},
		{hint: "indonesian", wantOK: true},
		{hint: "italian", wantOK: false},
		{hint: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			cuisine, ok := LookupCuisine(tt.hint)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, "asian", cuisine.Name)
			}
		})
	}
}

func TestCuisine_ExpandQuery(t *testing.T) {
	cuisine, ok := LookupCuisine("asian")
	require.True(t, ok)

	assert.Equal(t,
		"fried rice malaysian OR asian OR southeast OR nasi OR rendang OR satay OR laksa",
		cuisine.ExpandQuery("fried rice"))
	assert.Equal(t, "rice", Cuisine{}.ExpandQuery("rice"))
}

func TestCuisine_Matches(t *testing.T) {
	cuisine, _ := LookupCuisine("asian")

	tests := []struct {
		description string
		want        bool
	}{
		{description: "Rice, fried, Chinese restaurant", want: true},
		{description: "THAI basil chicken", want: true},
		{description: "Nasi lemak, Malaysian style", want: true},
		{description: "Rice, white, cooked", want: false},
		// Query terms alone do not qualify a record
		{description: "Satay sauce", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, cuisine.Matches(tt.description))
		})
	}
}

func TestResolveCuisine_FiltersBeforeBestMatch(t *testing.T) {
	client := NewMockUSDAClient()
	client.foods["Foundation"] = []domain.USDAFood{
		usdaFood(1, "Rice, white, cooked", nutrient("Energy", "KCAL", 130)),
	}
	client.foods["SR Legacy"] = []domain.USDAFood{
		usdaFood(2, "Rice, fried, plain"),
		usdaFood(3, "Rice, fried, Chinese restaurant", nutrient("Energy", "KCAL", 174)),
	}

	r := NewResolver(client, testSources, ResolverConfig{}, zaptest.NewLogger(t))
	cuisine, _ := LookupCuisine("chinese")

	res := r.ResolveCuisine(context.Background(), "fried rice", cuisine, 0)

	assert.Equal(t, domain.ResolutionSuccess, res.Status)
	require.NotNil(t, res.BestMatch)
	assert.Equal(t, "3", res.BestMatch.SourceID)
	assert.Equal(t, "SR Legacy", res.BestMatch.DatabaseName)
	require.Len(t, res.Candidates, 1)

	client.mu.Lock()
	defer client.mu.Unlock()
	require.NotEmpty(t, client.names)
	for _, q := range client.names {
		assert.Equal(t, cuisine.ExpandQuery("fried rice"), q)
	}
}

func TestResolveCuisine_NothingMatches(t *testing.T) {
	client := NewMockUSDAClient()
	client.foods["Foundation"] = []domain.USDAFood{usdaFood(1, "Rice, white, cooked")}

	r := NewResolver(client, testSources, ResolverConfig{}, zaptest.NewLogger(t))
	cuisine, _ := LookupCuisine("thai")

	res := r.ResolveCuisine(context.Background(), "rice", cuisine, 0)

	assert.Equal(t, domain.ResolutionError, res.Status)
	assert.Nil(t, res.BestMatch)
	assert.NotNil(t, res.Candidates)
	assert.Empty(t, res.Candidates)
}

// cuisineStub records which lookup path a guess took.
type cuisineStub struct {
	cuisine domain.Resolution
	plain   domain.Resolution
	calls   []string
}

func (s *cuisineStub) Resolve(ctx context.Context, name string, maxResults int) domain.Resolution {
	s.calls = append(s.calls, "plain:"+name)
	return s.plain
}

func (s *cuisineStub) ResolveCuisine(ctx context.Context, name string, cuisine Cuisine, maxResults int) domain.Resolution {
	s.calls = append(s.calls, "cuisine:"+name)
	return s.cuisine
}

func matchedResolution(id, database string) domain.Resolution {
	match := domain.Candidate{
		SourceID:     id,
		Description:  "match " + id,
		DatabaseName: database,
		Nutrients: domain.NormalizedNutrients{
			Calories: &domain.NutrientValue{Value: 150, Unit: "KCAL"},
		},
	}
	return domain.Resolution{
		Status:     domain.ResolutionSuccess,
		Candidates: []domain.Candidate{match},
		BestMatch:  &match,
	}
}

func TestEnhanceOne_CuisineHints(t *testing.T) {
	noMatch := domain.Resolution{Status: domain.ResolutionError, Candidates: []domain.Candidate{}}

	tests := []struct {
		name      string
		enabled   bool
		hint      string
		cuisine   domain.Resolution
		wantCalls []string
		wantMatch string
	}{
		{
			name:      "hints disabled",
			enabled:   false,
			hint:      "malaysian",
			cuisine:   matchedResolution("c", "SR Legacy"),
			wantCalls: []string{"plain:nasi lemak"},
			wantMatch: "match p",
		},
		{
			name:      "cuisine match wins",
			enabled:   true,
			hint:      "malaysian",
			cuisine:   matchedResolution("c", "SR Legacy"),
			wantCalls: []string{"cuisine:nasi lemak"},
			wantMatch: "match c",
		},
		{
			name:      "falls back to plain lookup",
			enabled:   true,
			hint:      "malaysian",
			cuisine:   noMatch,
			wantCalls: []string{"cuisine:nasi lemak", "plain:nasi lemak"},
			wantMatch: "match p",
		},
		{
			name:      "unknown hint",
			enabled:   true,
			hint:      "italian",
			cuisine:   matchedResolution("c", "SR Legacy"),
			wantCalls: []string{"plain:nasi lemak"},
			wantMatch: "match p",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &cuisineStub{cuisine: tt.cuisine, plain: matchedResolution("p", "Foundation")}
			svc := NewEnhancementService(stub, EnhancementConfig{UseCuisineHints: tt.enabled}, zaptest.NewLogger(t))

			got := svc.EnhanceOne(context.Background(), domain.FoodGuess{
				Name:                 "nasi lemak",
				EstimatedWeightGrams: 200,
				Confidence:           0.8,
				CuisineHint:          tt.hint,
			})

			assert.Equal(t, tt.wantCalls, stub.calls)
			assert.Equal(t, tt.wantMatch, got.DatabaseMatch)
			assert.Equal(t, 300.0, got.TotalCalories)
		})
	}
}

func TestEnhanceOne_CuisineHintWithPlainResolver(t *testing.T) {
	var calls int
	resolver := resolverFunc(func(ctx context.Context, name string, maxResults int) domain.Resolution {
		calls++
		return matchedResolution("p", "Foundation")
	})
	svc := NewEnhancementService(resolver, EnhancementConfig{UseCuisineHints: true}, nil)

	got := svc.EnhanceOne(context.Background(), domain.FoodGuess{Name: "laksa", CuisineHint: "malaysian"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, "USDA Foundation", got.DataSource)
}
