package usecase

import (
	"math"

	"github.com/macrolens/platescan/internal/domain"
)

const (
	// UnknownFoodName names fallback records for guesses without a name
	UnknownFoodName = "Unknown Food"

	fallbackConfidencePenalty = 0.2
	fallbackConfidenceFloor   = 0.3
)

// fallbackNutrients is the per-100g baseline of an average mixed dish.
var fallbackNutrients = domain.NormalizedNutrients{
	Calories:      &domain.NutrientValue{Value: defaultCaloriesPer100, Unit: "KCAL"},
	Protein:       &domain.NutrientValue{Value: 8, Unit: "G"},
	Carbohydrates: &domain.NutrientValue{Value: 30, Unit: "G"},
	Fat:           &domain.NutrientValue{Value: 10, Unit: "G"},
	Fiber:         &domain.NutrientValue{Value: 4, Unit: "G"},
}

// Fallback builds an estimated record for a guess that could not be matched.
// reason, when non-nil, is reported in DebugError.
func Fallback(guess domain.FoodGuess, weightGrams float64, reason error) domain.EnrichedFood {
	name := guess.Name
	if name == "" {
		name = UnknownFoodName
	}

	portion := ScalePortion(fallbackNutrients, weightGrams)

	food := domain.EnrichedFood{
		Name:                 name,
		CaloriesPer100:       portion.CaloriesPer100,
		EstimatedWeightGrams: weightGrams,
		TotalCalories:        portion.TotalCalories,
		Confidence:           FallbackConfidence(guess.Confidence),
		Nutrients:            portion.Nutrients,
		DataSource:           domain.DataSourceEstimated,
		DatabaseMatch:        domain.NoMatchDescription,
		Category:             guess.Category,
		PreparationMethod:    guess.PreparationMethod,
	}
	if reason != nil {
		food.DebugError = reason.Error()
	}
	return food
}

// FallbackConfidence lowers a guess confidence by 0.2, never below 0.3.
func FallbackConfidence(original float64) float64 {
	if math.IsNaN(original) {
		return fallbackConfidenceFloor
	}
	return round2(math.Max(original-fallbackConfidencePenalty, fallbackConfidenceFloor))
}
