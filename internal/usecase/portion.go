package usecase

import (
	"math"

	"github.com/macrolens/platescan/internal/domain"
)

const (
	// referenceGrams is the basis all source nutrient values are reported on
	referenceGrams = 100.0

	// defaultCaloriesPer100 stands in for a record without an energy value
	defaultCaloriesPer100 = 200.0
)

// Portion is a record's nutrition scaled to the consumed weight.
type Portion struct {
	CaloriesPer100 float64
	TotalCalories  float64
	Nutrients      domain.MacroNutrients
}

// ScalePortion scales per-100g nutrients to weightGrams, rounding every value
// to one decimal. Missing calories default to 200 per 100g while missing
// macros count as 0.
func ScalePortion(nutrients domain.NormalizedNutrients, weightGrams float64) Portion {
	scale := func(per100 float64) float64 {
		return round1(per100 * weightGrams / referenceGrams)
	}

	caloriesPer100 := round1(valueOr(nutrients.Calories, defaultCaloriesPer100))

	return Portion{
		CaloriesPer100: caloriesPer100,
		TotalCalories:  scale(caloriesPer100),
		Nutrients: domain.MacroNutrients{
			Protein: scale(valueOr(nutrients.Protein, 0)),
			Carbs:   scale(valueOr(nutrients.Carbohydrates, 0)),
			Fat:     scale(valueOr(nutrients.Fat, 0)),
			Fiber:   scale(valueOr(nutrients.Fiber, 0)),
		},
	}
}

func valueOr(v *domain.NutrientValue, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return v.Value
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
