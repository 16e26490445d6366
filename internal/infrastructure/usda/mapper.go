package usda

import (
	"strconv"
	"strings"

	"github.com/macrolens/platescan/internal/domain"
)

// ExtractNutrients classifies a record's free-form nutrient list by name.
// The first matching rule wins for an entry; when several entries map to the
// same nutrient the later entry replaces the earlier one. Unrecognized
// entries are dropped.
func ExtractNutrients(usdaNutrients []domain.USDANutrient) domain.NormalizedNutrients {
	var nutrients domain.NormalizedNutrients

	for _, nutrient := range usdaNutrients {
		value := &domain.NutrientValue{Value: nutrient.Value, Unit: nutrient.UnitName}
		name := strings.ToLower(nutrient.NutrientName)

		switch {
		case strings.Contains(name, "energy") || strings.Contains(name, "calorie"):
			nutrients.Calories = value
		case strings.Contains(name, "protein"):
			nutrients.Protein = value
		case strings.Contains(name, "carbohydrate"):
			nutrients.Carbohydrates = value
		case strings.Contains(name, "total lipid"),
			strings.Contains(name, "fat") && !strings.Contains(name, "sat"):
			nutrients.Fat = value
		case strings.Contains(name, "fiber"):
			nutrients.Fiber = value
		}
	}

	return nutrients
}

// MapToCandidate converts a USDA food into a Candidate attributed to source.
func MapToCandidate(food *domain.USDAFood, source domain.Source, score int) domain.Candidate {
	id := strconv.FormatInt(food.FdcID, 10)

	return domain.Candidate{
		SourceID:         id,
		Description:      food.Description,
		DatabaseName:     source.Name,
		DatabasePriority: source.Priority,
		Nutrients:        ExtractNutrients(food.Nutrients),
		RelevanceScore:   score,
		Identifiers: domain.SourceIdentifiers{
			PrimaryID:   id,
			SecondaryID: secondaryID(food),
		},
	}
}

// secondaryID prefers the barcode for branded foods and the NDB number otherwise.
func secondaryID(food *domain.USDAFood) string {
	if food.GtinUpc != "" {
		return food.GtinUpc
	}
	return food.NdbNumber
}
