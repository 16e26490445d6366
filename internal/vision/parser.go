// Package vision turns the free-text answer of the image classifier into
// food guesses.
package vision

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/macrolens/platescan/internal/domain"
)

var (
	openingFence  = regexp.MustCompile("```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("```\\s*$")
)

// modelItem is one element of the classifier's JSON array.
type modelItem struct {
	Name                 *string  `json:"name"`
	EstimatedWeightGrams *float64 `json:"estimated_weight_grams"`
	Confidence           *float64 `json:"confidence"`
	CuisineHint          string   `json:"cuisine_hint"`
	PreparationMethod    string   `json:"preparation_method"`
	Category             string   `json:"category"`
}

// ParseModelOutput extracts the outermost JSON array from text, which may be
// wrapped in markdown fences or prose, and converts its valid items into
// guesses. Items without a name or with non-numeric weight or confidence are
// skipped. It returns ErrNoFoodsFound when no item survives.
func ParseModelOutput(text string) ([]domain.FoodGuess, error) {
	cleaned := openingFence.ReplaceAllString(text, "")
	cleaned = trailingFence.ReplaceAllString(cleaned, "")

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON array in model output", domain.ErrNoFoodsFound)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoFoodsFound, err)
	}

	guesses := make([]domain.FoodGuess, 0, len(raw))
	for _, msg := range raw {
		guess, ok := parseItem(msg)
		if ok {
			guesses = append(guesses, guess)
		}
	}

	if len(guesses) == 0 {
		return nil, domain.ErrNoFoodsFound
	}
	return guesses, nil
}

func parseItem(msg json.RawMessage) (domain.FoodGuess, bool) {
	var item modelItem
	if err := json.Unmarshal(msg, &item); err != nil {
		return domain.FoodGuess{}, false
	}
	if item.Name == nil || strings.TrimSpace(*item.Name) == "" {
		return domain.FoodGuess{}, false
	}

	guess := domain.FoodGuess{
		Name:              *item.Name,
		CuisineHint:       item.CuisineHint,
		PreparationMethod: item.PreparationMethod,
		Category:          item.Category,
	}
	if item.EstimatedWeightGrams != nil {
		guess.EstimatedWeightGrams = *item.EstimatedWeightGrams
	}
	if item.Confidence != nil {
		guess.Confidence = *item.Confidence
	}
	return guess, true
}
