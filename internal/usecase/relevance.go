package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/macrolens/platescan/internal/domain"
)

var (
	// Descriptions mentioning a manufacturer are usually branded products
	manufacturerTokens = []string{"brand", "inc.", "corp", "company", "ltd"}

	// Unprocessed foods are the closest match for a photographed dish component
	unprocessedTokens = []string{"raw", "fresh", "plain"}
)

// RelevanceScorer ranks candidate records. It is a pure function of the
// description and the database name.
type RelevanceScorer struct {
	baseScores map[string]int
}

// NewRelevanceScorer builds a scorer from the configured source table.
// Databases not in the table have a base score of 0.
func NewRelevanceScorer(sources []domain.Source) *RelevanceScorer {
	baseScores := make(map[string]int, len(sources))
	for _, src := range sources {
		baseScores[src.Name] = src.BaseScore
	}
	return &RelevanceScorer{baseScores: baseScores}
}

// Score returns the additive relevance score of a record.
//
//	base score of the database
//	+20 if the description is shorter than 50 characters, else +10 if shorter than 100
//	+15 if it mentions no manufacturer token
//	+10 if it mentions any unprocessed-food token
func (s *RelevanceScorer) Score(description, databaseName string) int {
	score := s.baseScores[databaseName]

	switch length := utf8.RuneCountInString(description); {
	case length < 50:
		score += 20
	case length < 100:
		score += 10
	}

	lower := strings.ToLower(description)
	if !containsAny(lower, manufacturerTokens) {
		score += 15
	}
	if containsAny(lower, unprocessedTokens) {
		score += 10
	}

	return score
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
