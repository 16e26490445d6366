package usecase

import (
	"github.com/macrolens/platescan/internal/domain"
)

const maxSearchResults = 10

// SearchResult is the outward view of one resolution, shared by the HTTP
// search endpoint and the CLI.
type SearchResult struct {
	Status       domain.ResolutionStatus `json:"status"`
	Cuisine      string                  `json:"cuisine,omitempty"`
	TotalResults int                     `json:"totalResults"`
	Foods        []domain.Candidate      `json:"foods"`
	BestMatch    *domain.Candidate       `json:"bestMatch"`
	SourceErrors []SourceFailure         `json:"sourceErrors,omitempty"`
}

// SourceFailure reports one source that failed during the lookup.
type SourceFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// NewSearchResult keeps the ten best ranked candidates of resolution.
func NewSearchResult(resolution domain.Resolution) SearchResult {
	foods := resolution.Candidates
	if len(foods) > maxSearchResults {
		foods = foods[:maxSearchResults]
	}
	if foods == nil {
		foods = []domain.Candidate{}
	}

	result := SearchResult{
		Status:       resolution.Status,
		TotalResults: len(resolution.Candidates),
		Foods:        foods,
		BestMatch:    resolution.BestMatch,
	}
	for _, srcErr := range resolution.SourceErrors {
		result.SourceErrors = append(result.SourceErrors, SourceFailure{
			Source: srcErr.Source,
			Error:  srcErr.Err.Error(),
		})
	}
	return result
}
