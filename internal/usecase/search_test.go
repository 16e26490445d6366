package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolens/platescan/internal/domain"
)

func TestNewSearchResult(t *testing.T) {
	t.Run("caps foods at ten", func(t *testing.T) {
		candidates := make([]domain.Candidate, 25)
		result := NewSearchResult(domain.Resolution{Status: domain.ResolutionSuccess, Candidates: candidates})

		assert.Len(t, result.Foods, maxSearchResults)
		assert.Equal(t, 25, result.TotalResults)
	})

	t.Run("empty resolution keeps a non-nil foods list", func(t *testing.T) {
		result := NewSearchResult(domain.Resolution{Status: domain.ResolutionError})

		assert.NotNil(t, result.Foods)
		assert.Empty(t, result.Foods)
		assert.Nil(t, result.BestMatch)
		assert.Empty(t, result.SourceErrors)
	})

	t.Run("reports failed sources", func(t *testing.T) {
		result := NewSearchResult(domain.Resolution{
			Status: domain.ResolutionError,
			SourceErrors: []domain.SourceError{{
				Source: "Branded",
				Err:    fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, errors.New("timeout")),
			}},
		})

		require.Len(t, result.SourceErrors, 1)
		assert.Equal(t, "Branded", result.SourceErrors[0].Source)
		assert.Equal(t, "nutrition source unavailable: timeout", result.SourceErrors[0].Error)
	})
}
