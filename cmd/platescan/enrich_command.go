package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macrolens/platescan/internal/app"
	"github.com/macrolens/platescan/internal/domain"
	"github.com/macrolens/platescan/internal/usecase"
	"github.com/macrolens/platescan/internal/vision"
)

type enrichOutput struct {
	Foods   []domain.EnrichedFood `json:"foods"`
	Summary usecase.BatchSummary  `json:"summary"`
}

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var (
		file        string
		modelOutput bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Attach nutrition to a list of food guesses",
		Long: `Reads food guesses from a JSON file ("-" for stdin) and prints one
enriched record per guess. The file holds either an array of guesses or an
object with a "foods" array. With --model-output the file is the raw text
answer of the vision model instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}

			var guesses []domain.FoodGuess
			if modelOutput {
				guesses, err = vision.ParseModelOutput(string(data))
			} else {
				guesses, err = decodeGuesses(data)
			}
			if err != nil {
				return err
			}

			return ctx.withApp(func(a *app.App) error {
				foods := a.Enhancer.Enhance(cmd.Context(), guesses)
				out := enrichOutput{Foods: foods, Summary: usecase.Summarize(foods)}
				if jsonOut {
					return writeJSON(cmd, out)
				}
				printEnriched(cmd, out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Guesses file, or - for stdin")
	cmd.Flags().BoolVar(&modelOutput, "model-output", false, "Treat the input as raw vision model text")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read guesses: %w", err)
	}
	return data, nil
}

// decodeGuesses accepts a bare array or an object with a "foods" array.
func decodeGuesses(data []byte) ([]domain.FoodGuess, error) {
	trimmed := bytes.TrimSpace(data)

	var guesses []domain.FoodGuess
	if bytes.HasPrefix(trimmed, []byte("[")) {
		if err := json.Unmarshal(trimmed, &guesses); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
	} else {
		var wrapper struct {
			Foods []domain.FoodGuess `json:"foods"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		guesses = wrapper.Foods
	}

	if len(guesses) == 0 {
		return nil, domain.ErrNoFoodsFound
	}
	return guesses, nil
}

func printEnriched(cmd *cobra.Command, out enrichOutput) {
	headers := []string{"Food", "Grams", "kcal/100g", "kcal", "Protein", "Carbs", "Fat", "Fiber", "Source", "Match"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(out.Foods))
	for _, food := range out.Foods {
		rows = append(rows, []string{
			food.Name,
			formatNumber(food.EstimatedWeightGrams),
			formatNumber(food.CaloriesPer100),
			formatNumber(food.TotalCalories),
			formatNumber(food.Nutrients.Protein),
			formatNumber(food.Nutrients.Carbs),
			formatNumber(food.Nutrients.Fat),
			formatNumber(food.Nutrients.Fiber),
			food.DataSource,
			truncate(food.DatabaseMatch, 40),
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, renderTable(headers, rows, aligns))
	fmt.Fprintf(w, "%d items, %d matched, %d estimated, %s kcal total\n",
		out.Summary.Items, out.Summary.Matched, out.Summary.Estimated, formatNumber(out.Summary.TotalCalories))

	for _, food := range out.Foods {
		if food.DebugError != "" {
			fmt.Fprintf(w, "  %s: %s\n", food.Name, strings.TrimSpace(food.DebugError))
		}
	}
}
