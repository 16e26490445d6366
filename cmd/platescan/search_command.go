package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macrolens/platescan/internal/app"
	"github.com/macrolens/platescan/internal/domain"
	"github.com/macrolens/platescan/internal/usecase"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		pageSize    int
		cuisineHint string
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "search <food name>",
		Short: "Look a food name up in every nutrition source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")

			var cuisine usecase.Cuisine
			if cuisineHint != "" {
				var ok bool
				if cuisine, ok = usecase.LookupCuisine(cuisineHint); !ok {
					return fmt.Errorf("%w: %s", domain.ErrUnknownCuisine, cuisineHint)
				}
			}

			return ctx.withApp(func(a *app.App) error {
				var resolution domain.Resolution
				if cuisine.Name != "" {
					resolution = a.Resolver.ResolveCuisine(cmd.Context(), name, cuisine, pageSize)
				} else {
					resolution = a.Resolver.Resolve(cmd.Context(), name, pageSize)
				}
				resp := usecase.NewSearchResult(resolution)
				resp.Cuisine = cuisine.Name

				if jsonOut {
					if err := writeJSON(cmd, resp); err != nil {
						return err
					}
				} else {
					printSearch(cmd, resp)
				}

				if resolution.Status != domain.ResolutionSuccess {
					return fmt.Errorf("%w for %q", domain.ErrNoMatchFound, name)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&pageSize, "page-size", "n", 0, "Results per source (default from config)")
	cmd.Flags().StringVar(&cuisineHint, "cuisine", "", "Keep only records of this cuisine (asian, malaysian, thai, ...)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func printSearch(cmd *cobra.Command, resp usecase.SearchResult) {
	w := cmd.OutOrStdout()

	if len(resp.Foods) > 0 {
		headers := []string{"#", "Source", "Score", "Description", "kcal/100g", "ID"}
		aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight, alignLeft}

		rows := make([][]string, 0, len(resp.Foods))
		for i, c := range resp.Foods {
			kcal := "-"
			if c.Nutrients.Calories != nil {
				kcal = formatNumber(c.Nutrients.Calories.Value)
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				c.DatabaseName,
				strconv.Itoa(c.RelevanceScore),
				truncate(c.Description, 50),
				kcal,
				c.SourceID,
			})
		}
		fmt.Fprintln(w, renderTable(headers, rows, aligns))
	}

	if resp.BestMatch != nil {
		fmt.Fprintf(w, "Best match: %s (%s %s)\n", resp.BestMatch.Description, resp.BestMatch.DatabaseName, resp.BestMatch.SourceID)
	} else {
		fmt.Fprintln(w, domain.NoMatchDescription)
	}

	for _, srcErr := range resp.SourceErrors {
		fmt.Fprintf(w, "  %s failed: %s\n", srcErr.Source, srcErr.Error)
	}
}
