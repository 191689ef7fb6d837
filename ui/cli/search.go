// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mensahub/mensad/internal/db"
	"github.com/mensahub/mensad/internal/i18n"
	"github.com/mensahub/mensad/internal/model"
)

// searchCmd represents the 'search' command.
// It looks up stored meals by name, either with plain words or with a
// filter expression.
var searchCmd = &cobra.Command{
	Use:   "search [words...]",
	Short: "Search the stored meals by name",
	Long: `Searches all stored meal names. Plain words match case-insensitively
as substrings and every word must match:

  mensad search lachs
  mensad search hähnchen pommes

With --filter a boolean expression combines words with & (and),
| (or), ! (not) and parentheses:

  mensad search --filter "rind & !wok"
  mensad search --filter "(lachs | fisch) & !pasta"`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		expr, _ := cmd.Flags().GetString("filter")
		query := strings.TrimSpace(strings.Join(args, " "))
		if expr == "" && query == "" {
			log.Fatalf("%s", i18n.T("search.cli_no_query"))
		}

		var (
			meals []model.Meal
			err   error
		)
		if expr != "" {
			meals, err = db.FilterMealsByExpression(expr)
		} else {
			meals, err = searchMealsByQuery(query)
		}
		if err != nil {
			log.Fatalf("%s", i18n.T("search.cli_error", err))
		}

		if len(meals) == 0 {
			fmt.Println(i18n.T("search.cli_no_results"))
			return
		}
		fmt.Println(i18n.T("search.cli_results", len(meals)))
		for _, m := range meals {
			fmt.Printf("  - %s\n", m.Name)
		}
	},
}

// searchMealsByQuery prefers the store-side searcher and falls back to
// filtering the full meal list locally when none is available.
func searchMealsByQuery(query string) ([]model.Meal, error) {
	if s := db.DefaultMealSearcher(); s != nil {
		return s.SearchMeals(query)
	}
	meals, err := db.GetAllMeals()
	if err != nil {
		return nil, err
	}
	return db.FilterMealsByTokens(meals, db.TokenizeSearchQuery(query)), nil
}
