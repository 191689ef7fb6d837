package db

import (
	"strings"

	"github.com/mensahub/mensad/internal/model"
)

// FilterMealsByTokens returns the subset of `meals` whose name contains all
// tokens. Matching is case-insensitive substring containment. If `tokens` is
// nil or empty, the original slice is returned. Used as the local fallback
// when no searcher is available.
func FilterMealsByTokens(meals []model.Meal, tokens []string) []model.Meal {
	if len(tokens) == 0 {
		return meals
	}
	out := make([]model.Meal, 0, len(meals))
	for _, m := range meals {
		name := strings.ToLower(m.Name)

		matchedAll := true
		for _, tok := range tokens {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok == "" {
				continue
			}
			if !strings.Contains(name, tok) {
				matchedAll = false
				break
			}
		}
		if matchedAll {
			out = append(out, m)
		}
	}
	return out
}
