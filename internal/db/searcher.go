package db

import (
	"github.com/mensahub/mensad/internal/model"
	"github.com/uptrace/bun"
)

// MealSearcher defines a minimal interface for searching meals.
// Consumers can depend on this instead of concrete Store implementations.
type MealSearcher interface {
	SearchMeals(query string) ([]model.Meal, error)
}

// BunMealSearcher is a Bun-based implementation of MealSearcher.
type BunMealSearcher struct {
	bdb *bun.DB
}

// NewBunMealSearcher creates a new BunMealSearcher.
func NewBunMealSearcher(bdb *bun.DB) MealSearcher {
	return &BunMealSearcher{bdb: bdb}
}

// NewMealSearcherFromStore creates a MealSearcher from any Store by using the
// underlying Bun DB.
func NewMealSearcherFromStore(s Store) MealSearcher {
	return NewBunMealSearcher(s.BunDB())
}

// SearchMeals delegates to the centralized Bun search helper.
func (s *BunMealSearcher) SearchMeals(q string) ([]model.Meal, error) {
	return SearchMealsBun(s.bdb, q)
}

// DefaultMealSearcher returns a MealSearcher backed by the package-level
// `store` if available. It returns nil when the package store is not
// initialized; callers should handle nil by falling back to local filtering.
func DefaultMealSearcher() MealSearcher {
	if store == nil {
		return nil
	}
	return NewMealSearcherFromStore(store)
}
