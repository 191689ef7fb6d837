package db

import "github.com/mensahub/mensad/internal/model"

// FakeMealSearcher is a minimal, configurable fake used by tests.
type FakeMealSearcher struct {
	// Results to return from SearchMeals. If nil, an empty slice is returned.
	Results []model.Meal
	// Err to return from SearchMeals if non-nil.
	Err error
}

// SearchMeals implements MealSearcher for the fake.
func (f *FakeMealSearcher) SearchMeals(query string) ([]model.Meal, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Results == nil {
		return []model.Meal{}, nil
	}
	return f.Results, nil
}
