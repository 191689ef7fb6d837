// Copyright (c) 2025 Mensahub
// Mensad - school cafeteria meal plan service
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"
	"time"

	"github.com/mensahub/mensad/internal/model"
)

// WithTestStore initializes an in-memory sqlite Store for the duration of the
// provided function and restores the package-level store afterwards.
func WithTestStore(t *testing.T, fn func(s *SqliteStore)) {
	t.Helper()

	prevStore := store

	// Initialize in-memory sqlite DB for this test
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	s, ok := store.(*SqliteStore)
	if !ok {
		t.Fatalf("store is not *SqliteStore")
	}

	defer func() { store = prevStore }()

	fn(s)
}

// sampleWeekPlan builds a three-day plan for KW 7/2025 with a holiday gap on
// Wednesday and a missing Wok offering on Tuesday.
func sampleWeekPlan() *model.MealPlan {
	return &model.MealPlan{
		Year:      2025,
		Week:      7,
		FetchedAt: time.Date(2025, 2, 10, 6, 0, 0, 0, time.UTC),
		Days: []model.Day{
			{
				Date:    "2025-02-10",
				Weekday: "Montag",
				Meals: map[model.Category]string{
					model.CategoryTagesgericht: "Rindergulasch mit Spätzle (1,3)",
					model.CategoryVegetarisch:  "Gemüselasagne mit Blattsalat",
					model.CategoryPizzaPasta:   "Pizza Salami",
					model.CategoryWok:          "Gebratene Nudeln mit Hähnchen süß-sauer",
				},
			},
			{
				Date:    "2025-02-11",
				Weekday: "Dienstag",
				Meals: map[model.Category]string{
					model.CategoryTagesgericht: "Schweinebraten mit Knödel",
					model.CategoryVegetarisch:  "Kartoffelgratin mit Salat",
					model.CategoryPizzaPasta:   "Spaghetti Bolognese",
				},
			},
			{
				Date:    "2025-02-13",
				Weekday: "Donnerstag",
				Meals: map[model.Category]string{
					model.CategoryTagesgericht: "Lachsfilet an Dillsauce mit Reis",
					model.CategoryVegetarisch:  "Käsespätzle mit Röstzwiebeln",
					model.CategoryPizzaPasta:   "Penne Arrabbiata",
					model.CategoryWok:          "Wok-Gemüse mit Tofu",
				},
			},
		},
	}
}
